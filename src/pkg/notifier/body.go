package notifier

import (
	"fmt"
	"strings"

	"sales-notifier/src/pkg/report"
)

const chartContentID = "weekly-chart"

/*
renderHTMLBody assembles the email: greeting, the narrative summary, the
four sections and a plain footer. Styling stays inline because mail
clients strip stylesheets.
*/
func renderHTMLBody(bundle ReportBundle, snapshots []report.ProductSnapshot, categories []report.CategorySummary, stockRows []report.StockReportRow, weeklyRows []report.WeeklyProductBudget) string {
	var body strings.Builder

	body.WriteString(`<html><body style="font-family: Arial, sans-serif; color: #222222;">`)
	body.WriteString(fmt.Sprintf(`<h2 style="color: #003366;">Sales report - %s</h2>`, bundle.ReportDate.Format("02/01/2006")))

	body.WriteString("<p>")
	body.WriteString(fmt.Sprintf(
		"Units sold: <b>%s</b>. Revenue: <b>%s</b> for <b>%s</b> at an average price of <b>%s</b>. Weekly budget compliance: <b>%s</b>.",
		bundle.Narrative.UnitsSold,
		bundle.Narrative.TotalRevenue,
		bundle.Narrative.TotalVolume,
		bundle.Narrative.AveragePrice,
		bundle.Narrative.CompliancePct,
	))
	body.WriteString("</p>")

	body.WriteString(report.SnapshotTable(snapshots).HTML())
	body.WriteString(report.CategoryTable(categories).HTML())
	body.WriteString(report.StockTable(stockRows).HTML())
	body.WriteString(report.WeeklyTable(weeklyRows).HTML())

	if len(bundle.ChartPNG) > 0 {
		body.WriteString(`<h3 style="color: #003366;">Weekly sales vs budget</h3>`)
		body.WriteString(fmt.Sprintf(`<img src="cid:%s" alt="Weekly sales vs budget" style="max-width: 100%%;"/>`, chartContentID))
	}

	body.WriteString(`<p style="color: #888888; font-size: 12px;">Generated automatically. Replies to this address are not read.</p>`)
	body.WriteString("</body></html>")

	return body.String()
}

// renderTextBody is the plain-text alternative for clients without HTML.
func renderTextBody(bundle ReportBundle) string {
	var body strings.Builder

	body.WriteString(fmt.Sprintf("Sales report - %s\n\n", bundle.ReportDate.Format("02/01/2006")))
	body.WriteString(fmt.Sprintf("Units sold: %s\n", bundle.Narrative.UnitsSold))
	body.WriteString(fmt.Sprintf("Revenue: %s for %s\n", bundle.Narrative.TotalRevenue, bundle.Narrative.TotalVolume))
	body.WriteString(fmt.Sprintf("Average price: %s\n", bundle.Narrative.AveragePrice))
	body.WriteString(fmt.Sprintf("Weekly budget compliance: %s\n", bundle.Narrative.CompliancePct))
	body.WriteString("\nOpen the HTML version for the full tables and chart.\n")

	return body.String()
}
