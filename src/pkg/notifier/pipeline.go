/*
Package notifier wires the report computation to its inputs and outputs:
it pulls the raw extracts, runs them through the report package, renders
the email, sends it and archives a copy.
*/
package notifier

import (
	"context"
	"errors"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	"sales-notifier/src/pkg/chart"
	"sales-notifier/src/pkg/email"
	"sales-notifier/src/pkg/report"
)

/*
ExtractSource produces the three ERP extracts. Implementations exist for
workbook files pulled from the object store and for stored procedures run
against the database directly.
*/
type ExtractSource interface {
	Sales(ctx context.Context) (report.RawTable, *xerr.Error)
	CreditNotes(ctx context.Context) (report.RawTable, *xerr.Error)
	Budget(ctx context.Context) (report.RawTable, *xerr.Error)
}

// MovementSource produces the hand-filled stock-movement form.
type MovementSource interface {
	Movements(ctx context.Context) (report.RawTable, *xerr.Error)
}

type Sender interface {
	Send(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []email.Attachment) *xerr.Error
}

type Archiver interface {
	ArchiveReport(ctx context.Context, name string, reportDate time.Time, htmlBody string) (key string, e *xerr.Error)
}

type Options struct {
	Sender          string
	Recipients      []string
	BusinessLine    string
	CategoryPattern string
	WeekWindow      int
	SubjectPrefix   string
}

type Pipeline struct {
	Extracts  ExtractSource
	Movements MovementSource
	Send      Sender
	Archive   Archiver // optional
	Options   Options
}

/*
ReportBundle is one fully rendered report, ready to send. Build returns it
so the dry-run path can write the HTML to disk without touching a
provider.
*/
type ReportBundle struct {
	ReportDate time.Time
	Subject    string
	HTMLBody   string
	TextBody   string
	ChartPNG   []byte
	Narrative  report.Narrative
}

/*
Build runs the whole computation and renders the report for the most
recent sales day found in the extracts. Schema problems and empty
mandatory extracts abort the build; an incomplete movement form only
degrades the stock section.
*/
func (p *Pipeline) Build(ctx context.Context) (bundle ReportBundle, e *xerr.Error) {
	classifier, classifierErr := report.NewClassifier(p.Options.CategoryPattern)
	if classifierErr != nil {
		e = xerr.NewError(classifierErr, "compile category pattern", p.Options.CategoryPattern)
		return bundle, e
	}

	// Pull the four raw tables.
	salesTable, e := p.Extracts.Sales(ctx)
	if e != nil {
		return bundle, e
	}
	creditTable, e := p.Extracts.CreditNotes(ctx)
	if e != nil {
		return bundle, e
	}
	budgetTable, e := p.Extracts.Budget(ctx)
	if e != nil {
		return bundle, e
	}
	movementTable, e := p.Movements.Movements(ctx)
	if e != nil {
		return bundle, e
	}

	// Normalize into typed records.
	salesLines, salesErr := report.NormalizeSales(salesTable, report.DefaultSalesColumnMap())
	if salesErr != nil {
		e = xerr.NewError(salesErr, "normalize sales extract", salesTable.Name)
		return bundle, e
	}
	creditLines, creditErr := report.NormalizeCreditNotes(creditTable, report.DefaultCreditNoteColumnMap())
	if creditErr != nil {
		e = xerr.NewError(creditErr, "normalize credit notes", creditTable.Name)
		return bundle, e
	}
	budgetEntries, budgetErr := report.NormalizeBudget(budgetTable)
	if budgetErr != nil {
		e = xerr.NewError(budgetErr, "normalize budget", budgetTable.Name)
		return bundle, e
	}
	movements, movementErr := report.NormalizeMovements(movementTable)
	if movementErr != nil {
		e = xerr.NewError(movementErr, "normalize stock movements", movementTable.Name)
		return bundle, e
	}
	tl.Log(
		tl.Notice, palette.Cyan, "Normalized %d sales lines, %d credit notes, %d budget entries, %d movements",
		len(salesLines), len(creditLines), len(budgetEntries), len(movements),
	)

	// Net out credit notes, aggregate, and pick the latest day.
	netLines := report.ReconcileCreditNotes(salesLines, creditLines)
	daily := report.AggregateDailyByProduct(netLines)
	weekly := report.AggregateWeeklyByProduct(netLines)
	snapshots, reportDate := report.LatestDaySnapshot(daily, classifier)
	categories := report.RollupByCategory(snapshots)

	// Stock roll-forward, with the movement form validated for the day.
	stockDays := report.RollForward(movements)
	validationErr := report.ValidateMovementsComplete(movements, reportDate)
	if validationErr != nil {
		incomplete := &report.IncompleteDayError{}
		if errors.As(validationErr, &incomplete) {
			tl.Log(tl.Warning, palette.YellowBold, "Movement form incomplete for %s: %v", reportDate.Format("2006-01-02"), validationErr)
		} else {
			tl.Log(tl.Warning, palette.YellowBold, "Movement form unusable: %v", validationErr)
			stockDays = nil
		}
	}
	stockRows, unitsSold := report.StockWithLastPurchase(stockDays, daily)

	// Budget allocation and the weekly comparison window.
	filteredBudget := report.FilterBusinessLine(budgetEntries, p.Options.BusinessLine)
	weeklyBudget := report.AggregateWeeklyBudget(report.AllocateDaily(filteredBudget))
	compliance := report.RecentWeeks(report.CompareWeekly(weekly, weeklyBudget), p.Options.WeekWindow)
	comment := report.ComplianceComment(compliance)
	weeklyRows := report.WeeklySalesVsBudget(weekly, weeklyBudget, p.Options.WeekWindow)

	narrative := report.BuildNarrative(categories, unitsSold, comment)

	// Render the chart; a chartless email is better than no email.
	var chartPNG []byte
	if len(compliance) > 0 {
		var chartErr *xerr.Error
		chartPNG, chartErr = chart.RenderWeekly(compliance)
		if chartErr != nil {
			tl.Log(tl.Warning, palette.YellowBold, "Weekly chart rendering failed: %v", chartErr)
			chartPNG = nil
		}
	}

	bundle = ReportBundle{
		ReportDate: reportDate,
		Subject:    p.Options.SubjectPrefix + " - " + reportDate.Format("02/01/2006"),
		Narrative:  narrative,
		ChartPNG:   chartPNG,
	}
	bundle.HTMLBody = renderHTMLBody(bundle, snapshots, categories, stockRows, weeklyRows)
	bundle.TextBody = renderTextBody(bundle)

	return bundle, nil
}

/*
Run builds the report, sends it to the configured recipients and archives
the HTML. Archiving failure is logged, not fatal: the report already
reached its readers.
*/
func (p *Pipeline) Run(ctx context.Context) (bundle ReportBundle, e *xerr.Error) {
	bundle, e = p.Build(ctx)
	if e != nil {
		return bundle, e
	}

	var attachments []email.Attachment
	if len(bundle.ChartPNG) > 0 {
		attachments = append(attachments, email.Attachment{
			Filename:    "weekly-chart.png",
			ContentType: "image/png",
			ContentID:   chartContentID,
			Content:     bundle.ChartPNG,
			Inline:      true,
		})
	}

	e = p.Send.Send(p.Options.Sender, p.Options.Recipients, bundle.Subject, bundle.TextBody, bundle.HTMLBody, attachments)
	if e != nil {
		return bundle, e
	}

	if p.Archive != nil {
		key, archiveErr := p.Archive.ArchiveReport(ctx, "sales-report", bundle.ReportDate, bundle.HTMLBody)
		if archiveErr != nil {
			tl.Log(tl.Warning, palette.YellowBold, "Report archiving failed: %v", archiveErr)
		} else {
			tl.Log(tl.Info, palette.Green, "Report archived under '%s'", key)
		}
	}

	return bundle, nil
}

/*
ProviderSender adapts the email package to the Sender interface. SendEmails
gates actual delivery the same way everywhere the pipeline runs.
*/
type ProviderSender struct {
	Provider   email.Provider
	SendEmails *bool
}

func (s ProviderSender) Send(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []email.Attachment) *xerr.Error {
	return email.SendMessage(s.Provider, s.SendEmails, sender, recipients, subject, textBody, htmlBody, attachments)
}
