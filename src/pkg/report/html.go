package report

import (
	"bytes"
	"html"
)

/*
Table is a named presentation table: all cells are already formatted
strings. The four report tables (daily product, daily category, weekly vs
budget, stock roll-forward) all render through the same HTML writer.
*/
type Table struct {
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

/*
HTML renders the table as an email-safe inline-CSS table: dark header row,
first column left-aligned, every other cell centered. An empty table renders
a short placeholder paragraph so the section still reads sensibly.
*/
func (t Table) HTML() string {
	if len(t.Rows) == 0 {
		return `<p>No data available for this section.</p>`
	}

	var buffer bytes.Buffer

	buffer.WriteString(`<table style="width: 100%; border-collapse: collapse; font-family: Calibri; font-size: 10pt;">`)

	buffer.WriteString(`<tr style="background-color: #003366; color: white; font-weight: bold; text-align: center;">`)
	for _, column := range t.Columns {
		buffer.WriteString(`<th style="padding: 8px; border: 1px solid #dddddd; text-align: center; white-space: normal;">`)
		buffer.WriteString(html.EscapeString(column))
		buffer.WriteString(`</th>`)
	}
	buffer.WriteString(`</tr>`)

	for _, row := range t.Rows {
		buffer.WriteString(`<tr>`)
		for columnIndex, value := range row {
			cellStyle := "padding: 8px; border: 1px solid #dddddd; text-align: center;"
			if columnIndex == 0 {
				cellStyle = "padding: 8px; border: 1px solid #dddddd; text-align: left;"
			}
			buffer.WriteString(`<td style="` + cellStyle + `">`)
			buffer.WriteString(html.EscapeString(value))
			buffer.WriteString(`</td>`)
		}
		buffer.WriteString(`</tr>`)
	}

	buffer.WriteString(`</table>`)

	return buffer.String()
}

// SnapshotTable renders the latest-day product snapshot.
func SnapshotTable(snapshots []ProductSnapshot) Table {
	rows := make([][]string, 0, len(snapshots))
	for _, snapshot := range snapshots {
		rows = append(rows, []string{
			snapshot.Product,
			snapshot.Category,
			FormatPercent2(snapshot.ParticipationPct),
			FormatQuantity(snapshot.Quantity),
			FormatCurrency(snapshot.UnitPrice),
			FormatCurrency(snapshot.Revenue),
			snapshot.LastPurchase,
		})
	}

	return Table{
		Title: "Sales by product",
		Columns: []string{
			"Product", "Category", "Participation (%)", "Quantity (kg)",
			"Price", "Revenue (S/)", "Last purchase (hh:mm)",
		},
		Rows: rows,
	}
}

// CategoryTable renders the category rollup, Total row included.
func CategoryTable(categories []CategorySummary) Table {
	rows := make([][]string, 0, len(categories))
	for _, summary := range categories {
		rows = append(rows, []string{
			summary.Category,
			FormatPercent2(summary.ParticipationPct),
			FormatQuantity(summary.Quantity),
			FormatCurrency(summary.UnitPrice),
			FormatCurrency(summary.Revenue),
			formatGrouped(float64(summary.SaleCount), 0),
			FormatCurrency(summary.AverageTicket),
		})
	}

	return Table{
		Title: "Sales by category",
		Columns: []string{
			"Category", "Participation (%)", "Quantity (kg)", "Price",
			"Revenue (S/)", "Sales", "Average ticket",
		},
		Rows: rows,
	}
}

// StockTable renders the latest-day stock roll-forward.
func StockTable(stockRows []StockReportRow) Table {
	rows := make([][]string, 0, len(stockRows))
	for _, row := range stockRows {
		rows = append(rows, []string{
			row.Date.Format("02/01/2006"),
			row.Product,
			formatGrouped(float64(row.Opening), 0),
			formatGrouped(float64(row.Receipts), 0),
			formatGrouped(float64(row.Sales), 0),
			formatGrouped(float64(row.Closing), 0),
			row.LastPurchase,
		})
	}

	return Table{
		Title: "Stock summary (units)",
		Columns: []string{
			"Date", "Product", "Opening stock", "Receipts", "Sales",
			"Closing stock", "Last purchase (hh:mm)",
		},
		Rows: rows,
	}
}

// WeeklyTable renders the per-product weekly sales-vs-budget rows. A week
// absent from the budget extract renders "-" in the budget column.
func WeeklyTable(weeklyRows []WeeklyProductBudget) Table {
	rows := make([][]string, 0, len(weeklyRows))
	for _, row := range weeklyRows {
		budgetCell := "-"
		if row.HasBudget {
			budgetCell = FormatCurrency(row.Budget)
		}
		rows = append(rows, []string{
			row.Period.Label(),
			row.Period.Key(),
			row.Product,
			FormatQuantity(row.Quantity),
			FormatCurrency(row.Revenue),
			formatGrouped(float64(row.InvoiceCount), 0),
			budgetCell,
		})
	}

	return Table{
		Title: "Weekly sales vs budget",
		Columns: []string{
			"Period", "Week", "Product", "Quantity (kg)", "Revenue (S/)",
			"Sales", "Weekly budget (S/)",
		},
		Rows: rows,
	}
}
