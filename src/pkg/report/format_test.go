package report

import (
	"strings"
	"testing"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{1234.56, "S/ 1,234.56"},
		{0, "S/ 0.00"},
		{-987.5, "S/ -987.50"},
		{1234567.891, "S/ 1,234,567.89"},
	}

	for _, testCase := range cases {
		if got := FormatCurrency(testCase.amount); got != testCase.want {
			t.Errorf("FormatCurrency(%v) = %q, want %q", testCase.amount, got, testCase.want)
		}
	}
}

func TestFormatCurrencyWhole(t *testing.T) {
	if got := FormatCurrencyWhole(12345.67); got != "S/ 12,346" {
		t.Errorf("got %q", got)
	}
}

func TestFormatPercentAndUnits(t *testing.T) {
	if got := FormatPercent1(80); got != "80.0%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent2(12.345); got != "12.35%" {
		t.Errorf("got %q", got)
	}
	if got := FormatUnits(1234); got != "1,234 UND" {
		t.Errorf("got %q", got)
	}
	if got := FormatKilograms(1234.5); got != "1,234.50 kg" {
		t.Errorf("got %q", got)
	}
}

func TestBuildNarrative(t *testing.T) {
	categories := []CategorySummary{
		{Category: CategoryWholeChicken, Revenue: 8000, Quantity: 400},
		{Category: CategoryTotal, Revenue: 10000, Quantity: 500.25, UnitPrice: 19.99},
	}

	narrative := BuildNarrative(categories, 320, "80.0%")

	if narrative.UnitsSold != "320 UND" {
		t.Errorf("unexpected units %q", narrative.UnitsSold)
	}
	if narrative.TotalRevenue != "S/ 10,000" {
		t.Errorf("unexpected revenue %q", narrative.TotalRevenue)
	}
	if narrative.TotalVolume != "500.25 kg" {
		t.Errorf("unexpected volume %q", narrative.TotalVolume)
	}
	if narrative.AveragePrice != "S/ 19.99" {
		t.Errorf("unexpected price %q", narrative.AveragePrice)
	}
	if narrative.CompliancePct != "80.0%" {
		t.Errorf("unexpected compliance %q", narrative.CompliancePct)
	}
}

func TestBuildNarrativeWithoutTotalRow(t *testing.T) {
	narrative := BuildNarrative(nil, 0, NotAvailable)

	if narrative.TotalRevenue != "S/ 0" || narrative.UnitsSold != "0 UND" {
		t.Errorf("missing Total row must degrade to zero renderings, got %+v", narrative)
	}
}

func TestTableHTML(t *testing.T) {
	table := Table{
		Columns: []string{"Product", "Revenue (S/)"},
		Rows:    [][]string{{"Whole chicken <grilled>", "S/ 1,000.00"}},
	}

	rendered := table.HTML()

	if !strings.Contains(rendered, "background-color: #003366") {
		t.Errorf("header row must carry the dark header style")
	}
	if !strings.Contains(rendered, "text-align: left") {
		t.Errorf("first column must be left-aligned")
	}
	if !strings.Contains(rendered, "&lt;grilled&gt;") {
		t.Errorf("cell values must be HTML-escaped")
	}
	if strings.Contains(rendered, "<grilled>") {
		t.Errorf("raw cell markup must not pass through")
	}
}

func TestTableHTMLEmpty(t *testing.T) {
	table := Table{Columns: []string{"A"}}

	if got := table.HTML(); !strings.Contains(got, "No data available") {
		t.Errorf("empty table must render a placeholder, got %q", got)
	}
}

func TestSnapshotAndCategoryTables(t *testing.T) {
	snapshots := []ProductSnapshot{
		{Product: "Whole chicken", Category: CategoryWholeChicken, ParticipationPct: 80, Quantity: 40, UnitPrice: 19.5, Revenue: 780, SaleCount: 25, AverageTicket: 31.2, LastPurchase: "18:45"},
	}

	snapshotTable := SnapshotTable(snapshots)
	if len(snapshotTable.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(snapshotTable.Rows))
	}
	if snapshotTable.Rows[0][2] != "80.00%" {
		t.Errorf("unexpected participation cell %q", snapshotTable.Rows[0][2])
	}
	if snapshotTable.Rows[0][5] != "S/ 780.00" {
		t.Errorf("unexpected revenue cell %q", snapshotTable.Rows[0][5])
	}

	categoryTable := CategoryTable(RollupByCategory(snapshots))
	lastRow := categoryTable.Rows[len(categoryTable.Rows)-1]
	if lastRow[0] != CategoryTotal {
		t.Errorf("category table must close with the Total row, got %q", lastRow[0])
	}
}
