package report

import (
	"math"
	"testing"
	"time"
)

func nettedLine(day int, hour int, invoice string, product string, quantity float64, net float64) NetSalesLine {
	date := time.Date(2025, time.August, day, 0, 0, 0, 0, time.UTC)
	return NetSalesLine{
		SalesLine: SalesLine{
			Date:          date,
			Timestamp:     time.Date(2025, time.August, day, hour, 0, 0, 0, time.UTC),
			InvoiceNumber: invoice,
			ProductName:   product,
			Quantity:      quantity,
		},
		NetAmount: net,
	}
}

func mustClassifier(t *testing.T) Classifier {
	t.Helper()
	classifier, err := NewClassifier("")
	if err != nil {
		t.Fatalf("default pattern must compile: %v", err)
	}
	return classifier
}

func TestAggregateDailyByProduct(t *testing.T) {
	lines := []NetSalesLine{
		nettedLine(13, 9, "F001-1", "Whole chicken", 2, 40),
		nettedLine(13, 12, "F001-1", "Whole chicken", 1, 20),
		nettedLine(13, 18, "F001-2", "Whole chicken", 3, 60),
		nettedLine(12, 10, "F001-0", "Whole chicken", 5, 100),
	}

	daily := AggregateDailyByProduct(lines)

	if len(daily) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(daily))
	}

	latest := daily[1]
	if latest.Quantity != 6 || latest.Revenue != 120 {
		t.Errorf("unexpected sums: quantity %v, revenue %v", latest.Quantity, latest.Revenue)
	}
	if latest.InvoiceCount != 2 {
		t.Errorf("invoice count must be distinct, expected 2, got %d", latest.InvoiceCount)
	}
	if latest.LastSale.Hour() != 18 {
		t.Errorf("expected latest transaction at 18:00, got %v", latest.LastSale)
	}
}

func TestAggregateWeeklyByProduct(t *testing.T) {
	lines := []NetSalesLine{
		nettedLine(11, 9, "F001-1", "Whole chicken", 1, 10),  // Monday W33
		nettedLine(17, 9, "F001-2", "Whole chicken", 1, 20),  // Sunday W33
		nettedLine(18, 9, "F001-3", "Whole chicken", 1, 40),  // Monday W34
	}

	weekly := AggregateWeeklyByProduct(lines)

	if len(weekly) != 2 {
		t.Fatalf("expected 2 weekly groups, got %d", len(weekly))
	}
	if weekly[0].Revenue != 30 {
		t.Errorf("Monday and Sunday of one ISO week must share a bucket, got revenue %v", weekly[0].Revenue)
	}
	if weekly[1].Revenue != 40 {
		t.Errorf("unexpected second week revenue %v", weekly[1].Revenue)
	}
}

func TestLatestDaySnapshot(t *testing.T) {
	classifier := mustClassifier(t)
	lines := []NetSalesLine{
		nettedLine(12, 9, "F001-0", "Whole chicken", 10, 500),
		nettedLine(13, 9, "F001-1", "Whole chicken", 4, 300),
		nettedLine(13, 11, "F001-2", "Chicken broth", 2, 100),
		nettedLine(13, 15, "F001-3", "Lemonade", 1, 100),
	}

	snapshots, snapshotDate := LatestDaySnapshot(AggregateDailyByProduct(lines), classifier)

	if snapshotDate.Day() != 13 {
		t.Fatalf("expected snapshot of the 13th, got %v", snapshotDate)
	}
	if len(snapshots) != 3 {
		t.Fatalf("expected 3 products, got %d", len(snapshots))
	}

	// Participation sums to 100 within the independent-rounding tolerance.
	participationSum := 0.0
	for _, snapshot := range snapshots {
		participationSum += snapshot.ParticipationPct
	}
	if math.Abs(participationSum-100) > 0.5 {
		t.Errorf("participation should sum to ~100, got %v", participationSum)
	}

	// Sorted by participation descending.
	if snapshots[0].Product != "Whole chicken" {
		t.Errorf("expected the largest product first, got %q", snapshots[0].Product)
	}
	if snapshots[0].Category != CategoryWholeChicken {
		t.Errorf("unexpected category %q", snapshots[0].Category)
	}
	if snapshots[0].UnitPrice != 75 {
		t.Errorf("expected unit price 300/4 = 75, got %v", snapshots[0].UnitPrice)
	}

	for _, snapshot := range snapshots[1:] {
		if snapshot.Category != CategoryAdditional {
			t.Errorf("product %q should be an additional product, got %q", snapshot.Product, snapshot.Category)
		}
	}
}

func TestLatestDaySnapshotZeroDenominators(t *testing.T) {
	classifier := mustClassifier(t)
	daily := []DailyProductSales{
		{Date: time.Date(2025, time.August, 13, 0, 0, 0, 0, time.UTC), Product: "Giveaway", Quantity: 0, Revenue: 0, InvoiceCount: 0},
	}

	snapshots, _ := LatestDaySnapshot(daily, classifier)

	snapshot := snapshots[0]
	if snapshot.UnitPrice != 0 || snapshot.AverageTicket != 0 || snapshot.ParticipationPct != 0 {
		t.Errorf("zero denominators must short-circuit to zero, got %+v", snapshot)
	}
	if math.IsNaN(snapshot.UnitPrice) || math.IsInf(snapshot.UnitPrice, 0) {
		t.Errorf("NaN/Inf must never be produced")
	}
}

func TestRollupByCategory(t *testing.T) {
	snapshots := []ProductSnapshot{
		{Product: "Whole chicken A", Category: CategoryWholeChicken, ParticipationPct: 60, Quantity: 30, Revenue: 600, SaleCount: 20},
		{Product: "Whole chicken B", Category: CategoryWholeChicken, ParticipationPct: 20, Quantity: 10, Revenue: 200, SaleCount: 10},
		{Product: "Broth", Category: CategoryAdditional, ParticipationPct: 20, Quantity: 5, Revenue: 200, SaleCount: 5},
	}

	summaries := RollupByCategory(snapshots)

	if len(summaries) != 3 {
		t.Fatalf("expected 2 categories + Total, got %d", len(summaries))
	}
	if summaries[0].Category != CategoryWholeChicken {
		t.Errorf("whole chicken must lead the table, got %q", summaries[0].Category)
	}

	wholeChicken := summaries[0]
	// Price and ticket recomputed from rollup sums, not averaged per product.
	if wholeChicken.UnitPrice != 800.0/40.0 {
		t.Errorf("expected unit price %v, got %v", 800.0/40.0, wholeChicken.UnitPrice)
	}
	if wholeChicken.AverageTicket != 800.0/30.0 {
		t.Errorf("expected average ticket %v, got %v", 800.0/30.0, wholeChicken.AverageTicket)
	}

	total := summaries[len(summaries)-1]
	if total.Category != CategoryTotal {
		t.Fatalf("last row must be the Total row, got %q", total.Category)
	}
	if total.ParticipationPct != 100 {
		t.Errorf("Total participation is fixed at 100, got %v", total.ParticipationPct)
	}

	// Conservation: category sums equal the Total row exactly.
	categoryRevenue := 0.0
	categoryQuantity := 0.0
	for _, summary := range summaries[:len(summaries)-1] {
		categoryRevenue += summary.Revenue
		categoryQuantity += summary.Quantity
	}
	if categoryRevenue != total.Revenue || categoryQuantity != total.Quantity {
		t.Errorf("category sums must equal the Total row: %v/%v vs %v/%v",
			categoryRevenue, categoryQuantity, total.Revenue, total.Quantity)
	}
}

func TestClassifierPatternIsConfigurable(t *testing.T) {
	classifier, err := NewClassifier(`(?i)^premium`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := classifier.Categorize("Premium bird"); got != CategoryWholeChicken {
		t.Errorf("expected pattern match, got %q", got)
	}
	if got := classifier.Categorize("Whole chicken"); got != CategoryAdditional {
		t.Errorf("custom pattern should replace the default, got %q", got)
	}
}
