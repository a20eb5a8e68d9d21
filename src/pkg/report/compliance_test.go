package report

import (
	"testing"
	"time"
)

func weekOfDay(day int) WeekPeriod {
	return WeekOf(time.Date(2025, time.August, day, 0, 0, 0, 0, time.UTC))
}

func TestCompareWeeklyComplianceFormula(t *testing.T) {
	week := weekOfDay(13)
	sales := []WeeklyProductSales{
		{Period: week, Product: "Whole chicken", Revenue: 5000},
		{Period: week, Product: "Chicken broth", Revenue: 3000},
	}
	budget := []WeeklyBudget{{Period: week, Amount: 10000}}

	joined := CompareWeekly(sales, budget)

	if len(joined) != 1 {
		t.Fatalf("expected 1 joined week, got %d", len(joined))
	}
	if joined[0].Actual != 8000 {
		t.Errorf("per-product rows must sum into one actual, got %v", joined[0].Actual)
	}
	if joined[0].CompliancePct != 80.0 {
		t.Errorf("expected compliance 80.0, got %v", joined[0].CompliancePct)
	}
}

func TestCompareWeeklyRoundsToOneDecimal(t *testing.T) {
	week := weekOfDay(13)
	joined := CompareWeekly(
		[]WeeklyProductSales{{Period: week, Product: "A", Revenue: 1234}},
		[]WeeklyBudget{{Period: week, Amount: 9000}},
	)

	// 1234/9000*100 = 13.711..., rounds to 13.7.
	if joined[0].CompliancePct != 13.7 {
		t.Errorf("expected 13.7, got %v", joined[0].CompliancePct)
	}
}

func TestCompareWeeklyZeroBudget(t *testing.T) {
	week := weekOfDay(13)
	joined := CompareWeekly(
		[]WeeklyProductSales{{Period: week, Product: "A", Revenue: 100}},
		[]WeeklyBudget{{Period: week, Amount: 0}},
	)

	if joined[0].CompliancePct != 0 {
		t.Errorf("zero budget must short-circuit compliance to 0, got %v", joined[0].CompliancePct)
	}
}

func TestCompareWeeklyDisjointKeys(t *testing.T) {
	joined := CompareWeekly(
		[]WeeklyProductSales{{Period: weekOfDay(13), Product: "A", Revenue: 100}},
		[]WeeklyBudget{{Period: weekOfDay(25), Amount: 500}},
	)

	if len(joined) != 0 {
		t.Fatalf("disjoint keys should join to zero rows, got %d", len(joined))
	}
	if got := ComplianceComment(joined); got != NotAvailable {
		t.Errorf("empty comparison must render the %q sentinel, got %q", NotAvailable, got)
	}
}

func TestComplianceComment(t *testing.T) {
	rows := []WeeklyCompliance{
		{Period: weekOfDay(4), CompliancePct: 95.5},
		{Period: weekOfDay(13), CompliancePct: 80.0},
	}

	if got := ComplianceComment(rows); got != "80.0%" {
		t.Errorf("comment must use only the last week, got %q", got)
	}
}

func TestRecentWeeksWindow(t *testing.T) {
	rows := make([]WeeklyCompliance, 0, 14)
	for weekIndex := 0; weekIndex < 14; weekIndex += 1 {
		rows = append(rows, WeeklyCompliance{Period: WeekOf(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*weekIndex))})
	}

	recent := RecentWeeks(rows, 10)

	if len(recent) != 10 {
		t.Fatalf("expected a 10-week window, got %d", len(recent))
	}
	// Ascending for display, ending at the most recent week.
	for index := 1; index < len(recent); index += 1 {
		if recent[index].Period.Start.Before(recent[index-1].Period.Start) {
			t.Fatalf("window not ascending")
		}
	}
	if !recent[len(recent)-1].Period.Start.Equal(rows[13].Period.Start) {
		t.Errorf("window must end at the most recent week")
	}
}

func TestWeeklySalesVsBudgetLeftJoin(t *testing.T) {
	budgetedWeek := weekOfDay(13)
	unbudgetedWeek := weekOfDay(20)
	sales := []WeeklyProductSales{
		{Period: budgetedWeek, Product: "A", Revenue: 100},
		{Period: unbudgetedWeek, Product: "A", Revenue: 200},
	}
	budget := []WeeklyBudget{{Period: budgetedWeek, Amount: 500}}

	rows := WeeklySalesVsBudget(sales, budget, 10)

	if len(rows) != 2 {
		t.Fatalf("left join must keep sales weeks without budget, got %d rows", len(rows))
	}
	if !rows[0].HasBudget || rows[0].Budget != 500 {
		t.Errorf("unexpected budgeted row: %+v", rows[0])
	}
	if rows[1].HasBudget {
		t.Errorf("week absent from the budget must carry HasBudget=false")
	}

	table := WeeklyTable(rows)
	if table.Rows[1][len(table.Rows[1])-1] != "-" {
		t.Errorf("missing budget must render \"-\", got %q", table.Rows[1][len(table.Rows[1])-1])
	}
}

func TestWeeklySalesVsBudgetBoundsWindow(t *testing.T) {
	sales := make([]WeeklyProductSales, 0, 12)
	for weekIndex := 0; weekIndex < 12; weekIndex += 1 {
		period := WeekOf(time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7*weekIndex))
		sales = append(sales, WeeklyProductSales{Period: period, Product: "A", Revenue: 1})
	}

	rows := WeeklySalesVsBudget(sales, nil, 10)

	if len(rows) != 10 {
		t.Fatalf("expected the 10 most recent weeks, got %d", len(rows))
	}
}
