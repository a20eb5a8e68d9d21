package report

import (
	"math"
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2025, time.August, 31},
		{2025, time.September, 30},
		{2025, time.February, 28},
		{2024, time.February, 29}, // leap year
		{2000, time.February, 29}, // century leap year
		{1900, time.February, 28}, // century non-leap year
	}

	for _, testCase := range cases {
		if got := DaysInMonth(testCase.year, testCase.month); got != testCase.want {
			t.Errorf("DaysInMonth(%d, %s) = %d, want %d", testCase.year, testCase.month, got, testCase.want)
		}
	}
}

func TestAllocateDailyConservation(t *testing.T) {
	entries := []BudgetEntry{
		{Year: 2024, Month: time.February, BusinessLine: "Retail", Amount: 310000},
		{Year: 2025, Month: time.August, BusinessLine: "Retail", Amount: 123456.78},
	}

	daily := AllocateDaily(entries)

	if len(daily) != 29+31 {
		t.Fatalf("expected one row per calendar day (29 + 31), got %d", len(daily))
	}

	sumsByMonth := make(map[time.Month]float64)
	for _, day := range daily {
		sumsByMonth[day.Date.Month()] += day.Amount
	}
	if math.Abs(sumsByMonth[time.February]-310000) > 1e-6 {
		t.Errorf("February allocation does not reconstruct the monthly amount: %v", sumsByMonth[time.February])
	}
	if math.Abs(sumsByMonth[time.August]-123456.78) > 1e-6 {
		t.Errorf("August allocation does not reconstruct the monthly amount: %v", sumsByMonth[time.August])
	}
}

func TestAllocateDailyEvenSpread(t *testing.T) {
	daily := AllocateDaily([]BudgetEntry{{Year: 2025, Month: time.August, Amount: 3100}})

	for _, day := range daily {
		if day.Amount != 100 {
			t.Fatalf("expected an even 100 per day, got %v on %s", day.Amount, day.Date.Format("2006-01-02"))
		}
	}
}

func TestAggregateWeeklyBudget(t *testing.T) {
	daily := AllocateDaily([]BudgetEntry{{Year: 2025, Month: time.August, Amount: 3100}})

	weekly := AggregateWeeklyBudget(daily)

	// August 2025 spans six ISO weeks (W31 through W36).
	if len(weekly) != 6 {
		t.Fatalf("expected 6 weekly buckets, got %d", len(weekly))
	}

	// A full in-month week carries seven days of allocation.
	for _, bucket := range weekly {
		if bucket.Period.Key() == "2025 - Sem33" && bucket.Amount != 700 {
			t.Errorf("expected 700 for the full week, got %v", bucket.Amount)
		}
	}

	// Conservation across the weekly re-aggregation.
	total := 0.0
	for _, bucket := range weekly {
		total += bucket.Amount
	}
	if math.Abs(total-3100) > 1e-6 {
		t.Errorf("weekly aggregation must conserve the monthly amount, got %v", total)
	}

	// Sorted by period start.
	for index := 1; index < len(weekly); index += 1 {
		if weekly[index].Period.Start.Before(weekly[index-1].Period.Start) {
			t.Fatalf("weekly buckets not sorted by period start")
		}
	}
}

func TestFilterBusinessLine(t *testing.T) {
	entries := []BudgetEntry{
		{Year: 2025, Month: time.August, BusinessLine: "Retail", Amount: 100},
		{Year: 2025, Month: time.August, BusinessLine: "Wholesale", Amount: 200},
	}

	filtered := FilterBusinessLine(entries, "Retail")

	if len(filtered) != 1 || filtered[0].Amount != 100 {
		t.Errorf("unexpected filter result: %+v", filtered)
	}
}
