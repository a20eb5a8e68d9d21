package report

import (
	"sort"
	"time"
)

// FilterBusinessLine keeps only the entries for one business line.
func FilterBusinessLine(entries []BudgetEntry, businessLine string) []BudgetEntry {
	filtered := make([]BudgetEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.BusinessLine == businessLine {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

// DaysInMonth returns the calendar day count of a month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

/*
AllocateDaily spreads each monthly budget figure evenly across the calendar
days of its month: one DailyBudget row per day, each worth amount divided by
the day count. There is no weekday weighting; the budget owners set monthly
figures and an even spread was the agreed reading. Summing the rows of a
month reconstructs the monthly amount up to floating-point rounding.

Output is sorted by date ascending.
*/
func AllocateDaily(entries []BudgetEntry) []DailyBudget {
	daily := make([]DailyBudget, 0)

	for _, entry := range entries {
		dayCount := DaysInMonth(entry.Year, entry.Month)
		perDay := entry.Amount / float64(dayCount)

		for dayNumber := 1; dayNumber <= dayCount; dayNumber += 1 {
			daily = append(daily, DailyBudget{
				Date:   time.Date(entry.Year, entry.Month, dayNumber, 0, 0, 0, 0, time.UTC),
				Amount: perDay,
			})
		}
	}

	sort.Slice(daily, func(firstIndex int, secondIndex int) bool {
		return daily[firstIndex].Date.Before(daily[secondIndex].Date)
	})

	return daily
}

/*
AggregateWeeklyBudget re-aggregates the daily allocation into the same
weekly periods the sales aggregator uses. Weeks straddling a month boundary
sum two different per-day rates, which is intended. Output is sorted by
period start.
*/
func AggregateWeeklyBudget(daily []DailyBudget) []WeeklyBudget {
	groups := make(map[string]*WeeklyBudget)
	order := make([]string, 0)

	for _, day := range daily {
		period := WeekOf(day.Date)
		key := period.Key()

		weekly, exists := groups[key]
		if !exists {
			weekly = &WeeklyBudget{Period: period}
			groups[key] = weekly
			order = append(order, key)
		}
		weekly.Amount += day.Amount
	}

	weeklies := make([]WeeklyBudget, 0, len(order))
	for _, key := range order {
		weeklies = append(weeklies, *groups[key])
	}

	sort.Slice(weeklies, func(firstIndex int, secondIndex int) bool {
		return weeklies[firstIndex].Period.Before(weeklies[secondIndex].Period)
	})

	return weeklies
}
