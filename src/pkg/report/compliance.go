package report

import (
	"math"
	"sort"
)

/*
WeeklyCompliance is one week of the actual-vs-budget comparison. This is
also the table shape handed to the chart collaborator: period label, actual
amount, budget amount, compliance percentage.
*/
type WeeklyCompliance struct {
	Period        WeekPeriod `json:"period"`
	Actual        float64    `json:"actual"`
	Budget        float64    `json:"budget"`
	CompliancePct float64    `json:"compliance_pct"`
}

/*
CompareWeekly joins the weekly sales aggregate with the weekly budget on the
period key, summing the per-product sales rows into one actual figure per
week. Weeks present on only one side drop out of the join. Compliance is
actual over budget × 100 rounded to one decimal, zero when the budget is
zero. Output is sorted by period start ascending.
*/
func CompareWeekly(sales []WeeklyProductSales, budget []WeeklyBudget) []WeeklyCompliance {
	actualByKey := make(map[string]*WeeklyCompliance)
	order := make([]string, 0)

	for _, weekly := range sales {
		key := weekly.Period.Key()
		row, exists := actualByKey[key]
		if !exists {
			row = &WeeklyCompliance{Period: weekly.Period}
			actualByKey[key] = row
			order = append(order, key)
		}
		row.Actual += weekly.Revenue
	}

	budgetByKey := make(map[string]float64)
	for _, weekly := range budget {
		_, exists := budgetByKey[weekly.Period.Key()]
		if !exists {
			budgetByKey[weekly.Period.Key()] = weekly.Amount
		}
	}

	joined := make([]WeeklyCompliance, 0, len(order))
	for _, key := range order {
		amount, hasBudget := budgetByKey[key]
		if !hasBudget {
			continue
		}

		row := *actualByKey[key]
		row.Budget = amount
		if amount != 0 {
			row.CompliancePct = math.Round(row.Actual/amount*100*10) / 10
		}
		joined = append(joined, row)
	}

	sort.Slice(joined, func(firstIndex int, secondIndex int) bool {
		return joined[firstIndex].Period.Before(joined[secondIndex].Period)
	})

	return joined
}

/*
RecentWeeks keeps the most recent weekCount distinct periods and returns
them in ascending order for display. The report is bounded to a rolling
window so the table and chart stay readable.
*/
func RecentWeeks(rows []WeeklyCompliance, weekCount int) []WeeklyCompliance {
	if weekCount <= 0 || len(rows) == 0 {
		return nil
	}

	sorted := make([]WeeklyCompliance, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(firstIndex int, secondIndex int) bool {
		return sorted[firstIndex].Period.Before(sorted[secondIndex].Period)
	})

	if len(sorted) > weekCount {
		sorted = sorted[len(sorted)-weekCount:]
	}

	return sorted
}

/*
ComplianceComment builds the narrative compliance figure from the last week
of the comparison, formatted as "80.0%". Rows sharing the last week's key
are summed; the join is expected to be 1:1 per week, but the source system
summed here to avoid undercounting if it ever is not, at the risk of double
counting; preserved as-is. Returns the "N/A" sentinel when the comparison is
empty.
*/
func ComplianceComment(rows []WeeklyCompliance) string {
	if len(rows) == 0 {
		return NotAvailable
	}

	lastKey := rows[len(rows)-1].Period.Key()
	total := 0.0
	for _, row := range rows {
		if row.Period.Key() == lastKey {
			total += row.CompliancePct
		}
	}

	return FormatPercent1(total)
}

/*
WeeklyProductBudget is one row of the rendered weekly sales-vs-budget
table: the per-product weekly aggregate with the week's budget carried
alongside. HasBudget distinguishes a genuine zero budget from a week absent
from the budget extract, which renders as "-".
*/
type WeeklyProductBudget struct {
	Period       WeekPeriod `json:"period"`
	Product      string     `json:"product"`
	Quantity     float64    `json:"quantity"`
	Revenue      float64    `json:"revenue"`
	InvoiceCount int        `json:"invoice_count"`
	Budget       float64    `json:"budget"`
	HasBudget    bool       `json:"has_budget"`
}

/*
WeeklySalesVsBudget left-joins the per-product weekly sales onto the weekly
budget and bounds the result to the most recent weekCount distinct periods,
returned ascending by period start then product.
*/
func WeeklySalesVsBudget(sales []WeeklyProductSales, budget []WeeklyBudget, weekCount int) []WeeklyProductBudget {
	budgetByKey := make(map[string]float64)
	for _, weekly := range budget {
		_, exists := budgetByKey[weekly.Period.Key()]
		if !exists {
			budgetByKey[weekly.Period.Key()] = weekly.Amount
		}
	}

	distinctStarts := make(map[string]WeekPeriod)
	for _, weekly := range sales {
		distinctStarts[weekly.Period.Key()] = weekly.Period
	}
	periods := make([]WeekPeriod, 0, len(distinctStarts))
	for _, period := range distinctStarts {
		periods = append(periods, period)
	}
	sort.Slice(periods, func(firstIndex int, secondIndex int) bool {
		return periods[firstIndex].Before(periods[secondIndex])
	})
	if weekCount > 0 && len(periods) > weekCount {
		periods = periods[len(periods)-weekCount:]
	}
	keep := make(map[string]bool, len(periods))
	for _, period := range periods {
		keep[period.Key()] = true
	}

	rows := make([]WeeklyProductBudget, 0)
	for _, weekly := range sales {
		if !keep[weekly.Period.Key()] {
			continue
		}

		amount, hasBudget := budgetByKey[weekly.Period.Key()]
		rows = append(rows, WeeklyProductBudget{
			Period:       weekly.Period,
			Product:      weekly.Product,
			Quantity:     weekly.Quantity,
			Revenue:      weekly.Revenue,
			InvoiceCount: weekly.InvoiceCount,
			Budget:       amount,
			HasBudget:    hasBudget,
		})
	}

	sort.Slice(rows, func(firstIndex int, secondIndex int) bool {
		if !rows[firstIndex].Period.Start.Equal(rows[secondIndex].Period.Start) {
			return rows[firstIndex].Period.Before(rows[secondIndex].Period)
		}
		return rows[firstIndex].Product < rows[secondIndex].Product
	})

	return rows
}
