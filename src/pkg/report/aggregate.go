package report

import (
	"regexp"
	"sort"
	"time"
)

// Category names assigned to every product on the latest-day snapshot.
const (
	CategoryWholeChicken = "Whole chicken"
	CategoryAdditional   = "Additional product"
	CategoryTotal        = "Total"
)

// DefaultCategoryPattern matches the whole-chicken SKU names; everything
// else is an additional product.
const DefaultCategoryPattern = `(?i)whole chicken|pollo c/m|pollo s/m`

/*
Classifier assigns each product name to exactly one category by a pattern
match. The pattern is configuration; SKU naming drifts and the report must
not need a release to follow it.
*/
type Classifier struct {
	pattern *regexp.Regexp
}

// NewClassifier compiles the whole-chicken pattern.
func NewClassifier(pattern string) (Classifier, error) {
	if pattern == "" {
		pattern = DefaultCategoryPattern
	}
	compiled, compileErr := regexp.Compile(pattern)
	if compileErr != nil {
		return Classifier{}, compileErr
	}
	return Classifier{pattern: compiled}, nil
}

// Categorize returns the category for a product name.
func (c Classifier) Categorize(productName string) string {
	if c.pattern != nil && c.pattern.MatchString(productName) {
		return CategoryWholeChicken
	}
	return CategoryAdditional
}

/*
DailyProductSales is the (date, product) aggregate over netted sales lines:
summed quantity and net revenue, distinct invoice count, and the timestamp
of the latest transaction that day.
*/
type DailyProductSales struct {
	Date         time.Time `json:"date"`
	Product      string    `json:"product"`
	Quantity     float64   `json:"quantity"`
	Revenue      float64   `json:"revenue"`
	InvoiceCount int       `json:"invoice_count"`
	LastSale     time.Time `json:"last_sale"`
}

/*
AggregateDailyByProduct groups netted sales lines by (date, product).
Output is sorted by date ascending, then product.
*/
func AggregateDailyByProduct(lines []NetSalesLine) []DailyProductSales {
	type groupKey struct {
		date    time.Time
		product string
	}

	groups := make(map[groupKey]*DailyProductSales)
	invoices := make(map[groupKey]map[string]bool)

	for _, line := range lines {
		key := groupKey{date: line.Date, product: line.ProductName}

		agg, exists := groups[key]
		if !exists {
			agg = &DailyProductSales{Date: line.Date, Product: line.ProductName}
			groups[key] = agg
			invoices[key] = make(map[string]bool)
		}

		agg.Quantity += line.Quantity
		agg.Revenue += line.NetAmount
		if line.Timestamp.After(agg.LastSale) {
			agg.LastSale = line.Timestamp
		}

		if !invoices[key][line.InvoiceNumber] {
			invoices[key][line.InvoiceNumber] = true
			agg.InvoiceCount += 1
		}
	}

	aggregates := make([]DailyProductSales, 0, len(groups))
	for _, agg := range groups {
		aggregates = append(aggregates, *agg)
	}

	sort.Slice(aggregates, func(firstIndex int, secondIndex int) bool {
		if !aggregates[firstIndex].Date.Equal(aggregates[secondIndex].Date) {
			return aggregates[firstIndex].Date.Before(aggregates[secondIndex].Date)
		}
		return aggregates[firstIndex].Product < aggregates[secondIndex].Product
	})

	return aggregates
}

// WeeklyProductSales is the (week, product) aggregate over netted lines.
type WeeklyProductSales struct {
	Period       WeekPeriod `json:"period"`
	Product      string     `json:"product"`
	Quantity     float64    `json:"quantity"`
	Revenue      float64    `json:"revenue"`
	InvoiceCount int        `json:"invoice_count"`
}

/*
AggregateWeeklyByProduct groups netted sales lines by (week period,
product), bucketing dates through WeekOf. Output is sorted by period start,
then product.
*/
func AggregateWeeklyByProduct(lines []NetSalesLine) []WeeklyProductSales {
	type groupKey struct {
		periodKey string
		product   string
	}

	groups := make(map[groupKey]*WeeklyProductSales)
	invoices := make(map[groupKey]map[string]bool)

	for _, line := range lines {
		period := WeekOf(line.Date)
		key := groupKey{periodKey: period.Key(), product: line.ProductName}

		agg, exists := groups[key]
		if !exists {
			agg = &WeeklyProductSales{Period: period, Product: line.ProductName}
			groups[key] = agg
			invoices[key] = make(map[string]bool)
		}

		agg.Quantity += line.Quantity
		agg.Revenue += line.NetAmount

		if !invoices[key][line.InvoiceNumber] {
			invoices[key][line.InvoiceNumber] = true
			agg.InvoiceCount += 1
		}
	}

	aggregates := make([]WeeklyProductSales, 0, len(groups))
	for _, agg := range groups {
		aggregates = append(aggregates, *agg)
	}

	sort.Slice(aggregates, func(firstIndex int, secondIndex int) bool {
		if !aggregates[firstIndex].Period.Start.Equal(aggregates[secondIndex].Period.Start) {
			return aggregates[firstIndex].Period.Before(aggregates[secondIndex].Period)
		}
		return aggregates[firstIndex].Product < aggregates[secondIndex].Product
	})

	return aggregates
}

/*
ProductSnapshot is one row of the latest-day product table: the per-product
aggregate enriched with derived unit price, participation share, category,
and average ticket.
*/
type ProductSnapshot struct {
	Product          string  `json:"product"`
	Category         string  `json:"category"`
	ParticipationPct float64 `json:"participation_pct"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	Revenue          float64 `json:"revenue"`
	SaleCount        int     `json:"sale_count"`
	AverageTicket    float64 `json:"average_ticket"`
	LastPurchase     string  `json:"last_purchase"`
}

/*
LatestDaySnapshot filters the daily aggregate down to the single most recent
date present and derives the presentation figures:

  - unit price   = revenue / quantity
  - participation = revenue / total revenue that day × 100
  - average ticket = revenue / distinct invoice count

Every division short-circuits to zero on a zero denominator. Rows are sorted
by participation descending. The second return is the snapshot date.
*/
func LatestDaySnapshot(daily []DailyProductSales, classifier Classifier) ([]ProductSnapshot, time.Time) {
	if len(daily) == 0 {
		return nil, time.Time{}
	}

	latestDate := daily[0].Date
	for _, agg := range daily {
		if agg.Date.After(latestDate) {
			latestDate = agg.Date
		}
	}

	totalRevenue := 0.0
	for _, agg := range daily {
		if agg.Date.Equal(latestDate) {
			totalRevenue += agg.Revenue
		}
	}

	snapshots := make([]ProductSnapshot, 0)
	for _, agg := range daily {
		if !agg.Date.Equal(latestDate) {
			continue
		}

		snapshot := ProductSnapshot{
			Product:      agg.Product,
			Category:     classifier.Categorize(agg.Product),
			Quantity:     agg.Quantity,
			Revenue:      agg.Revenue,
			SaleCount:    agg.InvoiceCount,
			LastPurchase: agg.LastSale.Format("15:04"),
		}
		snapshot.UnitPrice = safeDivide(agg.Revenue, agg.Quantity)
		snapshot.AverageTicket = safeDivide(agg.Revenue, float64(agg.InvoiceCount))
		if totalRevenue != 0 {
			snapshot.ParticipationPct = agg.Revenue / totalRevenue * 100
		}

		snapshots = append(snapshots, snapshot)
	}

	sort.Slice(snapshots, func(firstIndex int, secondIndex int) bool {
		return snapshots[firstIndex].ParticipationPct > snapshots[secondIndex].ParticipationPct
	})

	return snapshots, latestDate
}

/*
CategorySummary is one row of the category rollup, including the synthetic
Total row appended by RollupByCategory.
*/
type CategorySummary struct {
	Category         string  `json:"category"`
	ParticipationPct float64 `json:"participation_pct"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	Revenue          float64 `json:"revenue"`
	SaleCount        int     `json:"sale_count"`
	AverageTicket    float64 `json:"average_ticket"`
}

/*
RollupByCategory re-sums the latest-day snapshot by category and recomputes
unit price and average ticket from the rollup sums, NOT by averaging the
per-product values, which would weight small products equally with large
ones. A synthetic Total row is appended whose figures are the full-day sums
and whose participation is fixed at 100.

Whole chicken is listed first, remaining categories alphabetically, and the
Total row always closes the table.
*/
func RollupByCategory(snapshots []ProductSnapshot) []CategorySummary {
	groups := make(map[string]*CategorySummary)
	order := make([]string, 0)

	for _, snapshot := range snapshots {
		summary, exists := groups[snapshot.Category]
		if !exists {
			summary = &CategorySummary{Category: snapshot.Category}
			groups[snapshot.Category] = summary
			order = append(order, snapshot.Category)
		}

		summary.ParticipationPct += snapshot.ParticipationPct
		summary.Quantity += snapshot.Quantity
		summary.Revenue += snapshot.Revenue
		summary.SaleCount += snapshot.SaleCount
	}

	sort.Slice(order, func(firstIndex int, secondIndex int) bool {
		if order[firstIndex] == CategoryWholeChicken {
			return true
		}
		if order[secondIndex] == CategoryWholeChicken {
			return false
		}
		return order[firstIndex] < order[secondIndex]
	})

	summaries := make([]CategorySummary, 0, len(order)+1)
	total := CategorySummary{Category: CategoryTotal, ParticipationPct: 100}

	for _, category := range order {
		summary := groups[category]
		summary.UnitPrice = safeDivide(summary.Revenue, summary.Quantity)
		summary.AverageTicket = safeDivide(summary.Revenue, float64(summary.SaleCount))
		summaries = append(summaries, *summary)

		total.Quantity += summary.Quantity
		total.Revenue += summary.Revenue
		total.SaleCount += summary.SaleCount
	}

	total.UnitPrice = safeDivide(total.Revenue, total.Quantity)
	total.AverageTicket = safeDivide(total.Revenue, float64(total.SaleCount))
	summaries = append(summaries, total)

	return summaries
}

// safeDivide short-circuits to zero on a zero denominator so NaN and Inf
// never reach rendered output.
func safeDivide(numerator float64, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
