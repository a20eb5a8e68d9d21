package report

import (
	"sort"
	"time"
)

/*
RollForward groups stock movements by (date, product) and computes the daily
position: opening stock plus receipts minus sales equals closing stock.

Movement types absent from a group sum to zero, never to a missing value.
Closing stock is NOT floored at zero; a negative closing means the form
recorded more sales than stock and the report must show that. Output is
sorted by date ascending, then product, so the rendered table is stable.
*/
func RollForward(movements []StockMovement) []StockDay {
	type groupKey struct {
		date    time.Time
		product string
	}

	groups := make(map[groupKey]*StockDay)
	order := make([]groupKey, 0)

	for _, movement := range movements {
		key := groupKey{date: movement.Date, product: movement.Product}

		day, exists := groups[key]
		if !exists {
			day = &StockDay{Date: movement.Date, Product: movement.Product}
			groups[key] = day
			order = append(order, key)
		}

		switch movement.Type {
		case OpeningStock:
			day.Opening += movement.Units
		case Receipt:
			day.Receipts += movement.Units
		case Sale:
			day.Sales += movement.Units
		}
	}

	days := make([]StockDay, 0, len(order))
	for _, key := range order {
		day := groups[key]
		day.Closing = day.Opening + day.Receipts - day.Sales
		days = append(days, *day)
	}

	sort.Slice(days, func(firstIndex int, secondIndex int) bool {
		if !days[firstIndex].Date.Equal(days[secondIndex].Date) {
			return days[firstIndex].Date.Before(days[secondIndex].Date)
		}
		return days[firstIndex].Product < days[secondIndex].Product
	})

	return days
}

/*
StockReportRow is one line of the rendered stock table: the latest sale
day's position for one product, annotated with the clock time of that
product's last recorded purchase.
*/
type StockReportRow struct {
	Date         time.Time `json:"date"`
	Product      string    `json:"product"`
	Opening      int       `json:"opening"`
	Receipts     int       `json:"receipts"`
	Sales        int       `json:"sales"`
	Closing      int       `json:"closing"`
	LastPurchase string    `json:"last_purchase"`
}

/*
StockWithLastPurchase filters the rolled-forward days to the latest date
present in the daily sales aggregate and joins each product's last
transaction time onto its stock row. Products with stock rows but no sales
that day keep an empty LastPurchase. The returned unit count is the summed
Sales column, the "units sold today" narrative figure.

When the stock form has no rows for the latest sale day the result is an
empty table and zero units; the caller renders the "0 UND" sentinel instead
of failing the run.
*/
func StockWithLastPurchase(days []StockDay, daily []DailyProductSales) (rows []StockReportRow, unitsSold int) {
	rows = make([]StockReportRow, 0)
	if len(daily) == 0 {
		return rows, 0
	}

	latestDate := daily[0].Date
	for _, product := range daily {
		if product.Date.After(latestDate) {
			latestDate = product.Date
		}
	}

	lastPurchaseByProduct := make(map[string]time.Time)
	for _, product := range daily {
		if product.Date.Equal(latestDate) {
			lastPurchaseByProduct[product.Product] = product.LastSale
		}
	}

	for _, day := range days {
		if !day.Date.Equal(latestDate) {
			continue
		}

		lastPurchase := ""
		lastSale, hasSale := lastPurchaseByProduct[day.Product]
		if hasSale {
			lastPurchase = lastSale.Format("15:04")
		}

		rows = append(rows, StockReportRow{
			Date:         day.Date,
			Product:      day.Product,
			Opening:      day.Opening,
			Receipts:     day.Receipts,
			Sales:        day.Sales,
			Closing:      day.Closing,
			LastPurchase: lastPurchase,
		})
		unitsSold += day.Sales
	}

	return rows, unitsSold
}
