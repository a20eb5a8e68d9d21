package report

import (
	"time"
)

/*
SalesLine is one invoice line from the point-of-sale extract after
normalization. Date is the sale day at midnight; Timestamp is the full
accounting-entry creation time and TimeOfDay its HH:MM rendering, kept as an
independent field because the stock table only ever shows the clock time.
*/
type SalesLine struct {
	Date          time.Time `json:"date"`
	Timestamp     time.Time `json:"timestamp"`
	TimeOfDay     string    `json:"time_of_day"`
	InvoiceNumber string    `json:"invoice_number"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	ClientID      string    `json:"client_id"`
	ClientType    string    `json:"client_type"`
	ClientName    string    `json:"client_name"`
	Quantity      float64   `json:"quantity"`
	UnitPrice     float64   `json:"unit_price"`
}

// GrossAmount is quantity × unit price before credit notes are netted.
func (l SalesLine) GrossAmount() float64 {
	return l.Quantity * l.UnitPrice
}

/*
CreditNoteLine is one line from the credit-note extract. Reference is
free text that usually embeds the invoice number of the sale being
reversed; it is NOT a foreign key and is matched by substring containment.
*/
type CreditNoteLine struct {
	Reference string  `json:"reference"`
	ProductID string  `json:"product_id"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Amount is the credited quantity × unit price.
func (l CreditNoteLine) Amount() float64 {
	return l.Quantity * l.UnitPrice
}

/*
NetSalesLine is a SalesLine with matched credit notes netted out.
NetAmount may be negative when credit notes exceed the gross amount; the
reconciler never clamps.
*/
type NetSalesLine struct {
	SalesLine
	CreditTotal float64 `json:"credit_total"`
	NetAmount   float64 `json:"net_amount"`
}

// MovementType classifies one stock-movement row from the daily form.
type MovementType string

const (
	OpeningStock MovementType = "Opening stock"
	Receipt      MovementType = "Receipt"
	Sale         MovementType = "Sale"
)

// StockMovement is one (day, product) cell of the movement form.
type StockMovement struct {
	Date    time.Time    `json:"date"`
	Product string       `json:"product"`
	Type    MovementType `json:"type"`
	Units   int          `json:"units"`
}

/*
StockDay is the rolled-forward position of one product on one day.
Closing = Opening + Receipts − Sales always holds; Closing may be negative
and must stay negative; a clamped value would hide a counting error in the
form.
*/
type StockDay struct {
	Date     time.Time `json:"date"`
	Product  string    `json:"product"`
	Opening  int       `json:"opening"`
	Receipts int       `json:"receipts"`
	Sales    int       `json:"sales"`
	Closing  int       `json:"closing"`
}

// BudgetEntry is one monthly budget figure for one business line.
type BudgetEntry struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	BusinessLine string     `json:"business_line"`
	Amount       float64    `json:"amount"`
}

// DailyBudget is the even per-day share of a monthly budget figure.
type DailyBudget struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// WeeklyBudget is the daily allocation re-aggregated to a weekly period.
type WeeklyBudget struct {
	Period WeekPeriod `json:"period"`
	Amount float64    `json:"amount"`
}
