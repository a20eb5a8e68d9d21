package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

/*
SalesColumnMap names the source-system headers for each canonical SalesLine
field. The point-of-sale export and the accounting export disagree on header
names, so each origin supplies its own map; DefaultSalesColumnMap covers the
accounting export the scheduled job normally receives.
*/
type SalesColumnMap struct {
	Date          string `json:"date"`
	Timestamp     string `json:"timestamp"`
	InvoiceNumber string `json:"invoice_number"`
	ProductID     string `json:"product_id"`
	ProductName   string `json:"product_name"`
	ClientID      string `json:"client_id"`
	ClientType    string `json:"client_type"`
	ClientName    string `json:"client_name"`
	Quantity      string `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
}

// DefaultSalesColumnMap matches the accounting-system invoice-line export.
func DefaultSalesColumnMap() SalesColumnMap {
	return SalesColumnMap{
		Date:          "Invoice Lines/Date",
		Timestamp:     "Invoice Lines/Journal Entry/Created on",
		InvoiceNumber: "Invoice Lines/Number",
		ProductID:     "Invoice Lines/Product/Internal Reference",
		ProductName:   "Invoice Lines/Product/Name",
		ClientID:      "Invoice Lines/Contact/Tax ID",
		ClientType:    "Invoice Lines/Contact/Identification Type",
		ClientName:    "Invoice Lines/Contact",
		Quantity:      "Invoice Lines/Quantity",
		UnitPrice:     "Invoice Lines/Unit Price",
	}
}

// CreditNoteColumnMap names the source headers for CreditNoteLine fields.
type CreditNoteColumnMap struct {
	Reference string `json:"reference"`
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

// DefaultCreditNoteColumnMap matches the accounting-system credit-note export.
func DefaultCreditNoteColumnMap() CreditNoteColumnMap {
	return CreditNoteColumnMap{
		Reference: "Invoice Lines/Reference",
		ProductID: "Invoice Lines/Product/Internal Reference",
		Quantity:  "Invoice Lines/Quantity",
		UnitPrice: "Invoice Lines/Unit Price",
	}
}

/*
NormalizeSales retypes the raw sales extract into canonical SalesLine
records. Every input row passes through: the normalizer renames and parses,
it never filters. A missing required column yields a *SchemaError; a table
with zero rows yields an *EmptyInputError, since every downstream aggregate
needs at least one sale.
*/
func NormalizeSales(t RawTable, columns SalesColumnMap) ([]SalesLine, error) {
	requireErr := t.RequireColumns(
		columns.Date, columns.Timestamp, columns.InvoiceNumber, columns.ProductID,
		columns.ProductName, columns.Quantity, columns.UnitPrice,
	)
	if requireErr != nil {
		return nil, requireErr
	}
	if t.IsEmpty() {
		return nil, &EmptyInputError{Table: t.Name}
	}

	dateIdx := t.ColumnIndex(columns.Date)
	timestampIdx := t.ColumnIndex(columns.Timestamp)
	invoiceIdx := t.ColumnIndex(columns.InvoiceNumber)
	productIDIdx := t.ColumnIndex(columns.ProductID)
	productNameIdx := t.ColumnIndex(columns.ProductName)
	clientIDIdx := t.ColumnIndex(columns.ClientID)
	clientTypeIdx := t.ColumnIndex(columns.ClientType)
	clientNameIdx := t.ColumnIndex(columns.ClientName)
	quantityIdx := t.ColumnIndex(columns.Quantity)
	unitPriceIdx := t.ColumnIndex(columns.UnitPrice)

	lines := make([]SalesLine, 0, len(t.Rows))

	for row := 0; row < len(t.Rows); row += 1 {
		date, dateErr := parseDate(t.Cell(row, dateIdx))
		if dateErr != nil {
			return nil, fmt.Errorf("table '%s' row %d: %w", t.Name, row+1, dateErr)
		}

		timestamp, timestampErr := parseTimestamp(t.Cell(row, timestampIdx))
		if timestampErr != nil {
			return nil, fmt.Errorf("table '%s' row %d: %w", t.Name, row+1, timestampErr)
		}

		line := SalesLine{
			Date:          date,
			Timestamp:     timestamp,
			TimeOfDay:     timestamp.Format("15:04"),
			InvoiceNumber: t.Cell(row, invoiceIdx),
			ProductID:     t.Cell(row, productIDIdx),
			ProductName:   t.Cell(row, productNameIdx),
			ClientID:      t.Cell(row, clientIDIdx),
			ClientType:    t.Cell(row, clientTypeIdx),
			ClientName:    t.Cell(row, clientNameIdx),
			Quantity:      parseNumber(t.Cell(row, quantityIdx)),
			UnitPrice:     parseNumber(t.Cell(row, unitPriceIdx)),
		}
		lines = append(lines, line)
	}

	tl.Log(
		tl.Info, palette.Cyan, "Normalized '%s': %s sales lines",
		t.Name, strconv.Itoa(len(lines)),
	)

	return lines, nil
}

/*
NormalizeCreditNotes retypes the raw credit-note extract. An empty table is
valid here: a day without credit notes is the normal case, and netting with
zero notes leaves every sale at its gross amount.
*/
func NormalizeCreditNotes(t RawTable, columns CreditNoteColumnMap) ([]CreditNoteLine, error) {
	requireErr := t.RequireColumns(columns.Reference, columns.ProductID, columns.Quantity, columns.UnitPrice)
	if requireErr != nil {
		return nil, requireErr
	}

	referenceIdx := t.ColumnIndex(columns.Reference)
	productIDIdx := t.ColumnIndex(columns.ProductID)
	quantityIdx := t.ColumnIndex(columns.Quantity)
	unitPriceIdx := t.ColumnIndex(columns.UnitPrice)

	notes := make([]CreditNoteLine, 0, len(t.Rows))

	for row := 0; row < len(t.Rows); row += 1 {
		note := CreditNoteLine{
			Reference: t.Cell(row, referenceIdx),
			ProductID: t.Cell(row, productIDIdx),
			Quantity:  parseNumber(t.Cell(row, quantityIdx)),
			UnitPrice: parseNumber(t.Cell(row, unitPriceIdx)),
		}
		notes = append(notes, note)
	}

	return notes, nil
}

const (
	movementDateColumn = "Date"
	movementTypeColumn = "Movement type"
	unitsColumnPrefix  = "Units - "
)

/*
NormalizeMovements flattens the stock-movement form into one StockMovement
per (row, product). The form carries one "Units - <product>" column per
tracked product; blank or non-numeric unit cells count as zero, so every
product appears on every recorded day even when nothing moved. Rows whose
movement type is not one of the three known kinds are dropped.
*/
func NormalizeMovements(t RawTable) ([]StockMovement, error) {
	requireErr := t.RequireColumns(movementDateColumn, movementTypeColumn)
	if requireErr != nil {
		return nil, requireErr
	}
	if t.IsEmpty() {
		return nil, &EmptyInputError{Table: t.Name}
	}

	dateIdx := t.ColumnIndex(movementDateColumn)
	typeIdx := t.ColumnIndex(movementTypeColumn)

	productColumns := make([]int, 0)
	for index := 0; index < len(t.Columns); index += 1 {
		if strings.HasPrefix(strings.TrimSpace(t.Columns[index]), strings.TrimSpace(unitsColumnPrefix)) {
			productColumns = append(productColumns, index)
		}
	}
	if len(productColumns) == 0 {
		return nil, &SchemaError{Table: t.Name, Column: unitsColumnPrefix + "<product>"}
	}

	movements := make([]StockMovement, 0, len(t.Rows)*len(productColumns))
	skippedRows := 0

	for row := 0; row < len(t.Rows); row += 1 {
		date, dateErr := parseDate(t.Cell(row, dateIdx))
		if dateErr != nil {
			// Hand-filled form rows with broken dates are dropped, matching
			// the coerce-then-drop behavior of the source system.
			skippedRows += 1
			continue
		}

		movementType, known := parseMovementType(t.Cell(row, typeIdx))
		if !known {
			skippedRows += 1
			continue
		}

		for _, columnIndex := range productColumns {
			product := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.Columns[columnIndex]), unitsColumnPrefix))
			movement := StockMovement{
				Date:    date,
				Product: product,
				Type:    movementType,
				Units:   int(parseNumber(t.Cell(row, columnIndex))),
			}
			movements = append(movements, movement)
		}
	}

	if skippedRows > 0 {
		tl.Log(
			tl.Warning, palette.PurpleBright, "Dropped '%s' movement rows with invalid dates or unknown movement types",
			strconv.Itoa(skippedRows),
		)
	}

	return movements, nil
}

/*
parseMovementType maps the form's free-text movement label onto a
MovementType. Matching is case-insensitive and collapses repeated spaces,
since the labels are typed by hand.
*/
func parseMovementType(raw string) (MovementType, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	switch normalized {
	case "opening stock":
		return OpeningStock, true
	case "receipt":
		return Receipt, true
	case "sale":
		return Sale, true
	}
	return "", false
}

const (
	budgetYearColumn   = "Year"
	budgetMonthColumn  = "Month"
	budgetLineColumn   = "Business Line"
	budgetAmountColumn = "Amount"
)

// monthsByName maps the consolidated budget workbook's month abbreviations.
var monthsByName = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

/*
NormalizeBudget retypes the consolidated budget extract into BudgetEntry
records for all business lines; filtering to one line happens in the
allocator.
*/
func NormalizeBudget(t RawTable) ([]BudgetEntry, error) {
	requireErr := t.RequireColumns(budgetYearColumn, budgetMonthColumn, budgetLineColumn, budgetAmountColumn)
	if requireErr != nil {
		return nil, requireErr
	}
	if t.IsEmpty() {
		return nil, &EmptyInputError{Table: t.Name}
	}

	yearIdx := t.ColumnIndex(budgetYearColumn)
	monthIdx := t.ColumnIndex(budgetMonthColumn)
	lineIdx := t.ColumnIndex(budgetLineColumn)
	amountIdx := t.ColumnIndex(budgetAmountColumn)

	entries := make([]BudgetEntry, 0, len(t.Rows))

	for row := 0; row < len(t.Rows); row += 1 {
		year, yearErr := strconv.Atoi(t.Cell(row, yearIdx))
		if yearErr != nil {
			return nil, fmt.Errorf("table '%s' row %d: invalid year '%s'", t.Name, row+1, t.Cell(row, yearIdx))
		}

		monthName := strings.TrimSpace(t.Cell(row, monthIdx))
		month, knownMonth := monthsByName[monthName]
		if !knownMonth {
			return nil, fmt.Errorf("table '%s' row %d: unknown month '%s'", t.Name, row+1, monthName)
		}

		entry := BudgetEntry{
			Year:         year,
			Month:        month,
			BusinessLine: t.Cell(row, lineIdx),
			Amount:       parseNumber(t.Cell(row, amountIdx)),
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// dateLayouts are tried in order; the extracts mix ISO and day-first forms.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006/01/02",
	"2/1/2006",
}

// timestampLayouts cover the accounting-entry creation time renderings.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	time.RFC3339,
}

func parseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		value, parseErr := time.Parse(layout, trimmed)
		if parseErr == nil {
			return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	// Timestamps occasionally land in date columns; take their day part.
	for _, layout := range timestampLayouts {
		value, parseErr := time.Parse(layout, trimmed)
		if parseErr == nil {
			return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date '%s'", raw)
}

func parseTimestamp(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		value, parseErr := time.Parse(layout, trimmed)
		if parseErr == nil {
			return value, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp '%s'", raw)
}

/*
parseNumber parses a numeric cell, tolerating thousands separators and blank
cells. Blank and non-numeric cells parse to zero; the movement form leaves
untouched unit cells empty, and zero is the correct reading.
*/
func parseNumber(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0
	}
	value, parseErr := strconv.ParseFloat(cleaned, 64)
	if parseErr != nil {
		return 0
	}
	return value
}
