package report

import (
	"strings"
)

/*
ReconcileCreditNotes nets credit-note amounts against their matching sales
lines and returns one NetSalesLine per input sale, in input order.

A credit note matches a sale when the note's free-text reference contains the
sale's invoice number as a case-insensitive substring AND the product ids are
exactly equal. Substring containment is deliberate behavioral compatibility
with the source system: references embed invoice numbers in varying formats,
and an exact match would drop most of them. The cost is that an ambiguous
substring can match more than one sale and be subtracted twice; no
uniqueness is enforced. See the double-count test pinning this.

The scan is quadratic in sales × notes, which is fine at the few thousand
rows a daily batch carries.
*/
func ReconcileCreditNotes(sales []SalesLine, notes []CreditNoteLine) []NetSalesLine {
	netted := make([]NetSalesLine, 0, len(sales))

	for _, sale := range sales {
		invoiceLower := strings.ToLower(sale.InvoiceNumber)

		creditTotal := 0.0
		for _, note := range notes {
			if note.ProductID != sale.ProductID {
				continue
			}
			if invoiceLower == "" || !strings.Contains(strings.ToLower(note.Reference), invoiceLower) {
				continue
			}
			creditTotal += note.Amount()
		}

		netted = append(netted, NetSalesLine{
			SalesLine:   sale,
			CreditTotal: creditTotal,
			NetAmount:   sale.GrossAmount() - creditTotal,
		})
	}

	return netted
}
