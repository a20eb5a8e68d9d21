package report

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Presentation formatting for the report. No computation happens here; any
numeric work belongs in the aggregators. Amounts render in soles with comma
thousands separators, e.g. "S/ 1,234.56".
*/

// FormatCurrency renders an amount as "S/ 1,234.56".
func FormatCurrency(amount float64) string {
	return "S/ " + formatGrouped(amount, 2)
}

// FormatCurrencyWhole renders an amount as "S/ 1,234" for the narrative
// figures drop cents.
func FormatCurrencyWhole(amount float64) string {
	return "S/ " + formatGrouped(amount, 0)
}

// FormatPercent1 renders "80.0%".
func FormatPercent1(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// FormatPercent2 renders "12.34%".
func FormatPercent2(value float64) string {
	return fmt.Sprintf("%.2f%%", value)
}

// FormatQuantity renders a kilogram quantity with two decimals and
// thousands separators.
func FormatQuantity(value float64) string {
	return formatGrouped(value, 2)
}

// FormatKilograms renders "1,234.56 kg".
func FormatKilograms(value float64) string {
	return formatGrouped(value, 2) + " kg"
}

// FormatUnits renders "1,234 UND"; zero units render "0 UND", the sentinel
// used when the stock table is empty.
func FormatUnits(units int) string {
	return formatGrouped(float64(units), 0) + " UND"
}

/*
formatGrouped renders a number with the given decimal places and comma
thousands separators in the integer part.
*/
func formatGrouped(value float64, decimals int) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	raw := strconv.FormatFloat(value, 'f', decimals, 64)

	integerPart := raw
	fractionPart := ""
	if decimals > 0 {
		dotIndex := strings.IndexByte(raw, '.')
		integerPart = raw[:dotIndex]
		fractionPart = raw[dotIndex:]
	}

	return sign + groupThousands(integerPart, ",") + fractionPart
}

// groupThousands groups digits in a base-10 string using the provided separator.
func groupThousands(raw string, sep string) string {
	if len(raw) <= 3 {
		return raw
	}

	var builder strings.Builder
	firstGroupLen := len(raw) % 3
	if firstGroupLen == 0 {
		firstGroupLen = 3
	}

	builder.WriteString(raw[:firstGroupLen])

	for index := firstGroupLen; index < len(raw); index += 3 {
		builder.WriteString(sep)
		builder.WriteString(raw[index : index+3])
	}

	return builder.String()
}

/*
Narrative holds the scalar strings interpolated into the email body: units
sold, total revenue, total volume, average price, and the weekly budget
compliance percentage.
*/
type Narrative struct {
	UnitsSold     string `json:"units_sold"`
	TotalRevenue  string `json:"total_revenue"`
	TotalVolume   string `json:"total_volume"`
	AveragePrice  string `json:"average_price"`
	CompliancePct string `json:"compliance_pct"`
}

/*
BuildNarrative derives the summary sentences' values from the category
rollup's Total row. When the rollup is missing a Total row (empty day) the
money figures degrade to zero renderings rather than failing the report.
*/
func BuildNarrative(categories []CategorySummary, unitsSold int, complianceComment string) Narrative {
	narrative := Narrative{
		UnitsSold:     FormatUnits(unitsSold),
		TotalRevenue:  FormatCurrencyWhole(0),
		TotalVolume:   FormatKilograms(0),
		AveragePrice:  FormatCurrency(0),
		CompliancePct: complianceComment,
	}

	for _, summary := range categories {
		if summary.Category != CategoryTotal {
			continue
		}
		narrative.TotalRevenue = FormatCurrencyWhole(summary.Revenue)
		narrative.TotalVolume = FormatKilograms(summary.Quantity)
		narrative.AveragePrice = FormatCurrency(summary.UnitPrice)
		break
	}

	return narrative
}
