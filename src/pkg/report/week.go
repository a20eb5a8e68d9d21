package report

import (
	"fmt"
	"time"
)

/*
WeekPeriod is the single weekly bucket used everywhere in the pipeline.

The source system mixed two numbering schemes: ISO week-of-year in the sales
aggregation and Sunday-ending periods in the budget allocation. Here ISO is
authoritative (Year and Week come from time.Time.ISOWeek()) and the period
span is the ISO week's Monday through Sunday, which is the same day range the
Sunday-ending periods covered. Both schemes therefore coincide by
construction, and WeekOf is the only place a date is ever bucketed.
*/
type WeekPeriod struct {
	Year  int       `json:"year"`
	Week  int       `json:"week"`
	Start time.Time `json:"start"`
}

/*
WeekOf buckets a date into its ISO week. Start is the Monday of that week at
midnight in the date's location.
*/
func WeekOf(date time.Time) WeekPeriod {
	isoYear, isoWeek := date.ISOWeek()

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, -1)
	}

	return WeekPeriod{Year: isoYear, Week: isoWeek, Start: day}
}

// End is the Sunday closing the period.
func (p WeekPeriod) End() time.Time {
	return p.Start.AddDate(0, 0, 6)
}

// Key is the join key used between weekly sales and weekly budget,
// e.g. "2025 - Sem33".
func (p WeekPeriod) Key() string {
	return fmt.Sprintf("%d - Sem%d", p.Year, p.Week)
}

// Label is the display form of the period span,
// e.g. "11/08/2025 - 17/08/2025".
func (p WeekPeriod) Label() string {
	return fmt.Sprintf("%s - %s", p.Start.Format("02/01/2006"), p.End().Format("02/01/2006"))
}

// Before orders periods by their start date.
func (p WeekPeriod) Before(other WeekPeriod) bool {
	return p.Start.Before(other.Start)
}
