package report

import (
	"fmt"
	"strings"
	"time"
)

/*
The transform core distinguishes two fatal failure shapes:

  - SchemaError: a required column is missing from an input table.
  - EmptyInputError: an input table has zero rows where at least one is
    required.

Both abort the run; the orchestrator wraps them into *xerr.Error at the
boundary. Business-logic gaps (a week with no budget, a day with no stock
rows) never raise; they degrade to the sentinel values below so the rest of
the report still renders.
*/

// NotAvailable is the sentinel rendered when a computation has no valid input.
const NotAvailable = "N/A"

// SchemaError reports a required column absent from an input table.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table '%s': required column '%s' is missing", e.Table, e.Column)
}

// EmptyInputError reports an input table with zero rows where data is required.
type EmptyInputError struct {
	Table string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("table '%s' is empty: no data to process", e.Table)
}

/*
IncompleteDayError reports a stock-movement day that is missing one or more
of the required movement types. The movement form is filled by hand, so a
day with only "Sale" rows usually means opening stock was never entered.
*/
type IncompleteDayError struct {
	Date    time.Time
	Missing []MovementType
	Found   []MovementType
}

func (e *IncompleteDayError) Error() string {
	missingNames := make([]string, 0, len(e.Missing))
	for _, movementType := range e.Missing {
		missingNames = append(missingNames, string(movementType))
	}
	foundNames := make([]string, 0, len(e.Found))
	for _, movementType := range e.Found {
		foundNames = append(foundNames, string(movementType))
	}
	return fmt.Sprintf(
		"movements for %s are incomplete: missing [%s], found [%s]",
		e.Date.Format("02/01/2006"), strings.Join(missingNames, ", "), strings.Join(foundNames, ", "),
	)
}
