package report

import (
	"time"
)

// RequiredMovementTypes are the three kinds every recorded day must carry
// for the roll-forward identity to be meaningful.
var RequiredMovementTypes = []MovementType{OpeningStock, Receipt, Sale}

/*
ValidateMovementsComplete checks that the given day has at least one
movement row of every required type. A day with no rows at all yields an
*EmptyInputError; a day missing some types yields an *IncompleteDayError
listing both what is missing and what was found, since the fix is always a
manual edit of the form.
*/
func ValidateMovementsComplete(movements []StockMovement, day time.Time) error {
	target := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	found := make(map[MovementType]bool)
	rowsForDay := 0

	for _, movement := range movements {
		if !movement.Date.Equal(target) {
			continue
		}
		rowsForDay += 1
		found[movement.Type] = true
	}

	if rowsForDay == 0 {
		return &EmptyInputError{Table: "stock movements for " + target.Format("02/01/2006")}
	}

	missing := make([]MovementType, 0)
	for _, required := range RequiredMovementTypes {
		if !found[required] {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		foundList := make([]MovementType, 0, len(found))
		for _, required := range RequiredMovementTypes {
			if found[required] {
				foundList = append(foundList, required)
			}
		}
		return &IncompleteDayError{Date: target, Missing: missing, Found: foundList}
	}

	return nil
}
