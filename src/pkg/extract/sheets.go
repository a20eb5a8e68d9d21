package extract

import (
	"context"
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"google.golang.org/api/sheets/v4"

	"sales-notifier/src/pkg/report"
)

/*
SheetsSource reads the hand-filled stock-movement form from a Google
spreadsheet. Authentication uses the environment's application default
credentials, so nothing secret lives in configuration.
*/
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

/*
NewSheetsSource builds a SheetsSource for one spreadsheet. readRange may be
empty, in which case the whole first sheet is read.
*/
func NewSheetsSource(ctx context.Context, spreadsheetID string, readRange string) (source *SheetsSource, e *xerr.Error) {
	service, serviceErr := sheets.NewService(ctx)
	if serviceErr != nil {
		e = xerr.NewError(serviceErr, "create sheets service", spreadsheetID)
		return nil, e
	}

	if readRange == "" {
		readRange = "A1:ZZ"
	}

	source = &SheetsSource{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
	}
	return source, e
}

/*
FetchTable reads the configured range into a RawTable: first row as the
header, every cell rendered to its string form.
*/
func (s *SheetsSource) FetchTable(ctx context.Context, tableName string) (table report.RawTable, e *xerr.Error) {
	values, getErr := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if getErr != nil {
		e = xerr.NewError(getErr, "read spreadsheet values", s.spreadsheetID)
		return table, e
	}

	table.Name = tableName
	for rowIndex, row := range values.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		if rowIndex == 0 {
			table.Columns = cells
			continue
		}
		table.Rows = append(table.Rows, cells)
	}

	tl.Log(
		tl.Info, palette.Cyan, "Fetched form '%s': %d columns, %d rows",
		s.spreadsheetID, len(table.Columns), len(table.Rows),
	)

	return table, e
}
