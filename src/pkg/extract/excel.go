// Package extract turns the external data sources (workbook files, the
// stock-movement form, and the reporting stored procedures) into RawTable
// inputs for the pipeline. Fetch failures surface as errors; an empty table
// is only ever a genuinely empty source.
package extract

import (
	"fmt"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"
	"github.com/xuri/excelize/v2"

	"sales-notifier/src/pkg/report"
)

/*
ReadWorkbookTable reads one sheet of an .xlsx workbook into a RawTable.
The first row is the header; remaining rows are data. When sheetName is
empty the first sheet of the workbook is used, which is what the exported
extracts always look like.
*/
func ReadWorkbookTable(workbookPath string, sheetName string, tableName string) (table report.RawTable, e *xerr.Error) {
	workbook, openErr := excelize.OpenFile(workbookPath)
	if openErr != nil {
		e = xerr.NewError(openErr, "open workbook", workbookPath)
		return table, e
	}
	defer func() {
		_ = workbook.Close()
	}()

	if sheetName == "" {
		sheetName = workbook.GetSheetName(0)
	}

	rows, rowsErr := workbook.GetRows(sheetName)
	if rowsErr != nil {
		e = xerr.NewError(rowsErr, "read workbook sheet", fmt.Sprintf("'%s' in '%s'", sheetName, workbookPath))
		return table, e
	}

	table.Name = tableName
	if len(rows) > 0 {
		table.Columns = rows[0]
		table.Rows = rows[1:]
	}

	tl.Log(
		tl.Info, palette.Cyan, "Read '%s': %d columns, %d rows from sheet '%s'",
		workbookPath, len(table.Columns), len(table.Rows), sheetName,
	)

	return table, e
}
