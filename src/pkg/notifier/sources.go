package notifier

import (
	"context"
	"os"
	"time"

	"github.com/tuumbleweed/xerr"

	"sales-notifier/src/pkg/extract"
	"sales-notifier/src/pkg/report"
	"sales-notifier/src/pkg/storage"
)

/*
WorkbookExtractSource reads the three ERP extracts from workbook files
downloaded out of the object store. Keys are expected in the fixed order
sales, credit notes, budget.
*/
type WorkbookExtractSource struct {
	Store       *storage.Store
	ExtractKeys []string
	DownloadDir string

	localPaths []string
}

func (s *WorkbookExtractSource) ensureDownloaded(ctx context.Context) (e *xerr.Error) {
	if len(s.localPaths) == len(s.ExtractKeys) {
		return nil
	}
	s.localPaths, e = s.Store.DownloadRequiredFiles(ctx, s.ExtractKeys, s.DownloadDir)
	return e
}

func (s *WorkbookExtractSource) workbookTable(ctx context.Context, slot int, tableName string) (table report.RawTable, e *xerr.Error) {
	e = s.ensureDownloaded(ctx)
	if e != nil {
		return table, e
	}
	return extract.ReadWorkbookTable(s.localPaths[slot], "", tableName)
}

func (s *WorkbookExtractSource) Sales(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.workbookTable(ctx, 0, "sales")
}

func (s *WorkbookExtractSource) CreditNotes(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.workbookTable(ctx, 1, "credit notes")
}

func (s *WorkbookExtractSource) Budget(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.workbookTable(ctx, 2, "budget")
}

/*
ProcedureExtractSource runs the reporting stored procedures instead of
reading workbook files. Every procedure takes the report date.
*/
type ProcedureExtractSource struct {
	Runner           *extract.ProcedureRunner
	ReportDate       time.Time
	SalesProcedure   string
	CreditsProcedure string
	BudgetProcedure  string
}

func (s *ProcedureExtractSource) Sales(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.Runner.RunReport(ctx, s.SalesProcedure, s.ReportDate.Format("2006-01-02"))
}

func (s *ProcedureExtractSource) CreditNotes(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.Runner.RunReport(ctx, s.CreditsProcedure, s.ReportDate.Format("2006-01-02"))
}

func (s *ProcedureExtractSource) Budget(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.Runner.RunReport(ctx, s.BudgetProcedure, s.ReportDate.Format("2006-01-02"))
}

// SheetsMovementSource reads the stock-movement form from Google Sheets.
type SheetsMovementSource struct {
	Source *extract.SheetsSource
}

func (s *SheetsMovementSource) Movements(ctx context.Context) (report.RawTable, *xerr.Error) {
	return s.Source.FetchTable(ctx, "stock movements")
}

/*
FileMovementSource reads the movement form from a local workbook file,
used by dry runs and tests.
*/
type FileMovementSource struct {
	Path string
}

func (s *FileMovementSource) Movements(ctx context.Context) (report.RawTable, *xerr.Error) {
	if _, statErr := os.Stat(s.Path); statErr != nil {
		return report.RawTable{}, xerr.NewError(statErr, "locate movement workbook", s.Path)
	}
	return extract.ReadWorkbookTable(s.Path, "", "stock movements")
}
