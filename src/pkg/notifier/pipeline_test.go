package notifier

import (
	"context"
	"strings"
	"testing"

	"github.com/tuumbleweed/xerr"

	"sales-notifier/src/pkg/email"
	"sales-notifier/src/pkg/report"
)

type fakeExtracts struct {
	sales   report.RawTable
	credits report.RawTable
	budget  report.RawTable
}

func (f fakeExtracts) Sales(context.Context) (report.RawTable, *xerr.Error) {
	return f.sales, nil
}

func (f fakeExtracts) CreditNotes(context.Context) (report.RawTable, *xerr.Error) {
	return f.credits, nil
}

func (f fakeExtracts) Budget(context.Context) (report.RawTable, *xerr.Error) {
	return f.budget, nil
}

type fakeMovements struct {
	table report.RawTable
}

func (f fakeMovements) Movements(context.Context) (report.RawTable, *xerr.Error) {
	return f.table, nil
}

type recordingSender struct {
	subject     string
	htmlBody    string
	textBody    string
	attachments []email.Attachment
	sends       int
}

func (s *recordingSender) Send(sender string, recipients []string, subject string, textBody string, htmlBody string, attachments []email.Attachment) *xerr.Error {
	s.subject = subject
	s.textBody = textBody
	s.htmlBody = htmlBody
	s.attachments = attachments
	s.sends += 1
	return nil
}

func salesColumns() []string {
	m := report.DefaultSalesColumnMap()
	return []string{m.Date, m.Timestamp, m.InvoiceNumber, m.ProductID, m.ProductName, m.ClientID, m.ClientType, m.ClientName, m.Quantity, m.UnitPrice}
}

func creditColumns() []string {
	m := report.DefaultCreditNoteColumnMap()
	return []string{m.Reference, m.ProductID, m.Quantity, m.UnitPrice}
}

func testPipeline(send Sender) *Pipeline {
	sales := report.RawTable{
		Name:    "sales",
		Columns: salesColumns(),
		Rows: [][]string{
			{"2025-08-14", "2025-08-14 12:30:00", "F001-101", "P-WC", "Whole chicken", "10001", "DNI", "Ana", "2", "55.00"},
			{"2025-08-14", "2025-08-14 18:45:00", "F001-102", "P-SO", "Soda 1.5L", "10002", "DNI", "Luis", "3", "8.00"},
		},
	}
	credits := report.RawTable{
		Name:    "credit notes",
		Columns: creditColumns(),
	}
	budget := report.RawTable{
		Name:    "budget",
		Columns: []string{"Year", "Month", "Business Line", "Amount"},
		Rows: [][]string{
			{"2025", "Aug", "Restaurant", "3100"},
		},
	}
	movements := report.RawTable{
		Name:    "stock movements",
		Columns: []string{"Date", "Movement type", "Units - Whole chicken"},
		Rows: [][]string{
			{"2025-08-14", "Opening stock", "40"},
			{"2025-08-14", "Receipt", "10"},
			{"2025-08-14", "Sale", "2"},
		},
	}

	return &Pipeline{
		Extracts:  fakeExtracts{sales: sales, credits: credits, budget: budget},
		Movements: fakeMovements{table: movements},
		Send:      send,
		Options: Options{
			Sender:          "reports@example.com",
			Recipients:      []string{"owner@example.com"},
			BusinessLine:    "Restaurant",
			CategoryPattern: report.DefaultCategoryPattern,
			WeekWindow:      10,
			SubjectPrefix:   "Daily sales report",
		},
	}
}

func TestBuildRendersLatestDay(t *testing.T) {
	pipeline := testPipeline(&recordingSender{})

	bundle, e := pipeline.Build(context.Background())
	if e != nil {
		t.Fatalf("Build failed: %v", e)
	}

	if bundle.Subject != "Daily sales report - 14/08/2025" {
		t.Fatalf("unexpected subject %q", bundle.Subject)
	}
	if !strings.Contains(bundle.HTMLBody, "Whole chicken") {
		t.Errorf("HTML body missing product row")
	}
	if !strings.Contains(bundle.HTMLBody, "#003366") {
		t.Errorf("HTML body missing header styling")
	}
	if bundle.Narrative.UnitsSold == "" {
		t.Errorf("narrative left empty")
	}
}

func TestBuildFailsOnEmptySales(t *testing.T) {
	pipeline := testPipeline(&recordingSender{})
	pipeline.Extracts = fakeExtracts{
		sales:   report.RawTable{Name: "sales", Columns: salesColumns()},
		credits: report.RawTable{Name: "credit notes", Columns: creditColumns()},
		budget:  report.RawTable{Name: "budget", Columns: []string{"Year", "Month", "Business Line", "Amount"}},
	}

	_, e := pipeline.Build(context.Background())
	if e == nil {
		t.Fatal("expected an error for an empty sales extract")
	}
}

func TestRunSendsWithInlineChart(t *testing.T) {
	sender := &recordingSender{}
	pipeline := testPipeline(sender)

	bundle, e := pipeline.Run(context.Background())
	if e != nil {
		t.Fatalf("Run failed: %v", e)
	}
	if sender.sends != 1 {
		t.Fatalf("expected one send, got %d", sender.sends)
	}
	if sender.subject != bundle.Subject {
		t.Errorf("sender got subject %q, bundle has %q", sender.subject, bundle.Subject)
	}

	if len(bundle.ChartPNG) > 0 {
		if len(sender.attachments) != 1 || !sender.attachments[0].Inline {
			t.Fatalf("expected one inline chart attachment, got %v", sender.attachments)
		}
		if !strings.Contains(sender.htmlBody, "cid:weekly-chart") {
			t.Errorf("HTML body does not reference the inline chart")
		}
	}
}

func TestBuildSurvivesIncompleteMovementForm(t *testing.T) {
	pipeline := testPipeline(&recordingSender{})
	pipeline.Movements = fakeMovements{table: report.RawTable{
		Name:    "stock movements",
		Columns: []string{"Date", "Movement type", "Units - Whole chicken"},
		Rows: [][]string{
			{"2025-08-14", "Opening stock", "40"},
		},
	}}

	bundle, e := pipeline.Build(context.Background())
	if e != nil {
		t.Fatalf("Build failed on incomplete movement form: %v", e)
	}
	if bundle.HTMLBody == "" {
		t.Fatal("expected a rendered body despite the incomplete form")
	}
}
