package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rcastell/legajo/internal/logger"
	"github.com/rcastell/legajo/internal/model"
)

type stubScanner struct {
	pages []model.Page
	err   error
}

func (s *stubScanner) Scan(ctx context.Context, pdfPath string) ([]model.Page, error) {
	return s.pages, s.err
}

type stubCorrector struct {
	correction *Correction
	err        error
	called     bool
	labels     []string
}

func (c *stubCorrector) Review(ctx context.Context, pages []model.Page, records []*model.PatientRecord, labels []string) (*Correction, error) {
	c.called = true
	c.labels = labels
	return c.correction, c.err
}

func makePages(categories ...model.Category) []model.Page {
	pages := make([]model.Page, len(categories))
	for i, c := range categories {
		pages[i] = model.Page{PageNumber: i + 1, Category: c}
	}
	return pages
}

func TestRun_CleanBundle(t *testing.T) {
	scanner := &stubScanner{pages: makePages(
		model.CategoryHistory, model.CategoryHistory,
		model.CategoryIdentity, model.CategoryBill,
	)}
	p := New(scanner, nil, logger.Nop())

	report, err := p.Run(context.Background(), "bundle.pdf")
	if err != nil {
		t.Fatal(err)
	}

	if report.TotalPages != 4 {
		t.Errorf("total pages = %d", report.TotalPages)
	}
	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}
	if !report.Records[0].IsComplete() {
		t.Errorf("expected complete record, got issues %v", report.Records[0].Issues)
	}
	if report.Stats.CompleteRecords != 1 {
		t.Errorf("stats complete = %d", report.Stats.CompleteRecords)
	}
	if report.CategoryCounts[model.CategoryHistory] != 2 {
		t.Errorf("history count = %d", report.CategoryCounts[model.CategoryHistory])
	}
}

func TestRun_ResolverRewritesFlowIntoRecords(t *testing.T) {
	// H H U B: the gap between histories and the bill is an identity page
	scanner := &stubScanner{pages: makePages(
		model.CategoryHistory, model.CategoryHistory,
		model.CategoryUnclassified, model.CategoryBill,
	)}
	p := New(scanner, nil, logger.Nop())

	report, err := p.Run(context.Background(), "bundle.pdf")
	if err != nil {
		t.Fatal(err)
	}

	if report.Pages[2].Category != model.CategoryIdentity {
		t.Errorf("page 3 = %s, want identity", report.Pages[2].Category)
	}
	if len(report.AppliedRules) == 0 {
		t.Error("expected applied rules in report")
	}
	if len(report.Records) != 1 || !report.Records[0].IsComplete() {
		t.Errorf("expected one complete record, got %+v", report.Records)
	}
}

func TestRun_ScanErrorPropagates(t *testing.T) {
	scanErr := errors.New("page 2: tesseract crashed")
	p := New(&stubScanner{err: scanErr}, nil, logger.Nop())

	if _, err := p.Run(context.Background(), "bundle.pdf"); !errors.Is(err, scanErr) {
		t.Errorf("expected scan error, got %v", err)
	}
}

func TestRun_BrokenSequenceRejected(t *testing.T) {
	pages := makePages(model.CategoryHistory, model.CategoryBill)
	pages[1].PageNumber = 5
	p := New(&stubScanner{pages: pages}, nil, logger.Nop())

	_, err := p.Run(context.Background(), "bundle.pdf")
	if err == nil || !strings.Contains(err.Error(), "page sequence broken") {
		t.Errorf("expected sequence error, got %v", err)
	}
}

func TestRun_ReviewSkippedForCleanBundle(t *testing.T) {
	scanner := &stubScanner{pages: makePages(
		model.CategoryHistory, model.CategoryIdentity, model.CategoryBill,
	)}
	corrector := &stubCorrector{correction: &Correction{Proceed: true}}
	p := New(scanner, corrector, logger.Nop())

	if _, err := p.Run(context.Background(), "bundle.pdf"); err != nil {
		t.Fatal(err)
	}
	if corrector.called {
		t.Error("corrector invoked for a clean bundle")
	}
}

func TestRun_ReviewAbort(t *testing.T) {
	scanner := &stubScanner{pages: makePages(model.CategoryHistory)}
	corrector := &stubCorrector{correction: &Correction{Proceed: false}}
	p := New(scanner, corrector, logger.Nop())
	p.SetLabels([]string{"HC_1_UN_941000031499323"})

	if _, err := p.Run(context.Background(), "bundle.pdf"); !errors.Is(err, ErrAborted) {
		t.Errorf("expected ErrAborted, got %v", err)
	}
	if !corrector.called {
		t.Error("corrector not invoked for flagged bundle")
	}
	if len(corrector.labels) != 1 || corrector.labels[0] != "HC_1_UN_941000031499323" {
		t.Errorf("labels not passed to reviewer: %v", corrector.labels)
	}
}

func TestRun_ReviewAppliesCorrections(t *testing.T) {
	// Page 2 unclassified; the reviewer says it is the identity page
	scanner := &stubScanner{pages: makePages(
		model.CategoryHistory, model.CategoryUnclassified, model.CategoryBill,
	)}
	corrected := makePages(model.CategoryHistory, model.CategoryIdentity, model.CategoryBill)
	corrector := &stubCorrector{correction: &Correction{Pages: corrected, Proceed: true}}
	p := New(scanner, corrector, logger.Nop())

	report, err := p.Run(context.Background(), "bundle.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(report.Records))
	}
	if !report.Records[0].IsComplete() || report.Records[0].HasIssues() {
		t.Errorf("corrections not applied: %+v", report.Records[0])
	}
}

func TestRun_ReviewProceedWithoutChanges(t *testing.T) {
	scanner := &stubScanner{pages: makePages(model.CategoryHistory)}
	corrector := &stubCorrector{correction: &Correction{Proceed: true}}
	p := New(scanner, corrector, logger.Nop())

	report, err := p.Run(context.Background(), "bundle.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !report.Records[0].HasIssues() {
		t.Error("expected issues to survive an unchanged review")
	}
}

func TestRun_ReviewWrongPageCountRejected(t *testing.T) {
	scanner := &stubScanner{pages: makePages(model.CategoryHistory, model.CategoryUnclassified)}
	corrector := &stubCorrector{correction: &Correction{
		Pages:   makePages(model.CategoryHistory),
		Proceed: true,
	}}
	p := New(scanner, corrector, logger.Nop())

	_, err := p.Run(context.Background(), "bundle.pdf")
	if err == nil || !strings.Contains(err.Error(), "corrected pages rejected") {
		t.Errorf("expected rejection, got %v", err)
	}
}

func TestCheckSequence(t *testing.T) {
	if err := CheckSequence(makePages(model.CategoryHistory, model.CategoryBill)); err != nil {
		t.Errorf("valid sequence rejected: %v", err)
	}
	if err := CheckSequence(nil); err != nil {
		t.Errorf("empty sequence rejected: %v", err)
	}

	gapped := makePages(model.CategoryHistory, model.CategoryBill)
	gapped[0].PageNumber = 2
	gapped[1].PageNumber = 3
	if err := CheckSequence(gapped); err == nil {
		t.Error("expected error for sequence not starting at 1")
	}
}

func TestRenderJSON_StripsTextByDefault(t *testing.T) {
	report := &model.BundleReport{
		BundlePath: "b.pdf",
		Pages:      []model.Page{{PageNumber: 1, Category: model.CategoryHistory, Text: "secret ocr text"}},
	}

	var buf bytes.Buffer
	if err := RenderJSON(&buf, report, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "secret ocr text") {
		t.Error("OCR text leaked into default JSON output")
	}
	if report.Pages[0].Text != "secret ocr text" {
		t.Error("RenderJSON mutated the report")
	}

	buf.Reset()
	if err := RenderJSON(&buf, report, true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "secret ocr text") {
		t.Error("include_text did not keep OCR text")
	}
}

func TestRenderText(t *testing.T) {
	scanner := &stubScanner{pages: makePages(
		model.CategoryHistory, model.CategoryHistory,
		model.CategoryUnclassified, model.CategoryBill,
	)}
	p := New(scanner, nil, logger.Nop())
	report, err := p.Run(context.Background(), "bundle.pdf")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	RenderText(&buf, report)
	out := buf.String()

	for _, want := range []string{"Bundle: bundle.pdf", "Records: 1", "rule A"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}
