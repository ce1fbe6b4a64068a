package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/rcastell/legajo/internal/model"
)

// GenerateNotes produces review notes for every flagged record in the
// report, keyed by record position. Failures are logged and skipped; note
// generation is best-effort and never fails the run.
func GenerateNotes(ctx context.Context, p Provider, report *model.BundleReport, log *zap.SugaredLogger) map[int]string {
	notes := make(map[int]string)
	if p == nil {
		return notes
	}

	for i, record := range report.Records {
		if !record.HasIssues() {
			continue
		}

		resp, err := p.ReviewNotes(ctx, ReviewRequest{
			Record: record,
			Pages:  recordPages(record, report.Pages),
		})
		if err != nil {
			log.Warnw("review note generation failed", "record", i+1, "error", err)
			continue
		}
		if resp.Notes != "" {
			notes[i] = resp.Notes
			log.Debugw("review notes generated", "record", i+1, "model", resp.Model, "tokens", resp.TokensUsed)
		}
	}
	return notes
}

func recordPages(record *model.PatientRecord, all []model.Page) []model.Page {
	want := make(map[int]bool)
	for _, p := range record.AllPages() {
		want[p] = true
	}
	var pages []model.Page
	for _, p := range all {
		if want[p.PageNumber] {
			pages = append(pages, p)
		}
	}
	return pages
}
