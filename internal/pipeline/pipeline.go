// Package pipeline orchestrates the scan, resolution, assembly and
// validation stages for one bundle, including the optional human
// correction round-trip.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rcastell/legajo/internal/assemble"
	"github.com/rcastell/legajo/internal/model"
	"github.com/rcastell/legajo/internal/resolve"
	"github.com/rcastell/legajo/internal/validate"
)

// ErrAborted is returned when the reviewer declines to proceed
var ErrAborted = errors.New("split aborted by reviewer")

// PageScanner produces classified pages for a bundle
type PageScanner interface {
	Scan(ctx context.Context, pdfPath string) ([]model.Page, error)
}

// Correction is the reviewer's answer: optionally re-labeled pages and
// whether to continue with the split.
type Correction struct {
	Pages   []model.Page
	Proceed bool
}

// Corrector reviews a flagged split before any folders are written.
// labels carries the destination folder names when known, so the reviewer
// sees which patient each record maps to. Implementations range from an
// interactive terminal session to an auto-approve stub for unattended
// runs.
type Corrector interface {
	Review(ctx context.Context, pages []model.Page, records []*model.PatientRecord, labels []string) (*Correction, error)
}

// Pipeline wires the stages together
type Pipeline struct {
	scanner   PageScanner
	resolver  *resolve.Resolver
	assembler *assemble.Assembler
	validator *validate.Validator
	corrector Corrector
	labels    []string
	log       *zap.SugaredLogger
}

// New creates a pipeline. corrector may be nil; flagged records then pass
// through without review.
func New(scanner PageScanner, corrector Corrector, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		scanner:   scanner,
		resolver:  resolve.NewResolver(),
		assembler: assemble.NewAssembler(),
		validator: validate.NewValidator(),
		corrector: corrector,
		log:       log,
	}
}

// SetLabels supplies the destination folder names shown during review
func (p *Pipeline) SetLabels(labels []string) {
	p.labels = labels
}

// Run processes one bundle end to end and returns its report
func (p *Pipeline) Run(ctx context.Context, pdfPath string) (*model.BundleReport, error) {
	pages, err := p.scanner.Scan(ctx, pdfPath)
	if err != nil {
		return nil, err
	}
	if err := CheckSequence(pages); err != nil {
		return nil, err
	}

	pages, applied := p.resolver.Resolve(pages)
	for _, a := range applied {
		p.log.Infow("resolution rule applied", "rule", a.Rule, "index", a.Index, "rewrites", len(a.Rewrites))
	}

	records := p.assembler.Assemble(pages)
	p.validator.Validate(records)

	if p.corrector != nil && anyIssues(records) {
		pages, records, err = p.review(ctx, pages, records)
		if err != nil {
			return nil, err
		}
	}

	report := &model.BundleReport{
		BundlePath:     pdfPath,
		ScannedAt:      time.Now(),
		TotalPages:     len(pages),
		Pages:          pages,
		AppliedRules:   applied,
		Records:        records,
		Stats:          model.BuildStats(records),
		CategoryCounts: model.CountCategories(pages),
	}
	p.log.Infow("bundle processed",
		"path", pdfPath,
		"pages", report.TotalPages,
		"records", report.Stats.TotalRecords,
		"complete", report.Stats.CompleteRecords,
	)
	return report, nil
}

// review runs the single correction round-trip. Corrected labels are
// applied as-is; the resolver does not run again on reviewed pages.
func (p *Pipeline) review(ctx context.Context, pages []model.Page, records []*model.PatientRecord) ([]model.Page, []*model.PatientRecord, error) {
	correction, err := p.corrector.Review(ctx, pages, records, p.labels)
	if err != nil {
		return nil, nil, fmt.Errorf("review failed: %w", err)
	}
	if correction == nil || !correction.Proceed {
		return nil, nil, ErrAborted
	}
	if len(correction.Pages) == 0 {
		return pages, records, nil
	}

	if err := CheckSequence(correction.Pages); err != nil {
		return nil, nil, fmt.Errorf("corrected pages rejected: %w", err)
	}
	if len(correction.Pages) != len(pages) {
		return nil, nil, fmt.Errorf("corrected pages rejected: got %d pages, bundle has %d", len(correction.Pages), len(pages))
	}

	pages = correction.Pages
	records = p.assembler.Assemble(pages)
	p.validator.Validate(records)
	p.log.Infow("corrections applied", "records", len(records))
	return pages, records, nil
}

// CheckSequence verifies pages are numbered 1..n without gaps or
// duplicates.
func CheckSequence(pages []model.Page) error {
	for i, p := range pages {
		if p.PageNumber != i+1 {
			return fmt.Errorf("page sequence broken at position %d: got page %d, want %d", i, p.PageNumber, i+1)
		}
	}
	return nil
}

func anyIssues(records []*model.PatientRecord) bool {
	for _, r := range records {
		if r.HasIssues() {
			return true
		}
	}
	return false
}
