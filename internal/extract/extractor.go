// Package extract writes split patient records to per-patient folders.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"go.uber.org/zap"

	"github.com/rcastell/legajo/internal/model"
)

// Output file names follow the archive's established convention
const (
	fileControl      = "0.0 HOJA DE CONTROL.pdf"
	fileHistory      = "0.1 HISTORIA CLINICA VETERINARIA.pdf"
	fileIdentity     = "0.2 CEDULA DE CIUDADANIA.pdf"
	fileBill         = "0.3 RECIBO PUBLICO.pdf"
	fileUnclassified = "0.9 UNKNOWN PAGES.pdf"

	issuesFileName = "ISSUES_REVIEW_REQUIRED.txt"
)

// Extractor writes each record's pages into its patient folder
type Extractor struct {
	reviewPrefix string
	log          *zap.SugaredLogger
}

// NewExtractor creates an extractor
func NewExtractor(cfg model.ExtractionConfig, log *zap.SugaredLogger) *Extractor {
	prefix := cfg.ReviewPrefix
	if prefix == "" {
		prefix = "REVIEW - "
	}
	return &Extractor{reviewPrefix: prefix, log: log}
}

// ExtractAll writes every record into its folder under outDir and returns
// the final folder paths. Records and folders pair up by position; a count
// mismatch truncates to the shorter list. Folders of flagged records are
// renamed with the review prefix and get an issues file.
func (e *Extractor) ExtractAll(bundlePath, outDir string, records []*model.PatientRecord, folders []string) ([]string, error) {
	if len(records) != len(folders) {
		e.log.Warnw("record and folder counts differ",
			"records", len(records), "folders", len(folders))
	}
	n := len(records)
	if len(folders) < n {
		n = len(folders)
	}

	finalDirs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		record := records[i]
		name := folders[i]
		dir := filepath.Join(outDir, name)

		if err := e.extractRecord(bundlePath, dir, record); err != nil {
			return finalDirs, fmt.Errorf("record %d (%s): %w", i+1, name, err)
		}

		finalDir := dir
		if record.HasIssues() {
			reviewDir := filepath.Join(outDir, e.reviewPrefix+name)
			if err := os.Rename(dir, reviewDir); err != nil {
				e.log.Warnw("could not mark folder for review", "dir", dir, "error", err)
			} else {
				finalDir = reviewDir
			}
			if err := e.writeIssuesFile(finalDir, name, record); err != nil {
				e.log.Warnw("could not write issues file", "dir", finalDir, "error", err)
			}
			e.log.Infow("record extracted, review needed",
				"folder", name, "issues", record.Issues, "unclassified", record.UnclassifiedPages)
		} else {
			e.log.Infow("record extracted", "folder", name, "pages", len(record.AllPages()))
		}

		finalDirs = append(finalDirs, finalDir)
	}
	return finalDirs, nil
}

func (e *Extractor) extractRecord(bundlePath, dir string, r *model.PatientRecord) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}

	parts := []struct {
		pages []int
		name  string
	}{
		{r.HistoryPages, fileHistory},
		{r.IdentityPages, fileIdentity},
		{r.BillPages, fileBill},
		{r.UnclassifiedPages, fileUnclassified},
	}
	for _, part := range parts {
		if len(part.pages) == 0 {
			continue
		}
		target := filepath.Join(dir, part.name)
		if err := api.CollectFile(bundlePath, target, pageSelection(part.pages), nil); err != nil {
			return fmt.Errorf("extract pages %v to %s: %w", part.pages, part.name, err)
		}
	}
	return nil
}

// pageSelection converts page numbers to pdfcpu's selection syntax
func pageSelection(pages []int) []string {
	sel := make([]string, len(pages))
	for i, p := range pages {
		sel[i] = strconv.Itoa(p)
	}
	return sel
}

func (e *Extractor) writeIssuesFile(dir, name string, r *model.PatientRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "REVIEW REQUIRED FOR PATIENT RECORD: %s\n\n", name)

	if len(r.Issues) > 0 {
		b.WriteString("Validation issues:\n")
		for i, issue := range r.Issues {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, issue)
		}
		b.WriteString("\n")
	}
	if len(r.UnclassifiedPages) > 0 {
		fmt.Fprintf(&b, "Unclassified pages: %s\n", joinInts(r.UnclassifiedPages))
		fmt.Fprintf(&b, "These pages were saved as %q.\n\n", fileUnclassified)
	}

	b.WriteString("Record summary:\n")
	fmt.Fprintf(&b, "  Total pages:        %d\n", len(r.AllPages()))
	fmt.Fprintf(&b, "  History pages:      %s\n", joinInts(r.HistoryPages))
	fmt.Fprintf(&b, "  Identity pages:     %s\n", joinInts(r.IdentityPages))
	fmt.Fprintf(&b, "  Bill pages:         %s\n", joinInts(r.BillPages))
	fmt.Fprintf(&b, "  Unclassified pages: %s\n", joinInts(r.UnclassifiedPages))

	return os.WriteFile(filepath.Join(dir, issuesFileName), []byte(b.String()), 0o644)
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "-"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
