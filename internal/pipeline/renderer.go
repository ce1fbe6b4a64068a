package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rcastell/legajo/internal/model"
)

// RenderJSON writes the report as indented JSON. Unless includeText is
// set, OCR text is stripped first to keep reports small.
func RenderJSON(w io.Writer, report *model.BundleReport, includeText bool) error {
	if !includeText {
		stripped := *report
		stripped.Pages = make([]model.Page, len(report.Pages))
		for i, p := range report.Pages {
			p.Text = ""
			stripped.Pages[i] = p
		}
		report = &stripped
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// RenderText writes a human-readable summary of the report
func RenderText(w io.Writer, report *model.BundleReport) {
	fmt.Fprintf(w, "Bundle: %s (%d pages)\n", report.BundlePath, report.TotalPages)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Pages:")
	for _, p := range report.Pages {
		line := fmt.Sprintf("  %3d  %-12s", p.PageNumber, p.Category)
		if len(p.MatchedIndicators) > 0 {
			line += fmt.Sprintf("  (%s)", strings.Join(p.MatchedIndicators, ", "))
		}
		fmt.Fprintln(w, line)
	}

	if len(report.AppliedRules) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Corrections:")
		for _, a := range report.AppliedRules {
			for _, rw := range a.Rewrites {
				fmt.Fprintf(w, "  rule %s: page %d %s -> %s\n", a.Rule, rw.PageNumber, rw.From, rw.To)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Records: %d (%d complete, %d need review)\n",
		report.Stats.TotalRecords, report.Stats.CompleteRecords, report.Stats.RecordsWithIssues)
	for i, r := range report.Records {
		fmt.Fprintf(w, "  record %d: history=%v identity=%v bills=%v", i+1,
			r.HistoryPages, r.IdentityPages, r.BillPages)
		if len(r.UnclassifiedPages) > 0 {
			fmt.Fprintf(w, " unclassified=%v", r.UnclassifiedPages)
		}
		fmt.Fprintln(w)
		for _, issue := range r.Issues {
			fmt.Fprintf(w, "    ! %s\n", issue)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, "Category counts:")
	for _, c := range model.Categories() {
		fmt.Fprintf(w, " %s=%d", c, report.CategoryCounts[c])
	}
	fmt.Fprintln(w)
}
