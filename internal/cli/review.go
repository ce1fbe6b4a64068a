package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rcastell/legajo/internal/model"
	"github.com/rcastell/legajo/internal/pipeline"
)

// TerminalCorrector implements pipeline.Corrector with an interactive
// terminal session. The reviewer can re-label individual pages and then
// decides whether the split proceeds.
type TerminalCorrector struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalCorrector creates a corrector reading answers from in
func NewTerminalCorrector(in io.Reader, out io.Writer) *TerminalCorrector {
	return &TerminalCorrector{in: bufio.NewReader(in), out: out}
}

// Review shows the flagged records, offers page re-labeling and asks
// whether to proceed.
func (t *TerminalCorrector) Review(ctx context.Context, pages []model.Page, records []*model.PatientRecord, labels []string) (*pipeline.Correction, error) {
	fmt.Fprintln(t.out)
	fmt.Fprintln(t.out, "Some records need review before extraction:")
	for i, r := range records {
		if !r.HasIssues() {
			continue
		}
		label := fmt.Sprintf("record %d", i+1)
		if i < len(labels) {
			label = fmt.Sprintf("record %d (%s)", i+1, labels[i])
		}
		fmt.Fprintf(t.out, "  %s: history=%v identity=%v bills=%v unclassified=%v\n",
			label, r.HistoryPages, r.IdentityPages, r.BillPages, r.UnclassifiedPages)
		for _, issue := range r.Issues {
			fmt.Fprintf(t.out, "    ! %s\n", issue)
		}
	}
	fmt.Fprintln(t.out)

	corrected := make([]model.Page, len(pages))
	copy(corrected, pages)
	changed := false

	for {
		answer, err := t.ask("Re-label a page? Enter 'page category' (e.g. '7 identity'), or press enter to finish: ")
		if err != nil {
			return nil, err
		}
		if answer == "" {
			break
		}

		var pageNum int
		var catName string
		if _, err := fmt.Sscanf(answer, "%d %s", &pageNum, &catName); err != nil {
			fmt.Fprintf(t.out, "Could not parse %q\n", answer)
			continue
		}
		if pageNum < 1 || pageNum > len(corrected) {
			fmt.Fprintf(t.out, "Page %d is out of range (bundle has %d pages)\n", pageNum, len(corrected))
			continue
		}
		category, err := model.ParseCategory(catName)
		if err != nil {
			fmt.Fprintln(t.out, err)
			continue
		}

		p := &corrected[pageNum-1]
		fmt.Fprintf(t.out, "Page %d: %s -> %s\n", pageNum, p.Category, category)
		p.Category = category
		p.MatchedIndicators = nil
		p.Confidence = 0
		changed = true
	}

	answer, err := t.ask("Proceed with the split? [y/N]: ")
	if err != nil {
		return nil, err
	}
	proceed := strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")

	correction := &pipeline.Correction{Proceed: proceed}
	if changed {
		correction.Pages = corrected
	}
	return correction, nil
}

func (t *TerminalCorrector) ask(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
