// Package llm generates optional review notes for flagged records.
// The model only writes prose for human reviewers; it never changes page
// classifications or record boundaries.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcastell/legajo/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// ReviewNotes generates reviewer guidance for one flagged record
	ReviewNotes(ctx context.Context, req ReviewRequest) (*ReviewResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ReviewRequest contains the input for note generation
type ReviewRequest struct {
	// Record is the flagged patient record
	Record *model.PatientRecord

	// Pages are the pages belonging to the record, with their categories
	// and matched indicators
	Pages []model.Page

	// Prompt overrides the default prompt when non-empty
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ReviewResponse contains the generated notes
type ReviewResponse struct {
	Notes      string
	Model      string
	TokensUsed int
}

// BuildPrompt constructs the default review-note prompt for one record
func BuildPrompt(record *model.PatientRecord, pages []model.Page) string {
	var b strings.Builder

	b.WriteString(`You are helping an archivist review one patient record split out of a scanned veterinary document bundle. Each record should contain clinical history pages, one owner identity page and utility bill pages.

RULES:
1. Only discuss the pages and issues listed below. Do not invent pages or content.
2. Suggest what the reviewer should check, not what the correct answer is.
3. Keep it to 3-4 sentences.

`)

	fmt.Fprintf(&b, "Record: history=%s identity=%s bills=%s unclassified=%s\n",
		pageList(record.HistoryPages), pageList(record.IdentityPages),
		pageList(record.BillPages), pageList(record.UnclassifiedPages))

	if len(record.Issues) > 0 {
		b.WriteString("Issues:\n")
		for _, issue := range record.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	if len(pages) > 0 {
		b.WriteString("Pages:\n")
		for _, p := range pages {
			fmt.Fprintf(&b, "- page %d: %s", p.PageNumber, p.Category)
			if len(p.MatchedIndicators) > 0 {
				fmt.Fprintf(&b, " (matched: %s)", strings.Join(p.MatchedIndicators, ", "))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\nWrite the review notes.")
	return b.String()
}

func pageList(pages []int) string {
	if len(pages) == 0 {
		return "none"
	}
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ",")
}
