package model

import "fmt"

// Category classifies a scanned page by document type
type Category string

const (
	CategoryUnclassified Category = "unclassified" // No indicator matched
	CategoryHistory      Category = "history"      // Clinical history page
	CategoryIdentity     Category = "identity"     // Identity document page
	CategoryBill         Category = "bill"         // Utility bill page
)

// Categories lists all valid categories in display order
func Categories() []Category {
	return []Category{CategoryHistory, CategoryIdentity, CategoryBill, CategoryUnclassified}
}

// ParseCategory converts a user-supplied name into a Category
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryUnclassified, CategoryHistory, CategoryIdentity, CategoryBill:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q (expected history, identity, bill or unclassified)", s)
}

// Classification is the outcome of classifying one page's text
type Classification struct {
	Category          Category `json:"category"`
	MatchedIndicators []string `json:"matched_indicators,omitempty"` // Configured phrases found in the normalized text
	Confidence        float64  `json:"confidence"`                   // matches / configured indicators for the category
}

// Page represents one scanned page of the bundle
type Page struct {
	PageNumber        int      `json:"page_number"`                  // 1-based position in the bundle
	Category          Category `json:"category"`
	MatchedIndicators []string `json:"matched_indicators,omitempty"` // Empty iff unclassified or rewritten by a rule
	Confidence        float64  `json:"confidence"`
	Text              string   `json:"text,omitempty"`               // Retained for diagnostics only
}

// Is reports whether the page carries the given category
func (p Page) Is(c Category) bool {
	return p.Category == c
}

// AppliedRule records one rule firing during resolution
type AppliedRule struct {
	Rule     string    `json:"rule"`  // Rule name (A..J)
	Index    int       `json:"index"` // Cursor index where the rule matched
	Rewrites []Rewrite `json:"rewrites"`
}

// Rewrite records one category change performed by a rule
type Rewrite struct {
	PageNumber int      `json:"page_number"`
	From       Category `json:"from"`
	To         Category `json:"to"`
}
