// Package resolve repairs locally ambiguous page classifications using
// context from neighboring pages. Rules are organized in four sequential
// phases; each phase is a single left-to-right scan over the page buffer.
package resolve

import (
	"github.com/rcastell/legajo/internal/model"
)

// RuleFunc inspects the buffer at cursor i. If the rule's precondition
// holds it performs its rewrites and returns the next cursor position;
// otherwise it returns ok=false and the scan tries the next rule.
type RuleFunc func(b *Buffer, i int) (next int, ok bool)

// Rule pairs a rule name with its precondition-check-and-mutate function
type Rule struct {
	Name string
	Fn   RuleFunc
}

// Resolver applies the rewrite phases in their fixed order.
// Phase order and rule order within a phase are load-bearing: earlier
// rules take precedence when several preconditions hold at one cursor.
type Resolver struct {
	phases [][]Rule
}

// NewResolver creates a resolver with the standard rule phases
func NewResolver() *Resolver {
	return &Resolver{
		phases: [][]Rule{
			{
				{"A", ruleA},
				{"B", ruleB},
				{"C", ruleC},
				{"D", ruleD},
				{"E", ruleE},
				{"F", ruleF},
				{"G", ruleG},
			},
			{{"H", ruleH}},
			{{"I", ruleI}},
			{{"J", ruleJ}},
		},
	}
}

// Resolve returns a corrected copy of the page sequence along with a log
// of every rule application. The input is never mutated; length and page
// numbers are preserved.
func (r *Resolver) Resolve(pages []model.Page) ([]model.Page, []model.AppliedRule) {
	b := newBuffer(pages)
	for _, phase := range r.phases {
		b.scan(phase)
	}
	return b.pages, b.applied
}

// Buffer is the mutable token buffer rules operate on
type Buffer struct {
	pages   []model.Page
	applied []model.AppliedRule
	pending model.AppliedRule
}

func newBuffer(pages []model.Page) *Buffer {
	copied := make([]model.Page, len(pages))
	copy(copied, pages)
	return &Buffer{pages: copied}
}

// scan runs one phase: at each cursor the rules are tried in order; the
// first match advances the cursor past the pages it consumed, otherwise
// the cursor moves forward by one.
func (b *Buffer) scan(rules []Rule) {
	i := 0
	for i < len(b.pages) {
		matched := false
		for _, rule := range rules {
			b.pending = model.AppliedRule{Rule: rule.Name, Index: i}
			if next, ok := rule.Fn(b, i); ok {
				b.applied = append(b.applied, b.pending)
				i = next
				matched = true
				break
			}
		}
		if !matched {
			i++
		}
	}
}

// is reports whether index i is in bounds and holds category c
func (b *Buffer) is(i int, c model.Category) bool {
	return i >= 0 && i < len(b.pages) && b.pages[i].Category == c
}

func (b *Buffer) isUnclassified(i int) bool {
	return b.is(i, model.CategoryUnclassified)
}

// set rewrites the category at index i. Rule-driven rewrites do not
// re-derive indicators, so matched indicators and confidence are cleared.
func (b *Buffer) set(i int, c model.Category) {
	b.pending.Rewrites = append(b.pending.Rewrites, model.Rewrite{
		PageNumber: b.pages[i].PageNumber,
		From:       b.pages[i].Category,
		To:         c,
	})
	b.pages[i].Category = c
	b.pages[i].MatchedIndicators = nil
	b.pages[i].Confidence = 0
}

// historyWithin reports whether a history page occurs in the lookback
// positions immediately before i
func (b *Buffer) historyWithin(i, lookback int) bool {
	start := i - lookback
	if start < 0 {
		start = 0
	}
	for j := start; j < i; j++ {
		if b.is(j, model.CategoryHistory) {
			return true
		}
	}
	return false
}
