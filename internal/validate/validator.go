// Package validate checks assembled patient records against the expected
// document structure and annotates them with human-readable issues.
package validate

import (
	"github.com/rcastell/legajo/internal/model"
)

// Issue strings emitted by the validator. Unclassified pages add no issue
// of their own; they flag the record through PatientRecord.HasIssues.
const (
	IssueMissingHistory      = "missing history pages"
	IssueMissingIdentity     = "missing identity pages"
	IssueMissingBill         = "missing bill pages"
	IssueTooManyHistory      = "more than 2 history pages found"
	IssueTooManyIdentity     = "more than 1 identity page found"
	IssueTooManyBill         = "more than 2 bill pages found"
	IssueIdentityWithoutHist = "identity pages found without corresponding history pages"
	IssueBillWithoutHistory  = "bill pages found without corresponding history pages"
	IssueBillWithoutIdentity = "bill pages found without corresponding identity pages"
)

// Validator recomputes structural issues for patient records
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate recomputes each record's issue list in place, fully replacing
// any prior issues. Validation never fails; it only produces diagnostics.
func (v *Validator) Validate(records []*model.PatientRecord) []*model.PatientRecord {
	for _, r := range records {
		r.Issues = v.check(r)
	}
	return records
}

func (v *Validator) check(r *model.PatientRecord) []string {
	var issues []string

	if len(r.HistoryPages) == 0 {
		issues = append(issues, IssueMissingHistory)
	}
	if len(r.IdentityPages) == 0 {
		issues = append(issues, IssueMissingIdentity)
	}
	if len(r.BillPages) == 0 {
		issues = append(issues, IssueMissingBill)
	}

	if len(r.HistoryPages) > 2 {
		issues = append(issues, IssueTooManyHistory)
	}
	if len(r.IdentityPages) > 1 {
		issues = append(issues, IssueTooManyIdentity)
	}
	if len(r.BillPages) > 2 {
		issues = append(issues, IssueTooManyBill)
	}

	if len(r.HistoryPages) == 0 && len(r.IdentityPages) > 0 {
		issues = append(issues, IssueIdentityWithoutHist)
	}
	if len(r.HistoryPages) == 0 && len(r.BillPages) > 0 {
		issues = append(issues, IssueBillWithoutHistory)
	}
	if len(r.IdentityPages) == 0 && len(r.BillPages) > 0 {
		issues = append(issues, IssueBillWithoutIdentity)
	}

	return issues
}
