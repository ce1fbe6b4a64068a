// Package assemble segments a corrected page sequence into contiguous
// per-patient record groups.
package assemble

import (
	"github.com/rcastell/legajo/internal/model"
)

// Assembler groups pages into patient records in a single pass
type Assembler struct{}

// NewAssembler creates a new assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble partitions the page sequence into records. A history page
// signals a new patient when the open record already holds two history
// pages, or holds at least one history page together with an identity or
// bill page. Every input page lands in exactly one record bucket.
func (a *Assembler) Assemble(pages []model.Page) []*model.PatientRecord {
	if len(pages) == 0 {
		return nil
	}

	var records []*model.PatientRecord
	current := &model.PatientRecord{}

	for _, page := range pages {
		switch page.Category {
		case model.CategoryHistory:
			if a.closesRecord(current) {
				records = append(records, current)
				current = &model.PatientRecord{}
			}
			current.HistoryPages = append(current.HistoryPages, page.PageNumber)

		case model.CategoryIdentity:
			current.IdentityPages = append(current.IdentityPages, page.PageNumber)

		case model.CategoryBill:
			current.BillPages = append(current.BillPages, page.PageNumber)

		default:
			current.UnclassifiedPages = append(current.UnclassifiedPages, page.PageNumber)
		}
	}

	if !current.IsEmpty() {
		records = append(records, current)
	}

	return records
}

// closesRecord reports whether an incoming history page starts a new
// patient rather than continuing the open record
func (a *Assembler) closesRecord(r *model.PatientRecord) bool {
	if len(r.HistoryPages) >= 2 {
		return true
	}
	return len(r.HistoryPages) > 0 && (len(r.IdentityPages) > 0 || len(r.BillPages) > 0)
}
