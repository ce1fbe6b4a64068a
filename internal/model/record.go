package model

import "sort"

// PatientRecord groups the pages belonging to one patient
type PatientRecord struct {
	HistoryPages      []int `json:"history_pages"`
	IdentityPages     []int `json:"identity_pages"`
	BillPages         []int `json:"bill_pages"`
	UnclassifiedPages []int `json:"unclassified_pages"`

	// Issues is recomputed wholesale on every validation pass
	Issues []string `json:"issues"`
}

// AllPages returns every page number in the record, sorted
func (r *PatientRecord) AllPages() []int {
	all := make([]int, 0, len(r.HistoryPages)+len(r.IdentityPages)+len(r.BillPages)+len(r.UnclassifiedPages))
	all = append(all, r.HistoryPages...)
	all = append(all, r.IdentityPages...)
	all = append(all, r.BillPages...)
	all = append(all, r.UnclassifiedPages...)
	sort.Ints(all)
	return all
}

// IsComplete reports whether all three required document types are present
func (r *PatientRecord) IsComplete() bool {
	return len(r.HistoryPages) > 0 && len(r.IdentityPages) > 0 && len(r.BillPages) > 0
}

// HasIssues reports whether the record needs human review
func (r *PatientRecord) HasIssues() bool {
	return len(r.Issues) > 0 || len(r.UnclassifiedPages) > 0
}

// IsEmpty reports whether the record holds no pages at all
func (r *PatientRecord) IsEmpty() bool {
	return len(r.HistoryPages) == 0 && len(r.IdentityPages) == 0 &&
		len(r.BillPages) == 0 && len(r.UnclassifiedPages) == 0
}

// RecordStats summarizes a record set for reporting
type RecordStats struct {
	TotalRecords       int     `json:"total_records"`
	CompleteRecords    int     `json:"complete_records"`
	RecordsWithIssues  int     `json:"records_with_issues"`
	CompletionRate     float64 `json:"completion_rate"`
	AvgPagesPerRecord  float64 `json:"avg_pages_per_record"`
	UnclassifiedPages  int     `json:"unclassified_pages"`
}

// BuildStats computes aggregate statistics over a record set
func BuildStats(records []*PatientRecord) RecordStats {
	stats := RecordStats{TotalRecords: len(records)}
	if len(records) == 0 {
		return stats
	}

	totalPages := 0
	for _, r := range records {
		if r.IsComplete() {
			stats.CompleteRecords++
		}
		if r.HasIssues() {
			stats.RecordsWithIssues++
		}
		totalPages += len(r.AllPages())
		stats.UnclassifiedPages += len(r.UnclassifiedPages)
	}

	stats.CompletionRate = float64(stats.CompleteRecords) / float64(len(records))
	stats.AvgPagesPerRecord = float64(totalPages) / float64(len(records))
	return stats
}
