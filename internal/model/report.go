package model

import "time"

// BundleReport is the complete diagnostic report for one scanned bundle
type BundleReport struct {
	BundlePath string    `json:"bundle_path"`
	ScannedAt  time.Time `json:"scanned_at"`
	TotalPages int       `json:"total_pages"`

	Pages        []Page           `json:"pages"`         // Corrected page sequence
	AppliedRules []AppliedRule    `json:"applied_rules"` // Resolver diagnostics
	Records      []*PatientRecord `json:"records"`
	Stats        RecordStats      `json:"stats"`

	// CategoryCounts maps each category to its page count after resolution
	CategoryCounts map[Category]int `json:"category_counts"`
}

// CountCategories tallies pages per category
func CountCategories(pages []Page) map[Category]int {
	counts := make(map[Category]int, 4)
	for _, p := range pages {
		counts[p.Category]++
	}
	return counts
}
