// Package filter derives the displayed subset of the repository from
// three independent predicates: free text, category, and status tag.
package filter

import (
	"sort"
	"strings"

	"github.com/LavenderBridge/knowpoint/internal/models"
)

// Filters is the session filter state. Empty fields match everything;
// the three predicates are combined with AND.
type Filters struct {
	Query    string // case-insensitive substring of title or content
	Category string // exact category
	Status   string // lowercase status tag
}

// Clear resets all three predicates together.
func (f *Filters) Clear() {
	f.Query = ""
	f.Category = ""
	f.Status = ""
}

// Matches applies all three predicates to a single record.
func (f Filters) Matches(p models.KnowledgePoint) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Content), q) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status.Tag() != f.Status {
		return false
	}
	return true
}

// Visible returns the records matching the filters, preserving the
// incoming order. It never mutates its input.
func Visible(points []models.KnowledgePoint, f Filters) []models.KnowledgePoint {
	out := make([]models.KnowledgePoint, 0, len(points))
	for _, p := range points {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct non-empty categories, sorted.
// It is recomputed from the live record set on every call; callers
// prepend their own "all categories" sentinel.
func Categories(points []models.KnowledgePoint) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range points {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}
