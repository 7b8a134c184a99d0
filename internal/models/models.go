package models

import "time"

// Status tracks where a knowledge point sits in the review lifecycle.
// The ordinal values are part of the persisted format, do not reorder.
type Status int

const (
	StatusNew Status = iota
	StatusLearning
	StatusReviewing
	StatusMastered
)

// Tag returns the lowercase tag used by filters and the CLI.
func (s Status) Tag() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusLearning:
		return "learning"
	case StatusReviewing:
		return "reviewing"
	case StatusMastered:
		return "mastered"
	}
	return "unknown"
}

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	return s >= StatusNew && s <= StatusMastered
}

// ParseStatusTag maps a lowercase tag back to its Status.
// The second return is false for anything that is not one of the four tags.
func ParseStatusTag(tag string) (Status, bool) {
	switch tag {
	case "new":
		return StatusNew, true
	case "learning":
		return StatusLearning, true
	case "reviewing":
		return StatusReviewing, true
	case "mastered":
		return StatusMastered, true
	}
	return 0, false
}

// KnowledgePoint is a single tracked study item.
// Dates are day-resolution; LastReviewDate stays zero until the first review.
type KnowledgePoint struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ImagePath      string    `json:"imagePath"`
	Category       string    `json:"category"`
	Status         Status    `json:"status"`
	MasteryLevel   int       `json:"masteryLevel"` // 0-100
	CreateDate     time.Time `json:"createDate"`
	LastReviewDate time.Time `json:"lastReviewDate"`
	NextReviewDate time.Time `json:"nextReviewDate"`
	ReviewCount    int       `json:"reviewCount"`
}

// Due reports whether the point needs review on the given day:
// in the reviewing state with a next review date on or before it.
func (p KnowledgePoint) Due(today time.Time) bool {
	return p.Status == StatusReviewing && !p.NextReviewDate.After(Day(today))
}

// Day truncates t to midnight UTC. All scheduling works on whole days.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ClampMastery keeps a mastery level inside 0-100.
func ClampMastery(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}
