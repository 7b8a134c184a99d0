package schedule

import (
	"time"

	"github.com/LavenderBridge/knowpoint/internal/models"
)

// DefaultIntervals is the memory-curve lookup: day offsets indexed by
// review count for points still below the high-confidence threshold.
var DefaultIntervals = []int{1, 2, 4, 7, 15, 30, 60, 90}

// Thresholds for the mastery state machine and the dynamic interval formula.
const (
	masteredLevel   = 100
	reviewingLevel  = 50
	confidenceLevel = 99
	baseInterval    = 30
)

// Scheduler computes next review dates from an interval table.
// The zero value is not usable; construct with New.
type Scheduler struct {
	intervals []int
}

// New returns a Scheduler over the given interval table.
// A nil or empty table falls back to DefaultIntervals.
func New(intervals []int) *Scheduler {
	if len(intervals) == 0 {
		intervals = DefaultIntervals
	}
	return &Scheduler{intervals: intervals}
}

// Intervals returns the table the scheduler was built with.
func (s *Scheduler) Intervals() []int {
	return s.intervals
}

// NextReviewDate computes when the point should come up again.
// Below the confidence threshold it walks the interval table by review
// count, clamping the index to the last entry once the count outruns the
// table. At or above the threshold the interval is computed dynamically:
// 30 days plus 5 for each full 10 points of mastery still missing.
func (s *Scheduler) NextReviewDate(masteryLevel, reviewCount int, today time.Time) time.Time {
	day := models.Day(today)

	if masteryLevel < confidenceLevel {
		idx := reviewCount
		if idx < 0 {
			idx = 0
		}
		if idx >= len(s.intervals) {
			idx = len(s.intervals) - 1
		}
		return day.AddDate(0, 0, s.intervals[idx])
	}

	levelFactor := (masteredLevel - masteryLevel) / 10
	return day.AddDate(0, 0, baseInterval+levelFactor*5)
}

// DeriveStatus maps a mastery level onto the lifecycle status.
// Status is a pure function of mastery everywhere except the initial
// NEW state, which only exists before the first review.
func DeriveStatus(masteryLevel int) models.Status {
	switch {
	case masteryLevel >= masteredLevel:
		return models.StatusMastered
	case masteryLevel >= reviewingLevel:
		return models.StatusReviewing
	default:
		return models.StatusLearning
	}
}
