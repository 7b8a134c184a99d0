// Package export writes a full snapshot of the repository as a JSON
// array, one object per knowledge point.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/LavenderBridge/knowpoint/internal/models"
)

const dateLayout = "2006-01-02"

// record is the export shape: status as its ordinal, dates as ISO
// strings, an unset last review as the empty string.
type record struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	ImagePath      string `json:"imagePath"`
	Category       string `json:"category"`
	Status         int    `json:"status"`
	MasteryLevel   int    `json:"masteryLevel"`
	CreateDate     string `json:"createDate"`
	LastReviewDate string `json:"lastReviewDate"`
	NextReviewDate string `json:"nextReviewDate"`
	ReviewCount    int    `json:"reviewCount"`
}

// Write renders every point to w as indented JSON.
func Write(w io.Writer, points []models.KnowledgePoint) error {
	records := make([]record, 0, len(points))
	for _, p := range points {
		records = append(records, record{
			ID:             p.ID,
			Title:          p.Title,
			Content:        p.Content,
			ImagePath:      p.ImagePath,
			Category:       p.Category,
			Status:         int(p.Status),
			MasteryLevel:   p.MasteryLevel,
			CreateDate:     formatDate(p.CreateDate),
			LastReviewDate: formatDate(p.LastReviewDate),
			NextReviewDate: formatDate(p.NextReviewDate),
			ReviewCount:    p.ReviewCount,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
