// Package store persists the repository through a key-value backend.
// The on-disk layout is flat: a knowledgeCount key plus one key per
// field per record, prefixed point_{index}_ in next-review order.
package store

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/LavenderBridge/knowpoint/internal/kv"
	"github.com/LavenderBridge/knowpoint/internal/models"
)

const (
	countKey    = "knowledgeCount"
	pointPrefix = "point_"
	dateLayout  = "2006-01-02"
)

// Store writes and reads full repository snapshots.
type Store struct {
	kv  kv.Store
	log *zap.Logger
}

// New wraps a KV backend. A nil logger is replaced with a no-op one.
func New(backend kv.Store, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: backend, log: log}
}

// Close releases the underlying backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// SaveAll rewrites the complete record set. Records are written in
// ascending next-review-date order; the sort is stable so ties keep
// their incoming order. All previously indexed keys are pruned first so
// a shrinking record set leaves no orphans behind.
func (s *Store) SaveAll(points []models.KnowledgePoint) error {
	sorted := make([]models.KnowledgePoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].NextReviewDate.Before(sorted[j].NextReviewDate)
	})

	if err := s.kv.DeletePrefix(pointPrefix); err != nil {
		return fmt.Errorf("store: prune indexed keys: %w", err)
	}
	if err := s.kv.Set(countKey, strconv.Itoa(len(sorted))); err != nil {
		return fmt.Errorf("store: write count: %w", err)
	}

	for i, p := range sorted {
		prefix := fmt.Sprintf("%s%d_", pointPrefix, i)
		fields := map[string]string{
			"id":             strconv.Itoa(p.ID),
			"title":          p.Title,
			"content":        p.Content,
			"imagePath":      p.ImagePath,
			"category":       p.Category,
			"status":         strconv.Itoa(int(p.Status)),
			"masteryLevel":   strconv.Itoa(p.MasteryLevel),
			"createDate":     formatDate(p.CreateDate),
			"lastReviewDate": formatDate(p.LastReviewDate),
			"nextReviewDate": formatDate(p.NextReviewDate),
			"reviewCount":    strconv.Itoa(p.ReviewCount),
		}
		for name, value := range fields {
			if err := s.kv.Set(prefix+name, value); err != nil {
				return fmt.Errorf("store: write %s%s: %w", prefix, name, err)
			}
		}
	}
	return nil
}

// LoadAll reads every surviving record and the allocator's next id.
// Malformed entries are skipped, never fatal: an index missing its id or
// title key is dropped outright, remaining fields default permissively,
// and assembled records with a non-positive id or empty title are
// discarded.
func (s *Store) LoadAll() ([]models.KnowledgePoint, int, error) {
	raw, ok, err := s.kv.Get(countKey)
	if err != nil {
		return nil, 0, fmt.Errorf("store: read count: %w", err)
	}
	count := 0
	if ok {
		count, _ = strconv.Atoi(raw)
	}

	var points []models.KnowledgePoint
	nextID := 1

	for i := 0; i < count; i++ {
		prefix := fmt.Sprintf("%s%d_", pointPrefix, i)

		idRaw, idOK, err := s.kv.Get(prefix + "id")
		if err != nil {
			return nil, 0, fmt.Errorf("store: read %sid: %w", prefix, err)
		}
		title, titleOK, err := s.kv.Get(prefix + "title")
		if err != nil {
			return nil, 0, fmt.Errorf("store: read %stitle: %w", prefix, err)
		}
		if !idOK || !titleOK {
			s.log.Warn("skipping incomplete entry", zap.Int("index", i))
			continue
		}

		p := models.KnowledgePoint{
			Title:          title,
			Content:        s.getString(prefix + "content"),
			ImagePath:      s.getString(prefix + "imagePath"),
			Category:       s.getString(prefix + "category"),
			Status:         models.Status(s.getInt(prefix + "status")),
			MasteryLevel:   s.getInt(prefix + "masteryLevel"),
			CreateDate:     s.getDate(prefix + "createDate"),
			LastReviewDate: s.getDate(prefix + "lastReviewDate"),
			NextReviewDate: s.getDate(prefix + "nextReviewDate"),
			ReviewCount:    s.getInt(prefix + "reviewCount"),
		}
		p.ID, _ = strconv.Atoi(idRaw)

		if p.ID <= 0 || p.Title == "" {
			s.log.Warn("skipping invalid knowledge point",
				zap.Int("id", p.ID), zap.String("title", p.Title))
			continue
		}

		points = append(points, p)
		if p.ID >= nextID {
			nextID = p.ID + 1
		}
	}

	return points, nextID, nil
}

func (s *Store) getString(key string) string {
	v, _, _ := s.kv.Get(key)
	return v
}

func (s *Store) getInt(key string) int {
	v, ok, _ := s.kv.Get(key)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

func (s *Store) getDate(key string) time.Time {
	v, ok, _ := s.kv.Get(key)
	if !ok || v == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// formatDate renders a day-resolution date; the zero time (an unset
// last review) becomes the empty string.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
