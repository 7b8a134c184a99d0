// Package engine orchestrates the review lifecycle: it owns the
// repository, applies review outcomes through the scheduler, flushes
// snapshots through the persistence adapter, and keeps the filtered
// view the display surface renders.
package engine

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/LavenderBridge/knowpoint/internal/filter"
	"github.com/LavenderBridge/knowpoint/internal/imagestore"
	"github.com/LavenderBridge/knowpoint/internal/models"
	"github.com/LavenderBridge/knowpoint/internal/repo"
	"github.com/LavenderBridge/knowpoint/internal/schedule"
	"github.com/LavenderBridge/knowpoint/internal/store"
)

// Review outcome deltas the display surface sends. The engine accepts
// any integer; these are the three the buttons map to.
const (
	DeltaFamiliar = 10
	DeltaVague    = -5
	DeltaForgot   = -10
)

// Stats are the counters the display surface shows.
type Stats struct {
	Total    int
	Due      int
	Learning int
	Mastered int
}

// Snapshot is what a refresh hands to the display surface: the filtered
// records, the category choices, and the counters.
type Snapshot struct {
	Points     []models.KnowledgePoint
	Categories []string
	Stats      Stats
}

// Engine is the single-writer owner of all mutable state. It is not
// safe for concurrent use; everything runs on one logical thread in
// direct response to a caller operation.
type Engine struct {
	repo   *repo.Repository
	sched  *schedule.Scheduler
	store  *store.Store
	images *imagestore.Store
	log    *zap.Logger

	filters  filter.Filters
	visible  Snapshot
	listener func(Snapshot)

	// refreshing suppresses nested refreshes: a listener reacting to a
	// snapshot may call back into the engine, and that inner refresh
	// must be a no-op rather than a recursion.
	refreshing bool

	now func() time.Time
}

// Options tunes a new Engine. Store is required.
type Options struct {
	Store     *store.Store
	Images    *imagestore.Store
	Intervals []int
	Logger    *zap.Logger
	Now       func() time.Time // test hook, defaults to time.Now
}

// New loads the persisted record set and returns a ready engine.
func New(opts Options) (*Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	e := &Engine{
		repo:   repo.New(),
		sched:  schedule.New(opts.Intervals),
		store:  opts.Store,
		images: opts.Images,
		log:    log,
		now:    now,
	}

	points, _, err := e.store.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("engine: load: %w", err)
	}
	e.repo.Replace(points)
	log.Info("loaded knowledge points", zap.Int("count", e.repo.Len()))

	e.Refresh()
	return e, nil
}

// Close releases the persistence backend.
func (e *Engine) Close() error {
	return e.store.Close()
}

// SetListener registers the display-surface callback invoked with every
// fresh snapshot.
func (e *Engine) SetListener(fn func(Snapshot)) {
	e.listener = fn
}

// Get returns a copy of one record.
func (e *Engine) Get(id int) (models.KnowledgePoint, error) {
	p, ok := e.repo.Get(id)
	if !ok {
		return models.KnowledgePoint{}, ErrNotFound
	}
	return p, nil
}

// All returns copies of every record in ascending id order.
func (e *Engine) All() []models.KnowledgePoint {
	return e.repo.All()
}

// Add creates a new point with lifecycle defaults: NEW, zero mastery,
// zero reviews, first review due tomorrow. The image is copied into
// managed storage before the record is built. Persists immediately.
func (e *Engine) Add(title, content, imagePath, category string) (models.KnowledgePoint, error) {
	if strings.TrimSpace(title) == "" {
		return models.KnowledgePoint{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}

	today := models.Day(e.now())
	p := models.KnowledgePoint{
		ID:             e.repo.Allocate(),
		Title:          title,
		Content:        content,
		ImagePath:      e.copyImage(imagePath),
		Category:       category,
		Status:         models.StatusNew,
		MasteryLevel:   0,
		CreateDate:     today,
		NextReviewDate: today.AddDate(0, 0, 1),
		ReviewCount:    0,
	}
	e.repo.Put(p)
	e.log.Info("added knowledge point", zap.Int("id", p.ID), zap.String("title", p.Title))

	err := e.persist()
	e.Refresh()
	return p, err
}

// Edit overwrites the four editable fields and leaves every scheduling
// field untouched. Edits are deliberately not persisted here; call
// Flush when durability is needed. A replaced managed image is removed.
func (e *Engine) Edit(id int, title, content, imagePath, category string) (models.KnowledgePoint, error) {
	p, ok := e.repo.Get(id)
	if !ok {
		return models.KnowledgePoint{}, ErrNotFound
	}
	if strings.TrimSpace(title) == "" {
		return models.KnowledgePoint{}, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}

	if imagePath != p.ImagePath {
		old := p.ImagePath
		p.ImagePath = e.copyImage(imagePath)
		if e.images != nil && e.images.Owns(old) {
			e.images.Remove(old)
		}
	}

	p.Title = title
	p.Content = content
	p.Category = category
	e.repo.Put(p)

	e.Refresh()
	return p, nil
}

// Review applies one review outcome. A vague or forgot outcome resets
// the review streak; any other delta advances it. Mastery absorbs the
// delta clamped to 0-100, the next review date comes from the scheduler
// over the updated values, and status is re-derived. Every review
// triggers a full synchronous flush.
func (e *Engine) Review(id int, delta int) (models.KnowledgePoint, error) {
	p, ok := e.repo.Get(id)
	if !ok {
		return models.KnowledgePoint{}, ErrNotFound
	}

	today := models.Day(e.now())
	p.LastReviewDate = today
	if delta == DeltaVague || delta == DeltaForgot {
		p.ReviewCount = 0
	} else {
		p.ReviewCount++
	}
	p.MasteryLevel = models.ClampMastery(p.MasteryLevel + delta)
	p.NextReviewDate = e.sched.NextReviewDate(p.MasteryLevel, p.ReviewCount, today)
	p.Status = schedule.DeriveStatus(p.MasteryLevel)
	e.repo.Put(p)

	e.log.Info("reviewed knowledge point",
		zap.Int("id", p.ID),
		zap.Int("delta", delta),
		zap.Int("mastery", p.MasteryLevel),
		zap.Int("reviewCount", p.ReviewCount),
		zap.String("status", p.Status.Tag()))

	err := e.persist()
	e.Refresh()
	return p, err
}

// Delete removes the record and its managed image file. Deleting an
// absent id is a silent no-op. The removed image path is returned.
func (e *Engine) Delete(id int) (string, error) {
	p, ok := e.repo.Get(id)
	if !ok {
		return "", nil
	}

	e.repo.Delete(id)
	if p.ImagePath != "" && e.images != nil {
		e.images.Remove(p.ImagePath)
	}
	e.log.Info("deleted knowledge point", zap.Int("id", id))

	err := e.persist()
	e.Refresh()
	return p.ImagePath, err
}

// SetStatus is the explicit override path for assigning status without
// a review outcome. Mastery is deliberately left alone.
func (e *Engine) SetStatus(id int, status models.Status) (models.KnowledgePoint, error) {
	if !status.Valid() {
		return models.KnowledgePoint{}, fmt.Errorf("%w: unknown status %d", ErrInvalidInput, status)
	}
	p, ok := e.repo.Get(id)
	if !ok {
		return models.KnowledgePoint{}, ErrNotFound
	}

	p.Status = status
	e.repo.Put(p)

	err := e.persist()
	e.Refresh()
	return p, err
}

// SetMasteryLevel clamps the level, re-derives status, and leaves the
// next review date untouched.
func (e *Engine) SetMasteryLevel(id int, level int) (models.KnowledgePoint, error) {
	p, ok := e.repo.Get(id)
	if !ok {
		return models.KnowledgePoint{}, ErrNotFound
	}

	p.MasteryLevel = models.ClampMastery(level)
	p.Status = schedule.DeriveStatus(p.MasteryLevel)
	e.repo.Put(p)

	err := e.persist()
	e.Refresh()
	return p, err
}

// Flush persists the full repository. This is the explicit durability
// point for deferred writes such as edits.
func (e *Engine) Flush() error {
	return e.persist()
}

// persist flushes everything. On failure the in-memory repository stays
// the source of truth; the error is logged and surfaced wrapped in
// ErrStorage so callers can warn that durability lags memory.
func (e *Engine) persist() error {
	if err := e.store.SaveAll(e.repo.All()); err != nil {
		e.log.Error("persistence flush failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}

// copyImage routes a path through the image store when one is attached.
func (e *Engine) copyImage(path string) string {
	if path == "" || e.images == nil {
		return path
	}
	return e.images.CopyToStorage(path)
}

// SetQuery updates the free-text predicate and rebuilds the view.
func (e *Engine) SetQuery(q string) {
	e.filters.Query = q
	e.Refresh()
}

// SetCategoryFilter updates the category predicate and rebuilds the view.
func (e *Engine) SetCategoryFilter(category string) {
	e.filters.Category = category
	e.Refresh()
}

// SetStatusFilter updates the status predicate and rebuilds the view.
func (e *Engine) SetStatusFilter(tag string) {
	e.filters.Status = tag
	e.Refresh()
}

// ClearFilters resets all three predicates together and rebuilds.
func (e *Engine) ClearFilters() {
	e.filters.Clear()
	e.Refresh()
}

// Filters returns the current filter state.
func (e *Engine) Filters() filter.Filters {
	return e.filters
}

// Visible returns the last snapshot built by Refresh.
func (e *Engine) Visible() Snapshot {
	return e.visible
}

// Refresh rebuilds the visible snapshot and notifies the listener.
// While a refresh is in progress, nested calls return false immediately
// instead of queueing; the flag is released on every exit path.
func (e *Engine) Refresh() bool {
	if e.refreshing {
		return false
	}
	e.refreshing = true
	defer func() { e.refreshing = false }()

	all := e.repo.All()
	e.visible = Snapshot{
		Points:     filter.Visible(all, e.filters),
		Categories: filter.Categories(all),
		Stats:      e.stats(all),
	}
	if e.listener != nil {
		e.listener(e.visible)
	}
	return true
}

// DueToday returns the records due for review right now.
func (e *Engine) DueToday() []models.KnowledgePoint {
	today := e.now()
	var due []models.KnowledgePoint
	for _, p := range e.repo.All() {
		if p.Due(today) {
			due = append(due, p)
		}
	}
	return due
}

// Stats recomputes the counters from the full repository.
func (e *Engine) Stats() Stats {
	return e.stats(e.repo.All())
}

func (e *Engine) stats(points []models.KnowledgePoint) Stats {
	s := Stats{Total: len(points)}
	today := e.now()
	for _, p := range points {
		switch {
		case p.Status == models.StatusLearning:
			s.Learning++
		case p.Status == models.StatusMastered:
			s.Mastered++
		case p.Due(today):
			s.Due++
		}
	}
	return s
}
