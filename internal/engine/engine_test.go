package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavenderBridge/knowpoint/internal/imagestore"
	"github.com/LavenderBridge/knowpoint/internal/kv"
	"github.com/LavenderBridge/knowpoint/internal/models"
	"github.com/LavenderBridge/knowpoint/internal/schedule"
	"github.com/LavenderBridge/knowpoint/internal/store"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func testToday() time.Time {
	return models.Day(testNow)
}

// newTestEngine builds an engine over an in-memory backend with a
// fixed clock. The backend is returned so tests can reopen the data.
func newTestEngine(t *testing.T) (*Engine, kv.Store) {
	t.Helper()
	backend, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	eng, err := New(Options{
		Store: store.New(backend, nil),
		Now:   func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return eng, backend
}

// reopen builds a second engine over the same backend, simulating a
// process restart.
func reopen(t *testing.T, backend kv.Store) *Engine {
	t.Helper()
	eng, err := New(Options{
		Store: store.New(backend, nil),
		Now:   func() time.Time { return testNow },
	})
	require.NoError(t, err)
	return eng
}

// seed persists one record directly and reopens the engine over it.
func seed(t *testing.T, backend kv.Store, p models.KnowledgePoint) *Engine {
	t.Helper()
	require.NoError(t, store.New(backend, nil).SaveAll([]models.KnowledgePoint{p}))
	return reopen(t, backend)
}

func TestAdd_LifecycleDefaults(t *testing.T) {
	eng, _ := newTestEngine(t)

	p, err := eng.Add("Binary Search", "Divide and conquer", "", "Programming")
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, models.StatusNew, p.Status)
	assert.Equal(t, 0, p.MasteryLevel)
	assert.Equal(t, 0, p.ReviewCount)
	assert.Equal(t, testToday(), p.CreateDate)
	assert.Equal(t, testToday().AddDate(0, 0, 1), p.NextReviewDate)
	assert.True(t, p.LastReviewDate.IsZero())
}

func TestAdd_EmptyTitleRejected(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Add("", "x", "", "cat")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = eng.Add("   ", "x", "", "cat")
	assert.ErrorIs(t, err, ErrInvalidInput, "whitespace-only counts as empty")

	assert.Empty(t, eng.All(), "repository size unchanged after a declined add")
}

func TestAdd_PersistsImmediately(t *testing.T) {
	eng, backend := newTestEngine(t)
	_, err := eng.Add("Sorting", "", "", "")
	require.NoError(t, err)

	again := reopen(t, backend)
	require.Len(t, again.All(), 1)
	assert.Equal(t, "Sorting", again.All()[0].Title)
}

func TestReview_SuccessfulRecallAdvancesStreak(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", Status: models.StatusLearning,
		MasteryLevel: 40, ReviewCount: 2,
		CreateDate: testToday(), NextReviewDate: testToday(),
	})

	p, err := eng.Review(1, DeltaFamiliar)
	require.NoError(t, err)

	assert.Equal(t, 50, p.MasteryLevel)
	assert.Equal(t, models.StatusReviewing, p.Status, "crossing 50 moves to reviewing")
	assert.Equal(t, 3, p.ReviewCount)
	assert.Equal(t, testToday(), p.LastReviewDate)
	assert.Equal(t, testToday().AddDate(0, 0, schedule.DefaultIntervals[3]), p.NextReviewDate)
}

func TestReview_ForgotResetsStreak(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", Status: models.StatusReviewing,
		MasteryLevel: 60, ReviewCount: 4,
		CreateDate: testToday(), NextReviewDate: testToday(),
	})

	p, err := eng.Review(1, DeltaForgot)
	require.NoError(t, err)

	assert.Equal(t, 50, p.MasteryLevel)
	assert.Equal(t, 0, p.ReviewCount, "forgot resets the streak")
	assert.Equal(t, models.StatusReviewing, p.Status, "50 is still reviewing")
	assert.Equal(t, testToday().AddDate(0, 0, schedule.DefaultIntervals[0]), p.NextReviewDate)
}

func TestReview_VagueAlsoResetsStreak(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", Status: models.StatusReviewing,
		MasteryLevel: 70, ReviewCount: 3,
		CreateDate: testToday(), NextReviewDate: testToday(),
	})

	p, err := eng.Review(1, DeltaVague)
	require.NoError(t, err)
	assert.Equal(t, 65, p.MasteryLevel)
	assert.Equal(t, 0, p.ReviewCount)
}

func TestReview_MasteryClampedAtBothEnds(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", MasteryLevel: 5, ReviewCount: 0,
		Status: models.StatusLearning, CreateDate: testToday(), NextReviewDate: testToday(),
	})

	p, err := eng.Review(1, DeltaForgot)
	require.NoError(t, err)
	assert.Equal(t, 0, p.MasteryLevel)

	p, err = eng.Review(1, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, p.MasteryLevel)
	assert.Equal(t, models.StatusMastered, p.Status)
}

func TestReview_ZeroDeltaKeepsMastery(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", MasteryLevel: 60, ReviewCount: 0,
		Status: models.StatusReviewing, CreateDate: testToday(), NextReviewDate: testToday(),
	})

	// A zero delta is not a negative-recall sentinel: the streak keeps
	// advancing while mastery and status hold still.
	for i := 1; i <= 3; i++ {
		p, err := eng.Review(1, 0)
		require.NoError(t, err)
		assert.Equal(t, 60, p.MasteryLevel)
		assert.Equal(t, models.StatusReviewing, p.Status)
		assert.Equal(t, i, p.ReviewCount)
	}
}

func TestReview_NotFound(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.Review(42, DeltaFamiliar)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReview_Persists(t *testing.T) {
	eng, backend := newTestEngine(t)
	p, err := eng.Add("t", "", "", "")
	require.NoError(t, err)
	_, err = eng.Review(p.ID, DeltaFamiliar)
	require.NoError(t, err)

	again := reopen(t, backend)
	got, err := again.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.MasteryLevel)
	assert.Equal(t, 1, got.ReviewCount)
}

func TestEdit_OnlyDescriptiveFields(t *testing.T) {
	_, backend := newTestEngine(t)
	orig := models.KnowledgePoint{
		ID: 1, Title: "before", Content: "old", Category: "cat",
		Status: models.StatusReviewing, MasteryLevel: 55, ReviewCount: 2,
		CreateDate:     testToday().AddDate(0, 0, -30),
		LastReviewDate: testToday().AddDate(0, 0, -7),
		NextReviewDate: testToday().AddDate(0, 0, 7),
	}
	eng := seed(t, backend, orig)

	p, err := eng.Edit(1, "after", "new", "", "newcat")
	require.NoError(t, err)

	assert.Equal(t, "after", p.Title)
	assert.Equal(t, "new", p.Content)
	assert.Equal(t, "newcat", p.Category)
	// Scheduling state untouched.
	assert.Equal(t, orig.Status, p.Status)
	assert.Equal(t, orig.MasteryLevel, p.MasteryLevel)
	assert.Equal(t, orig.ReviewCount, p.ReviewCount)
	assert.Equal(t, orig.NextReviewDate, p.NextReviewDate)
	assert.Equal(t, orig.LastReviewDate, p.LastReviewDate)
}

func TestEdit_DeferredUntilFlush(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "before", CreateDate: testToday(), NextReviewDate: testToday(),
	})

	_, err := eng.Edit(1, "after", "", "", "")
	require.NoError(t, err)

	// Not persisted yet.
	stale := reopen(t, backend)
	got, err := stale.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "before", got.Title)

	// Flush is the durability point.
	require.NoError(t, eng.Flush())
	fresh := reopen(t, backend)
	got, err = fresh.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
}

func TestEdit_Errors(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.Edit(9, "t", "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := eng.Add("keep", "", "", "")
	require.NoError(t, err)
	_, err = eng.Edit(p.ID, "  ", "", "", "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := eng.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Title, "declined edit mutates nothing")
}

func TestDelete_RemovesAndPersists(t *testing.T) {
	eng, backend := newTestEngine(t)
	p, err := eng.Add("gone", "", "", "")
	require.NoError(t, err)

	_, err = eng.Delete(p.ID)
	require.NoError(t, err)
	assert.Empty(t, eng.All())

	again := reopen(t, backend)
	assert.Empty(t, again.All(), "deletion survives a save/load cycle")
}

func TestDelete_MissingIsSilentNoOp(t *testing.T) {
	eng, _ := newTestEngine(t)
	path, err := eng.Delete(12345)
	assert.NoError(t, err)
	assert.Equal(t, "", path)
}

func TestDelete_ReturnsImagePathAndRemovesFile(t *testing.T) {
	backend, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	images, err := imagestore.New(filepath.Join(t.TempDir(), "images"))
	require.NoError(t, err)

	eng, err := New(Options{
		Store:  store.New(backend, nil),
		Images: images,
		Now:    func() time.Time { return testNow },
	})
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(src, []byte("png"), 0o644))

	p, err := eng.Add("with image", "", src, "")
	require.NoError(t, err)
	require.NotEqual(t, src, p.ImagePath, "image is copied into managed storage")
	_, err = os.Stat(p.ImagePath)
	require.NoError(t, err)

	gone, err := eng.Delete(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ImagePath, gone)
	_, err = os.Stat(gone)
	assert.True(t, os.IsNotExist(err), "backing file removed with the record")
}

func TestSetStatus_OverrideWithoutTouchingMastery(t *testing.T) {
	_, backend := newTestEngine(t)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", Status: models.StatusLearning, MasteryLevel: 30,
		CreateDate: testToday(), NextReviewDate: testToday(),
	})

	p, err := eng.SetStatus(1, models.StatusMastered)
	require.NoError(t, err)
	assert.Equal(t, models.StatusMastered, p.Status)
	assert.Equal(t, 30, p.MasteryLevel, "the override does not recompute mastery")

	_, err = eng.SetStatus(1, models.Status(9))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = eng.SetStatus(99, models.StatusNew)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetMasteryLevel(t *testing.T) {
	_, backend := newTestEngine(t)
	next := testToday().AddDate(0, 0, 15)
	eng := seed(t, backend, models.KnowledgePoint{
		ID: 1, Title: "t", Status: models.StatusLearning, MasteryLevel: 30,
		CreateDate: testToday(), NextReviewDate: next,
	})

	p, err := eng.SetMasteryLevel(1, 75)
	require.NoError(t, err)
	assert.Equal(t, 75, p.MasteryLevel)
	assert.Equal(t, models.StatusReviewing, p.Status, "status re-derived")
	assert.Equal(t, next, p.NextReviewDate, "next review date untouched")

	p, err = eng.SetMasteryLevel(1, 250)
	require.NoError(t, err)
	assert.Equal(t, 100, p.MasteryLevel)
	assert.Equal(t, models.StatusMastered, p.Status)

	p, err = eng.SetMasteryLevel(1, -20)
	require.NoError(t, err)
	assert.Equal(t, 0, p.MasteryLevel)
	assert.Equal(t, models.StatusLearning, p.Status)
}

func TestRefresh_NestedCallsSuppressed(t *testing.T) {
	eng, _ := newTestEngine(t)

	var nested []bool
	eng.SetListener(func(Snapshot) {
		// A display surface reacting to the snapshot may call back in;
		// the inner refresh must be a no-op.
		nested = append(nested, eng.Refresh())
	})

	ok := eng.Refresh()
	assert.True(t, ok)
	require.Len(t, nested, 1)
	assert.False(t, nested[0])

	// The guard is released after the refresh completes.
	eng.SetListener(nil)
	assert.True(t, eng.Refresh())
}

func TestFiltersAndSnapshot(t *testing.T) {
	eng, _ := newTestEngine(t)
	_, err := eng.Add("Binary Search", "Divide and conquer", "", "Programming")
	require.NoError(t, err)
	_, err = eng.Add("Photosynthesis", "Biology basics", "", "Biology")
	require.NoError(t, err)

	snap := eng.Visible()
	assert.Len(t, snap.Points, 2, "match-all sentinels show everything")
	assert.Equal(t, []string{"Biology", "Programming"}, snap.Categories)

	eng.SetQuery("binary")
	require.Len(t, eng.Visible().Points, 1)
	assert.Equal(t, "Binary Search", eng.Visible().Points[0].Title)

	eng.SetCategoryFilter("Biology")
	assert.Empty(t, eng.Visible().Points, "predicates AND together")

	eng.ClearFilters()
	assert.Len(t, eng.Visible().Points, 2)
	assert.Equal(t, "", eng.Filters().Query)
}

func TestStatsAndDueToday(t *testing.T) {
	_, backend := newTestEngine(t)
	st := store.New(backend, nil)
	require.NoError(t, st.SaveAll([]models.KnowledgePoint{
		{ID: 1, Title: "due", Status: models.StatusReviewing, NextReviewDate: testToday().AddDate(0, 0, -1), CreateDate: testToday()},
		{ID: 2, Title: "later", Status: models.StatusReviewing, NextReviewDate: testToday().AddDate(0, 0, 5), CreateDate: testToday()},
		{ID: 3, Title: "learning", Status: models.StatusLearning, NextReviewDate: testToday(), CreateDate: testToday()},
		{ID: 4, Title: "done", Status: models.StatusMastered, NextReviewDate: testToday().AddDate(0, 0, -2), CreateDate: testToday()},
	}))
	eng := reopen(t, backend)

	stats := eng.Stats()
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Due, "only reviewing points past their date are due")
	assert.Equal(t, 1, stats.Learning)
	assert.Equal(t, 1, stats.Mastered)

	due := eng.DueToday()
	require.Len(t, due, 1)
	assert.Equal(t, 1, due[0].ID)
}

// failingKV wraps a working backend but refuses writes.
type failingKV struct {
	kv.Store
}

func (f failingKV) Set(key, value string) error {
	return errors.New("disk full")
}

func TestStorageFailure_MemoryStaysAuthoritative(t *testing.T) {
	backend, err := kv.OpenBadger(kv.BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	eng, err := New(Options{
		Store: store.New(failingKV{backend}, nil),
		Now:   func() time.Time { return testNow },
	})
	require.NoError(t, err)

	p, err := eng.Add("unsaved", "", "", "")
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, 1, p.ID, "the record is returned despite the failed flush")

	got, err := eng.Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "unsaved", got.Title, "in-memory effect is not rolled back")
}
