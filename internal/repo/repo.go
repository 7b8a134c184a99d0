// Package repo holds the in-memory knowledge point repository. It is the
// single source of truth while the process runs; the persistence adapter
// mirrors it to disk. Records are copied out, callers never hold a
// reference into the map.
package repo

import (
	"sort"

	"github.com/LavenderBridge/knowpoint/internal/models"
)

// Repository maps ids to knowledge points and allocates new ids.
type Repository struct {
	points map[int]models.KnowledgePoint
	nextID int
}

// New returns an empty repository whose first allocated id is 1.
func New() *Repository {
	return &Repository{
		points: make(map[int]models.KnowledgePoint),
		nextID: 1,
	}
}

// Get returns a copy of the record and whether it exists.
func (r *Repository) Get(id int) (models.KnowledgePoint, bool) {
	p, ok := r.points[id]
	return p, ok
}

// Put stores the record under its own id. It does not touch the
// allocator; use Allocate for new records.
func (r *Repository) Put(p models.KnowledgePoint) {
	r.points[p.ID] = p
}

// Allocate returns the next id and advances the allocator.
// Ids strictly increase and are never reused within a process lifetime.
func (r *Repository) Allocate() int {
	id := r.nextID
	r.nextID++
	return id
}

// Delete removes the record if present and reports whether it was there.
func (r *Repository) Delete(id int) bool {
	if _, ok := r.points[id]; !ok {
		return false
	}
	delete(r.points, id)
	return true
}

// Len returns the number of records.
func (r *Repository) Len() int {
	return len(r.points)
}

// All returns copies of every record in ascending id order.
func (r *Repository) All() []models.KnowledgePoint {
	out := make([]models.KnowledgePoint, 0, len(r.points))
	for _, p := range r.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Replace swaps in a freshly loaded record set and resets the allocator
// to max(ids)+1, or 1 when the set is empty.
func (r *Repository) Replace(points []models.KnowledgePoint) {
	r.points = make(map[int]models.KnowledgePoint, len(points))
	r.nextID = 1
	for _, p := range points {
		r.points[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
}

// NextID exposes the allocator's next value without advancing it.
func (r *Repository) NextID() int {
	return r.nextID
}
