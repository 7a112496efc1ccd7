package projection

import "time"

// Metadata captures persistence timestamps the aggregate itself does not own.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection pairs an aggregate with the metadata its repository tracks.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New wraps entity with the given timestamps.
func New[T any](entity T, createdAt, updatedAt time.Time) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt}}
}
