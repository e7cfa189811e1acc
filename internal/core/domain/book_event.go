package domain

import "time"

const (
	BookCreated = "created"
	BookUpdated = "updated"
	BookDeleted = "deleted"
)

// MutationMetadata travels with every write so the stored history can point
// back at the request that caused it.
type MutationMetadata struct {
	RequestID  string
	OccurredAt time.Time
}

func (m MutationMetadata) Normalize() MutationMetadata {
	if m.OccurredAt.IsZero() {
		m.OccurredAt = time.Now().UTC()
	}
	return m
}

// BookEvent is one row of a book's change history.
type BookEvent struct {
	ID         int64     `json:"id"`
	EventID    string    `json:"event_id"`
	ISBN       string    `json:"isbn"`
	Action     string    `json:"action"`
	RequestID  string    `json:"request_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type BookEventFilter struct {
	ISBN    string
	AfterID int64
	Limit   int
}
