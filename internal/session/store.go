package session

import (
	"context"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTimeout is how long a session stays in the active set without
// activity.
const DefaultTimeout = 2 * time.Hour

// Turn is one conversation entry, appended in strict chronological order.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Info is the session metadata surfaced by the session-info endpoint.
type Info struct {
	ID           string    `json:"session_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	TurnCount    int       `json:"message_count"`
}

// Store owns sessions for their in-memory lifetime. Implementations must be
// safe for concurrent use across sessions.
type Store interface {
	// History returns the session's turns in chronological order. A missing
	// session yields an empty history, not an error.
	History(ctx context.Context, id string) ([]Turn, error)
	// AppendTurn appends a turn and refreshes last-activity, creating the
	// session when absent.
	AppendTurn(ctx context.Context, id string, turn Turn) error
	// Info returns metadata for an existing session, or errors.ErrNotFound.
	Info(ctx context.Context, id string) (*Info, error)
	// Reset deletes the session if present.
	Reset(ctx context.Context, id string) error
	// Sweep removes expired sessions and returns how many were dropped.
	// Called opportunistically on each new query.
	Sweep(ctx context.Context) int
}
