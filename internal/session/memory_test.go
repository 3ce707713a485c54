package session

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "github.com/benboulanger/agent-platform/internal/pkg/errors"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

func newTestStore(timeout time.Duration) (*MemoryStore, *time.Time) {
	s := NewMemoryStore(logger.NewNop(), timeout)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func TestHistoryMissingSessionIsEmpty(t *testing.T) {
	s, _ := newTestStore(0)

	turns, err := s.History(context.Background(), "nope")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("history: want empty got=%v", turns)
	}
}

func TestAppendTurnCreatesSession(t *testing.T) {
	s, _ := newTestStore(0)
	ctx := context.Background()

	if err := s.AppendTurn(ctx, "s1", Turn{Role: RoleUser, Content: "salut"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.AppendTurn(ctx, "s1", Turn{Role: RoleAssistant, Content: "bonjour"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	turns, err := s.History(ctx, "s1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("turns: want=2 got=%d", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Content != "salut" {
		t.Fatalf("turn 0: got=%+v", turns[0])
	}
	if turns[1].Role != RoleAssistant || turns[1].Content != "bonjour" {
		t.Fatalf("turn 1: got=%+v", turns[1])
	}
	if turns[0].Timestamp.IsZero() {
		t.Fatalf("timestamp should be stamped on append")
	}
}

func TestHistoryReturnsACopy(t *testing.T) {
	s, _ := newTestStore(0)
	ctx := context.Background()

	_ = s.AppendTurn(ctx, "s1", Turn{Role: RoleUser, Content: "original"})
	turns, _ := s.History(ctx, "s1")
	turns[0].Content = "mutated"

	again, _ := s.History(ctx, "s1")
	if again[0].Content != "original" {
		t.Fatalf("stored turn mutated through the returned slice")
	}
}

func TestInfoReportsCountsAndTimes(t *testing.T) {
	s, now := newTestStore(0)
	ctx := context.Background()

	created := *now
	_ = s.AppendTurn(ctx, "s1", Turn{Role: RoleUser, Content: "a"})
	*now = now.Add(5 * time.Minute)
	_ = s.AppendTurn(ctx, "s1", Turn{Role: RoleAssistant, Content: "b"})

	info, err := s.Info(ctx, "s1")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	if info.ID != "s1" || info.TurnCount != 2 {
		t.Fatalf("info: got=%+v", info)
	}
	if !info.CreatedAt.Equal(created) {
		t.Fatalf("created_at: want=%v got=%v", created, info.CreatedAt)
	}
	if !info.LastActivity.Equal(*now) {
		t.Fatalf("last_activity: want=%v got=%v", *now, info.LastActivity)
	}
}

func TestInfoMissingSessionIsNotFound(t *testing.T) {
	s, _ := newTestStore(0)

	if _, err := s.Info(context.Background(), "nope"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("info: want ErrNotFound got=%v", err)
	}
}

func TestResetRemovesSession(t *testing.T) {
	s, _ := newTestStore(0)
	ctx := context.Background()

	_ = s.AppendTurn(ctx, "s1", Turn{Role: RoleUser, Content: "a"})
	if err := s.Reset(ctx, "s1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := s.Info(ctx, "s1"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("session should be gone after reset, got err=%v", err)
	}
	// Resetting an unknown session is a no-op, not an error.
	if err := s.Reset(ctx, "nope"); err != nil {
		t.Fatalf("reset unknown: %v", err)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	s, now := newTestStore(2 * time.Hour)
	ctx := context.Background()

	_ = s.AppendTurn(ctx, "stale", Turn{Role: RoleUser, Content: "a"})
	*now = now.Add(90 * time.Minute)
	_ = s.AppendTurn(ctx, "fresh", Turn{Role: RoleUser, Content: "b"})

	// 2h01m after the stale session's last activity, 31m after the fresh one.
	*now = now.Add(31 * time.Minute)
	if removed := s.Sweep(ctx); removed != 1 {
		t.Fatalf("sweep: want=1 removed got=%d", removed)
	}
	if _, err := s.Info(ctx, "stale"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("stale session should be swept, got err=%v", err)
	}
	if _, err := s.Info(ctx, "fresh"); err != nil {
		t.Fatalf("fresh session should survive, got err=%v", err)
	}
}

func TestSweepActivityRefreshesExpiry(t *testing.T) {
	s, now := newTestStore(2 * time.Hour)
	ctx := context.Background()

	_ = s.AppendTurn(ctx, "s1", Turn{Role: RoleUser, Content: "a"})
	*now = now.Add(119 * time.Minute)
	_ = s.AppendTurn(ctx, "s1", Turn{Role: RoleUser, Content: "b"})

	*now = now.Add(119 * time.Minute)
	if removed := s.Sweep(ctx); removed != 0 {
		t.Fatalf("sweep: want=0 removed got=%d", removed)
	}
}
