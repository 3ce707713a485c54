package chatstream

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

type stubGenerator struct {
	deltas []string
	err    error
	calls  int
}

func (s *stubGenerator) StreamText(ctx context.Context, system, user string, temperature float64, onDelta func(string) error) (string, error) {
	s.calls++
	var full strings.Builder
	for _, d := range s.deltas {
		full.WriteString(d)
		if err := onDelta(d); err != nil {
			return full.String(), err
		}
	}
	return full.String(), s.err
}

func collect(t *testing.T, ch <-chan string) []string {
	t.Helper()
	var out []string
	timeout := time.After(2 * time.Second)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, chunk)
		case <-timeout:
			t.Fatalf("stream did not terminate; got so far: %v", out)
		}
	}
}

func TestStreamStripsLeadingWhitespaceFromFirstChunkOnly(t *testing.T) {
	gen := &stubGenerator{deltas: []string{"  Bonjour", " tout", " le monde"}}
	s := NewStreamer(logger.NewNop(), gen)

	got := collect(t, s.Stream(context.Background(), "", "prompt", 0.3))

	want := []string{"Bonjour", " tout", " le monde"}
	if len(got) != len(want) {
		t.Fatalf("chunks: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("chunk %d: want=%q got=%q", i, want[i], got[i])
		}
	}
}

func TestStreamSkipsAllWhitespaceFirstChunks(t *testing.T) {
	gen := &stubGenerator{deltas: []string{"  ", "\n", "Salut"}}
	s := NewStreamer(logger.NewNop(), gen)

	got := collect(t, s.Stream(context.Background(), "", "prompt", 0.3))

	if len(got) != 1 || got[0] != "Salut" {
		t.Fatalf("chunks: want=[Salut] got=%v", got)
	}
}

func TestStreamConvertsErrorIntoFinalIncrement(t *testing.T) {
	gen := &stubGenerator{
		deltas: []string{"Début "},
		err:    errors.New("provider exploded"),
	}
	s := NewStreamer(logger.NewNop(), gen)

	got := collect(t, s.Stream(context.Background(), "", "prompt", 0.3))

	if len(got) != 2 {
		t.Fatalf("chunks: want 2 got=%v", got)
	}
	last := got[len(got)-1]
	if !strings.HasPrefix(last, "Error processing your question: ") {
		t.Fatalf("final increment: got=%q", last)
	}
	if !strings.Contains(last, "provider exploded") {
		t.Fatalf("final increment should carry the error message: got=%q", last)
	}
}

func TestStreamChannelAlwaysCloses(t *testing.T) {
	gen := &stubGenerator{deltas: []string{"a", "b"}}
	s := NewStreamer(logger.NewNop(), gen)

	ch := s.Stream(context.Background(), "", "prompt", 0.3)
	collect(t, ch)

	if _, ok := <-ch; ok {
		t.Fatalf("channel must be closed after the stream ends")
	}
}

func TestStreamAbandonsOnCancelledContext(t *testing.T) {
	gen := &stubGenerator{deltas: []string{"a", "b", "c"}}
	s := NewStreamer(logger.NewNop(), gen)

	ctx, cancel := context.WithCancel(context.Background())
	ch := s.Stream(ctx, "", "prompt", 0.3)

	if chunk := <-ch; chunk != "a" {
		t.Fatalf("first chunk: want=%q got=%q", "a", chunk)
	}
	cancel()

	// The channel must close without an error increment; cancellation is not
	// a user-visible failure.
	timeout := time.After(2 * time.Second)
	for {
		select {
		case chunk, ok := <-ch:
			if !ok {
				return
			}
			if strings.HasPrefix(chunk, "Error processing your question") {
				t.Fatalf("cancellation must not produce an error increment: %q", chunk)
			}
		case <-timeout:
			t.Fatalf("stream did not terminate after cancel")
		}
	}
}
