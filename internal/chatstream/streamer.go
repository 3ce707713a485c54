package chatstream

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/benboulanger/agent-platform/internal/clients/openai"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

// Generator is the slice of the OpenAI client the streamer needs.
type Generator interface {
	StreamText(ctx context.Context, system string, user string, temperature float64, onDelta func(delta string) error) (string, error)
}

var _ Generator = (openai.Client)(nil)

// Streamer turns a model streaming call into a channel of text increments.
// The stream always terminates cleanly: mid-stream provider failures become
// one final user-visible increment instead of a broken connection.
type Streamer struct {
	log *logger.Logger
	llm Generator
}

func NewStreamer(log *logger.Logger, llm Generator) *Streamer {
	return &Streamer{
		log: log.With("component", "ChatStreamer"),
		llm: llm,
	}
}

// Stream starts the model call and returns a channel of increments. Leading
// whitespace is stripped from the first non-empty increment only. The channel
// is closed when the stream ends; cancel ctx to abandon the provider stream
// when the consumer stops reading.
func (s *Streamer) Stream(ctx context.Context, system, user string, temperature float64) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)

		first := true
		send := func(chunk string) error {
			select {
			case out <- chunk:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		_, err := s.llm.StreamText(ctx, system, user, temperature, func(delta string) error {
			if first {
				delta = strings.TrimLeft(delta, " \t\r\n")
				if delta == "" {
					return nil
				}
				first = false
			}
			return send(delta)
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.log.Debug("stream abandoned", "error", err)
				return
			}
			s.log.Error("stream failed", "error", err)
			_ = send(fmt.Sprintf("Error processing your question: %s", err.Error()))
		}
	}()

	return out
}
