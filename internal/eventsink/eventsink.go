// Package eventsink provides lifecycle.EventSink implementations: LogSink,
// which publishes every committed Observation as a structured log line, and
// ChannelSink, a buffered in-memory fan-out used by tests and local
// single-process viewers (a TUI attaching to a running simulator, say)
// that want the commit-order event stream without standing up a broker.
// Grounded on the teacher's internal/server/hand_history package, which
// likewise turns committed game events into both a log record and a
// subscriber-facing stream.
package eventsink

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/lox/zapzap/internal/engine"
)

// LogSink publishes observations through charmbracelet/log, the same
// logging library used throughout the rest of the module.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink constructs a LogSink. A nil logger defaults to stderr.
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.New(os.Stderr)
	}
	return &LogSink{logger: logger.With("component", "eventsink")}
}

func (s *LogSink) Publish(_ context.Context, obs *engine.Observation) error {
	s.logger.Info("observation",
		"party", obs.PartyID,
		"round", obs.RoundNumber,
		"actor", obs.Actor,
		"type", obs.Type,
	)
	return nil
}

// ChannelSink publishes onto a buffered channel, preserving commit order
// (spec §5 Ordering): Publish blocks once the buffer fills, applying
// backpressure to whatever drove the match rather than silently dropping
// events.
type ChannelSink struct {
	ch chan *engine.Observation
}

// NewChannelSink constructs a ChannelSink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{ch: make(chan *engine.Observation, buffer)}
}

func (s *ChannelSink) Publish(ctx context.Context, obs *engine.Observation) error {
	select {
	case s.ch <- obs:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("eventsink: publish cancelled: %w", ctx.Err())
	}
}

// Events exposes the receive side for subscribers.
func (s *ChannelSink) Events() <-chan *engine.Observation {
	return s.ch
}

// Close signals no further observations will be published. Callers must
// ensure no concurrent Publish call is in flight.
func (s *ChannelSink) Close() {
	close(s.ch)
}
