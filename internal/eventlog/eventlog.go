// Package eventlog records emotion samples to an append-only sink. The
// pipeline treats the log as best-effort: a failing sink degrades
// observability, never availability.
package eventlog

import "context"

// Event is one sampled emotion for one tracked person.
type Event struct {
	TS         float64 `json:"ts"` // unix seconds
	PersonID   int     `json:"person_id"`
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// Sink is an append-only destination for emotion events.
type Sink interface {
	Append(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Append(ctx context.Context, ev Event) error { return nil }
func (Nop) Close() error                               { return nil }
