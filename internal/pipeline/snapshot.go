package pipeline

import (
	"sync/atomic"
	"time"

	"github.com/kozaktomas/face-stream/internal/track"
)

// Result is the per-person output of one tick.
type Result struct {
	PersonID   int       `json:"person_id"`
	Box        track.Box `json:"bbox"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
}

// Snapshot is the latest published pipeline output: the annotated frame as
// JPEG bytes and one Result per tracked face. Snapshots are immutable once
// published; a new tick produces a new value.
type Snapshot struct {
	JPEG       []byte
	Faces      []Result
	CapturedAt time.Time
}

// Cache holds the most recent Snapshot. The pipeline is the only writer;
// any number of readers may load concurrently. Replacement is an atomic
// pointer swap, so a reader sees either the previous or the new snapshot,
// never a mix.
type Cache struct {
	current atomic.Pointer[Snapshot]
}

// Publish replaces the stored snapshot.
func (c *Cache) Publish(s *Snapshot) {
	c.current.Store(s)
}

// Load returns the latest snapshot, or nil if none has been published yet.
func (c *Cache) Load() *Snapshot {
	return c.current.Load()
}
