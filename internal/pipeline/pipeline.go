// Package pipeline turns raw camera frames into annotated JPEG snapshots:
// capture, face detection, identity tracking, periodic emotion sampling,
// annotation and encoding, published to a shared snapshot cache.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/kozaktomas/face-stream/internal/emotion"
	"github.com/kozaktomas/face-stream/internal/eventlog"
	"github.com/kozaktomas/face-stream/internal/track"
)

var (
	// ErrSourceUnavailable means the frame source could not be opened or is
	// no longer open. The pipeline stays in this state until the source is
	// replaced.
	ErrSourceUnavailable = errors.New("frame source unavailable")
	// ErrFrameRead means a single capture failed; subsequent ticks may
	// succeed again.
	ErrFrameRead = errors.New("failed to read frame")
)

// Frame is one captured image. Implementations own the underlying pixel
// buffer; Close releases it.
type Frame interface {
	Bounds() image.Rectangle
	// Annotate draws the bounding box and its label onto the frame.
	Annotate(box track.Box, label string)
	// EncodeJPEG encodes the whole frame.
	EncodeJPEG() ([]byte, error)
	// EncodeRegion encodes the face crop for classification. The box is
	// clipped to the frame; a region with no area is an error.
	EncodeRegion(box track.Box) ([]byte, error)
	Close()
}

// Source produces frames from a capture device. It is owned exclusively by
// the pipeline — capture handles are not safe to share.
type Source interface {
	IsOpened() bool
	Read() (Frame, error)
	Close() error
}

// Detector finds faces in a frame.
type Detector interface {
	Detect(f Frame) []track.Box
}

// DefaultEmotionEvery is the default sampling period: emotions are
// classified on every fifth tick, not every tick, to amortize the cost of
// the classifier against cheap detection and tracking.
const DefaultEmotionEvery = 5

// Options tune pipeline behavior beyond its collaborators.
type Options struct {
	// EmotionEvery is the sampling period in ticks; values below 1 fall
	// back to the default.
	EmotionEvery int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Pipeline drives one frame source through detection, tracking, emotion
// sampling, annotation and encoding, and publishes the result. Ticks are
// serialized internally; the capture device cannot handle concurrent reads.
type Pipeline struct {
	mu      sync.Mutex
	source  Source
	det     Detector
	tracker *track.Tracker
	sampler *emotion.Sampler
	events  eventlog.Sink
	cache   Cache

	every int
	ticks int
	now   func() time.Time
}

// New creates a pipeline. A nil events sink discards events.
func New(source Source, det Detector, tracker *track.Tracker, sampler *emotion.Sampler, events eventlog.Sink, opts Options) *Pipeline {
	if events == nil {
		events = eventlog.Nop{}
	}
	every := opts.EmotionEvery
	if every < 1 {
		every = DefaultEmotionEvery
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		source:  source,
		det:     det,
		tracker: tracker,
		sampler: sampler,
		events:  events,
		every:   every,
		now:     now,
	}
}

// IsReady reports whether the frame source is open.
func (p *Pipeline) IsReady() bool {
	return p.source.IsOpened()
}

// Latest returns the most recent snapshot, running exactly one tick to
// produce an initial one when nothing has been published yet.
func (p *Pipeline) Latest(ctx context.Context) (*Snapshot, error) {
	if s := p.cache.Load(); s != nil {
		return s, nil
	}
	return p.Tick(ctx)
}

// Tick runs one full capture-to-publish cycle and returns the published
// snapshot. Classifier failures degrade to the neutral sentinel; only
// source-level failures are returned.
func (p *Pipeline) Tick(ctx context.Context) (*Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.source.IsOpened() {
		return nil, ErrSourceUnavailable
	}

	frame, err := p.source.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFrameRead, err)
	}
	defer frame.Close()

	boxes := p.det.Detect(frame)
	objects := p.tracker.Update(boxes)
	p.ticks++
	sampling := p.ticks%p.every == 0
	capturedAt := p.now()

	results := make([]Result, 0, len(objects))
	for _, id := range p.tracker.IDs() {
		box := objects[id].Clamp()

		label, conf := emotion.Neutral, 0.0
		if sampling {
			region, err := frame.EncodeRegion(box)
			if err == nil {
				label, conf = p.sampler.Predict(ctx, region)
				p.logEvent(ctx, capturedAt, id, label, conf)
			}
		}

		results = append(results, Result{
			PersonID:   id,
			Box:        box,
			Emotion:    label,
			Confidence: conf,
		})
		frame.Annotate(box, fmt.Sprintf("ID %d: %s (%.2f)", id, label, conf))
	}

	jpeg, err := frame.EncodeJPEG()
	if err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}

	snap := &Snapshot{JPEG: jpeg, Faces: results, CapturedAt: capturedAt}
	p.cache.Publish(snap)
	return snap, nil
}

// logEvent appends one emotion sample; sink failures are logged and
// swallowed so a broken log cannot stall the stream.
func (p *Pipeline) logEvent(ctx context.Context, ts time.Time, personID int, label string, conf float64) {
	ev := eventlog.Event{
		TS:         float64(ts.UnixNano()) / float64(time.Second),
		PersonID:   personID,
		Emotion:    label,
		Confidence: conf,
	}
	if err := p.events.Append(ctx, ev); err != nil {
		log.Printf("event log append failed: %v", err)
	}
}

// Close releases the frame source.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source.Close()
}
