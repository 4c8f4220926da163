// Package emotion classifies the emotion of a cropped face region. The
// classifier itself is a pluggable provider; the Sampler wraps it with a
// best-effort policy so classification can never take the frame pipeline
// down.
package emotion

import "context"

// Neutral is the sentinel label used whenever classification is skipped,
// unavailable, or fails.
const Neutral = "neutral"

// DefaultLabels is the emotion vocabulary used when no configuration
// overrides it.
var DefaultLabels = []string{"angry", "disgust", "fear", "happy", "sad", "surprise", Neutral}

// Classifier defines the interface for emotion classification backends.
// Classify receives a JPEG-encoded face crop and returns a score per label.
// Implementations are free to return a subset of the vocabulary; the Sampler
// picks the arg-max.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, imageData []byte) (map[string]float64, error)
}
