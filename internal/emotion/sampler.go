package emotion

import (
	"context"
	"math"
)

// Sampler selects the best emotion label for a face crop, degrading to the
// neutral sentinel on any failure. A nil classifier is valid and means
// classification is disabled; Predict then always returns the sentinel.
//
// The sampling cadence (classify only every Nth frame) is the pipeline's
// responsibility, not the Sampler's.
type Sampler struct {
	classifier Classifier
	vocabulary map[string]struct{}
}

// NewSampler creates a Sampler over an optional classifier. Labels outside
// the given vocabulary are ignored when picking the winner; an empty
// vocabulary accepts any label the classifier returns.
func NewSampler(classifier Classifier, labels []string) *Sampler {
	vocab := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		vocab[l] = struct{}{}
	}
	return &Sampler{classifier: classifier, vocabulary: vocab}
}

// Enabled reports whether a classifier backend is configured.
func (s *Sampler) Enabled() bool {
	return s.classifier != nil
}

// Name returns the configured backend name, or "none".
func (s *Sampler) Name() string {
	if s.classifier == nil {
		return "none"
	}
	return s.classifier.Name()
}

// Predict returns the winning label and its confidence for a JPEG-encoded
// face crop. It never fails: missing classifier, empty region, classifier
// errors, out-of-vocabulary labels, and non-finite or out-of-range scores
// all collapse to ("neutral", 0.0).
func (s *Sampler) Predict(ctx context.Context, region []byte) (string, float64) {
	if s.classifier == nil || len(region) == 0 {
		return Neutral, 0.0
	}

	scores, err := s.classifier.Classify(ctx, region)
	if err != nil || len(scores) == 0 {
		return Neutral, 0.0
	}

	best, bestScore := "", math.Inf(-1)
	for label, score := range scores {
		if !s.inVocabulary(label) {
			continue
		}
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		// Deterministic winner when scores tie.
		if score > bestScore || (score == bestScore && label < best) {
			best, bestScore = label, score
		}
	}
	if best == "" {
		return Neutral, 0.0
	}

	return best, clampConfidence(bestScore)
}

func (s *Sampler) inVocabulary(label string) bool {
	if len(s.vocabulary) == 0 {
		return true
	}
	_, ok := s.vocabulary[label]
	return ok
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
