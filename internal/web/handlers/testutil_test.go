package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/kozaktomas/face-stream/internal/camera/mock"
	"github.com/kozaktomas/face-stream/internal/config"
	"github.com/kozaktomas/face-stream/internal/emotion"
	"github.com/kozaktomas/face-stream/internal/pipeline"
	"github.com/kozaktomas/face-stream/internal/track"
)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Emotion: config.EmotionConfig{
			Provider: "ollama",
			Every:    5,
		},
		Tracker: config.TrackerConfig{
			MaxDisappeared: 15,
			MaxDistance:    80,
		},
		Labels: config.LabelsConfig{
			Labels: emotion.DefaultLabels,
		},
	}
}

// testPipeline creates a pipeline over a mock camera producing the scripted
// detections. The source is returned so tests can close it.
func testPipeline(t *testing.T, script [][]track.Box) (*pipeline.Pipeline, *mock.Source) {
	t.Helper()
	src := mock.NewSource()
	det := &mock.Detector{Script: script}
	pipe := pipeline.New(src, det, track.NewDefault(),
		emotion.NewSampler(nil, emotion.DefaultLabels), nil, pipeline.Options{})
	return pipe, src
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
