package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/face-stream/internal/camera/mock"
	"github.com/kozaktomas/face-stream/internal/pipeline"
	"github.com/kozaktomas/face-stream/internal/track"
)

func TestStreamGet_CameraClosed(t *testing.T) {
	pipe, src := testPipeline(t, nil)
	src.Close()
	handler := NewStreamHandler(pipe)

	req := httptest.NewRequest(http.MethodGet, "/video", nil)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	assertStatusCode(t, rec, http.StatusServiceUnavailable)
	assertJSONError(t, rec, errCameraUnavailable)
}

func TestStreamGet_WritesMultipartFrames(t *testing.T) {
	pipe, src := testPipeline(t, [][]track.Box{{track.NewBox(100, 100, 80, 80)}})
	handler := NewStreamHandler(pipe)

	// Let three frames through, then hang up the client.
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0
	src.FrameFn = func(n int) (pipeline.Frame, error) {
		frames = n + 1
		if n >= 2 {
			cancel()
		}
		return mock.NewFrame(640, 480), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/video", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.Get(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Errorf("unexpected content type '%s'", ct)
	}
	if frames < 3 {
		t.Fatalf("expected at least 3 frames, got %d", frames)
	}

	body := rec.Body.Bytes()
	boundaries := bytes.Count(body, []byte("--frame\r\n"))
	if boundaries < 3 {
		t.Errorf("expected at least 3 multipart boundaries, got %d", boundaries)
	}
	if !strings.Contains(rec.Body.String(), "Content-Type: image/jpeg") {
		t.Error("multipart parts missing JPEG content type")
	}
	// Each part carries JPEG magic bytes after its headers.
	if !bytes.Contains(body, []byte{0xff, 0xd8}) {
		t.Error("no JPEG data in stream body")
	}
}

func TestStreamGet_EndsWhenSourceDies(t *testing.T) {
	pipe, src := testPipeline(t, [][]track.Box{{track.NewBox(100, 100, 80, 80)}})
	handler := NewStreamHandler(pipe)

	src.FrameFn = func(n int) (pipeline.Frame, error) {
		if n >= 1 {
			src.Close()
		}
		return mock.NewFrame(640, 480), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/video", nil)
	rec := httptest.NewRecorder()

	// Must return rather than spin once the source closes.
	handler.Get(rec, req)

	if got := bytes.Count(rec.Body.Bytes(), []byte("--frame\r\n")); got < 1 {
		t.Errorf("expected at least one frame before the source died, got %d", got)
	}
}
