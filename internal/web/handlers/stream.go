package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/kozaktomas/face-stream/internal/pipeline"
)

// StreamHandler serves the annotated camera feed as an MJPEG stream
type StreamHandler struct {
	pipe *pipeline.Pipeline
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(pipe *pipeline.Pipeline) *StreamHandler {
	return &StreamHandler{pipe: pipe}
}

// Get streams annotated frames until the client disconnects. Every connected
// client drives the pipeline; ticks are serialized inside it, so several
// viewers share one camera.
func (h *StreamHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.pipe.IsReady() {
		respondError(w, http.StatusServiceUnavailable, errCameraUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	connID := uuid.New().String()[:8]
	log.Printf("[stream %s] client connected from %s", connID, r.RemoteAddr)
	defer log.Printf("[stream %s] client disconnected", connID)

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		snap, err := h.pipe.Tick(r.Context())
		if err != nil {
			// Headers are already out, so the stream just ends.
			if !errors.Is(err, pipeline.ErrSourceUnavailable) {
				log.Printf("[stream %s] tick failed: %v", connID, err)
			}
			return
		}

		if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(snap.JPEG)); err != nil {
			return
		}
		if _, err := w.Write(snap.JPEG); err != nil {
			return
		}
		if _, err := fmt.Fprint(w, "\r\n"); err != nil {
			return
		}
		flusher.Flush()
	}
}
