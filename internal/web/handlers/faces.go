package handlers

import (
	"net/http"

	"github.com/kozaktomas/face-stream/internal/pipeline"
)

// FacesHandler serves the latest face tracking data
type FacesHandler struct {
	pipe *pipeline.Pipeline
}

// NewFacesHandler creates a new faces handler
func NewFacesHandler(pipe *pipeline.Pipeline) *FacesHandler {
	return &FacesHandler{pipe: pipe}
}

// FacesResponse represents the face polling response
type FacesResponse struct {
	Faces []pipeline.Result `json:"faces"`
}

// Get returns the most recent per-face tracking results. When nothing has
// been processed yet one frame is captured to warm the cache up.
func (h *FacesHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !h.pipe.IsReady() {
		respondError(w, http.StatusServiceUnavailable, errCameraUnavailable)
		return
	}

	snap, err := h.pipe.Latest(r.Context())
	if err != nil {
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	faces := snap.Faces
	if faces == nil {
		faces = []pipeline.Result{}
	}
	respondJSON(w, http.StatusOK, FacesResponse{Faces: faces})
}
