// Package camera implements the pipeline's capture interfaces on top of a
// real video device through gocv. It is the only package touching OpenCV,
// so everything above it stays testable without capture hardware.
package camera

import (
	"fmt"

	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-stream/internal/pipeline"
)

// Source reads frames from a local capture device.
type Source struct {
	index int
	cap   *gocv.VideoCapture
}

// Open opens the capture device at the given index.
func Open(index int) (*Source, error) {
	cap, err := gocv.VideoCaptureDevice(index)
	if err != nil {
		return nil, fmt.Errorf("could not open camera at index %d: %w", index, err)
	}
	return &Source{index: index, cap: cap}, nil
}

func (s *Source) IsOpened() bool {
	return s.cap.IsOpened()
}

// Read grabs the next frame. The returned frame owns a Mat and must be
// closed by the caller.
func (s *Source) Read() (pipeline.Frame, error) {
	mat := gocv.NewMat()
	if ok := s.cap.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, fmt.Errorf("camera at index %d returned no frame", s.index)
	}
	return &Frame{mat: mat}, nil
}

func (s *Source) Close() error {
	return s.cap.Close()
}
