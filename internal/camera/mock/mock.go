// Package mock provides pure-Go implementations of the pipeline's capture
// interfaces, backed by stdlib images instead of a real camera. Tests use
// them directly; `face-stream serve --mock` uses the synthetic pair to run
// the full service without capture hardware.
package mock

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"time"

	"github.com/kozaktomas/face-stream/internal/pipeline"
	"github.com/kozaktomas/face-stream/internal/track"
)

// Frame is an in-memory frame over a stdlib RGBA image.
type Frame struct {
	Img *image.RGBA
	// Labels records every annotation drawn on the frame, for assertions.
	Labels []string
	closed bool
}

// NewFrame creates a uniformly gray frame of the given size.
func NewFrame(w, h int) *Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return &Frame{Img: img}
}

func (f *Frame) Bounds() image.Rectangle {
	return f.Img.Bounds()
}

// Annotate draws a 2px green border for the box and records the label.
func (f *Frame) Annotate(box track.Box, label string) {
	green := color.RGBA{G: 255, A: 255}
	rect := box.Rect().Intersect(f.Img.Bounds())
	for t := 0; t < 2; t++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			f.Img.SetRGBA(x, rect.Min.Y+t, green)
			f.Img.SetRGBA(x, rect.Max.Y-1-t, green)
		}
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			f.Img.SetRGBA(rect.Min.X+t, y, green)
			f.Img.SetRGBA(rect.Max.X-1-t, y, green)
		}
	}
	f.Labels = append(f.Labels, label)
}

func (f *Frame) EncodeJPEG() ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Img, nil); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Frame) EncodeRegion(box track.Box) ([]byte, error) {
	rect := box.Rect().Intersect(f.Img.Bounds())
	if rect.Empty() {
		return nil, errors.New("region outside frame")
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Img.SubImage(rect), nil); err != nil {
		return nil, fmt.Errorf("encoding region: %w", err)
	}
	return buf.Bytes(), nil
}

func (f *Frame) Close() {
	f.closed = true
}

// Closed reports whether Close was called, for leak assertions.
func (f *Frame) Closed() bool {
	return f.closed
}

// Source produces mock frames. The zero value is a closed source.
type Source struct {
	mu     sync.Mutex
	opened bool
	reads  int

	// FrameFn produces the frame for the nth read (0-based). Defaults to a
	// blank 640x480 frame.
	FrameFn func(n int) (pipeline.Frame, error)
	// Delay blocks each read, imitating a capture device that waits for the
	// next frame.
	Delay time.Duration
}

// NewSource creates an open source producing blank 640x480 frames.
func NewSource() *Source {
	return &Source{opened: true}
}

func (s *Source) IsOpened() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened
}

func (s *Source) Read() (pipeline.Frame, error) {
	s.mu.Lock()
	if !s.opened {
		s.mu.Unlock()
		return nil, errors.New("source is closed")
	}
	n := s.reads
	s.reads++
	fn := s.FrameFn
	delay := s.Delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fn != nil {
		return fn(n)
	}
	return NewFrame(640, 480), nil
}

func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opened = false
	return nil
}

// Reads returns how many frames have been read.
func (s *Source) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// Detector returns scripted detections. Each call consumes one entry of
// Script; when the script runs out the last entry repeats. BoxFn, when set,
// takes precedence over Script.
type Detector struct {
	mu     sync.Mutex
	calls  int
	Script [][]track.Box
	BoxFn  func(call int) []track.Box
}

func (d *Detector) Detect(f pipeline.Frame) []track.Box {
	d.mu.Lock()
	call := d.calls
	d.calls++
	d.mu.Unlock()

	if d.BoxFn != nil {
		return d.BoxFn(call)
	}
	if len(d.Script) == 0 {
		return nil
	}
	if call >= len(d.Script) {
		call = len(d.Script) - 1
	}
	return d.Script[call]
}

// Calls returns how many times Detect ran.
func (d *Detector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

// NewSynthetic returns a source and detector simulating a single face
// drifting across a 640x480 frame at roughly camera rate.
func NewSynthetic() (*Source, *Detector) {
	src := NewSource()
	src.Delay = 33 * time.Millisecond

	det := &Detector{
		BoxFn: func(call int) []track.Box {
			x := 40 + (call*4)%480
			y := 120 + (call*2)%200
			return []track.Box{track.NewBox(x, y, 120, 120)}
		},
	}
	return src, det
}
