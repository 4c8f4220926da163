// Package track assigns stable person IDs to per-frame face detections
// using centroid correspondence between consecutive frames.
package track

import (
	"encoding/json"
	"fmt"
	"image"
	"math"
)

// Box is a face bounding box in frame pixel coordinates.
type Box struct {
	X int
	Y int
	W int
	H int
}

// NewBox creates a bounding box from origin and size.
func NewBox(x, y, w, h int) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Centroid returns the geometric center of the box, used as the position
// proxy for matching. Coordinates are truncated to whole pixels so the same
// box always yields the same centroid.
func (b Box) Centroid() (int, int) {
	return b.X + b.W/2, b.Y + b.H/2
}

// Clamp returns a copy with the origin floored at zero and both dimensions
// floored at one pixel. Detectors occasionally emit boxes that poke outside
// the frame or degenerate to zero area.
func (b Box) Clamp() Box {
	if b.X < 0 {
		b.X = 0
	}
	if b.Y < 0 {
		b.Y = 0
	}
	if b.W < 1 {
		b.W = 1
	}
	if b.H < 1 {
		b.H = 1
	}
	return b
}

// Rect converts the box to a stdlib image rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Dist returns the Euclidean distance between the centroids of two boxes.
func Dist(a, b Box) float64 {
	ax, ay := a.Centroid()
	bx, by := b.Centroid()
	return math.Hypot(float64(ax-bx), float64(ay-by))
}

// MarshalJSON encodes the box as a [x, y, w, h] array, the wire format the
// snapshot endpoint exposes.
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]int{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON decodes a [x, y, w, h] array.
func (b *Box) UnmarshalJSON(data []byte) error {
	var arr [4]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("decoding bbox: %w", err)
	}
	b.X, b.Y, b.W, b.H = arr[0], arr[1], arr[2], arr[3]
	return nil
}
