package camera

import (
	"errors"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-stream/internal/track"
)

var green = color.RGBA{G: 255, A: 255}

// Frame wraps a BGR Mat captured from the device.
type Frame struct {
	mat gocv.Mat
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.mat.Cols(), f.mat.Rows())
}

// Annotate draws the bounding box and its label onto the frame. The label
// sits just above the box, pushed down when the box touches the top edge.
func (f *Frame) Annotate(box track.Box, label string) {
	gocv.Rectangle(&f.mat, box.Rect(), green, 2)

	org := image.Pt(box.X, max(box.Y-10, 20))
	gocv.PutTextWithParams(&f.mat, label, org,
		gocv.FontHersheySimplex, 0.5, green, 2, gocv.LineAA, false)
}

func (f *Frame) EncodeJPEG() ([]byte, error) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, f.mat)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// EncodeRegion encodes the part of the frame covered by the box, clipped
// to the frame bounds.
func (f *Frame) EncodeRegion(box track.Box) ([]byte, error) {
	rect := box.Rect().Intersect(f.Bounds())
	if rect.Empty() {
		return nil, errors.New("region outside frame")
	}

	region := f.mat.Region(rect)
	defer region.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, region)
	if err != nil {
		return nil, err
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

func (f *Frame) Close() {
	f.mat.Close()
}
