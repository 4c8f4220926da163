package camera

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/kozaktomas/face-stream/internal/pipeline"
	"github.com/kozaktomas/face-stream/internal/track"
)

// CascadeDetector finds faces with a Haar cascade. It only understands
// frames produced by this package's Source.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
}

// NewCascadeDetector loads the cascade description from the given XML file.
func NewCascadeDetector(cascadePath string) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if ok := classifier.Load(cascadePath); !ok {
		classifier.Close()
		return nil, fmt.Errorf("could not load face cascade from %q", cascadePath)
	}
	return &CascadeDetector{classifier: classifier}, nil
}

func (d *CascadeDetector) Detect(f pipeline.Frame) []track.Box {
	frame, ok := f.(*Frame)
	if !ok {
		return nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame.mat, &gray, gocv.ColorBGRToGray)

	rects := d.classifier.DetectMultiScaleWithParams(gray,
		1.1, 5, 0, image.Pt(40, 40), image.Pt(0, 0))

	boxes := make([]track.Box, 0, len(rects))
	for _, r := range rects {
		boxes = append(boxes, track.Box{
			X: max(r.Min.X, 0),
			Y: max(r.Min.Y, 0),
			W: r.Dx(),
			H: r.Dy(),
		})
	}
	return boxes
}

func (d *CascadeDetector) Close() error {
	return d.classifier.Close()
}
