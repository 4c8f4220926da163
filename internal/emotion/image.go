package emotion

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// normalizeRegion re-encodes a face crop for a remote classifier: large
// crops are scaled down to maxSize on the longest edge to bound request
// size, tiny crops are scaled up to minSize so the model has enough pixels
// to work with.
func normalizeRegion(data []byte, minSize, maxSize int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode region: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	longest := max(width, height)
	scale := 1.0
	switch {
	case longest > maxSize:
		scale = float64(maxSize) / float64(longest)
	case longest < minSize:
		scale = float64(minSize) / float64(longest)
	}

	if scale == 1.0 {
		// Re-encode as JPEG to ensure a consistent format.
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, fmt.Errorf("failed to encode region: %w", err)
		}
		return buf.Bytes(), nil
	}

	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode resized region: %w", err)
	}
	return buf.Bytes(), nil
}
