package render

import (
	"bytes"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// ThumbnailWidth is the maximum thumbnail width in pixels.
const ThumbnailWidth = 400

// Thumbnail scales img down to at most maxWidth pixels wide, keeping the
// aspect ratio, and encodes it as PNG. Smaller images are encoded as is.
func Thumbnail(img image.Image, maxWidth int) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() > maxWidth {
		h := max(1, b.Dy()*maxWidth/b.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
