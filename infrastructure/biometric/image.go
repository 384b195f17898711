package biometric

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"facegate.io/infrastructure/biometric/types"
	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxImageDimension bounds either side of an uploaded image.
const MaxImageDimension = 4096

// decodeImage sniffs, bounds-checks and decodes raw image bytes.
func decodeImage(raw []byte) (image.Image, string, error) {
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%w: empty payload", types.ErrImageDecode)
	}
	mime := mimetype.Detect(raw)
	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, "", fmt.Errorf("%w: unsupported content type %s", types.ErrImageDecode, mime.String())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", types.ErrImageDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: invalid image dimensions %dx%d", types.ErrImageDecode, cfg.Width, cfg.Height)
	}
	if cfg.Width > MaxImageDimension || cfg.Height > MaxImageDimension {
		return nil, "", fmt.Errorf("%w: image too large: %dx%d (max: %dx%d)", types.ErrImageDecode, cfg.Width, cfg.Height, MaxImageDimension, MaxImageDimension)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", types.ErrImageDecode, err)
	}
	return img, format, nil
}

// largestFace returns the region with the biggest area. The first region wins ties.
func largestFace(faces []image.Rectangle) image.Rectangle {
	largest := faces[0]
	maxArea := largest.Dx() * largest.Dy()

	for _, face := range faces[1:] {
		area := face.Dx() * face.Dy()
		if area > maxArea {
			largest = face
			maxArea = area
		}
	}

	return largest
}

// cropWithMargin grows face by margin pixels on every side, clamped to bounds.
func cropWithMargin(bounds, face image.Rectangle, margin int) image.Rectangle {
	padded := image.Rect(
		face.Min.X-margin,
		face.Min.Y-margin,
		face.Max.X+margin,
		face.Max.Y+margin,
	)
	return padded.Intersect(bounds)
}

// toTensor resizes region of img to size x size and scales RGB values to [-1, 1].
func toTensor(img image.Image, region image.Rectangle, size int, bgr bool) types.FaceTensor {
	resized := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(resized, resized.Bounds(), img, region, draw.Src, nil)

	data := make([]float32, 0, size*size*3)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			offset := resized.PixOffset(x, y)
			r := resized.Pix[offset]
			g := resized.Pix[offset+1]
			b := resized.Pix[offset+2]
			if bgr {
				r, b = b, r
			}
			data = append(data, scalePixel(r), scalePixel(g), scalePixel(b))
		}
	}

	return types.FaceTensor{
		Width:    size,
		Height:   size,
		Channels: 3,
		Data:     data,
	}
}

func scalePixel(v uint8) float32 {
	return float32(v)/127.5 - 1.0
}
