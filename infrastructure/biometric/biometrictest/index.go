// Package biometrictest provides deterministic face pipeline doubles for tests.
package biometrictest

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"

	"facegate.io/infrastructure/biometric/types"
)

// ColorModel derives an embedding from the mean colour of the tensor, so
// images of the same solid colour embed identically and different colours
// land far apart.
type ColorModel struct {
	Calls atomic.Int64
}

func (cm *ColorModel) Name() string {
	return "color-model"
}

func (cm *ColorModel) Embed(ctx context.Context, tensor types.FaceTensor) ([]float32, error) {
	cm.Calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if tensor.Channels != 3 || len(tensor.Data) == 0 {
		return nil, errors.New("unexpected tensor")
	}
	var means [3]float64
	pixels := len(tensor.Data) / 3
	for i, v := range tensor.Data {
		means[i%3] += float64(v)
	}
	values := make([]float32, types.EmbeddingSize)
	for i := range values {
		values[i] = float32(means[i%3] / float64(pixels))
	}
	return values, nil
}

// StaticModel always returns Values (or Err).
type StaticModel struct {
	Values []float32
	Err    error
}

func (sm StaticModel) Name() string {
	return "static-model"
}

func (sm StaticModel) Embed(context.Context, types.FaceTensor) ([]float32, error) {
	return sm.Values, sm.Err
}

// BlockingModel waits for ctx to finish and ignores it when Ignore is set.
type BlockingModel struct {
	Release chan struct{}
	Ignore  bool
}

func (bm BlockingModel) Name() string {
	return "blocking-model"
}

func (bm BlockingModel) Embed(ctx context.Context, _ types.FaceTensor) ([]float32, error) {
	if bm.Ignore {
		<-bm.Release
		return nil, errors.New("released")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-bm.Release:
		return nil, errors.New("released")
	}
}

// StaticDetector reports Faces (or Err) for every image.
type StaticDetector struct {
	Faces []image.Rectangle
	Err   error
}

func (sd StaticDetector) Detect(context.Context, image.Image) ([]image.Rectangle, error) {
	return sd.Faces, sd.Err
}

// Embedding returns a valid embedding with every component set to v.
func Embedding(v float32) types.FaceEmbedding {
	values := make([]float32, types.EmbeddingSize)
	for i := range values {
		values[i] = v
	}
	embedding, err := types.NewFaceEmbedding(values)
	if err != nil {
		panic(err)
	}
	return embedding
}

// SolidPNG encodes a w x h image filled with c.
func SolidPNG(c color.Color, w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// SolidPNGBase64 is SolidPNG as a data URL payload.
func SolidPNGBase64(c color.Color) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(SolidPNG(c, 64, 64))
}

var (
	Red  = color.RGBA{R: 255, A: 255}
	Blue = color.RGBA{B: 255, A: 255}
)
