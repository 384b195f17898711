package biometric

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"facegate.io/application/utils"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
)

// ExtractorConfig holds the preprocessing policy applied before inference.
type ExtractorConfig struct {
	InputSize    int
	CropMargin   int
	ChannelOrder string
	Timeout      time.Duration
}

// GetDefaultExtractorConfig mirrors the FaceNet training setup: 160x160 RGB
// input scaled to [-1, 1] with a 10px margin around the detected face.
func GetDefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		InputSize:    160,
		CropMargin:   10,
		ChannelOrder: "RGB",
		Timeout:      5 * time.Second,
	}
}

// Extractor runs the decode, detect, crop, normalise and infer pipeline.
// It keeps no per-call state so one instance serves every request.
type Extractor struct {
	detector types.FaceDetector
	model    types.EmbeddingModel
	config   ExtractorConfig
}

func NewExtractor(detector types.FaceDetector, model types.EmbeddingModel, config ExtractorConfig) *Extractor {
	defaults := GetDefaultExtractorConfig()
	if config.InputSize <= 0 {
		config.InputSize = defaults.InputSize
	}
	if config.CropMargin < 0 {
		config.CropMargin = defaults.CropMargin
	}
	if config.ChannelOrder == "" {
		config.ChannelOrder = defaults.ChannelOrder
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	return &Extractor{detector: detector, model: model, config: config}
}

// ExtractFromBase64 decodes a base64 (optionally data URL) payload and extracts an embedding.
func (e *Extractor) ExtractFromBase64(ctx context.Context, payload string) (types.FaceEmbedding, error) {
	raw, err := utils.DecodeBase64Image(payload)
	if err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: failed to decode base64 image: %v", types.ErrImageDecode, err)
	}
	return e.Extract(ctx, raw)
}

// Extract turns raw image bytes into a FaceEmbedding.
func (e *Extractor) Extract(ctx context.Context, raw []byte) (types.FaceEmbedding, error) {
	startTime := time.Now()

	img, format, err := decodeImage(raw)
	if err != nil {
		return types.FaceEmbedding{}, err
	}

	faces, err := e.detector.Detect(ctx, img)
	if err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: face detection failed: %v", types.ErrModel, err)
	}
	if len(faces) == 0 {
		return types.FaceEmbedding{}, types.ErrNoFaceDetected
	}

	face := largestFace(faces)
	region := cropWithMargin(img.Bounds(), face, e.config.CropMargin)
	if region.Empty() {
		return types.FaceEmbedding{}, fmt.Errorf("%w: face region outside image bounds", types.ErrNoFaceDetected)
	}

	tensor := toTensor(img, region, e.config.InputSize, e.config.ChannelOrder == "BGR")

	values, err := e.infer(ctx, tensor)
	if err != nil {
		return types.FaceEmbedding{}, err
	}

	embedding, err := types.NewFaceEmbedding(values)
	if err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrModel, err)
	}

	logger.Info("face embedding extracted", logger.LoggerOptions{
		Key: "embedding_info",
		Data: map[string]interface{}{
			"model":              e.model.Name(),
			"format":             format,
			"faces_detected":     len(faces),
			"face_region":        fmt.Sprintf("%dx%d", region.Dx(), region.Dy()),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		},
	})

	return embedding, nil
}

// infer bounds the forward pass by the configured timeout. Backends that cannot
// observe ctx keep running in the background but their result is discarded.
func (e *Extractor) infer(ctx context.Context, tensor types.FaceTensor) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	type result struct {
		values []float32
		err    error
	}
	done := make(chan result, 1)
	go func() {
		values, err := e.model.Embed(ctx, tensor)
		done <- result{values: values, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: inference aborted: %v", types.ErrModel, ctx.Err())
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, types.ErrModel) {
				return nil, res.err
			}
			return nil, fmt.Errorf("%w: %v", types.ErrModel, res.err)
		}
		return res.values, nil
	}
}

// FullFrameDetector reports the whole frame as a single face. It suits
// clients that already frame the face, such as a guided webcam capture.
type FullFrameDetector struct{}

func (FullFrameDetector) Detect(_ context.Context, img image.Image) ([]image.Rectangle, error) {
	return []image.Rectangle{img.Bounds()}, nil
}
