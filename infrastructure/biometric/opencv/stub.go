//go:build !opencv

package opencv

import (
	"context"
	"image"

	"facegate.io/infrastructure/biometric/types"
)

type YuNetDetector struct{}

func NewYuNetDetector(YuNetConfig) (*YuNetDetector, error) {
	return nil, ErrUnavailable
}

func (*YuNetDetector) Detect(context.Context, image.Image) ([]image.Rectangle, error) {
	return nil, ErrUnavailable
}

func (*YuNetDetector) Close() error { return nil }

type FaceNetModel struct{}

func NewFaceNetModel(FaceNetConfig) (*FaceNetModel, error) {
	return nil, ErrUnavailable
}

func (*FaceNetModel) Name() string { return "facenet-onnx" }

func (*FaceNetModel) Embed(context.Context, types.FaceTensor) ([]float32, error) {
	return nil, ErrUnavailable
}

func (*FaceNetModel) Close() error { return nil }
