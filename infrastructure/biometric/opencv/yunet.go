//go:build opencv

package opencv

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"facegate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// YuNetDetector wraps the OpenCV YuNet face detector. The underlying
// detector is stateful (input size) so calls are serialised.
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	mutex    sync.Mutex
}

func NewYuNetDetector(config YuNetConfig) (*YuNetDetector, error) {
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("yunet model not found at %s: %w", config.ModelPath, err)
	}
	if config.NMSThreshold <= 0 {
		config.NMSThreshold = 0.3
	}
	if config.TopK <= 0 {
		config.TopK = 5000
	}

	detector := gocv.NewFaceDetectorYN(config.ModelPath, "", image.Pt(320, 320))
	detector.SetScoreThreshold(config.ScoreThreshold)
	detector.SetNMSThreshold(config.NMSThreshold)
	detector.SetTopK(config.TopK)

	logger.Info("yunet detector loaded", logger.LoggerOptions{
		Key: "model_info",
		Data: map[string]interface{}{
			"model_path":      config.ModelPath,
			"score_threshold": config.ScoreThreshold,
			"nms_threshold":   config.NMSThreshold,
			"top_k":           config.TopK,
		},
	})

	return &YuNetDetector{detector: detector}, nil
}

func (yd *YuNetDetector) Detect(ctx context.Context, img image.Image) ([]image.Rectangle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	yd.mutex.Lock()
	defer yd.mutex.Unlock()

	yd.detector.SetInputSize(image.Pt(mat.Cols(), mat.Rows()))

	facesMat := gocv.NewMat()
	defer facesMat.Close()
	yd.detector.Detect(mat, &facesMat)

	return parseDetections(facesMat, img.Bounds()), nil
}

// parseDetections reads YuNet rows of
// [x, y, w, h, 10 landmark coordinates, score] into rectangles
// translated into the source image's coordinate space.
func parseDetections(facesMat gocv.Mat, bounds image.Rectangle) []image.Rectangle {
	var faces []image.Rectangle
	if facesMat.Empty() || facesMat.Rows() == 0 {
		return faces
	}

	for i := 0; i < facesMat.Rows(); i++ {
		x := int(facesMat.GetFloatAt(i, 0))
		y := int(facesMat.GetFloatAt(i, 1))
		w := int(facesMat.GetFloatAt(i, 2))
		h := int(facesMat.GetFloatAt(i, 3))
		if w <= 0 || h <= 0 {
			continue
		}
		face := image.Rect(x, y, x+w, y+h).Add(bounds.Min).Intersect(bounds)
		if face.Empty() {
			continue
		}
		faces = append(faces, face)
	}
	return faces
}

func (yd *YuNetDetector) Close() error {
	yd.mutex.Lock()
	defer yd.mutex.Unlock()
	yd.detector.Close()
	return nil
}
