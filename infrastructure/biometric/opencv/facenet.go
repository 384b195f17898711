//go:build opencv

package opencv

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// FaceNetModel runs a FaceNet ONNX export through the OpenCV DNN module.
type FaceNetModel struct {
	net   gocv.Net
	mutex sync.Mutex
}

func NewFaceNetModel(config FaceNetConfig) (*FaceNetModel, error) {
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("facenet model not found at %s: %w", config.ModelPath, err)
	}

	net := gocv.ReadNet(config.ModelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load facenet model from %s", config.ModelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set facenet backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("failed to set facenet target: %w", err)
	}

	logger.Info("facenet model loaded", logger.LoggerOptions{
		Key:  "model_path",
		Data: config.ModelPath,
	})

	return &FaceNetModel{net: net}, nil
}

func (fm *FaceNetModel) Name() string {
	return "facenet-onnx"
}

// Embed feeds an already normalised HWC tensor to the network as NCHW.
func (fm *FaceNetModel) Embed(ctx context.Context, tensor types.FaceTensor) ([]float32, error) {
	if tensor.Channels != 3 || len(tensor.Data) != tensor.Width*tensor.Height*3 {
		return nil, fmt.Errorf("unexpected tensor shape %dx%dx%d", tensor.Height, tensor.Width, tensor.Channels)
	}

	buf := make([]byte, 4*len(tensor.Data))
	for i, v := range tensor.Data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	mat, err := gocv.NewMatFromBytes(tensor.Height, tensor.Width, gocv.MatTypeCV32FC3, buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build input mat: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0, image.Pt(tensor.Width, tensor.Height), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fm.mutex.Lock()
	defer fm.mutex.Unlock()

	fm.net.SetInput(blob, "")
	output := fm.net.Forward("")
	defer output.Close()

	values, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read facenet output: %w", err)
	}
	if len(values) != types.EmbeddingSize {
		return nil, fmt.Errorf("%w: facenet produced %d values", types.ErrDimensionMismatch, len(values))
	}

	embedding := make([]float32, len(values))
	copy(embedding, values)
	return embedding, nil
}

func (fm *FaceNetModel) Close() error {
	fm.mutex.Lock()
	defer fm.mutex.Unlock()
	return fm.net.Close()
}
