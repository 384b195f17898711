package opencv

import "errors"

// BuildTag is the build tag that compiles in the gocv backed detector and
// embedding model.
const BuildTag = "opencv"

// ErrUnavailable is returned when the binary was built without the opencv tag.
var ErrUnavailable = errors.New("opencv support not compiled in; rebuild with -tags " + BuildTag)

// YuNetConfig configures the YuNet detector.
type YuNetConfig struct {
	ModelPath      string
	ScoreThreshold float32
	NMSThreshold   float32
	TopK           int
}

// FaceNetConfig configures the FaceNet embedding model.
type FaceNetConfig struct {
	ModelPath string
}
