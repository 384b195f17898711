package env

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"facegate.io/infrastructure/logger"
	envparse "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	CodecPlain     = "plain"
	CodecEncrypted = "encrypted"

	BackendOpenCV    = "opencv"
	BackendTFServing = "tfserving"

	DetectorYuNet     = "yunet"
	DetectorFullFrame = "none"

	FaceIndexScan = "scan"
	FaceIndexHNSW = "hnsw"
)

type Config struct {
	Env         string   `env:"ENV" envDefault:"development"`
	GinMode     string   `env:"GIN_MODE" envDefault:"debug"`
	Port        string   `env:"PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`
	RateLimit   float64  `env:"RATE_LIMIT_PER_SECOND" envDefault:"25"`
	TrustProxy  bool     `env:"TRUST_PROXY" envDefault:"false"`

	DBURL  string `env:"DB_URL,required,notEmpty"`
	DBName string `env:"DB_NAME" envDefault:"facegate"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	JWTSigningKey string        `env:"JWT_SIGNING_KEY,required,notEmpty"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"facegate"`
	JWTTTL        time.Duration `env:"JWT_TTL" envDefault:"1h"`

	EncKey         string `env:"ENC_KEY"`
	EmbeddingCodec string `env:"EMBEDDING_CODEC" envDefault:"encrypted"`

	FaceMatchThreshold      float64 `env:"FACE_MATCH_THRESHOLD" envDefault:"1.0"`
	FaceUniquenessCheck     bool    `env:"FACE_UNIQUENESS_CHECK" envDefault:"false"`
	FaceUniquenessThreshold float64 `env:"FACE_UNIQUENESS_THRESHOLD"`
	FaceIndex               string  `env:"FACE_INDEX" envDefault:"scan"`

	FaceDetector      string  `env:"FACE_DETECTOR" envDefault:"yunet"`
	YuNetModelPath    string  `env:"YUNET_MODEL_PATH" envDefault:"./models/yunet/face_detection_yunet_2023mar.onnx"`
	YuNetScoreMinimum float32 `env:"YUNET_SCORE_THRESHOLD" envDefault:"0.9"`

	EmbeddingBackend  string        `env:"EMBEDDING_BACKEND" envDefault:"opencv"`
	FaceNetModelPath  string        `env:"FACENET_MODEL_PATH" envDefault:"./models/facenet/facenet.onnx"`
	TFServingURL      string        `env:"TF_SERVING_URL" envDefault:"http://localhost:8501/v1/models/facenet:predict"`
	TFServingOutput   string        `env:"TF_SERVING_OUTPUT" envDefault:"Bottleneck_BatchNorm"`
	ModelInputSize    int           `env:"MODEL_INPUT_SIZE" envDefault:"160"`
	ModelChannelOrder string        `env:"MODEL_CHANNEL_ORDER" envDefault:"RGB"`
	ModelTimeout      time.Duration `env:"MODEL_TIMEOUT" envDefault:"5s"`
	FaceCropMargin    int           `env:"FACE_CROP_MARGIN" envDefault:"10"`
}

// LoadEnv reads .env (when present) into the process environment and parses it.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("error loading env variables")
	}
	return Parse()
}

// Parse builds a Config from the current environment and validates it.
func Parse() (*Config, error) {
	var cfg Config
	if err := envparse.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FaceUniquenessThreshold == 0 {
		cfg.FaceUniquenessThreshold = cfg.FaceMatchThreshold
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.GinMode != "debug" && c.GinMode != "release" && c.GinMode != "test" {
		return fmt.Errorf("invalid gin mode used - %s", c.GinMode)
	}
	switch c.EmbeddingCodec {
	case CodecPlain:
	case CodecEncrypted:
		if _, err := DecodeEncryptionKey(c.EncKey); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown EMBEDDING_CODEC %q", c.EmbeddingCodec)
	}
	if c.EmbeddingBackend != BackendOpenCV && c.EmbeddingBackend != BackendTFServing {
		return fmt.Errorf("unknown EMBEDDING_BACKEND %q", c.EmbeddingBackend)
	}
	if c.FaceDetector != DetectorYuNet && c.FaceDetector != DetectorFullFrame {
		return fmt.Errorf("unknown FACE_DETECTOR %q", c.FaceDetector)
	}
	if c.FaceIndex != FaceIndexScan && c.FaceIndex != FaceIndexHNSW {
		return fmt.Errorf("unknown FACE_INDEX %q", c.FaceIndex)
	}
	if c.ModelChannelOrder != "RGB" && c.ModelChannelOrder != "BGR" {
		return fmt.Errorf("unknown MODEL_CHANNEL_ORDER %q", c.ModelChannelOrder)
	}
	if !validThreshold(c.FaceMatchThreshold) || !validThreshold(c.FaceUniquenessThreshold) {
		return errors.New("face thresholds must be positive and finite")
	}
	if c.ModelInputSize <= 0 || c.FaceCropMargin < 0 || c.ModelTimeout <= 0 {
		return errors.New("MODEL_INPUT_SIZE and MODEL_TIMEOUT must be positive, FACE_CROP_MARGIN non-negative")
	}
	return nil
}

// DecodeEncryptionKey parses a hex encoded AES-256 key.
func DecodeEncryptionKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, errors.New("ENC_KEY is required when EMBEDDING_CODEC is encrypted")
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid ENC_KEY format: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("ENC_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func validThreshold(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}
