package env

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEncKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func setRequired(t *testing.T) {
	t.Setenv("DB_URL", "mongodb://localhost:27017")
	t.Setenv("JWT_SIGNING_KEY", "secret")
	t.Setenv("ENC_KEY", testEncKey)
}

func TestParseDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.GinMode)
	assert.Equal(t, CodecEncrypted, cfg.EmbeddingCodec)
	assert.Equal(t, 1.0, cfg.FaceMatchThreshold)
	assert.Equal(t, cfg.FaceMatchThreshold, cfg.FaceUniquenessThreshold)
	assert.False(t, cfg.FaceUniquenessCheck)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, FaceIndexScan, cfg.FaceIndex)
	assert.Equal(t, 160, cfg.ModelInputSize)
	assert.Equal(t, 10, cfg.FaceCropMargin)
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, "Bottleneck_BatchNorm", cfg.TFServingOutput)
}

func TestParseOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FACE_MATCH_THRESHOLD", "0.8")
	t.Setenv("FACE_UNIQUENESS_CHECK", "true")
	t.Setenv("FACE_UNIQUENESS_THRESHOLD", "0.6")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("EMBEDDING_BACKEND", BackendTFServing)
	t.Setenv("FACE_DETECTOR", DetectorFullFrame)

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.FaceMatchThreshold)
	assert.True(t, cfg.FaceUniquenessCheck)
	assert.Equal(t, 0.6, cfg.FaceUniquenessThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestParseFailsFast(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing enc key", env: map[string]string{"ENC_KEY": ""}, want: "ENC_KEY"},
		{name: "short enc key", env: map[string]string{"ENC_KEY": "abcd"}, want: "32 bytes"},
		{name: "non hex enc key", env: map[string]string{"ENC_KEY": strings.Repeat("zz", 32)}, want: "ENC_KEY"},
		{name: "unknown codec", env: map[string]string{"EMBEDDING_CODEC": "rot13"}, want: "EMBEDDING_CODEC"},
		{name: "negative threshold", env: map[string]string{"FACE_MATCH_THRESHOLD": "-1"}, want: "thresholds"},
		{name: "bad gin mode", env: map[string]string{"GIN_MODE": "turbo"}, want: "gin mode"},
		{name: "bad index", env: map[string]string{"FACE_INDEX": "faiss"}, want: "FACE_INDEX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Parse()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseRequiresDatabaseAndSigningKey(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SIGNING_KEY", "")
	t.Setenv("ENC_KEY", testEncKey)
	_, err := Parse()
	assert.Error(t, err)
}

func TestPlainCodecNeedsNoKey(t *testing.T) {
	setRequired(t)
	t.Setenv("ENC_KEY", "")
	t.Setenv("EMBEDDING_CODEC", CodecPlain)
	_, err := Parse()
	assert.NoError(t, err)
}
