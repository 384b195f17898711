package types

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
)

// EmbeddingSize is the dimensionality of every face embedding in the system.
const EmbeddingSize = 128

var (
	ErrImageDecode        = errors.New("image could not be decoded")
	ErrNoFaceDetected     = errors.New("no face detected")
	ErrModel              = errors.New("face model failure")
	ErrDimensionMismatch  = errors.New("embedding dimension mismatch")
	ErrNonFiniteEmbedding = errors.New("embedding contains non-finite values")
	ErrInvalidThreshold   = errors.New("match threshold must be positive and finite")
	ErrEmbeddingDecode    = errors.New("stored embedding could not be decoded")
	ErrEmbeddingDecrypt   = errors.New("stored embedding could not be decrypted")
)

// FaceEmbedding is an immutable, fixed length face descriptor.
type FaceEmbedding struct {
	values []float32
}

// NewFaceEmbedding validates and copies values into a FaceEmbedding.
func NewFaceEmbedding(values []float32) (FaceEmbedding, error) {
	if len(values) != EmbeddingSize {
		return FaceEmbedding{}, fmt.Errorf("%w: got %d values, want %d", ErrDimensionMismatch, len(values), EmbeddingSize)
	}
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return FaceEmbedding{}, fmt.Errorf("%w: index %d", ErrNonFiniteEmbedding, i)
		}
	}
	copied := make([]float32, len(values))
	copy(copied, values)
	return FaceEmbedding{values: copied}, nil
}

// Values returns a copy of the embedding.
func (fe FaceEmbedding) Values() []float32 {
	copied := make([]float32, len(fe.values))
	copy(copied, fe.values)
	return copied
}

func (fe FaceEmbedding) Len() int {
	return len(fe.values)
}

// At returns the i-th component.
func (fe FaceEmbedding) At(i int) float32 {
	return fe.values[i]
}

// IsZero reports whether the embedding was never constructed.
func (fe FaceEmbedding) IsZero() bool {
	return fe.values == nil
}

// EncodedEmbedding is the at-rest form of a FaceEmbedding.
type EncodedEmbedding string

// MatchDecision is the outcome of comparing two embeddings.
type MatchDecision struct {
	Distance  float64 `json:"distance"`
	IsMatch   bool    `json:"is_match"`
	Threshold float64 `json:"threshold"`
}

// FaceTensor is a preprocessed face crop laid out height x width x channels.
type FaceTensor struct {
	Width    int
	Height   int
	Channels int
	Data     []float32
}

// FaceDetector locates face regions in a decoded image.
type FaceDetector interface {
	Detect(ctx context.Context, img image.Image) ([]image.Rectangle, error)
}

// EmbeddingModel turns a preprocessed face tensor into a raw descriptor.
type EmbeddingModel interface {
	Embed(ctx context.Context, tensor FaceTensor) ([]float32, error)
	Name() string
}

// EmbeddingExtractor turns a client supplied image into a FaceEmbedding.
type EmbeddingExtractor interface {
	ExtractFromBase64(ctx context.Context, payload string) (FaceEmbedding, error)
	Extract(ctx context.Context, raw []byte) (FaceEmbedding, error)
}

// Codec converts embeddings to and from their stored form.
type Codec interface {
	Encode(embedding FaceEmbedding) (EncodedEmbedding, error)
	Decode(encoded EncodedEmbedding) (FaceEmbedding, error)
}
