package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(n int, v float32) []float32 {
	values := make([]float32, n)
	for i := range values {
		values[i] = v
	}
	return values
}

func TestNewFaceEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		values  []float32
		wantErr error
	}{
		{name: "valid", values: filled(EmbeddingSize, 0.25)},
		{name: "too short", values: filled(EmbeddingSize-1, 0.25), wantErr: ErrDimensionMismatch},
		{name: "too long", values: filled(EmbeddingSize+1, 0.25), wantErr: ErrDimensionMismatch},
		{name: "empty", values: nil, wantErr: ErrDimensionMismatch},
		{name: "nan", values: append(filled(EmbeddingSize-1, 0), float32(math.NaN())), wantErr: ErrNonFiniteEmbedding},
		{name: "inf", values: append(filled(EmbeddingSize-1, 0), float32(math.Inf(-1))), wantErr: ErrNonFiniteEmbedding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embedding, err := NewFaceEmbedding(tt.values)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, embedding.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, EmbeddingSize, embedding.Len())
			assert.False(t, embedding.IsZero())
		})
	}
}

func TestFaceEmbeddingIsImmutable(t *testing.T) {
	values := filled(EmbeddingSize, 1)
	embedding, err := NewFaceEmbedding(values)
	require.NoError(t, err)

	values[0] = 42
	assert.Equal(t, float32(1), embedding.At(0))

	out := embedding.Values()
	out[1] = 42
	assert.Equal(t, float32(1), embedding.At(1))
}
