package biometric

import (
	"math"
	"math/rand"
	"testing"

	"facegate.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomEmbedding(t *testing.T, rng *rand.Rand) types.FaceEmbedding {
	t.Helper()
	values := make([]float32, types.EmbeddingSize)
	for i := range values {
		values[i] = rng.Float32()*2 - 1
	}
	embedding, err := types.NewFaceEmbedding(values)
	require.NoError(t, err)
	return embedding
}

func TestNewFaceMatcherRejectsInvalidThresholds(t *testing.T) {
	for _, threshold := range []float64{0, -1, math.Inf(1), math.NaN()} {
		_, err := NewFaceMatcher(threshold)
		assert.ErrorIs(t, err, types.ErrInvalidThreshold, "threshold %v", threshold)
	}
}

func TestMatchSelfIsZeroDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	matcher, err := NewFaceMatcher(DefaultMatchThreshold)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		a := randomEmbedding(t, rng)
		for _, threshold := range []float64{1e-9, 0.5, 1, 10} {
			decision, err := matcher.MatchWithThreshold(a, a, threshold)
			require.NoError(t, err)
			assert.Zero(t, decision.Distance)
			assert.True(t, decision.IsMatch)
			assert.Equal(t, threshold, decision.Threshold)
		}
	}
}

func TestMatchIsSymmetricAndRespectsThreshold(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	matcher, err := NewFaceMatcher(DefaultMatchThreshold)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		a := randomEmbedding(t, rng)
		b := randomEmbedding(t, rng)

		ab, err := matcher.Match(a, b)
		require.NoError(t, err)
		ba, err := matcher.Match(b, a)
		require.NoError(t, err)
		assert.Equal(t, ab.Distance, ba.Distance)
		assert.GreaterOrEqual(t, ab.Distance, 0.0)

		atDistance, err := matcher.MatchWithThreshold(a, b, ab.Distance)
		require.NoError(t, err)
		assert.False(t, atDistance.IsMatch, "distance equal to threshold is not a match")

		above, err := matcher.MatchWithThreshold(a, b, ab.Distance*1.0001)
		require.NoError(t, err)
		assert.True(t, above.IsMatch)
	}
}

func TestEuclideanDistanceKnownValue(t *testing.T) {
	a := make([]float32, types.EmbeddingSize)
	b := make([]float32, types.EmbeddingSize)
	b[0] = 3
	b[1] = 4
	ea, err := types.NewFaceEmbedding(a)
	require.NoError(t, err)
	eb, err := types.NewFaceEmbedding(b)
	require.NoError(t, err)

	distance, err := EuclideanDistance(ea, eb)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, distance, 1e-12)
}

func TestEuclideanDistanceRejectsUnconstructedEmbedding(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	_, err := EuclideanDistance(randomEmbedding(t, rng), types.FaceEmbedding{})
	assert.ErrorIs(t, err, types.ErrDimensionMismatch)
}
