package biometric

import (
	"fmt"
	"math"

	"facegate.io/infrastructure/biometric/types"
)

// DefaultMatchThreshold is the canonical L2 distance below which two
// embeddings belong to the same person. Deployments tune it with
// FACE_MATCH_THRESHOLD after calibrating their model.
const DefaultMatchThreshold = 1.0

// FaceMatcher applies the Euclidean distance match policy.
type FaceMatcher struct {
	Threshold float64
}

func NewFaceMatcher(threshold float64) (*FaceMatcher, error) {
	if !validThreshold(threshold) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidThreshold, threshold)
	}
	return &FaceMatcher{Threshold: threshold}, nil
}

// Match compares a and b against the matcher's threshold.
func (fm *FaceMatcher) Match(a, b types.FaceEmbedding) (types.MatchDecision, error) {
	return fm.MatchWithThreshold(a, b, fm.Threshold)
}

// MatchWithThreshold compares a and b against an explicit threshold.
func (fm *FaceMatcher) MatchWithThreshold(a, b types.FaceEmbedding, threshold float64) (types.MatchDecision, error) {
	if !validThreshold(threshold) {
		return types.MatchDecision{}, fmt.Errorf("%w: %v", types.ErrInvalidThreshold, threshold)
	}
	distance, err := EuclideanDistance(a, b)
	if err != nil {
		return types.MatchDecision{}, err
	}
	return types.MatchDecision{
		Distance:  distance,
		IsMatch:   distance < threshold,
		Threshold: threshold,
	}, nil
}

// EuclideanDistance is the L2 distance between two embeddings, accumulated in float64.
func EuclideanDistance(a, b types.FaceEmbedding) (float64, error) {
	if a.Len() != types.EmbeddingSize || b.Len() != types.EmbeddingSize {
		return 0, fmt.Errorf("%w: %d vs %d", types.ErrDimensionMismatch, a.Len(), b.Len())
	}
	var sum float64
	for i := 0; i < types.EmbeddingSize; i++ {
		diff := float64(a.At(i)) - float64(b.At(i))
		sum += diff * diff
	}
	return math.Sqrt(sum), nil
}

func validThreshold(t float64) bool {
	return t > 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}
