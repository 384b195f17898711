package faceindex

import (
	"sync"

	"facegate.io/infrastructure/biometric/types"
	"github.com/coder/hnsw"
)

const (
	maxNeighbors = 16
	efSearch     = 64
)

// Entry pairs a registry key with its embedding.
type Entry struct {
	Key       string
	Embedding types.FaceEmbedding
}

// HNSWIndex is an in-memory approximate nearest neighbour index over
// face embeddings using Euclidean distance. Callers must confirm any
// candidate with an exact distance.
type HNSWIndex struct {
	graph *hnsw.Graph[string]
	keys  map[string]struct{}
	mu    sync.RWMutex
}

func NewHNSWIndex() *HNSWIndex {
	return &HNSWIndex{
		graph: newGraph(),
		keys:  map[string]struct{}{},
	}
}

func newGraph() *hnsw.Graph[string] {
	g := hnsw.NewGraph[string]()
	g.M = maxNeighbors
	g.Ml = 1.0 / float64(maxNeighbors)
	g.EfSearch = efSearch
	g.Distance = hnsw.EuclideanDistance
	return g
}

// Build replaces the index contents with entries.
func (h *HNSWIndex) Build(entries []Entry) {
	g := newGraph()
	keys := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Embedding.IsZero() {
			continue
		}
		if _, ok := keys[entry.Key]; ok {
			continue
		}
		g.Add(hnsw.MakeNode(entry.Key, entry.Embedding.Values()))
		keys[entry.Key] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.graph = g
	h.keys = keys
}

// Add inserts one embedding. Re-adding a known key is a no-op.
func (h *HNSWIndex) Add(key string, embedding types.FaceEmbedding) {
	if embedding.IsZero() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.keys[key]; ok {
		return
	}
	h.graph.Add(hnsw.MakeNode(key, embedding.Values()))
	h.keys[key] = struct{}{}
}

// Nearest returns the key of the closest indexed embedding.
func (h *HNSWIndex) Nearest(embedding types.FaceEmbedding) (string, bool) {
	if embedding.IsZero() {
		return "", false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.keys) == 0 {
		return "", false
	}
	neighbors := h.graph.Search(embedding.Values(), 1)
	if len(neighbors) == 0 {
		return "", false
	}
	return neighbors[0].Key, true
}

func (h *HNSWIndex) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.keys)
}
