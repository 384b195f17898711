package tfserving

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"facegate.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tensor(size int) types.FaceTensor {
	data := make([]float32, size*size*3)
	for i := range data {
		data[i] = float32(i%3) - 1
	}
	return types.FaceTensor{Width: size, Height: size, Channels: 3, Data: data}
}

func vectorJSON(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("%d.5", i)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func TestEmbedSendsInstancesAndParsesNamedOutput(t *testing.T) {
	var received predictRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprintf(w, `{"predictions":[{"Bottleneck_BatchNorm":%s}]}`, vectorJSON(types.EmbeddingSize))
	}))
	defer server.Close()

	model := NewModel(server.URL, "Bottleneck_BatchNorm")
	values, err := model.Embed(context.Background(), tensor(4))
	require.NoError(t, err)

	require.Len(t, received.Instances, 1)
	require.Len(t, received.Instances[0], 4)
	require.Len(t, received.Instances[0][0], 4)
	assert.Equal(t, []float32{-1, 0, 1}, received.Instances[0][0][0])

	require.Len(t, values, types.EmbeddingSize)
	assert.Equal(t, float32(0.5), values[0])
	assert.Equal(t, float32(127.5), values[127])
}

func TestEmbedParsesBareVector(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"predictions":[%s]}`, vectorJSON(types.EmbeddingSize))
	}))
	defer server.Close()

	values, err := NewModel(server.URL, "").Embed(context.Background(), tensor(2))
	require.NoError(t, err)
	assert.Len(t, values, types.EmbeddingSize)
}

func TestEmbedErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "invalid json", status: http.StatusOK, body: `{"predictions":`},
		{name: "no predictions", status: http.StatusOK, body: `{"outputs":[]}`},
		{name: "missing output", status: http.StatusOK, body: `{"predictions":[{"other":[1,2]}]}`},
		{name: "non numeric", status: http.StatusOK, body: `{"predictions":[["a","b"]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			_, err := NewModel(server.URL, "Bottleneck_BatchNorm").Embed(context.Background(), tensor(2))
			assert.Error(t, err)
		})
	}
}

func TestEmbedHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewModel(server.URL, "").Embed(ctx, tensor(2))
	assert.Error(t, err)
}

func TestEmbedRejectsMalformedTensor(t *testing.T) {
	_, err := NewModel("http://127.0.0.1:0", "").Embed(context.Background(), types.FaceTensor{Width: 2, Height: 2, Channels: 3, Data: []float32{1}})
	assert.Error(t, err)
}
