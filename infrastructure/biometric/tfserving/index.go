package tfserving

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/logger"
	"github.com/tidwall/gjson"
)

// Model calls a TensorFlow Serving REST predict endpoint, e.g.
// http://host:8501/v1/models/facenet:predict.
type Model struct {
	URL        string
	OutputKey  string
	HTTPClient *http.Client
}

type predictRequest struct {
	Instances [][][][]float32 `json:"instances"`
}

func NewModel(url string, outputKey string) *Model {
	return &Model{
		URL:        url,
		OutputKey:  outputKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *Model) Name() string {
	return "tfserving"
}

func (m *Model) Embed(ctx context.Context, tensor types.FaceTensor) ([]float32, error) {
	if tensor.Channels <= 0 || len(tensor.Data) != tensor.Width*tensor.Height*tensor.Channels {
		return nil, fmt.Errorf("unexpected tensor shape %dx%dx%d", tensor.Height, tensor.Width, tensor.Channels)
	}

	payload, err := json.Marshal(predictRequest{Instances: [][][][]float32{toNested(tensor)}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := m.HTTPClient.Do(req)
	if err != nil {
		logger.Error("error calling model server", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		logger.Error("model server returned non 200 status code", logger.LoggerOptions{
			Key: "response",
			Data: map[string]interface{}{
				"status_code": res.StatusCode,
				"body":        truncate(string(body), 256),
			},
		})
		return nil, fmt.Errorf("model server responded with status %d", res.StatusCode)
	}

	return parsePrediction(body, m.OutputKey)
}

// parsePrediction accepts both row format outputs: a bare vector per
// instance, or an object of named outputs per instance.
func parsePrediction(body []byte, outputKey string) ([]float32, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("model server returned invalid json")
	}
	first := gjson.GetBytes(body, "predictions.0")
	if !first.Exists() {
		return nil, fmt.Errorf("model server response has no predictions")
	}
	if first.IsObject() {
		if outputKey == "" {
			return nil, fmt.Errorf("prediction has named outputs but no output key is configured")
		}
		first = first.Get(gjson.Escape(outputKey))
		if !first.Exists() {
			return nil, fmt.Errorf("prediction has no output named %q", outputKey)
		}
	}
	if !first.IsArray() {
		return nil, fmt.Errorf("prediction is not a vector")
	}

	items := first.Array()
	values := make([]float32, 0, len(items))
	for _, item := range items {
		if item.Type != gjson.Number {
			return nil, fmt.Errorf("prediction contains non numeric value %s", item.Raw)
		}
		values = append(values, float32(item.Float()))
	}
	return values, nil
}

func toNested(tensor types.FaceTensor) [][][]float32 {
	rows := make([][][]float32, tensor.Height)
	for y := 0; y < tensor.Height; y++ {
		row := make([][]float32, tensor.Width)
		for x := 0; x < tensor.Width; x++ {
			offset := (y*tensor.Width + x) * tensor.Channels
			row[x] = tensor.Data[offset : offset+tensor.Channels]
		}
		rows[y] = row
	}
	return rows
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
