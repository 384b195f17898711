package biometric

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/cryptography"
)

// PlainCodec stores embeddings as a JSON array of numbers.
type PlainCodec struct{}

func (PlainCodec) Encode(embedding types.FaceEmbedding) (types.EncodedEmbedding, error) {
	if embedding.IsZero() {
		return "", fmt.Errorf("%w: empty embedding", types.ErrEmbeddingDecode)
	}
	raw, err := json.Marshal(embedding.Values())
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrEmbeddingDecode, err)
	}
	return types.EncodedEmbedding(raw), nil
}

func (PlainCodec) Decode(encoded types.EncodedEmbedding) (types.FaceEmbedding, error) {
	var values []float32
	if err := json.Unmarshal([]byte(encoded), &values); err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingDecode, err)
	}
	embedding, err := types.NewFaceEmbedding(values)
	if err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingDecode, err)
	}
	return embedding, nil
}

// EncryptedCodec packs embeddings as little endian float32, base64 encodes
// them and seals the result with the configured Sealer.
type EncryptedCodec struct {
	sealer cryptography.Sealer
}

func NewEncryptedCodec(sealer cryptography.Sealer) *EncryptedCodec {
	return &EncryptedCodec{sealer: sealer}
}

func (ec *EncryptedCodec) Encode(embedding types.FaceEmbedding) (types.EncodedEmbedding, error) {
	if embedding.IsZero() {
		return "", fmt.Errorf("%w: empty embedding", types.ErrEmbeddingDecode)
	}
	buf := make([]byte, 4*embedding.Len())
	for i := 0; i < embedding.Len(); i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(embedding.At(i)))
	}
	text := base64.StdEncoding.EncodeToString(buf)

	sealed, err := ec.sealer.EncryptData([]byte(text))
	if err != nil {
		return "", fmt.Errorf("failed to encrypt embedding: %w", err)
	}
	return types.EncodedEmbedding(sealed), nil
}

func (ec *EncryptedCodec) Decode(encoded types.EncodedEmbedding) (types.FaceEmbedding, error) {
	text, err := ec.sealer.DecryptData(string(encoded))
	if err != nil {
		if errors.Is(err, cryptography.ErrDecrypt) {
			return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingDecrypt, err)
		}
		return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingDecode, err)
	}

	buf, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingDecode, err)
	}
	if len(buf) != 4*types.EmbeddingSize {
		return types.FaceEmbedding{}, fmt.Errorf("%w: got %d bytes, want %d", types.ErrEmbeddingDecode, len(buf), 4*types.EmbeddingSize)
	}

	values := make([]float32, types.EmbeddingSize)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	embedding, err := types.NewFaceEmbedding(values)
	if err != nil {
		return types.FaceEmbedding{}, fmt.Errorf("%w: %v", types.ErrEmbeddingDecode, err)
	}
	return embedding, nil
}
