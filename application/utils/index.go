package utils

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

func GenerateUULDString() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// NormaliseEmail trims and lowercases an email so it can be used as a lookup key.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// StripDataURL removes a "data:<mime>;base64," prefix when present.
func StripDataURL(payload string) string {
	payload = strings.TrimSpace(payload)
	if !strings.HasPrefix(payload, "data:") {
		return payload
	}
	if idx := strings.Index(payload, ","); idx != -1 {
		return payload[idx+1:]
	}
	return payload
}

// DecodeBase64Image decodes a base64 image payload. Data URL prefixes,
// URL-safe alphabets and missing padding are all accepted.
func DecodeBase64Image(payload string) ([]byte, error) {
	payload = StripDataURL(payload)
	if payload == "" {
		return nil, errors.New("empty image payload")
	}
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)

	encodings := []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		data, err := enc.DecodeString(payload)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
