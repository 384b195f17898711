package cryptography

import (
	"facegate.io/infrastructure/logger"
	"github.com/matthewhartstonge/argon2"
)

type argonHasher struct {
	config argon2.Config
}

// NewArgonHasher returns an argon2id Hasher using the library defaults.
func NewArgonHasher() Hasher {
	return argonHasher{config: argon2.DefaultConfig()}
}

func (ah argonHasher) HashString(data string) ([]byte, error) {
	encoded, err := ah.config.HashEncoded([]byte(data))
	if err != nil {
		logger.Error("argon - error while hashing data", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}

	return encoded, nil
}

func (ah argonHasher) VerifyHashData(hash string, data string) bool {
	raw, err := argon2.Decode([]byte(hash))
	if err != nil {
		logger.Error("argon - could not decode data", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return false
	}
	ok, err := raw.Verify([]byte(data))
	if err != nil {
		logger.Error("argon - error while verifying data", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		ok = false
	}

	return ok
}
