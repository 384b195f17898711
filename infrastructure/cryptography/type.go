package cryptography

// Hasher produces and checks one-way password verifiers.
type Hasher interface {
	HashString(data string) ([]byte, error)
	VerifyHashData(hash string, data string) bool
}

// Sealer symmetrically encrypts small payloads into transport safe text.
type Sealer interface {
	EncryptData(payload []byte) (string, error)
	DecryptData(stringToDecrypt string) ([]byte, error)
}
