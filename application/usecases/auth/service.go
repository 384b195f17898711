package auth_usecases

import (
	"context"
	"fmt"

	"facegate.io/application/repository"
	"facegate.io/entities"
	"facegate.io/infrastructure/auth"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/cryptography"
)

// dummyPassword backs the verifier checked for unknown emails so a miss
// costs the same as a wrong password.
const dummyPassword = "facegate-timing-equaliser"

// IdentityRegistry is the registry surface the auth flows depend on.
type IdentityRegistry interface {
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	FindByFace(ctx context.Context, embedding types.FaceEmbedding, threshold float64) (*entities.User, error)
	DecodeEmbedding(user *entities.User) (types.FaceEmbedding, error)
	Create(ctx context.Context, identity repository.NewIdentity) (*entities.User, error)
}

// TokenIssuer issues and validates session credentials.
type TokenIssuer interface {
	GenerateAuthToken(claimsData auth.ClaimsData) (*string, error)
	DecodeAuthToken(tokenString string) (*auth.AuthClaims, error)
}

type AuthServiceConfig struct {
	FaceUniquenessCheck     bool
	FaceUniquenessThreshold float64
}

// AuthService sequences registration and login.
type AuthService struct {
	extractor types.EmbeddingExtractor
	matcher   *biometric.FaceMatcher
	registry  IdentityRegistry
	hasher    cryptography.Hasher
	issuer    TokenIssuer
	config    AuthServiceConfig

	dummyHash string
}

func NewAuthService(extractor types.EmbeddingExtractor, matcher *biometric.FaceMatcher, registry IdentityRegistry, hasher cryptography.Hasher, issuer TokenIssuer, config AuthServiceConfig) (*AuthService, error) {
	if config.FaceUniquenessThreshold <= 0 {
		config.FaceUniquenessThreshold = matcher.Threshold
	}
	dummyHash, err := hasher.HashString(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare password verifier: %w", err)
	}
	return &AuthService{
		extractor: extractor,
		matcher:   matcher,
		registry:  registry,
		hasher:    hasher,
		issuer:    issuer,
		config:    config,
		dummyHash: string(dummyHash),
	}, nil
}
