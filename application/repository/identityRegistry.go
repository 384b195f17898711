package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"facegate.io/application/constants"
	"facegate.io/application/utils"
	"facegate.io/entities"
	"facegate.io/infrastructure/biometric"
	"facegate.io/infrastructure/biometric/faceindex"
	"facegate.io/infrastructure/biometric/types"
	"facegate.io/infrastructure/database/repository/cache"
	mongorepo "facegate.io/infrastructure/database/repository/mongo"
	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	registrationLockTTL  = 30 * time.Second
	registrationLockWait = 10 * time.Second
	scanBatchSize        = 256
)

var (
	ErrDuplicateEmail = errors.New("user with email already exists")
	ErrDuplicateFace  = errors.New("face already registered to another user")
)

// NewIdentity is a fully validated registration ready to persist.
type NewIdentity struct {
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Role         string
	UserAgent    string
	Embedding    types.FaceEmbedding
	// FaceUniquenessThreshold enables the duplicate face check when set.
	FaceUniquenessThreshold *float64
}

// IdentityRegistry enforces identity uniqueness over a UserStore.
type IdentityRegistry struct {
	store   UserStore
	codec   types.Codec
	matcher *biometric.FaceMatcher
	locker  cache.Locker
	index   *faceindex.HNSWIndex
}

// NewIdentityRegistry builds a registry. index may be nil, in which case
// FindByFace scans the store.
func NewIdentityRegistry(store UserStore, codec types.Codec, matcher *biometric.FaceMatcher, locker cache.Locker, index *faceindex.HNSWIndex) *IdentityRegistry {
	if locker == nil {
		locker = cache.NewMemoryLocker()
	}
	return &IdentityRegistry{
		store:   store,
		codec:   codec,
		matcher: matcher,
		locker:  locker,
		index:   index,
	}
}

// FindByEmail returns nil, nil when no identity has the email.
func (ir *IdentityRegistry) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return ir.store.FindOneByFilter(ctx, map[string]interface{}{
		"email": utils.NormaliseEmail(email),
	})
}

// DecodeEmbedding returns the stored embedding of user.
func (ir *IdentityRegistry) DecodeEmbedding(user *entities.User) (types.FaceEmbedding, error) {
	return ir.codec.Decode(types.EncodedEmbedding(user.FaceEmbedding))
}

// Create persists identity. The email (and, when enabled, the face) check
// and the insert run under a lock so concurrent registrations of the same
// identity cannot both succeed.
func (ir *IdentityRegistry) Create(ctx context.Context, identity NewIdentity) (*entities.User, error) {
	email := utils.NormaliseEmail(identity.Email)

	lockCtx, cancel := context.WithTimeout(ctx, registrationLockWait)
	defer cancel()

	release, err := ir.locker.Acquire(lockCtx, constants.REGISTRATION_LOCK_PREFIX+email, registrationLockTTL)
	if err != nil {
		return nil, fmt.Errorf("could not lock registration: %w", err)
	}
	defer release()

	if identity.FaceUniquenessThreshold != nil {
		releaseFace, err := ir.locker.Acquire(lockCtx, constants.FACE_LOCK_KEY, registrationLockTTL)
		if err != nil {
			return nil, fmt.Errorf("could not lock registration: %w", err)
		}
		defer releaseFace()
	}

	existing, err := ir.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	if identity.FaceUniquenessThreshold != nil {
		match, err := ir.FindByFace(ctx, identity.Embedding, *identity.FaceUniquenessThreshold)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return nil, ErrDuplicateFace
		}
	}

	encoded, err := ir.codec.Encode(identity.Embedding)
	if err != nil {
		return nil, fmt.Errorf("failed to encode embedding: %w", err)
	}

	user, err := ir.store.CreateOne(ctx, entities.User{
		FirstName:     identity.FirstName,
		LastName:      identity.LastName,
		Email:         email,
		Password:      identity.PasswordHash,
		Role:          identity.Role,
		UserAgent:     identity.UserAgent,
		FaceEmbedding: string(encoded),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) || errors.Is(err, ErrMemoryDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if ir.index != nil {
		ir.index.Add(user.Email, identity.Embedding)
	}
	return user, nil
}

// FindByFace returns an identity whose stored embedding lies under
// threshold from embedding, or nil, nil. Without an index the first match
// in store order wins; with an index the nearest candidate is confirmed
// with the exact distance.
func (ir *IdentityRegistry) FindByFace(ctx context.Context, embedding types.FaceEmbedding, threshold float64) (*entities.User, error) {
	if ir.index != nil {
		return ir.findByFaceIndexed(ctx, embedding, threshold)
	}

	var (
		found    *entities.User
		matchErr error
	)
	err := ir.store.ForEach(ctx, map[string]interface{}{}, func(user *entities.User) bool {
		stored, err := ir.DecodeEmbedding(user)
		if err != nil {
			logger.Warning("skipping identity with unreadable embedding", logger.LoggerOptions{
				Key:  "email",
				Data: user.Email,
			}, logger.LoggerOptions{
				Key:  "error",
				Data: err.Error(),
			})
			return true
		}
		decision, err := ir.matcher.MatchWithThreshold(embedding, stored, threshold)
		if err != nil {
			matchErr = err
			return false
		}
		if decision.IsMatch {
			found = user
			return false
		}
		return true
	}, &mongorepo.FindOptions{BatchSize: scanBatchSize})
	if err != nil {
		return nil, err
	}
	if matchErr != nil {
		return nil, matchErr
	}
	return found, nil
}

func (ir *IdentityRegistry) findByFaceIndexed(ctx context.Context, embedding types.FaceEmbedding, threshold float64) (*entities.User, error) {
	email, ok := ir.index.Nearest(embedding)
	if !ok {
		return nil, nil
	}
	user, err := ir.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}
	stored, err := ir.DecodeEmbedding(user)
	if err != nil {
		return nil, err
	}
	decision, err := ir.matcher.MatchWithThreshold(embedding, stored, threshold)
	if err != nil {
		return nil, err
	}
	if !decision.IsMatch {
		return nil, nil
	}
	return user, nil
}

// BuildIndex loads every decodable stored embedding into the face index.
func (ir *IdentityRegistry) BuildIndex(ctx context.Context) error {
	if ir.index == nil {
		return nil
	}
	var entries []faceindex.Entry
	err := ir.store.ForEach(ctx, map[string]interface{}{}, func(user *entities.User) bool {
		stored, err := ir.DecodeEmbedding(user)
		if err != nil {
			logger.Warning("face index skipped identity with unreadable embedding", logger.LoggerOptions{
				Key:  "email",
				Data: user.Email,
			})
			return true
		}
		entries = append(entries, faceindex.Entry{Key: user.Email, Embedding: stored})
		return true
	}, &mongorepo.FindOptions{BatchSize: scanBatchSize})
	if err != nil {
		return err
	}
	ir.index.Build(entries)
	logger.Info("face index built", logger.LoggerOptions{
		Key:  "identities",
		Data: len(entries),
	})
	return nil
}
