package repository

import (
	"context"
	"errors"
	"sync"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/repository/mongo"
)

var ErrMemoryDuplicateKey = errors.New("duplicate key: email")

// MemoryUserStore keeps users in insertion order in process memory. It
// understands only equality filters on "email" and the empty filter.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users []entities.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{}
}

func (ms *MemoryUserStore) FindOneByFilter(_ context.Context, filter map[string]interface{}, _ ...*mongo.FindOptions) (*entities.User, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	for _, user := range ms.users {
		if matches(user, filter) {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (ms *MemoryUserStore) CreateOne(_ context.Context, payload entities.User) (*entities.User, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, user := range ms.users {
		if user.Email == payload.Email {
			return nil, ErrMemoryDuplicateKey
		}
	}
	parsed := payload.ParseModel().(*entities.User)
	ms.users = append(ms.users, *parsed)
	created := *parsed
	return &created, nil
}

func (ms *MemoryUserStore) ForEach(ctx context.Context, filter map[string]interface{}, fn func(doc *entities.User) bool, _ ...*mongo.FindOptions) error {
	ms.mu.RLock()
	snapshot := make([]entities.User, len(ms.users))
	copy(snapshot, ms.users)
	ms.mu.RUnlock()

	for i := range snapshot {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matches(snapshot[i], filter) {
			continue
		}
		if !fn(&snapshot[i]) {
			return nil
		}
	}
	return nil
}

// Len reports the number of stored users.
func (ms *MemoryUserStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.users)
}

func matches(user entities.User, filter map[string]interface{}) bool {
	if email, ok := filter["email"]; ok {
		return user.Email == email
	}
	return true
}
