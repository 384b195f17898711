package repository

import (
	"context"

	"facegate.io/entities"
	"facegate.io/infrastructure/database/repository/mongo"
)

// UserStore is the persistence surface the identity registry needs.
// mongo.MongoRepository[entities.User] satisfies it.
type UserStore interface {
	FindOneByFilter(ctx context.Context, filter map[string]interface{}, opts ...*mongo.FindOptions) (*entities.User, error)
	CreateOne(ctx context.Context, payload entities.User) (*entities.User, error)
	ForEach(ctx context.Context, filter map[string]interface{}, fn func(doc *entities.User) bool, opts ...*mongo.FindOptions) error
}

// NewMongoUserStore wraps the users collection in the generic repository.
func NewMongoUserStore(repo *mongo.MongoRepository[entities.User]) UserStore {
	return repo
}
