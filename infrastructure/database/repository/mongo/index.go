package mongo

import (
	"context"
	"errors"

	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateOne stamps payload via ParseModel and inserts it.
func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	parsed := payload.ParseModel().(*T)
	_, err := repo.Model.InsertOne(ctx, parsed)
	if err != nil {
		if !mongo.IsDuplicateKeyError(err) {
			logger.Error("mongo error occured while running CreateOne", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
		return nil, err
	}
	return parsed, nil
}

// FindOneByFilter returns nil, nil when no document matches.
func (repo *MongoRepository[T]) FindOneByFilter(ctx context.Context, filter map[string]interface{}, opts ...*FindOptions) (*T, error) {
	findOpts := options.FindOne()
	if len(opts) > 0 && opts[0] != nil {
		if opts[0].Projection != nil {
			findOpts.SetProjection(opts[0].Projection)
		}
		if opts[0].Sort != nil {
			findOpts.SetSort(opts[0].Sort)
		}
	}

	var result T
	err := repo.Model.FindOne(ctx, bson.M(filter), findOpts).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("mongo error occured while running FindOneByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	return &result, nil
}

// ForEach streams every matching document through fn in natural (insertion)
// order. Returning false from fn stops the iteration early.
func (repo *MongoRepository[T]) ForEach(ctx context.Context, filter map[string]interface{}, fn func(doc *T) bool, opts ...*FindOptions) error {
	findOpts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	if len(opts) > 0 && opts[0] != nil {
		if opts[0].Projection != nil {
			findOpts.SetProjection(opts[0].Projection)
		}
		if opts[0].BatchSize > 0 {
			findOpts.SetBatchSize(opts[0].BatchSize)
		}
	}

	cursor, err := repo.Model.Find(ctx, bson.M(filter), findOpts)
	if err != nil {
		logger.Error("mongo error occured while running ForEach", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			return err
		}
		if !fn(&doc) {
			return nil
		}
	}
	return cursor.Err()
}
