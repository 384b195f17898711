package datastore

import (
	"context"
	"fmt"
	"time"

	"facegate.io/application/constants"
	"facegate.io/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Datastore holds the mongo client and the collections the service uses.
type Datastore struct {
	Client    *mongo.Client
	UserModel *mongo.Collection
}

// ConnectMongo dials url, pings the primary and ensures indexes exist.
func ConnectMongo(ctx context.Context, url string, dbName string) (*Datastore, error) {
	if url == "" {
		return nil, fmt.Errorf("mongo url missing")
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(url)
	clientOpts.SetMinPoolSize(5)
	clientOpts.SetMaxPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("an error occured while starting the database: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("could not reach mongodb: %w", err)
	}

	db := client.Database(dbName)
	ds := &Datastore{Client: client}
	if err := ds.setUpIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("connected to mongodb successfully")
	return ds, nil
}

// Set up the indexes for the database
func (ds *Datastore) setUpIndexes(ctx context.Context, db *mongo.Database) error {
	ds.UserModel = db.Collection(constants.USERS_COLLECTION)
	_, err := ds.UserModel.Indexes().CreateMany(ctx, []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	}})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	logger.Info("mongodb indexes set up successfully")
	return nil
}

func (ds *Datastore) Disconnect(ctx context.Context) error {
	return ds.Client.Disconnect(ctx)
}
