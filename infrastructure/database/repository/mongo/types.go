package mongo

import (
	"facegate.io/infrastructure/database"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoRepository is a typed view over one collection.
type MongoRepository[T database.BaseModel] struct {
	Model *mongo.Collection
}

// FindOptions narrows a read. Zero values leave the driver defaults in place.
type FindOptions struct {
	Projection interface{}
	Sort       interface{}
	// BatchSize caps how many documents ForEach pulls per round trip.
	BatchSize int32
}
