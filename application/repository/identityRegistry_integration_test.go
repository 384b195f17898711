//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"facegate.io/entities"
	"facegate.io/infrastructure/biometric/biometrictest"
	"facegate.io/infrastructure/database/connection/datastore"
	mongorepo "facegate.io/infrastructure/database/repository/mongo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupMongoContainer(t *testing.T) (*datastore.Datastore, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil || container == nil {
		t.Skipf("docker not available, skipping integration test: %v", err)
		return nil, func() {}
	}

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017")
	require.NoError(t, err)

	ds, err := datastore.ConnectMongo(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()), "facegate_test")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to mongo: %v", err)
	}

	return ds, func() {
		_ = ds.Disconnect(ctx)
		_ = container.Terminate(ctx)
	}
}

func TestMongoBackedRegistry(t *testing.T) {
	ds, cleanup := setupMongoContainer(t)
	if ds == nil {
		return
	}
	defer cleanup()

	repo := &mongorepo.MongoRepository[entities.User]{Model: ds.UserModel}
	registry := newRegistry(t, NewMongoUserStore(repo), nil)
	ctx := context.Background()

	first, err := registry.Create(ctx, identity("Ada@X.com", 0.1))
	require.NoError(t, err)
	_, err = registry.Create(ctx, identity("grace@x.com", 0.5))
	require.NoError(t, err)

	found, err := registry.FindByEmail(ctx, "ada@x.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, first.ID, found.ID)

	_, err = registry.Create(ctx, identity("ada@x.com", 0.9))
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// the unique index holds even when the registry check is bypassed
	_, err = repo.CreateOne(ctx, entities.User{Email: "ada@x.com"})
	assert.True(t, mongo.IsDuplicateKeyError(err))

	match, err := registry.FindByFace(ctx, biometrictest.Embedding(0.5), 1.0)
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "grace@x.com", match.Email)

	none, err := registry.FindByFace(ctx, biometrictest.Embedding(-0.7), 1.0)
	require.NoError(t, err)
	assert.Nil(t, none)
}
