package bootstrap

import (
	"context"
	"coursell/backend/internal/config"
	"coursell/backend/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStoreMemory(t *testing.T) {
	store, err := OpenStore(config.DatabaseConfig{Driver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	id, err := store.Admins.Create(context.Background(), &domain.Admin{Username: "ops", PasswordHash: "x"})
	require.NoError(t, err)

	got, err := store.Admins.GetByUsername(context.Background(), "ops")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestOpenStoreUnknownDriver(t *testing.T) {
	_, err := OpenStore(config.DatabaseConfig{Driver: "sqlite"}, zap.NewNop())
	assert.Error(t, err)
}
