package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"task-manager/configs"
	"task-manager/internal/service"
)

func TestNewDependenciesMemory(t *testing.T) {
	ctx := context.Background()
	deps, err := NewDependencies(ctx, configs.Config{
		StoreDriver: configs.DriverMemory,
		JWTSecret:   "s",
		TokenTTL:    time.Hour,
		BcryptCost:  bcrypt.MinCost,
	})
	require.NoError(t, err)
	defer deps.Close(ctx)

	_, err = deps.Auth.Register(ctx, "u1", "p1")
	require.NoError(t, err)
	res, err := deps.Auth.Login(ctx, "u1", "p1")
	require.NoError(t, err)

	userID, err := deps.Tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)

	task, err := deps.Tasks.Create(ctx, userID, service.NewTask{Title: "wired"})
	require.NoError(t, err)
	assert.Equal(t, userID, task.UserID)
}

func TestNewDependenciesUnknownDriver(t *testing.T) {
	_, err := NewDependencies(context.Background(), configs.Config{StoreDriver: "sqlite"})
	assert.ErrorContains(t, err, "unknown store driver")
}
