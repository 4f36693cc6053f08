package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"task-manager/internal/apperror"
	"task-manager/internal/repository"
	"task-manager/pkg/token"
)

func newAuthService(t *testing.T) (*AuthService, *token.Manager, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	tokens := token.NewManager("test-secret", time.Hour)
	return NewAuthService(store.Users(), tokens, bcrypt.MinCost), tokens, store
}

func TestRegister(t *testing.T) {
	svc, _, store := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "u1", user.Username)
	assert.Empty(t, user.Password)

	body, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "password")

	stored, err := store.Users().FindByUsername(ctx, "u1")
	require.NoError(t, err)
	assert.NotEqual(t, "p1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("p1")))
}

func TestRegisterDuplicate(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "u1", "p1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "u1", "other")
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.EqualError(t, err, "Duplicate field(username). Please use another value(u1)!")
}

func TestLogin(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "u1", "p1")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, res.User.ID)
	assert.Empty(t, res.User.Password)

	userID, err := tokens.Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, userID)
}

func TestLoginFailures(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "u1", "p1")
	require.NoError(t, err)

	for name, creds := range map[string][2]string{
		"wrong password":   {"u1", "nope"},
		"unknown username": {"ghost", "p1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Login(ctx, creds[0], creds[1])
			require.Error(t, err)
			assert.Equal(t, apperror.KindCredentials, apperror.KindOf(err))
		})
	}
}
