package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRegister_HashesPasswordAndSetsDefaults(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	created, err := svc.Register(context.Background(), "  alice ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.True(t, created.Enabled)
	assert.Equal(t, []string{RoleUser}, created.Roles)
	assert.NotEqual(t, "secret", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret")))

	found, err := svc.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := NewService(NewInMemoryRepository([]User{{ID: 3, Username: "bob"}}))

	_, err := svc.Register(context.Background(), "bob", "pw")
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestRegister_MissingFields(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	_, err := svc.Register(context.Background(), " ", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Register(context.Background(), "carol", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFindByUsername_NotFound(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil))

	_, err := svc.FindByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSanitized(t *testing.T) {
	u := User{Username: "a", Password: "hash"}
	assert.Empty(t, u.Sanitized().Password)
	assert.Equal(t, "hash", u.Password)
}

func TestInMemoryGetByID(t *testing.T) {
	repo := NewInMemoryRepository([]User{{ID: 3, Username: "bob"}})

	u, err := repo.GetByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	_, err = repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
}
