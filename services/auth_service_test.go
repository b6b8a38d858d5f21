package services

import (
	"context"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testArgonParams = &structs.ArgonParams{Memory: 1024, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}

func newTestAuthService(users *mockUserStore, blacklist TokenBlacklist) *AuthService {
	cfg := &structs.Config{Auth: &structs.AuthConfig{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 24 * time.Hour,
		AdminEmail:         "owner@example.com",
		AdminPassword:      "super-secret-pass",
	}}
	as := NewAuthService(gecho.NewDefaultLogger(), cfg, users, blacklist)
	as.params = testArgonParams
	return as
}

func TestRegisterPromotesGuest(t *testing.T) {
	users := &mockUserStore{}
	guest := &tables.User{Id: uuid.New(), Email: "anna@example.com", Role: structs.RoleGuest}
	promoted := &tables.User{Id: guest.Id, Email: guest.Email, Name: "Anna", Role: structs.RoleClient}

	users.On("FindByEmail", mock.Anything, "anna@example.com").Return(guest, nil)
	users.On("PromoteGuest", mock.Anything, guest.Id, "Anna", mock.AnythingOfType("string")).Return(promoted, nil)

	as := newTestAuthService(users, newMemoryBlacklist())
	user, err := as.Register(context.Background(), &structs.RegisterRequest{Name: " Anna ", Email: "anna@example.com", Password: "password123"})

	require.NoError(t, err)
	assert.Equal(t, guest.Id, user.Id)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegisterRejectsExistingClient(t *testing.T) {
	users := &mockUserStore{}
	users.On("FindByEmail", mock.Anything, "anna@example.com").Return(&tables.User{Id: uuid.New(), Role: structs.RoleClient, PasswordHash: "hash"}, nil)

	as := newTestAuthService(users, newMemoryBlacklist())
	_, err := as.Register(context.Background(), &structs.RegisterRequest{Name: "Anna", Email: "anna@example.com", Password: "password123"})

	assert.ErrorIs(t, err, lib.ErrConflict)
}

func TestLoginVerifiesPassword(t *testing.T) {
	users := &mockUserStore{}
	hash, err := lib.HashPassword("password123", testArgonParams)
	require.NoError(t, err)
	stored := &tables.User{Id: uuid.New(), Email: "anna@example.com", Role: structs.RoleClient, PasswordHash: hash}

	users.On("FindByEmail", mock.Anything, "anna@example.com").Return(stored, nil)
	users.On("UpdateLastLogin", mock.Anything, stored.Id).Return(nil)

	as := newTestAuthService(users, newMemoryBlacklist())

	_, err = as.Login(context.Background(), &structs.AuthRequest{Email: "anna@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)

	user, err := as.Login(context.Background(), &structs.AuthRequest{Email: "anna@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	users := &mockUserStore{}
	weak := &structs.ArgonParams{Memory: 512, Time: 1, Threads: 1, KeyLen: 32, SaltLen: 16}
	hash, err := lib.HashPassword("password123", weak)
	require.NoError(t, err)
	stored := &tables.User{Id: uuid.New(), Email: "anna@example.com", Role: structs.RoleClient, PasswordHash: hash}

	users.On("FindByEmail", mock.Anything, "anna@example.com").Return(stored, nil)
	users.On("UpdateLastLogin", mock.Anything, stored.Id).Return(nil)
	users.On("Update", mock.Anything, stored.Id, mock.MatchedBy(func(u map[string]any) bool {
		h, ok := u["password_hash"].(string)
		return ok && !lib.NeedsRehash(h, testArgonParams)
	})).Return(nil)

	as := newTestAuthService(users, newMemoryBlacklist())
	_, err = as.Login(context.Background(), &structs.AuthRequest{Email: "anna@example.com", Password: "password123"})

	require.NoError(t, err)
	users.AssertExpectations(t)
}

func TestLoginUnknownEmail(t *testing.T) {
	users := &mockUserStore{}
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, lib.ErrNotFound)

	as := newTestAuthService(users, newMemoryBlacklist())
	_, err := as.Login(context.Background(), &structs.AuthRequest{Email: "ghost@example.com", Password: "password123"})

	assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
}

func TestAuthenticateAndLogout(t *testing.T) {
	users := &mockUserStore{}
	blacklist := newMemoryBlacklist()
	as := newTestAuthService(users, blacklist)
	user := &tables.User{Id: uuid.New(), Email: "owner@example.com", Role: structs.RoleAdmin}

	tokens, err := as.IssueTokens(user)
	require.NoError(t, err)

	principal, err := as.Authenticate(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.Id, principal.UserID)
	assert.True(t, principal.IsAdmin())

	as.Logout(tokens.AccessToken, tokens.RefreshToken)
	assert.Len(t, blacklist.revoked, 2)

	_, err = as.Authenticate(tokens.AccessToken)
	assert.ErrorIs(t, err, lib.ErrInvalidToken)
}

func TestRefreshRotatesToken(t *testing.T) {
	users := &mockUserStore{}
	blacklist := newMemoryBlacklist()
	as := newTestAuthService(users, blacklist)
	user := &tables.User{Id: uuid.New(), Email: "anna@example.com", Role: structs.RoleClient}
	users.On("FindByID", mock.Anything, user.Id).Return(user, nil)

	tokens, err := as.IssueTokens(user)
	require.NoError(t, err)

	_, rotated, err := as.Refresh(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)

	_, _, err = as.Refresh(context.Background(), tokens.RefreshToken)
	assert.ErrorIs(t, err, lib.ErrInvalidToken)
}

func TestEnsureAdminCreatesAccount(t *testing.T) {
	users := &mockUserStore{}
	users.On("FindByEmail", mock.Anything, "owner@example.com").Return(nil, lib.ErrNotFound)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *tables.User) bool {
		return u.Role == structs.RoleAdmin && u.PasswordHash != ""
	})).Return(nil)

	as := newTestAuthService(users, newMemoryBlacklist())

	require.NoError(t, as.EnsureAdmin(context.Background()))
	users.AssertExpectations(t)
}
