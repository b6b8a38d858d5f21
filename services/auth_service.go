package services

import (
	"context"
	"errors"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type AuthService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	users     UserStore
	blacklist TokenBlacklist
	params    *structs.ArgonParams
}

func NewAuthService(logger *gecho.Logger, cfg *structs.Config, users UserStore, blacklist TokenBlacklist) *AuthService {
	return &AuthService{
		logger:    logger,
		cfg:       cfg,
		users:     users,
		blacklist: blacklist,
		params:    lib.DefaultArgonParams,
	}
}

// Register creates a CLIENT account. A guest row with the same email is
// promoted instead; an already registered email is a conflict.
func (as *AuthService) Register(ctx context.Context, req *structs.RegisterRequest) (*tables.User, error) {
	startTime := time.Now()

	passwordHash, err := lib.HashPassword(req.Password, as.params)
	if err != nil {
		as.logger.Error("Failed to hash password", gecho.Field("error", err))
		return nil, err
	}
	name := strings.TrimSpace(req.Name)

	user, err := as.promoteOrCreate(ctx, req.Email, name, passwordHash)
	if err != nil {
		if lib.IsUniqueViolation(err) {
			as.logger.Warn("Registration failed - email already registered", gecho.Field("email", req.Email))
		} else {
			as.logger.Error("Database error during registration", gecho.Field("error", err), gecho.Field("email", req.Email))
		}
		return nil, err
	}

	as.logger.Debug("User registered successfully", gecho.Field("user_id", user.Id), gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()))
	return user, nil
}

func (as *AuthService) promoteOrCreate(ctx context.Context, email, name, passwordHash string) (*tables.User, error) {
	existing, err := as.users.FindByEmail(ctx, email)
	if err != nil && !lib.IsNotFound(err) {
		return nil, err
	}

	if existing != nil {
		if !existing.IsGuest() {
			return nil, lib.ErrConflict
		}
		return as.users.PromoteGuest(ctx, existing.Id, name, passwordHash)
	}

	user := &tables.User{
		Email:        email,
		Name:         name,
		Role:         structs.RoleClient,
		PasswordHash: passwordHash,
	}
	if err := as.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (as *AuthService) Login(ctx context.Context, req *structs.AuthRequest) (*tables.User, error) {
	user, err := as.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if !lib.IsNotFound(err) {
			as.logger.Error("Unexpected database error during login", gecho.Field("error", err))
		}
		// Always return invalid credentials (don't leak user existence)
		return nil, lib.ErrInvalidCredentials
	}

	if user.PasswordHash == "" {
		as.logger.Debug("Login attempt on account without password", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	valid, err := lib.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		as.logger.Error("Failed to verify password hash", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return nil, err
	}
	if !valid {
		as.logger.Debug("Invalid password attempt", gecho.Field("user_id", user.Id))
		return nil, lib.ErrInvalidCredentials
	}

	if err := as.users.UpdateLastLogin(ctx, user.Id); err != nil {
		as.logger.Warn("Failed to update last login", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}
	as.upgradeHash(ctx, user, req.Password)

	user.PasswordHash = ""
	return user, nil
}

// upgradeHash re-hashes a verified password stored with older argon2 settings.
func (as *AuthService) upgradeHash(ctx context.Context, user *tables.User, password string) {
	if !lib.NeedsRehash(user.PasswordHash, as.params) {
		return
	}
	hash, err := lib.HashPassword(password, as.params)
	if err != nil {
		as.logger.Warn("Failed to re-hash password", gecho.Field("error", err), gecho.Field("user_id", user.Id))
		return
	}
	if err := as.users.Update(ctx, user.Id, map[string]any{"password_hash": hash}); err != nil {
		as.logger.Warn("Failed to store re-hashed password", gecho.Field("error", err), gecho.Field("user_id", user.Id))
	}
}

// IssueTokens signs a fresh access and refresh token for the user.
func (as *AuthService) IssueTokens(user *tables.User) (*TokenPair, error) {
	access, accessClaims, err := lib.SignToken(user.Id, user.Email, user.Role, as.cfg.Auth.AccessTokenExpiry, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		return nil, err
	}
	refresh, refreshClaims, err := lib.SignToken(user.Id, user.Email, user.Role, as.cfg.Auth.RefreshTokenExpiry, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessClaims.Exp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshClaims.Exp,
	}, nil
}

// Refresh rotates a refresh token: the old one is blacklisted and a new pair is issued.
func (as *AuthService) Refresh(ctx context.Context, refreshToken string) (*tables.User, *TokenPair, error) {
	claims, err := lib.ParseToken(refreshToken, as.cfg.Auth.RefreshTokenSecret)
	if err != nil {
		as.logger.Debug("Failed to parse refresh token", gecho.Field("error", err))
		return nil, nil, err
	}

	revoked, err := as.blacklist.IsTokenBlacklisted(claims.Jti)
	if err != nil {
		as.logger.Error("Failed to check if token is blacklisted", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		return nil, nil, err
	}
	if revoked {
		as.logger.Warn("Refresh token is blacklisted", gecho.Field("jti", claims.Jti))
		return nil, nil, lib.ErrInvalidToken
	}

	user, err := as.users.FindByID(ctx, claims.Sub)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, nil, lib.ErrInvalidToken
		}
		return nil, nil, err
	}

	if err := as.blacklist.BlacklistToken(claims.Jti, claims.Exp); err != nil {
		as.logger.Warn("Failed to blacklist rotated refresh token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	}

	tokens, err := as.IssueTokens(user)
	if err != nil {
		return nil, nil, err
	}
	user.PasswordHash = ""
	return user, tokens, nil
}

// Logout revokes whichever of the given tokens still parse.
func (as *AuthService) Logout(accessToken, refreshToken string) {
	tokens := []struct{ value, secret string }{
		{accessToken, as.cfg.Auth.AccessTokenSecret},
		{refreshToken, as.cfg.Auth.RefreshTokenSecret},
	}
	for _, t := range tokens {
		if t.value == "" {
			continue
		}
		claims, err := lib.ParseToken(t.value, t.secret)
		if err != nil {
			continue
		}
		if err := as.blacklist.BlacklistToken(claims.Jti, claims.Exp); err != nil {
			as.logger.Warn("Failed to blacklist token on logout", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
		}
	}
}

func (as *AuthService) GetUser(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	return as.users.FindByID(ctx, id)
}

// Authenticate validates an access token and returns the principal it carries.
func (as *AuthService) Authenticate(accessToken string) (*structs.Principal, error) {
	claims, err := lib.ParseToken(accessToken, as.cfg.Auth.AccessTokenSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := as.blacklist.IsTokenBlacklisted(claims.Jti)
	if err != nil {
		as.logger.Warn("Blacklist lookup failed, accepting token", gecho.Field("error", err), gecho.Field("jti", claims.Jti))
	} else if revoked {
		return nil, lib.ErrInvalidToken
	}

	return &structs.Principal{UserID: claims.Sub, Email: claims.Email, Role: claims.Role}, nil
}

// EnsureAdmin makes sure the configured admin account exists with the ADMIN role.
func (as *AuthService) EnsureAdmin(ctx context.Context) error {
	email := strings.TrimSpace(as.cfg.Auth.AdminEmail)
	if email == "" || as.cfg.Auth.AdminPassword == "" {
		as.logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin bootstrap")
		return nil
	}

	existing, err := as.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, lib.ErrNotFound) {
		return err
	}

	if existing != nil {
		if existing.Role == structs.RoleAdmin {
			return nil
		}
		updates := map[string]any{"role": structs.RoleAdmin}
		if existing.PasswordHash == "" {
			hash, err := lib.HashPassword(as.cfg.Auth.AdminPassword, as.params)
			if err != nil {
				return err
			}
			updates["password_hash"] = hash
		}
		if err := as.users.Update(ctx, existing.Id, updates); err != nil {
			return err
		}
		as.logger.Info("Existing account promoted to admin", gecho.Field("user_id", existing.Id))
		return nil
	}

	hash, err := lib.HashPassword(as.cfg.Auth.AdminPassword, as.params)
	if err != nil {
		return err
	}
	admin := &tables.User{
		Email:        email,
		Name:         "Administrator",
		Role:         structs.RoleAdmin,
		PasswordHash: hash,
	}
	if err := as.users.Create(ctx, admin); err != nil {
		return err
	}
	as.logger.Info("Admin account created", gecho.Field("user_id", admin.Id))
	return nil
}
