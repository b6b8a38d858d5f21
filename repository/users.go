package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	user, err := database.Query[tables.User](r.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*tables.User, error) {
	user, err := database.Query[tables.User](r.db).Where("email", normalizeEmail(email)).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if user == nil {
		return nil, lib.ErrNotFound
	}
	return user, nil
}

// UpsertGuest returns the user owning email, creating a guest row when none
// exists. Concurrent callers converge on the same row through the unique
// email constraint.
func (r *UserRepository) UpsertGuest(ctx context.Context, email, name string) (*tables.User, error) {
	user := &tables.User{
		Email:     normalizeEmail(email),
		Name:      name,
		Role:      structs.RoleGuest,
		CreatedAt: time.Now(),
	}

	err := database.WithRetry(ctx, func() error {
		return r.db.NewInsert().
			Model(user).
			On("CONFLICT (email) DO UPDATE").
			Set("email = EXCLUDED.email").
			Returning("*").
			Scan(ctx)
	})
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *tables.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	_, err := database.Query[tables.User](r.db).Insert(ctx, user)
	return lib.MapPgError(err)
}

// PromoteGuest turns a guest row into a registered client.
func (r *UserRepository) PromoteGuest(ctx context.Context, id uuid.UUID, name, passwordHash string) (*tables.User, error) {
	rows, err := database.Query[tables.User](r.db).
		Where("id", id).
		Where("role", structs.RoleGuest).
		Update(ctx, map[string]any{
			"name":          name,
			"password_hash": passwordHash,
			"role":          structs.RoleClient,
		})
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if rows == 0 {
		return nil, lib.ErrConflict
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	rows, err := database.Query[tables.User](r.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := database.Query[tables.User](r.db).Where("id", id).Update(ctx, map[string]any{
		"last_login": time.Now(),
	})
	return lib.MapPgError(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
