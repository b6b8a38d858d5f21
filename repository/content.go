package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

type ContentRepository struct {
	db *database.DB
}

func NewContentRepository(db *database.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// GetAbout returns the About page, or nil when it has never been saved.
func (r *ContentRepository) GetAbout(ctx context.Context) (*tables.About, error) {
	about, err := database.Query[tables.About](r.db).Where("key", tables.AboutPageKey).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return about, nil
}

// SaveAbout upserts the single About row.
func (r *ContentRepository) SaveAbout(ctx context.Context, about *tables.About) error {
	about.Key = tables.AboutPageKey
	about.UpdatedAt = time.Now()

	err := database.WithRetry(ctx, func() error {
		return r.db.NewInsert().
			Model(about).
			On("CONFLICT (key) DO UPDATE").
			Set("title = EXCLUDED.title").
			Set("subtitle = EXCLUDED.subtitle").
			Set("story = EXCLUDED.story").
			Set("image_url = EXCLUDED.image_url").
			Set("extended = EXCLUDED.extended").
			Set("updated_at = EXCLUDED.updated_at").
			Returning("*").
			Scan(ctx)
	})
	return lib.MapPgError(err)
}

func (r *ContentRepository) CreateContactMessage(ctx context.Context, msg *tables.ContactMessage) error {
	msg.CreatedAt = time.Now()
	_, err := database.Query[tables.ContactMessage](r.db).Insert(ctx, msg)
	return lib.MapPgError(err)
}

func (r *ContentRepository) ListContactMessages(ctx context.Context, unreadOnly bool) ([]tables.ContactMessage, error) {
	q := database.Query[tables.ContactMessage](r.db)
	if unreadOnly {
		q = q.Where("is_read", false)
	}
	messages, err := q.OrderBy("created_at", database.DESC).Limit(200).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return messages, nil
}

func (r *ContentRepository) MarkContactMessageRead(ctx context.Context, id uuid.UUID) error {
	rows, err := database.Query[tables.ContactMessage](r.db).Where("id", id).Update(ctx, map[string]any{"is_read": true})
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}
