package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

type ReviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *tables.Review) error {
	review.CreatedAt = time.Now()
	_, err := database.Query[tables.Review](r.db).Insert(ctx, review)
	return lib.MapPgError(err)
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*tables.Review, error) {
	review, err := database.Query[tables.Review](r.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if review == nil {
		return nil, lib.ErrNotFound
	}
	return review, nil
}

func (r *ReviewRepository) filtered(filter *structs.ReviewFilter) *database.QueryBuilder[tables.Review] {
	q := database.Query[tables.Review](r.db)
	if !filter.IncludeHidden {
		q = q.Where("is_published", true)
	}
	if filter.ProductID != nil {
		q = q.Where("product_id", *filter.ProductID)
	}
	return q
}

func (r *ReviewRepository) List(ctx context.Context, filter *structs.ReviewFilter) ([]tables.Review, int, error) {
	q := r.filtered(filter).OrderBy("created_at", database.DESC)

	result, err := database.Paginate(ctx, q, filter.Page, filter.PageSize)
	if err != nil {
		return nil, 0, lib.MapPgError(err)
	}
	return result.Data, result.Pagination.Total, nil
}

// Top returns the best published reviews: highest rating, then most helpful, then newest.
func (r *ReviewRepository) Top(ctx context.Context, limit int) ([]tables.Review, error) {
	reviews, err := database.Query[tables.Review](r.db).
		Where("is_published", true).
		OrderBy("rating", database.DESC).
		OrderBy("helpful", database.DESC).
		OrderBy("created_at", database.DESC).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return reviews, nil
}

func (r *ReviewRepository) Stats(ctx context.Context, productID *uuid.UUID) (*structs.ReviewStats, error) {
	stats := &structs.ReviewStats{}

	err := database.WithRetry(ctx, func() error {
		q := r.db.NewSelect().
			Model((*tables.Review)(nil)).
			ColumnExpr("COUNT(*)").
			ColumnExpr("COALESCE(AVG(r.rating), 0)::float8").
			Where("r.is_published = TRUE")
		if productID != nil {
			q = q.Where("r.product_id = ?", *productID)
		}
		return q.Scan(ctx, &stats.Count, &stats.Average)
	})
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return stats, nil
}

// IncrementHelpful bumps the helpful counter and returns the new value.
func (r *ReviewRepository) IncrementHelpful(ctx context.Context, id uuid.UUID) (int, error) {
	var helpful int
	err := r.db.NewUpdate().
		Model((*tables.Review)(nil)).
		Set("helpful = helpful + 1").
		Where("id = ?", id).
		Returning("helpful").
		Scan(ctx, &helpful)
	if err != nil {
		return 0, lib.MapPgError(err)
	}
	return helpful, nil
}

func (r *ReviewRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	rows, err := database.Query[tables.Review](r.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := database.Query[tables.Review](r.db).Where("id", id).Delete(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}
