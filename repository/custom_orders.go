package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
)

type CustomOrderRepository struct {
	db *database.DB
}

func NewCustomOrderRepository(db *database.DB) *CustomOrderRepository {
	return &CustomOrderRepository{db: db}
}

func (r *CustomOrderRepository) Create(ctx context.Context, order *tables.CustomOrder) error {
	now := time.Now()
	order.CreatedAt, order.UpdatedAt = now, now
	_, err := database.Query[tables.CustomOrder](r.db).Insert(ctx, order)
	return lib.MapPgError(err)
}

func (r *CustomOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*tables.CustomOrder, error) {
	order, err := database.Query[tables.CustomOrder](r.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}
	return order, nil
}

// List returns custom orders newest first, optionally narrowed by status and owner.
func (r *CustomOrderRepository) List(ctx context.Context, status string, userID *uuid.UUID) ([]tables.CustomOrder, error) {
	q := database.Query[tables.CustomOrder](r.db)
	if status != "" {
		q = q.Where("status", status)
	}
	if userID != nil {
		q = q.Where("user_id", *userID)
	}

	orders, err := q.OrderBy("created_at", database.DESC).Limit(200).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}

func (r *CustomOrderRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	rows, err := database.Query[tables.CustomOrder](r.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}
