package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type OrderRepository struct {
	db *database.DB
}

func NewOrderRepository(db *database.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems writes the order, its lines and their customizations in one
// transaction and lowers product stock.
func (r *OrderRepository) CreateWithItems(ctx context.Context, order *tables.Order, items []*tables.OrderItem) error {
	now := time.Now()
	order.CreatedAt, order.UpdatedAt = now, now

	err := database.Transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Returning("*").Exec(ctx); err != nil {
			return err
		}

		for _, item := range items {
			item.OrderId = order.Id
			if _, err := tx.NewInsert().Model(item).Returning("*").Exec(ctx); err != nil {
				return err
			}

			if len(item.Customizations) > 0 {
				for i := range item.Customizations {
					item.Customizations[i].OrderItemId = item.Id
				}
				if _, err := tx.NewInsert().Model(&item.Customizations).Returning("*").Exec(ctx); err != nil {
					return err
				}
			}

			if item.ProductId != nil {
				if err := DecrementStock(ctx, tx, *item.ProductId, item.Quantity); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return lib.MapPgError(err)
	}

	order.Items = make([]tables.OrderItem, 0, len(items))
	for _, item := range items {
		order.Items = append(order.Items, *item)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	order, err := database.Query[tables.Order](r.db).
		With("Items").
		With("Items.Customizations").
		Where("id", id).
		First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if order == nil {
		return nil, lib.ErrNotFound
	}
	return order, nil
}

func (r *OrderRepository) List(ctx context.Context, opts *structs.OrderListOptions) ([]tables.Order, int, error) {
	q := database.Query[tables.Order](r.db)

	if opts.Status != "" {
		q = q.Where("status", opts.Status)
	}
	if opts.PaymentStatus != "" {
		q = q.Where("payment_status", opts.PaymentStatus)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.WhereRaw("(o.order_number ILIKE ? OR o.email ILIKE ? OR o.last_name ILIKE ?)", pattern, pattern, pattern)
	}
	q = q.OrderBy("created_at", database.DESC)

	result, err := database.Paginate(ctx, q, opts.Page, opts.PageSize)
	if err != nil {
		return nil, 0, lib.MapPgError(err)
	}
	return result.Data, result.Pagination.Total, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]tables.Order, error) {
	orders, err := database.Query[tables.Order](r.db).
		With("Items").
		Where("user_id", userID).
		OrderBy("created_at", database.DESC).
		Limit(100).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	rows, err := database.Query[tables.Order](r.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// ConfirmedRevenue sums the totals of CONFIRMED orders.
func (r *OrderRepository) ConfirmedRevenue(ctx context.Context) (decimal.Decimal, int, error) {
	var revenue decimal.Decimal
	var count int

	err := database.WithRetry(ctx, func() error {
		return r.db.NewSelect().
			Model((*tables.Order)(nil)).
			ColumnExpr("COALESCE(SUM(o.total_price), 0)").
			ColumnExpr("COUNT(*)").
			Where("o.status = ?", tables.OrderStatusConfirmed).
			Scan(ctx, &revenue, &count)
	})
	if err != nil {
		return decimal.Zero, 0, lib.MapPgError(err)
	}
	return revenue, count, nil
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status tables.OrderStatus) (int, error) {
	count, err := database.Query[tables.Order](r.db).Where("status", status).Count(ctx)
	return count, lib.MapPgError(err)
}

// HasPurchased reports whether the user has a non-cancelled order containing the product.
func (r *OrderRepository) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*tables.OrderItem)(nil)).
		Join("JOIN orders AS o ON o.id = oi.order_id").
		Where("o.user_id = ?", userID).
		Where("oi.product_id = ?", productID).
		Where("o.status <> ?", tables.OrderStatusCancelled).
		Exists(ctx)
	if err != nil {
		return false, lib.MapPgError(err)
	}
	return exists, nil
}
