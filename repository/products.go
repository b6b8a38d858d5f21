package repository

import (
	"context"
	"knitcraft_server/database"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type ProductRepository struct {
	db *database.DB
}

func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context, opts *structs.ProductListOptions) ([]tables.Product, int, error) {
	q := database.Query[tables.Product](r.db)

	if !opts.IncludeHidden {
		q = q.Where("is_active", true)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.WhereRaw("(p.name ILIKE ? OR p.description ILIKE ?)", pattern, pattern)
	}
	if opts.MinPrice != nil {
		q = q.WhereOp("price", ">=", *opts.MinPrice)
	}
	if opts.MaxPrice != nil {
		q = q.WhereOp("price", "<=", *opts.MaxPrice)
	}
	if opts.Customizable != nil {
		q = q.Where("is_customizable", *opts.Customizable)
	}

	switch opts.Sort {
	case structs.ProductSortPriceAsc:
		q = q.OrderBy("price", database.ASC)
	case structs.ProductSortPriceDesc:
		q = q.OrderBy("price", database.DESC)
	case structs.ProductSortName:
		q = q.OrderBy("name", database.ASC)
	default:
		q = q.OrderBy("created_at", database.DESC)
	}

	result, err := database.Paginate(ctx, q, opts.Page, opts.PageSize)
	if err != nil {
		return nil, 0, lib.MapPgError(err)
	}
	return result.Data, result.Pagination.Total, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return r.findOne(ctx, database.Query[tables.Product](r.db).Where("id", id))
}

func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	return r.findOne(ctx, database.Query[tables.Product](r.db).Where("slug", slug))
}

func (r *ProductRepository) findOne(ctx context.Context, q *database.QueryBuilder[tables.Product]) (*tables.Product, error) {
	product, err := q.With("Variants").First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if product == nil {
		return nil, lib.ErrNotFound
	}
	return product, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	products, err := database.Query[tables.Product](r.db).With("Variants").WhereIn("id", ids).All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *tables.Product) error {
	now := time.Now()
	product.CreatedAt, product.UpdatedAt = now, now
	if product.Images == nil {
		product.Images = []string{}
	}
	_, err := database.Query[tables.Product](r.db).Insert(ctx, product)
	return lib.MapPgError(err)
}

func (r *ProductRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	rows, err := database.Query[tables.Product](r.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	rows, err := database.Query[tables.Product](r.db).Where("id", id).Delete(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) ListVariants(ctx context.Context, productID uuid.UUID) ([]tables.ProductVariant, error) {
	variants, err := database.Query[tables.ProductVariant](r.db).
		Where("product_id", productID).
		OrderBy("days_min", database.ASC).
		All(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	return variants, nil
}

func (r *ProductRepository) FindVariant(ctx context.Context, id uuid.UUID) (*tables.ProductVariant, error) {
	variant, err := database.Query[tables.ProductVariant](r.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, lib.MapPgError(err)
	}
	if variant == nil {
		return nil, lib.ErrNotFound
	}
	return variant, nil
}

func (r *ProductRepository) CreateVariant(ctx context.Context, variant *tables.ProductVariant) error {
	variant.CreatedAt = time.Now()
	_, err := database.Query[tables.ProductVariant](r.db).Insert(ctx, variant)
	return lib.MapPgError(err)
}

func (r *ProductRepository) UpdateVariant(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	rows, err := database.Query[tables.ProductVariant](r.db).Where("id", id).Update(ctx, updates)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	rows, err := database.Query[tables.ProductVariant](r.db).Where("id", id).Delete(ctx)
	if err != nil {
		return lib.MapPgError(err)
	}
	if rows == 0 {
		return lib.ErrNotFound
	}
	return nil
}

// DecrementStock lowers stock for a product inside an existing transaction,
// never below zero.
func DecrementStock(ctx context.Context, tx bun.IDB, productID uuid.UUID, quantity int) error {
	_, err := tx.NewUpdate().
		Model((*tables.Product)(nil)).
		Set("stock = GREATEST(stock - ?, 0)", quantity).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", productID).
		Exec(ctx)
	return lib.MapPgError(err)
}
