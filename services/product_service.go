package services

import (
	"context"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductService struct {
	logger   *gecho.Logger
	products ProductStore
	cache    ProductCache
}

func NewProductService(logger *gecho.Logger, products ProductStore, cache ProductCache) *ProductService {
	return &ProductService{
		logger:   logger,
		products: products,
		cache:    cache,
	}
}

func (ps *ProductService) ListProducts(ctx context.Context, opts *structs.ProductListOptions) ([]tables.Product, int, error) {
	return ps.products.List(ctx, opts)
}

// GetProductBySlug returns an active product with its variants, served from
// the cache when possible.
func (ps *ProductService) GetProductBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	cached, err := ps.cache.GetProductBySlug(slug)
	if err != nil {
		ps.logger.Warn("Product cache read failed", gecho.Field("error", err), gecho.Field("slug", slug))
	} else if cached != nil {
		return cached, nil
	}

	product, err := ps.products.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, lib.ErrNotFound
	}

	if err := ps.cache.SetProductBySlug(product); err != nil {
		ps.logger.Warn("Failed to cache product", gecho.Field("error", err), gecho.Field("slug", slug))
	}
	return product, nil
}

func (ps *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	return ps.products.FindByID(ctx, id)
}

func (ps *ProductService) invalidate(productID uuid.UUID) {
	if err := ps.cache.InvalidateProductCaches(productID); err != nil {
		ps.logger.Warn("Failed to invalidate product cache", gecho.Field("error", err), gecho.Field("product_id", productID))
	}
}

func validateDeliveryWindow(minField, maxField string, daysMin, daysMax int) error {
	if daysMin > daysMax {
		return lib.NewValidationError(maxField, "must be greater than or equal to "+minField)
	}
	return nil
}

func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	if req.Price.IsNegative() {
		return nil, lib.NewValidationError("price", "must not be negative")
	}
	if err := validateDeliveryWindow("deliveryDaysMin", "deliveryDaysMax", req.DeliveryDaysMin, req.DeliveryDaysMax); err != nil {
		return nil, err
	}

	slug := lib.Slugify(req.Slug)
	if slug == "" {
		slug = lib.Slugify(req.Name)
	}

	product := &tables.Product{
		Slug:               slug,
		Name:               strings.TrimSpace(req.Name),
		Description:        req.Description,
		Price:              req.Price.Round(2),
		DiscountPercentage: req.DiscountPercentage,
		Stock:              req.Stock,
		DeliveryDaysMin:    req.DeliveryDaysMin,
		DeliveryDaysMax:    req.DeliveryDaysMax,
		IsCustomizable:     req.IsCustomizable,
		AllowWhatsapp:      boolOr(req.AllowWhatsapp, true),
		AllowEmail:         boolOr(req.AllowEmail, true),
		IsActive:           boolOr(req.IsActive, true),
		Images:             req.Images,
	}

	if err := ps.products.Create(ctx, product); err != nil {
		if lib.IsUniqueViolation(err) {
			ps.logger.Warn("Product slug already exists", gecho.Field("slug", slug))
		} else {
			ps.logger.Error("Failed to create product", gecho.Field("error", err))
		}
		return nil, err
	}

	ps.logger.Info("Product created", gecho.Field("product_id", product.ID), gecho.Field("slug", product.Slug))
	return product, nil
}

func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.UpdateProductRequest) (*tables.Product, error) {
	current, err := ps.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Slug != nil {
		slug := lib.Slugify(*req.Slug)
		if slug == "" {
			return nil, lib.NewValidationError("slug", "must contain letters or digits")
		}
		updates["slug"] = slug
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, lib.NewValidationError("price", "must not be negative")
		}
		updates["price"] = req.Price.Round(2)
	}
	if req.DiscountPercentage != nil {
		updates["discount_percentage"] = *req.DiscountPercentage
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}

	daysMin, daysMax := current.DeliveryDaysMin, current.DeliveryDaysMax
	if req.DeliveryDaysMin != nil {
		daysMin = *req.DeliveryDaysMin
		updates["delivery_days_min"] = daysMin
	}
	if req.DeliveryDaysMax != nil {
		daysMax = *req.DeliveryDaysMax
		updates["delivery_days_max"] = daysMax
	}
	if err := validateDeliveryWindow("deliveryDaysMin", "deliveryDaysMax", daysMin, daysMax); err != nil {
		return nil, err
	}

	if req.IsCustomizable != nil {
		updates["is_customizable"] = *req.IsCustomizable
	}
	if req.AllowWhatsapp != nil {
		updates["allow_whatsapp"] = *req.AllowWhatsapp
	}
	if req.AllowEmail != nil {
		updates["allow_email"] = *req.AllowEmail
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}

	if len(updates) == 0 {
		return current, nil
	}

	if err := ps.products.Update(ctx, id, updates); err != nil {
		ps.logger.Error("Failed to update product", gecho.Field("error", err), gecho.Field("product_id", id))
		return nil, err
	}
	ps.invalidate(id)

	return ps.products.FindByID(ctx, id)
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := ps.products.Delete(ctx, id); err != nil {
		return err
	}
	ps.invalidate(id)
	ps.logger.Info("Product deleted", gecho.Field("product_id", id))
	return nil
}

// ============================================================================
// Variants
// ============================================================================

func (ps *ProductService) ListVariants(ctx context.Context, productID uuid.UUID) ([]tables.ProductVariant, error) {
	if _, err := ps.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return ps.products.ListVariants(ctx, productID)
}

func (ps *ProductService) CreateVariant(ctx context.Context, productID uuid.UUID, req *structs.VariantRequest) (*tables.ProductVariant, error) {
	if _, err := ps.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := validateDeliveryWindow("daysMin", "daysMax", req.DaysMin, req.DaysMax); err != nil {
		return nil, err
	}

	multiplier := decimal.NewFromInt(1)
	if req.PriceMultiplier != nil {
		multiplier = *req.PriceMultiplier
	}
	if !multiplier.IsPositive() {
		return nil, lib.NewValidationError("priceMultiplier", "must be greater than 0")
	}

	variant := &tables.ProductVariant{
		ProductID:       productID,
		Name:            strings.TrimSpace(req.Name),
		DaysMin:         req.DaysMin,
		DaysMax:         req.DaysMax,
		PriceMultiplier: multiplier,
	}
	if err := ps.products.CreateVariant(ctx, variant); err != nil {
		return nil, err
	}
	ps.invalidate(productID)
	return variant, nil
}

// variantOf loads a variant and checks it belongs to the product.
func (ps *ProductService) variantOf(ctx context.Context, productID, variantID uuid.UUID) (*tables.ProductVariant, error) {
	variant, err := ps.products.FindVariant(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if variant.ProductID != productID {
		return nil, lib.ErrNotFound
	}
	return variant, nil
}

func (ps *ProductService) UpdateVariant(ctx context.Context, productID, variantID uuid.UUID, req *structs.UpdateVariantRequest) (*tables.ProductVariant, error) {
	variant, err := ps.variantOf(ctx, productID, variantID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		variant.Name = strings.TrimSpace(*req.Name)
		updates["name"] = variant.Name
	}
	if req.DaysMin != nil {
		variant.DaysMin = *req.DaysMin
		updates["days_min"] = variant.DaysMin
	}
	if req.DaysMax != nil {
		variant.DaysMax = *req.DaysMax
		updates["days_max"] = variant.DaysMax
	}
	if err := validateDeliveryWindow("daysMin", "daysMax", variant.DaysMin, variant.DaysMax); err != nil {
		return nil, err
	}
	if req.PriceMultiplier != nil {
		if !req.PriceMultiplier.IsPositive() {
			return nil, lib.NewValidationError("priceMultiplier", "must be greater than 0")
		}
		variant.PriceMultiplier = *req.PriceMultiplier
		updates["price_multiplier"] = variant.PriceMultiplier
	}

	if len(updates) == 0 {
		return variant, nil
	}
	if err := ps.products.UpdateVariant(ctx, variantID, updates); err != nil {
		return nil, err
	}
	ps.invalidate(productID)
	return variant, nil
}

func (ps *ProductService) DeleteVariant(ctx context.Context, productID, variantID uuid.UUID) error {
	if _, err := ps.variantOf(ctx, productID, variantID); err != nil {
		return err
	}
	if err := ps.products.DeleteVariant(ctx, variantID); err != nil {
		return err
	}
	ps.invalidate(productID)
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
