package services

import (
	"context"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memoryProductCache struct {
	bySlug      map[string]*tables.Product
	invalidated []uuid.UUID
}

func newMemoryProductCache() *memoryProductCache {
	return &memoryProductCache{bySlug: map[string]*tables.Product{}}
}

func (c *memoryProductCache) GetProductBySlug(slug string) (*tables.Product, error) {
	return c.bySlug[slug], nil
}

func (c *memoryProductCache) SetProductBySlug(product *tables.Product) error {
	c.bySlug[product.Slug] = product
	return nil
}

func (c *memoryProductCache) InvalidateProductCaches(productID uuid.UUID) error {
	c.invalidated = append(c.invalidated, productID)
	for slug, p := range c.bySlug {
		if p.ID == productID {
			delete(c.bySlug, slug)
		}
	}
	return nil
}

func TestGetProductBySlugCachesResult(t *testing.T) {
	store := &mockProductStore{}
	cache := newMemoryProductCache()
	service := NewProductService(gecho.NewDefaultLogger(), store, cache)

	product := testProduct()
	product.Slug = "chunky-beanie"
	store.On("FindBySlug", mock.Anything, "chunky-beanie").Return(&product, nil).Once()

	for range 2 {
		got, err := service.GetProductBySlug(context.Background(), "chunky-beanie")
		require.NoError(t, err)
		assert.Equal(t, product.ID, got.ID)
	}
	store.AssertNumberOfCalls(t, "FindBySlug", 1)
}

func TestGetProductBySlugHidesInactive(t *testing.T) {
	store := &mockProductStore{}
	service := NewProductService(gecho.NewDefaultLogger(), store, newMemoryProductCache())

	product := testProduct()
	product.IsActive = false
	store.On("FindBySlug", mock.Anything, "hidden").Return(&product, nil)

	_, err := service.GetProductBySlug(context.Background(), "hidden")

	assert.ErrorIs(t, err, lib.ErrNotFound)
}

func TestCreateProductDefaults(t *testing.T) {
	store := &mockProductStore{}
	service := NewProductService(gecho.NewDefaultLogger(), store, newMemoryProductCache())
	store.On("Create", mock.Anything, mock.AnythingOfType("*tables.Product")).Return(nil)

	product, err := service.CreateProduct(context.Background(), &structs.ProductRequest{
		Name:            "Crème Cardigan",
		Price:           decimal.RequireFromString("89.999"),
		DeliveryDaysMin: 5,
		DeliveryDaysMax: 10,
	})

	require.NoError(t, err)
	assert.Equal(t, "creme-cardigan", product.Slug)
	assert.Equal(t, "90", product.Price.String())
	assert.True(t, product.AllowWhatsapp)
	assert.True(t, product.AllowEmail)
	assert.True(t, product.IsActive)
}

func TestCreateProductRejectsInvertedWindow(t *testing.T) {
	store := &mockProductStore{}
	service := NewProductService(gecho.NewDefaultLogger(), store, newMemoryProductCache())

	_, err := service.CreateProduct(context.Background(), &structs.ProductRequest{
		Name:            "Scarf",
		Price:           decimal.NewFromInt(20),
		DeliveryDaysMin: 10,
		DeliveryDaysMax: 5,
	})

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "deliveryDaysMax", verr.Errors[0].Field)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateVariantInvalidatesCache(t *testing.T) {
	store := &mockProductStore{}
	cache := newMemoryProductCache()
	service := NewProductService(gecho.NewDefaultLogger(), store, cache)

	product := testProduct()
	store.On("FindByID", mock.Anything, product.ID).Return(&product, nil)
	store.On("CreateVariant", mock.Anything, mock.AnythingOfType("*tables.ProductVariant")).Return(nil)

	variant, err := service.CreateVariant(context.Background(), product.ID, &structs.VariantRequest{Name: "Slow", DaysMin: 10, DaysMax: 14})

	require.NoError(t, err)
	assert.True(t, variant.PriceMultiplier.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, []uuid.UUID{product.ID}, cache.invalidated)
}

func TestCreateVariantRejectsNonPositiveMultiplier(t *testing.T) {
	store := &mockProductStore{}
	service := NewProductService(gecho.NewDefaultLogger(), store, newMemoryProductCache())

	product := testProduct()
	store.On("FindByID", mock.Anything, product.ID).Return(&product, nil)
	zero := decimal.Zero

	_, err := service.CreateVariant(context.Background(), product.ID, &structs.VariantRequest{Name: "Free", DaysMin: 1, DaysMax: 2, PriceMultiplier: &zero})

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "priceMultiplier", verr.Errors[0].Field)
}
