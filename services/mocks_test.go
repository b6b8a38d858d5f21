package services

import (
	"context"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Stores
// ============================================================================

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) FindByID(ctx context.Context, id uuid.UUID) (*tables.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*tables.User)
	return user, args.Error(1)
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*tables.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*tables.User)
	return user, args.Error(1)
}

func (m *mockUserStore) UpsertGuest(ctx context.Context, email, name string) (*tables.User, error) {
	args := m.Called(ctx, email, name)
	user, _ := args.Get(0).(*tables.User)
	return user, args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, user *tables.User) error {
	args := m.Called(ctx, user)
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	return args.Error(0)
}

func (m *mockUserStore) PromoteGuest(ctx context.Context, id uuid.UUID, name, passwordHash string) (*tables.User, error) {
	args := m.Called(ctx, id, name, passwordHash)
	user, _ := args.Get(0).(*tables.User)
	return user, args.Error(1)
}

func (m *mockUserStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockUserStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) List(ctx context.Context, opts *structs.ProductListOptions) ([]tables.Product, int, error) {
	args := m.Called(ctx, opts)
	products, _ := args.Get(0).([]tables.Product)
	return products, args.Int(1), args.Error(2)
}

func (m *mockProductStore) FindByID(ctx context.Context, id uuid.UUID) (*tables.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}

func (m *mockProductStore) FindBySlug(ctx context.Context, slug string) (*tables.Product, error) {
	args := m.Called(ctx, slug)
	product, _ := args.Get(0).(*tables.Product)
	return product, args.Error(1)
}

func (m *mockProductStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	args := m.Called(ctx, ids)
	products, _ := args.Get(0).([]tables.Product)
	return products, args.Error(1)
}

func (m *mockProductStore) Create(ctx context.Context, product *tables.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductStore) ListVariants(ctx context.Context, productID uuid.UUID) ([]tables.ProductVariant, error) {
	args := m.Called(ctx, productID)
	variants, _ := args.Get(0).([]tables.ProductVariant)
	return variants, args.Error(1)
}

func (m *mockProductStore) FindVariant(ctx context.Context, id uuid.UUID) (*tables.ProductVariant, error) {
	args := m.Called(ctx, id)
	variant, _ := args.Get(0).(*tables.ProductVariant)
	return variant, args.Error(1)
}

func (m *mockProductStore) CreateVariant(ctx context.Context, variant *tables.ProductVariant) error {
	return m.Called(ctx, variant).Error(0)
}

func (m *mockProductStore) UpdateVariant(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockProductStore) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) CreateWithItems(ctx context.Context, order *tables.Order, items []*tables.OrderItem) error {
	args := m.Called(ctx, order, items)
	if args.Error(0) == nil {
		order.Id = uuid.New()
	}
	return args.Error(0)
}

func (m *mockOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*tables.Order)
	return order, args.Error(1)
}

func (m *mockOrderStore) List(ctx context.Context, opts *structs.OrderListOptions) ([]tables.Order, int, error) {
	args := m.Called(ctx, opts)
	orders, _ := args.Get(0).([]tables.Order)
	return orders, args.Int(1), args.Error(2)
}

func (m *mockOrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]tables.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]tables.Order)
	return orders, args.Error(1)
}

func (m *mockOrderStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockOrderStore) ConfirmedRevenue(ctx context.Context) (decimal.Decimal, int, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Int(1), args.Error(2)
}

func (m *mockOrderStore) CountByStatus(ctx context.Context, status tables.OrderStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *mockOrderStore) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

type mockReviewStore struct{ mock.Mock }

func (m *mockReviewStore) Create(ctx context.Context, review *tables.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewStore) FindByID(ctx context.Context, id uuid.UUID) (*tables.Review, error) {
	args := m.Called(ctx, id)
	review, _ := args.Get(0).(*tables.Review)
	return review, args.Error(1)
}

func (m *mockReviewStore) List(ctx context.Context, filter *structs.ReviewFilter) ([]tables.Review, int, error) {
	args := m.Called(ctx, filter)
	reviews, _ := args.Get(0).([]tables.Review)
	return reviews, args.Int(1), args.Error(2)
}

func (m *mockReviewStore) Top(ctx context.Context, limit int) ([]tables.Review, error) {
	args := m.Called(ctx, limit)
	reviews, _ := args.Get(0).([]tables.Review)
	return reviews, args.Error(1)
}

func (m *mockReviewStore) Stats(ctx context.Context, productID *uuid.UUID) (*structs.ReviewStats, error) {
	args := m.Called(ctx, productID)
	stats, _ := args.Get(0).(*structs.ReviewStats)
	return stats, args.Error(1)
}

func (m *mockReviewStore) IncrementHelpful(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

func (m *mockReviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCustomOrderStore struct{ mock.Mock }

func (m *mockCustomOrderStore) Create(ctx context.Context, order *tables.CustomOrder) error {
	args := m.Called(ctx, order)
	if order.Id == uuid.Nil {
		order.Id = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCustomOrderStore) FindByID(ctx context.Context, id uuid.UUID) (*tables.CustomOrder, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*tables.CustomOrder)
	return order, args.Error(1)
}

func (m *mockCustomOrderStore) List(ctx context.Context, status string, userID *uuid.UUID) ([]tables.CustomOrder, error) {
	args := m.Called(ctx, status, userID)
	orders, _ := args.Get(0).([]tables.CustomOrder)
	return orders, args.Error(1)
}

func (m *mockCustomOrderStore) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return m.Called(ctx, id, updates).Error(0)
}

type mockContentStore struct{ mock.Mock }

func (m *mockContentStore) GetAbout(ctx context.Context) (*tables.About, error) {
	args := m.Called(ctx)
	about, _ := args.Get(0).(*tables.About)
	return about, args.Error(1)
}

func (m *mockContentStore) SaveAbout(ctx context.Context, about *tables.About) error {
	return m.Called(ctx, about).Error(0)
}

func (m *mockContentStore) CreateContactMessage(ctx context.Context, msg *tables.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockContentStore) ListContactMessages(ctx context.Context, unreadOnly bool) ([]tables.ContactMessage, error) {
	args := m.Called(ctx, unreadOnly)
	messages, _ := args.Get(0).([]tables.ContactMessage)
	return messages, args.Error(1)
}

func (m *mockContentStore) MarkContactMessageRead(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// ============================================================================
// Side channels
// ============================================================================

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendOrderConfirmation(ctx context.Context, n *structs.OrderNotification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendAdminOrderAlert(ctx context.Context, n *structs.OrderNotification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendCustomOrderConfirmation(ctx context.Context, order *tables.CustomOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockNotifier) SendCustomOrderAlert(ctx context.Context, order *tables.CustomOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *mockNotifier) SendReviewNotification(ctx context.Context, review *tables.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockNotifier) SendContactNotification(ctx context.Context, msg *tables.ContactMessage) error {
	return m.Called(ctx, msg).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, topic, key string, event *DomainEvent) error {
	return m.Called(ctx, topic, key, event).Error(0)
}

// memoryCarts is an in-memory CartPersister.
type memoryCarts struct {
	carts map[string]*structs.Cart
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{carts: map[string]*structs.Cart{}}
}

func (m *memoryCarts) GetCart(cartID string) (*structs.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]structs.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (m *memoryCarts) SaveCart(cartID string, cart *structs.Cart) error {
	m.carts[cartID] = cart
	return nil
}

func (m *memoryCarts) DeleteCart(cartID string) error {
	delete(m.carts, cartID)
	return nil
}

// memoryBlacklist is an in-memory TokenBlacklist.
type memoryBlacklist struct {
	revoked map[uuid.UUID]time.Time
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: map[uuid.UUID]time.Time{}}
}

func (m *memoryBlacklist) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	m.revoked[jti] = exp
	return nil
}

func (m *memoryBlacklist) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}
