package services

import (
	"context"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Storage contracts the services depend on. The bun implementations live in
// the repository package.

type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tables.User, error)
	FindByEmail(ctx context.Context, email string) (*tables.User, error)
	UpsertGuest(ctx context.Context, email, name string) (*tables.User, error)
	Create(ctx context.Context, user *tables.User) error
	PromoteGuest(ctx context.Context, id uuid.UUID, name, passwordHash string) (*tables.User, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

type ProductStore interface {
	List(ctx context.Context, opts *structs.ProductListOptions) ([]tables.Product, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*tables.Product, error)
	FindBySlug(ctx context.Context, slug string) (*tables.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error)
	Create(ctx context.Context, product *tables.Product) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListVariants(ctx context.Context, productID uuid.UUID) ([]tables.ProductVariant, error)
	FindVariant(ctx context.Context, id uuid.UUID) (*tables.ProductVariant, error)
	CreateVariant(ctx context.Context, variant *tables.ProductVariant) error
	UpdateVariant(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteVariant(ctx context.Context, id uuid.UUID) error
}

type OrderStore interface {
	CreateWithItems(ctx context.Context, order *tables.Order, items []*tables.OrderItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*tables.Order, error)
	List(ctx context.Context, opts *structs.OrderListOptions) ([]tables.Order, int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]tables.Order, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	ConfirmedRevenue(ctx context.Context) (decimal.Decimal, int, error)
	CountByStatus(ctx context.Context, status tables.OrderStatus) (int, error)
	HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type ReviewStore interface {
	Create(ctx context.Context, review *tables.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*tables.Review, error)
	List(ctx context.Context, filter *structs.ReviewFilter) ([]tables.Review, int, error)
	Top(ctx context.Context, limit int) ([]tables.Review, error)
	Stats(ctx context.Context, productID *uuid.UUID) (*structs.ReviewStats, error)
	IncrementHelpful(ctx context.Context, id uuid.UUID) (int, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CustomOrderStore interface {
	Create(ctx context.Context, order *tables.CustomOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*tables.CustomOrder, error)
	List(ctx context.Context, status string, userID *uuid.UUID) ([]tables.CustomOrder, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type ContentStore interface {
	GetAbout(ctx context.Context) (*tables.About, error)
	SaveAbout(ctx context.Context, about *tables.About) error
	CreateContactMessage(ctx context.Context, msg *tables.ContactMessage) error
	ListContactMessages(ctx context.Context, unreadOnly bool) ([]tables.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id uuid.UUID) error
}

// Notifier sends the transactional emails. Every method returns the
// transport error so callers decide whether it is fatal.
type Notifier interface {
	SendOrderConfirmation(ctx context.Context, n *structs.OrderNotification) error
	SendAdminOrderAlert(ctx context.Context, n *structs.OrderNotification) error
	SendCustomOrderConfirmation(ctx context.Context, order *tables.CustomOrder) error
	SendCustomOrderAlert(ctx context.Context, order *tables.CustomOrder) error
	SendReviewNotification(ctx context.Context, review *tables.Review) error
	SendContactNotification(ctx context.Context, msg *tables.ContactMessage) error
}

// EventPublisher emits domain events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event *DomainEvent) error
}

type ProductCache interface {
	GetProductBySlug(slug string) (*tables.Product, error)
	SetProductBySlug(product *tables.Product) error
	InvalidateProductCaches(productID uuid.UUID) error
}

type CartPersister interface {
	GetCart(cartID string) (*structs.Cart, error)
	SaveCart(cartID string, cart *structs.Cart) error
	DeleteCart(cartID string) error
}

type TokenBlacklist interface {
	BlacklistToken(jti uuid.UUID, exp time.Time) error
	IsTokenBlacklisted(jti uuid.UUID) (bool, error)
}
