package tables

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	// Table Name and identifiers
	tableName   struct{}  `bun:"table:orders,alias:o"`
	Id          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderNumber string    `bun:"order_number,notnull,unique" json:"orderNumber"`
	UserId      uuid.UUID `bun:"user_id,type:uuid,notnull" json:"userId"`

	// Customer Data
	FirstName string `bun:"first_name,notnull" json:"firstName"`
	LastName  string `bun:"last_name,notnull" json:"lastName"`
	Email     string `bun:"email,notnull" json:"email"`
	Phone     string `bun:"phone,notnull" json:"phone"`
	Address   string `bun:"address,notnull" json:"address"`
	City      string `bun:"city,notnull" json:"city"`
	Country   string `bun:"country,notnull,default:''" json:"country"`
	Notes     string `bun:"notes,notnull,default:''" json:"notes,omitempty"`

	// Order Data
	TotalPrice    decimal.Decimal `bun:"total_price,type:numeric(12,2),notnull" json:"totalPrice"`
	ContactMethod ContactMethod   `bun:"contact_method,notnull" json:"contactMethod"`
	Status        OrderStatus     `bun:"status,notnull,default:'PENDING'" json:"status"`
	PaymentStatus PaymentStatus   `bun:"payment_status,notnull,default:'PENDING'" json:"paymentStatus"`
	WhatsappSent  bool            `bun:"whatsapp_sent,notnull,default:false" json:"whatsappSent"`
	EmailSent     bool            `bun:"email_sent,notnull,default:false" json:"emailSent"`

	// Production window, bounded by the variant when one is set
	VariantId     *uuid.UUID `bun:"variant_id,type:uuid,nullzero" json:"variantId,omitempty"`
	EstimatedDays *int       `bun:"estimated_days" json:"estimatedDays,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`

	Items []OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

// OrderItem is a snapshot of a product line at order time.
type OrderItem struct {
	tableName struct{}        `bun:"table:order_items,alias:oi"`
	Id        uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderId   uuid.UUID       `bun:"order_id,type:uuid,notnull" json:"orderId"`
	ProductId *uuid.UUID      `bun:"product_id,type:uuid,nullzero" json:"productId,omitempty"`
	VariantId *uuid.UUID      `bun:"variant_id,type:uuid,nullzero" json:"variantId,omitempty"`
	Name      string          `bun:"name,notnull" json:"name"`
	Quantity  int             `bun:"quantity,notnull" json:"quantity"`
	UnitPrice decimal.Decimal `bun:"unit_price,type:numeric(12,2),notnull" json:"unitPrice"`
	LineTotal decimal.Decimal `bun:"line_total,type:numeric(12,2),notnull" json:"lineTotal"`

	Customizations []OrderCustomization `bun:"rel:has-many,join:id=order_item_id" json:"customizations,omitempty"`
}

type OrderCustomization struct {
	tableName   struct{}  `bun:"table:order_customizations,alias:oc"`
	Id          uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	OrderItemId uuid.UUID `bun:"order_item_id,type:uuid,notnull" json:"orderItemId"`
	Name        string    `bun:"name,notnull" json:"name"`
	Value       string    `bun:"value,notnull" json:"value"`
}

type ContactMethod string

const (
	ContactMethodWhatsapp ContactMethod = "whatsapp"
	ContactMethodEmail    ContactMethod = "email"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransitionTo reports whether an admin may move an order from s to next.
// Staying in the same status is always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}
	return slices.Contains(orderTransitions[s], next)
}
