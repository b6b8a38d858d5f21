package structs

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Customization struct {
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value" validate:"max=500"`
}

type CheckoutItem struct {
	ProductID      uuid.UUID       `json:"productId" validate:"required"`
	VariantID      *uuid.UUID      `json:"variantId"`
	Quantity       int             `json:"quantity" validate:"required,gte=1,lte=100"`
	Customizations []Customization `json:"customizations" validate:"omitempty,dive"`
}

type CheckoutRequest struct {
	FirstName     string           `json:"firstName" validate:"required,max=100"`
	LastName      string           `json:"lastName" validate:"required,max=100"`
	Email         string           `json:"email" validate:"required,email"`
	Phone         string           `json:"phone" validate:"required,min=6,max=30"`
	Address       string           `json:"address" validate:"required,max=300"`
	City          string           `json:"city" validate:"required,max=100"`
	Country       string           `json:"country" validate:"max=100"`
	Notes         string           `json:"notes" validate:"max=1000"`
	TotalPrice    *decimal.Decimal `json:"totalPrice"`
	ContactMethod string           `json:"contactMethod" validate:"required,oneof=whatsapp email"`
	Items         []CheckoutItem   `json:"items" validate:"required,min=1,dive"`
}

// FullName is the display name used for the guest account and notifications.
func (r *CheckoutRequest) FullName() string {
	return r.FirstName + " " + r.LastName
}

type DeliveryEstimate struct {
	DaysMin int `json:"daysMin"`
	DaysMax int `json:"daysMax"`
}

type NotificationItem struct {
	Name           string          `json:"name"`
	Quantity       int             `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// OrderNotification is everything a customer or admin message about a new order needs.
type OrderNotification struct {
	OrderNumber string             `json:"orderNumber"`
	ClientName  string             `json:"clientName"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Address     string             `json:"address"`
	Notes       string             `json:"notes,omitempty"`
	Total       decimal.Decimal    `json:"total"`
	Items       []NotificationItem `json:"items"`
	Delivery    DeliveryEstimate   `json:"delivery"`
	Channel     string             `json:"channel"`
}
