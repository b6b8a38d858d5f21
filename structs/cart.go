package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxLineQuantity bounds a single cart or order line.
const MaxLineQuantity = 100

type CartItem struct {
	ID             string          `json:"id"`
	ProductID      uuid.UUID       `json:"productId"`
	VariantID      *uuid.UUID      `json:"variantId,omitempty"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// SameItem reports whether the line holds productID with the given variant.
func (i *CartItem) SameItem(productID uuid.UUID, variantID *uuid.UUID) bool {
	if i.ProductID != productID {
		return false
	}
	if i.VariantID == nil || variantID == nil {
		return i.VariantID == nil && variantID == nil
	}
	return *i.VariantID == *variantID
}

// Cart is a shopping cart keyed by line id. Prices on the lines are refreshed
// from the catalog whenever the cart is read.
type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Add appends a line, or merges the quantity into the line with the same id.
func (c *Cart) Add(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ID == item.ID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Line returns the line with id, or nil.
func (c *Cart) Line(id string) *CartItem {
	if id == "" {
		return nil
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) Remove(id string) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity updates a line; a quantity of zero or less removes it.
func (c *Cart) SetQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(id)
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

type CartView struct {
	Items      []CartItem      `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type AddCartItemRequest struct {
	ID             string          `json:"id" validate:"omitempty,max=100"`
	ProductID      uuid.UUID       `json:"productId" validate:"required"`
	VariantID      *uuid.UUID      `json:"variantId"`
	Quantity       int             `json:"quantity" validate:"required,gte=1,lte=100"`
	Customizations []Customization `json:"customizations" validate:"omitempty,dive"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=100"`
}
