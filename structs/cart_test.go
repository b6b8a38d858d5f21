package structs

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(id string, price int64, quantity int) CartItem {
	return CartItem{ID: id, ProductID: uuid.New(), Price: decimal.NewFromInt(price), Quantity: quantity}
}

func TestCartTotals(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", 100, 2))
	cart.Add(line("b", 50, 1))

	assert.True(t, cart.TotalPrice().Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 3, cart.TotalItems())
}

func TestCartAddMergesSameLineID(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", 10, 1))
	cart.Add(line("a", 10, 2))

	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartKeepsSameProductOnDistinctLines(t *testing.T) {
	productID := uuid.New()
	cart := &Cart{}
	cart.Add(CartItem{ID: "a", ProductID: productID, Price: decimal.NewFromInt(10), Quantity: 1})
	cart.Add(CartItem{ID: "b", ProductID: productID, Price: decimal.NewFromInt(10), Quantity: 1})

	assert.Len(t, cart.Items, 2)
}

func TestCartSetQuantityAndRemove(t *testing.T) {
	cart := &Cart{}
	cart.Add(line("a", 10, 1))
	cart.Add(line("b", 20, 1))

	assert.True(t, cart.SetQuantity("a", 5))
	assert.Equal(t, 5, cart.Items[0].Quantity)

	assert.True(t, cart.SetQuantity("a", 0))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "b", cart.Items[0].ID)

	assert.False(t, cart.SetQuantity("missing", 2))
	assert.False(t, cart.Remove("missing"))

	cart.Clear()
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalPrice().IsZero())
}

func TestCartItemSameItem(t *testing.T) {
	productID, variantID, other := uuid.New(), uuid.New(), uuid.New()
	item := CartItem{ProductID: productID, VariantID: &variantID}

	assert.True(t, item.SameItem(productID, &variantID))
	assert.False(t, item.SameItem(productID, &other))
	assert.False(t, item.SameItem(productID, nil))
	assert.False(t, item.SameItem(other, &variantID))
	assert.True(t, (&CartItem{ProductID: productID}).SameItem(productID, nil))
}
