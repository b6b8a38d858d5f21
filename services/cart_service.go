package services

import (
	"context"
	"fmt"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartService keeps server-side carts keyed by the cart cookie.
type CartService struct {
	logger   *gecho.Logger
	carts    CartPersister
	products ProductStore
}

func NewCartService(logger *gecho.Logger, carts CartPersister, products ProductStore) *CartService {
	return &CartService{
		logger:   logger,
		carts:    carts,
		products: products,
	}
}

func (cs *CartService) load(cartID string) (*structs.Cart, error) {
	cart, err := cs.carts.GetCart(cartID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &structs.Cart{Items: []structs.CartItem{}}
	}
	return cart, nil
}

func (cs *CartService) save(cartID string, cart *structs.Cart) error {
	cart.UpdatedAt = time.Now()
	if err := cs.carts.SaveCart(cartID, cart); err != nil {
		cs.logger.Error("Failed to save cart", gecho.Field("error", err), gecho.Field("cart_id", cartID))
		return err
	}
	return nil
}

func findVariant(product *tables.Product, id uuid.UUID) *tables.ProductVariant {
	for i := range product.Variants {
		if product.Variants[i].ID == id {
			return &product.Variants[i]
		}
	}
	return nil
}

// linePrice is the current unit price of a product, with the variant multiplier applied.
func linePrice(product *tables.Product, variant *tables.ProductVariant) decimal.Decimal {
	price := product.EffectivePrice()
	if variant != nil {
		price = price.Mul(variant.PriceMultiplier).Round(2)
	}
	return price
}

// refresh re-reads prices from the catalog and drops lines whose product is
// gone or inactive. It reports whether the cart changed.
func (cs *CartService) refresh(ctx context.Context, cart *structs.Cart) (bool, error) {
	if len(cart.Items) == 0 {
		return false, nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := cs.products.FindByIDs(ctx, ids)
	if err != nil {
		return false, err
	}
	byID := make(map[uuid.UUID]*tables.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	changed := false
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		product, ok := byID[item.ProductID]
		if !ok || !product.IsActive {
			changed = true
			continue
		}

		var variant *tables.ProductVariant
		if item.VariantID != nil {
			if variant = findVariant(product, *item.VariantID); variant == nil {
				changed = true
				continue
			}
		}

		price := linePrice(product, variant)
		if !price.Equal(item.Price) {
			item.Price = price
			changed = true
		}
		kept = append(kept, item)
	}
	cart.Items = kept
	return changed, nil
}

func view(cart *structs.Cart) *structs.CartView {
	items := cart.Items
	if items == nil {
		items = []structs.CartItem{}
	}
	return &structs.CartView{
		Items:      items,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

func (cs *CartService) GetCart(ctx context.Context, cartID string) (*structs.CartView, error) {
	cart, err := cs.load(cartID)
	if err != nil {
		return nil, err
	}

	changed, err := cs.refresh(ctx, cart)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := cs.save(cartID, cart); err != nil {
			return nil, err
		}
	}
	return view(cart), nil
}

// AddItem adds a line. A known line id holding the same product and variant
// merges quantities up to MaxLineQuantity; anything else gets a new line id.
func (cs *CartService) AddItem(ctx context.Context, cartID string, req *structs.AddCartItemRequest) (*structs.CartView, error) {
	product, err := cs.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if lib.IsNotFound(err) {
			return nil, lib.NewValidationError("productId", "product is not available")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, lib.NewValidationError("productId", "product is not available")
	}

	var variant *tables.ProductVariant
	name := product.Name
	if req.VariantID != nil {
		if variant = findVariant(product, *req.VariantID); variant == nil {
			return nil, lib.NewValidationError("variantId", "variant does not belong to product")
		}
		name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
	}

	cart, err := cs.load(cartID)
	if err != nil {
		return nil, err
	}

	id := req.ID
	existing := cart.Line(id)
	switch {
	case existing != nil && existing.SameItem(product.ID, req.VariantID):
		if existing.Quantity+req.Quantity > structs.MaxLineQuantity {
			return nil, lib.NewValidationError("quantity", fmt.Sprintf("must be at most %d per line", structs.MaxLineQuantity))
		}
	default:
		// unknown or foreign line ids never merge
		if id, err = lib.GenerateCartLineID(product.ID); err != nil {
			return nil, err
		}
	}

	cart.Add(structs.CartItem{
		ID:             id,
		ProductID:      product.ID,
		VariantID:      req.VariantID,
		Name:           name,
		Price:          linePrice(product, variant),
		Quantity:       req.Quantity,
		Customizations: req.Customizations,
	})

	if err := cs.save(cartID, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (cs *CartService) UpdateItem(ctx context.Context, cartID, itemID string, quantity int) (*structs.CartView, error) {
	cart, err := cs.load(cartID)
	if err != nil {
		return nil, err
	}
	if !cart.SetQuantity(itemID, quantity) {
		return nil, lib.ErrNotFound
	}
	if err := cs.save(cartID, cart); err != nil {
		return nil, err
	}
	return cs.GetCart(ctx, cartID)
}

func (cs *CartService) RemoveItem(ctx context.Context, cartID, itemID string) (*structs.CartView, error) {
	cart, err := cs.load(cartID)
	if err != nil {
		return nil, err
	}
	if !cart.Remove(itemID) {
		return nil, lib.ErrNotFound
	}
	if err := cs.save(cartID, cart); err != nil {
		return nil, err
	}
	return view(cart), nil
}

func (cs *CartService) Clear(cartID string) error {
	return cs.carts.DeleteCart(cartID)
}
