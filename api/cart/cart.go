package cart

import (
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

var emptyCart = &structs.CartView{Items: []structs.CartItem{}, TotalPrice: decimal.Zero}

func (crm *CartRoutesManager) cartTTL() time.Duration {
	if ttl := crm.cfg.Cache.CartTTL; ttl > 0 {
		return ttl
	}
	return 30 * 24 * time.Hour
}

// cartID returns the cart cookie, issuing a new one when create is set.
func (crm *CartRoutesManager) cartID(w http.ResponseWriter, r *http.Request, create bool) (string, error) {
	if id, err := lib.GetCookieValue(lib.CartCookieName, r); err == nil && id != "" {
		return id, nil
	}
	if !create {
		return "", nil
	}

	id, err := lib.GenerateCartID()
	if err != nil {
		return "", err
	}
	lib.SetCookie(lib.CartCookieName, id, time.Now().Add(crm.cartTTL()), w)
	return id, nil
}

func (crm *CartRoutesManager) respond(w http.ResponseWriter, view *structs.CartView) {
	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}

// GetCart handles GET /cart. Prices are refreshed from the catalog.
func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	id, _ := crm.cartID(w, r, false)
	if id == "" {
		crm.respond(w, emptyCart)
		return
	}

	view, err := crm.cartService.GetCart(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Cart", crm.logger, w)
		return
	}
	crm.respond(w, view)
}

// AddItem handles POST /cart/items.
func (crm *CartRoutesManager) AddItem(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddCartItemRequest](r)
	if err != nil {
		handling.RespondError(err, "Cart item", crm.logger, w)
		return
	}

	id, err := crm.cartID(w, r, true)
	if err != nil {
		handling.HandleError(err, "Failed to create cart", crm.logger, w)
		return
	}

	view, err := crm.cartService.AddItem(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Cart item", crm.logger, w)
		return
	}
	crm.respond(w, view)
}

// UpdateItem handles PUT /cart/items/{itemId}. A quantity of zero removes the line.
func (crm *CartRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.UpdateCartItemRequest](r)
	if err != nil {
		handling.RespondError(err, "Cart item", crm.logger, w)
		return
	}

	id, _ := crm.cartID(w, r, false)
	if id == "" {
		handling.RespondError(lib.ErrNotFound, "Cart item", crm.logger, w)
		return
	}

	view, err := crm.cartService.UpdateItem(r.Context(), id, chi.URLParam(r, "itemId"), body.Quantity)
	if err != nil {
		handling.RespondError(err, "Cart item", crm.logger, w)
		return
	}
	crm.respond(w, view)
}

// RemoveItem handles DELETE /cart/items/{itemId}.
func (crm *CartRoutesManager) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, _ := crm.cartID(w, r, false)
	if id == "" {
		handling.RespondError(lib.ErrNotFound, "Cart item", crm.logger, w)
		return
	}

	view, err := crm.cartService.RemoveItem(r.Context(), id, chi.URLParam(r, "itemId"))
	if err != nil {
		handling.RespondError(err, "Cart item", crm.logger, w)
		return
	}
	crm.respond(w, view)
}

// ClearCart handles DELETE /cart.
func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	if id, _ := crm.cartID(w, r, false); id != "" {
		if err := crm.cartService.Clear(id); err != nil {
			handling.HandleError(err, "Failed to clear cart", crm.logger, w)
			return
		}
	}
	crm.respond(w, emptyCart)
}
