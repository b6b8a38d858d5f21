package orders

import (
	"errors"
	"knitcraft_server/api/middleware"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Checkout handles POST /checkout. The order is stored before any
// notification goes out; a failed confirmation email answers 502 with the
// stored order attached.
func (orm *OrderRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if err != nil {
		orm.logger.Warn("Rejected checkout request", gecho.Field("error", err))
		handling.RespondError(err, "Checkout", orm.logger, w)
		return
	}

	principal, _ := middleware.PrincipalFromContext(r.Context())

	result, err := orm.orderService.Checkout(r.Context(), body, principal)
	if err != nil && result == nil {
		handling.RespondError(err, "Checkout", orm.logger, w)
		return
	}

	orm.clearCart(w, r)

	if errors.Is(err, lib.ErrNotificationFailed) {
		handling.BadGateway(w, "Your order was placed but we could not send the confirmation email", result)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order placed"),
		gecho.WithData(result),
		gecho.Send(),
	)
}

func (orm *OrderRoutesManager) clearCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := lib.GetCookieValue(lib.CartCookieName, r)
	if err != nil || cartID == "" {
		return
	}
	if err := orm.cartService.Clear(cartID); err != nil {
		orm.logger.Warn("Failed to clear cart after checkout", gecho.Field("error", err), gecho.Field("cart_id", cartID))
		return
	}
	lib.ClearCookie(lib.CartCookieName, w)
}
