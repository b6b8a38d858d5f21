package bespoke

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// CreateRequest handles POST /bespoke. Anyone may ask for a custom piece.
func (brm *BespokeRoutesManager) CreateRequest(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CustomOrderRequest](r)
	if err != nil {
		handling.RespondError(err, "Custom order", brm.logger, w)
		return
	}

	principal, _ := middleware.PrincipalFromContext(r.Context())
	order, err := brm.customOrderService.CreateCustomOrder(r.Context(), body, principal)
	if err != nil {
		handling.RespondError(err, "Failed to submit custom order", brm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("We received your request and will be in touch"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// MyRequests handles GET /bespoke for the signed in user.
func (brm *BespokeRoutesManager) MyRequests(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	orders, err := brm.customOrderService.ListForUser(r.Context(), principal.UserID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch custom orders", brm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}
