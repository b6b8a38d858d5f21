package orders

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/handling"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// MyOrders handles GET /orders/me.
func (orm *OrderRoutesManager) MyOrders(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFromContext(r.Context())

	orders, err := orm.orderService.ListUserOrders(r.Context(), principal.UserID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch orders", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}
