package admin

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/database"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", ar.logger, w)
		return
	}

	orders, total, err := ar.orderService.ListOrders(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch orders", ar.logger, w)
		return
	}

	page, pageSize := database.NormalizePage(opts.Page, opts.PageSize)
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders":     orders,
			"pagination": database.NewPagination(page, pageSize, total),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid order id", ar.logger, w)
		return
	}

	order, err := ar.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(order),
		gecho.Send(),
	)
}

// UpdateOrder changes status, payment status or the delivery estimate.
// Estimates outside the ordered variant's window are rejected.
func (ar *AdminRoutesManager) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid order id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateOrderRequest](r)
	if err != nil {
		handling.RespondError(err, "Order", ar.logger, w)
		return
	}

	principal, _ := middleware.PrincipalFromContext(r.Context())
	order, err := ar.orderService.UpdateOrder(r.Context(), id, body, principal)
	if err != nil {
		handling.RespondError(err, "Order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order updated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := ar.orderService.Stats(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to compute stats", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(stats),
		gecho.Send(),
	)
}
