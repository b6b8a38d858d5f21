package admin

import (
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"
	"strings"

	"github.com/MonkyMars/gecho"
)

func (ar *AdminRoutesManager) ListCustomOrders(w http.ResponseWriter, r *http.Request) {
	status := strings.ToUpper(r.URL.Query().Get("status"))

	orders, err := ar.customOrderService.ListAll(r.Context(), status)
	if err != nil {
		handling.HandleError(err, "Failed to fetch custom orders", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(orders),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateCustomOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid custom order id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCustomOrderRequest](r)
	if err != nil {
		handling.RespondError(err, "Custom order", ar.logger, w)
		return
	}

	order, err := ar.customOrderService.UpdateCustomOrder(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Custom order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Custom order updated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetAbout(w http.ResponseWriter, r *http.Request) {
	about, err := ar.contentService.GetAbout(r.Context())
	if err != nil {
		handling.HandleError(err, "Failed to fetch about page", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(about),
		gecho.Send(),
	)
}

// UpdateAbout merges the submitted sections into the stored page.
func (ar *AdminRoutesManager) UpdateAbout(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AboutRequest](r)
	if err != nil {
		handling.RespondError(err, "About page", ar.logger, w)
		return
	}

	about, err := ar.contentService.UpdateAbout(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to update about page", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("About page saved"),
		gecho.WithData(about),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	unreadOnly, err := handling.ParseBoolQuery(r, "unread")
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", ar.logger, w)
		return
	}

	messages, err := ar.contentService.ListContactMessages(r.Context(), unreadOnly)
	if err != nil {
		handling.HandleError(err, "Failed to fetch messages", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(messages),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid message id", ar.logger, w)
		return
	}

	if err := ar.contentService.MarkContactMessageRead(r.Context(), id); err != nil {
		handling.RespondError(err, "Message", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Message marked as read"),
		gecho.Send(),
	)
}
