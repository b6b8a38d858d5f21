package admin

import (
	"knitcraft_server/database"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListReviews includes unpublished reviews.
func (ar *AdminRoutesManager) ListReviews(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseReviewFilter(r)
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", ar.logger, w)
		return
	}
	filter.IncludeHidden = true

	reviews, total, err := ar.reviewService.ListReviews(r.Context(), filter)
	if err != nil {
		handling.HandleError(err, "Failed to fetch reviews", ar.logger, w)
		return
	}

	page, pageSize := database.NormalizePage(filter.Page, filter.PageSize)
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"reviews":    reviews,
			"pagination": database.NewPagination(page, pageSize, total),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateReview(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid review id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateReviewRequest](r)
	if err != nil {
		handling.RespondError(err, "Review", ar.logger, w)
		return
	}

	review, err := ar.reviewService.UpdateReview(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Review", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Review updated"),
		gecho.WithData(review),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid review id", ar.logger, w)
		return
	}

	if err := ar.reviewService.DeleteReview(r.Context(), id); err != nil {
		handling.RespondError(err, "Review", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Review deleted"),
		gecho.Send(),
	)
}
