package reviews

import (
	"knitcraft_server/api/middleware"
	"knitcraft_server/database"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/services"
	"knitcraft_server/structs"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

const helpfulCookieTTL = 365 * 24 * time.Hour

// CreateReview handles POST /reviews. Guests may review; the rating is clamped.
func (rrm *ReviewRoutesManager) CreateReview(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ReviewRequest](r)
	if err != nil {
		handling.RespondError(err, "Review", rrm.logger, w)
		return
	}

	principal, _ := middleware.PrincipalFromContext(r.Context())
	review, err := rrm.reviewService.CreateReview(r.Context(), body, principal)
	if err != nil {
		handling.RespondError(err, "Failed to submit review", rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Thank you for your review"),
		gecho.WithData(review),
		gecho.Send(),
	)
}

// ListReviews handles GET /reviews with an optional productId filter.
func (rrm *ReviewRoutesManager) ListReviews(w http.ResponseWriter, r *http.Request) {
	filter, err := handling.ParseReviewFilter(r)
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", rrm.logger, w)
		return
	}

	reviews, total, err := rrm.reviewService.ListReviews(r.Context(), filter)
	if err != nil {
		handling.HandleError(err, "Failed to fetch reviews", rrm.logger, w)
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

// TopReviews handles GET /reviews/top.
func (rrm *ReviewRoutesManager) TopReviews(w http.ResponseWriter, r *http.Request) {
	limit, err := handling.ParseLimit(r)
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", rrm.logger, w)
		return
	}

	reviews, err := rrm.reviewService.TopReviews(r.Context(), limit)
	if err != nil {
		handling.HandleError(err, "Failed to fetch reviews", rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(reviews),
		gecho.Send(),
	)
}

// ReviewStats handles GET /reviews/count.
func (rrm *ReviewRoutesManager) ReviewStats(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.ParseProductID(r)
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", rrm.logger, w)
		return
	}

	stats, err := rrm.reviewService.Stats(r.Context(), productID)
	if err != nil {
		handling.HandleError(err, "Failed to fetch review stats", rrm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(stats),
		gecho.Send(),
	)
}

// MarkHelpful handles POST /reviews/helpful. Votes are remembered per browser
// in a cookie, so each review counts once.
func (rrm *ReviewRoutesManager) MarkHelpful(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.HelpfulRequest](r)
	if err != nil {
		handling.RespondError(err, "Vote", rrm.logger, w)
		return
	}

	raw, _ := lib.GetCookieValue(lib.HelpfulCookieName, r)
	helpful, votes, err := rrm.reviewService.MarkHelpful(r.Context(), body.ReviewID, services.ParseHelpfulVotes(raw))
	if err != nil {
		handling.RespondError(err, "Review", rrm.logger, w)
		return
	}

	lib.SetCookie(lib.HelpfulCookieName, strings.Join(votes, ","), time.Now().Add(helpfulCookieTTL), w)
	gecho.Success(w,
		gecho.WithData(map[string]int{"helpful": helpful}),
		gecho.Send(),
	)
}
