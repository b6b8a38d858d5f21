package reviews

import (
	"knitcraft_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ReviewRoutesManager struct {
	logger        *gecho.Logger
	reviewService *services.ReviewService
}

func NewReviewRoutesManager(logger *gecho.Logger, reviewService *services.ReviewService) *ReviewRoutesManager {
	return &ReviewRoutesManager{
		logger:        logger,
		reviewService: reviewService,
	}
}

func (rrm *ReviewRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.Get("/", rrm.ListReviews)
		r.Post("/", rrm.CreateReview)
		r.Get("/top", rrm.TopReviews)
		r.Get("/count", rrm.ReviewStats)
		r.Post("/helpful", rrm.MarkHelpful)
	})
}
