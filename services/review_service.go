package services

import (
	"context"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"slices"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const (
	minRating       = 1
	maxRating       = 5
	defaultTopLimit = 6
	maxTopLimit     = 50
	maxHelpfulVotes = 200
	anonymousAuthor = "Anonymous"
)

type ReviewService struct {
	logger   *gecho.Logger
	reviews  ReviewStore
	users    UserStore
	products ProductStore
	orders   OrderStore
	notifier Notifier
}

func NewReviewService(
	logger *gecho.Logger,
	reviews ReviewStore,
	users UserStore,
	products ProductStore,
	orders OrderStore,
	notifier Notifier,
) *ReviewService {
	return &ReviewService{
		logger:   logger,
		reviews:  reviews,
		users:    users,
		products: products,
		orders:   orders,
		notifier: notifier,
	}
}

// ClampRating forces a rating into 1..5.
func ClampRating(rating int) int {
	return min(max(rating, minRating), maxRating)
}

// CreateReview stores a review. Only an authenticated buyer of the reviewed
// product is marked verified.
func (rs *ReviewService) CreateReview(ctx context.Context, req *structs.ReviewRequest, principal *structs.Principal) (*tables.Review, error) {
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		return nil, lib.NewValidationError("comment", "is required")
	}

	if req.ProductID != nil {
		if _, err := rs.products.FindByID(ctx, *req.ProductID); err != nil {
			if lib.IsNotFound(err) {
				return nil, lib.NewValidationError("productId", "product does not exist")
			}
			return nil, err
		}
	}

	author := strings.TrimSpace(req.Name)
	if principal != nil && author == "" {
		if user, err := rs.users.FindByID(ctx, principal.UserID); err == nil {
			author = user.Name
		}
	}
	if author == "" {
		author = anonymousAuthor
	}

	userID, err := resolveCustomer(ctx, rs.users, principal, req.Email, author)
	if err != nil {
		return nil, err
	}

	verified := false
	if principal != nil && req.ProductID != nil {
		verified, err = rs.orders.HasPurchased(ctx, principal.UserID, *req.ProductID)
		if err != nil {
			rs.logger.Warn("Failed to check purchase for review", gecho.Field("error", err), gecho.Field("user_id", principal.UserID))
			verified = false
		}
	}

	review := &tables.Review{
		ProductId:   req.ProductID,
		UserId:      userID,
		AuthorName:  author,
		Rating:      ClampRating(req.Rating),
		Comment:     comment,
		IsVerified:  verified,
		IsPublished: true,
	}
	if err := rs.reviews.Create(ctx, review); err != nil {
		rs.logger.Error("Failed to create review", gecho.Field("error", err))
		return nil, err
	}

	if err := rs.notifier.SendReviewNotification(ctx, review); err != nil {
		rs.logger.Warn("Review notification failed", gecho.Field("error", err), gecho.Field("review_id", review.Id))
	}
	return review, nil
}

func (rs *ReviewService) ListReviews(ctx context.Context, filter *structs.ReviewFilter) ([]tables.Review, int, error) {
	return rs.reviews.List(ctx, filter)
}

func (rs *ReviewService) TopReviews(ctx context.Context, limit int) ([]tables.Review, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return rs.reviews.Top(ctx, min(limit, maxTopLimit))
}

func (rs *ReviewService) Stats(ctx context.Context, productID *uuid.UUID) (*structs.ReviewStats, error) {
	return rs.reviews.Stats(ctx, productID)
}

// ParseHelpfulVotes decodes the vote cookie, a comma separated list of review ids.
func ParseHelpfulVotes(raw string) []string {
	if raw == "" {
		return nil
	}
	votes := []string{}
	for _, v := range strings.Split(raw, ",") {
		if _, err := uuid.Parse(v); err == nil {
			votes = append(votes, v)
		}
	}
	return votes
}

// MarkHelpful increments the helpful counter unless the review id is already
// in votes. It returns the new count and the vote list to store.
func (rs *ReviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID, votes []string) (int, []string, error) {
	if slices.Contains(votes, reviewID.String()) {
		return 0, votes, lib.ErrAlreadyVoted
	}

	helpful, err := rs.reviews.IncrementHelpful(ctx, reviewID)
	if err != nil {
		return 0, votes, err
	}

	votes = append(votes, reviewID.String())
	if len(votes) > maxHelpfulVotes {
		votes = votes[len(votes)-maxHelpfulVotes:]
	}
	return helpful, votes, nil
}

// ============================================================================
// Admin
// ============================================================================

func (rs *ReviewService) UpdateReview(ctx context.Context, id uuid.UUID, req *structs.UpdateReviewRequest) (*tables.Review, error) {
	updates := map[string]any{}
	if req.IsVerified != nil {
		updates["is_verified"] = *req.IsVerified
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		if err := rs.reviews.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return rs.reviews.FindByID(ctx, id)
}

func (rs *ReviewService) DeleteReview(ctx context.Context, id uuid.UUID) error {
	if err := rs.reviews.Delete(ctx, id); err != nil {
		return err
	}
	rs.logger.Info("Review deleted", gecho.Field("review_id", id))
	return nil
}
