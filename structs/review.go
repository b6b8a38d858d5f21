package structs

import "github.com/google/uuid"

type ReviewRequest struct {
	ProductID *uuid.UUID `json:"productId"`
	Name      string     `json:"name" validate:"omitempty,max=100"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment" validate:"required,min=2,max=2000"`
}

type HelpfulRequest struct {
	ReviewID uuid.UUID `json:"reviewId" validate:"required"`
}

type UpdateReviewRequest struct {
	IsVerified  *bool `json:"isVerified"`
	IsPublished *bool `json:"isPublished"`
}

type ReviewFilter struct {
	ProductID     *uuid.UUID
	Page          int
	PageSize      int
	IncludeHidden bool
}

type ReviewStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
