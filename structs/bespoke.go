package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

type CustomOrderRequest struct {
	Name         string           `json:"name" validate:"required,min=2,max=100"`
	Email        string           `json:"email" validate:"required,email"`
	Phone        string           `json:"phone" validate:"omitempty,max=30"`
	Description  string           `json:"description" validate:"required,min=10,max=5000"`
	Requirements string           `json:"requirements" validate:"max=5000"`
	Budget       *decimal.Decimal `json:"budget"`
	Deadline     *time.Time       `json:"deadline"`
}

type UpdateCustomOrderRequest struct {
	Status     *string `json:"status" validate:"omitempty,oneof=PENDING ACCEPTED IN_PROGRESS COMPLETED REJECTED"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=5000"`
}
