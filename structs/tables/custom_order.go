package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomOrder is a bespoke commission request reviewed by the admin.
type CustomOrder struct {
	tableName    struct{}          `bun:"table:custom_orders,alias:co"`
	Id           uuid.UUID         `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserId       uuid.UUID         `bun:"user_id,type:uuid,notnull" json:"userId"`
	Name         string            `bun:"name,notnull" json:"name"`
	Email        string            `bun:"email,notnull" json:"email"`
	Phone        string            `bun:"phone,notnull,default:''" json:"phone,omitempty"`
	Description  string            `bun:"description,notnull" json:"description"`
	Requirements string            `bun:"requirements,notnull,default:''" json:"requirements"`
	Budget       *decimal.Decimal  `bun:"budget,type:numeric(12,2)" json:"budget,omitempty"`
	Deadline     *time.Time        `bun:"deadline" json:"deadline,omitempty"`
	Status       CustomOrderStatus `bun:"status,notnull,default:'PENDING'" json:"status"`
	AdminNotes   string            `bun:"admin_notes,notnull,default:''" json:"adminNotes,omitempty"`
	CreatedAt    time.Time         `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt    time.Time         `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

type CustomOrderStatus string

const (
	CustomOrderStatusPending    CustomOrderStatus = "PENDING"
	CustomOrderStatusAccepted   CustomOrderStatus = "ACCEPTED"
	CustomOrderStatusInProgress CustomOrderStatus = "IN_PROGRESS"
	CustomOrderStatusCompleted  CustomOrderStatus = "COMPLETED"
	CustomOrderStatusRejected   CustomOrderStatus = "REJECTED"
)
