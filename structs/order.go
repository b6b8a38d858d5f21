package structs

type UpdateOrderRequest struct {
	Status        *string `json:"status" validate:"omitempty,oneof=PENDING CONFIRMED PROCESSING SHIPPED DELIVERED CANCELLED"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=PENDING COMPLETED FAILED REFUNDED"`
	EstimatedDays *int    `json:"estimatedDays" validate:"omitempty,gte=0,lte=365"`
}

type OrderListOptions struct {
	Page          int
	PageSize      int
	Status        string
	PaymentStatus string
	Search        string
}

type RevenueStats struct {
	ConfirmedOrders int    `json:"confirmedOrders"`
	Revenue         string `json:"revenue"`
	PendingOrders   int    `json:"pendingOrders"`
}
