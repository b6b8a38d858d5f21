package services

import (
	"context"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

type CustomOrderService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	orders   CustomOrderStore
	users    UserStore
	notifier Notifier
	events   EventPublisher
}

func NewCustomOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	orders CustomOrderStore,
	users UserStore,
	notifier Notifier,
	events EventPublisher,
) *CustomOrderService {
	return &CustomOrderService{
		logger:   logger,
		cfg:      cfg,
		orders:   orders,
		users:    users,
		notifier: notifier,
		events:   events,
	}
}

// CreateCustomOrder stores a PENDING bespoke request and notifies customer and admin.
func (cs *CustomOrderService) CreateCustomOrder(ctx context.Context, req *structs.CustomOrderRequest, principal *structs.Principal) (*tables.CustomOrder, error) {
	if req.Budget != nil && req.Budget.IsNegative() {
		return nil, lib.NewValidationError("budget", "must not be negative")
	}

	userID, err := resolveCustomer(ctx, cs.users, principal, req.Email, req.Name)
	if err != nil {
		cs.logger.Error("Failed to resolve custom order customer", gecho.Field("error", err))
		return nil, err
	}

	order := &tables.CustomOrder{
		UserId:       userID,
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Description:  strings.TrimSpace(req.Description),
		Requirements: strings.TrimSpace(req.Requirements),
		Budget:       req.Budget,
		Deadline:     req.Deadline,
		Status:       tables.CustomOrderStatusPending,
	}
	if err := cs.orders.Create(ctx, order); err != nil {
		cs.logger.Error("Failed to create custom order", gecho.Field("error", err))
		return nil, err
	}

	cs.logger.Info("Custom order created", gecho.Field("custom_order_id", order.Id), gecho.Field("user_id", userID))

	if err := cs.notifier.SendCustomOrderConfirmation(ctx, order); err != nil {
		cs.logger.Warn("Custom order confirmation failed", gecho.Field("error", err), gecho.Field("custom_order_id", order.Id))
	}
	if err := cs.notifier.SendCustomOrderAlert(ctx, order); err != nil {
		cs.logger.Warn("Custom order alert failed", gecho.Field("error", err), gecho.Field("custom_order_id", order.Id))
	}

	event := NewDomainEvent(EventBespokeCreated, order)
	if err := cs.events.Publish(ctx, cs.cfg.Kafka.BespokeTopic, order.Id.String(), event); err != nil {
		cs.logger.Warn("Failed to publish event", gecho.Field("type", event.Type), gecho.Field("error", err))
	}
	return order, nil
}

func (cs *CustomOrderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]tables.CustomOrder, error) {
	return cs.orders.List(ctx, "", &userID)
}

func (cs *CustomOrderService) ListAll(ctx context.Context, status string) ([]tables.CustomOrder, error) {
	return cs.orders.List(ctx, status, nil)
}

func (cs *CustomOrderService) UpdateCustomOrder(ctx context.Context, id uuid.UUID, req *structs.UpdateCustomOrderRequest) (*tables.CustomOrder, error) {
	updates := map[string]any{}
	if req.Status != nil {
		updates["status"] = tables.CustomOrderStatus(*req.Status)
	}
	if req.AdminNotes != nil {
		updates["admin_notes"] = *req.AdminNotes
	}

	if len(updates) > 0 {
		if err := cs.orders.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return cs.orders.FindByID(ctx, id)
}
