package services

import (
	"context"
	"errors"
	"fmt"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	orderNumberAttempts = 3
	fallbackDaysMin     = 7
	fallbackDaysMax     = 10
)

// CheckoutResult is returned even when the customer email failed, since the
// order is already stored at that point.
type CheckoutResult struct {
	Order        *tables.Order `json:"order"`
	WhatsappLink string        `json:"whatsappLink,omitempty"`
}

type OrderService struct {
	logger   *gecho.Logger
	cfg      *structs.Config
	users    UserStore
	products ProductStore
	orders   OrderStore
	notifier Notifier
	events   EventPublisher
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	users UserStore,
	products ProductStore,
	orders OrderStore,
	notifier Notifier,
	events EventPublisher,
) *OrderService {
	return &OrderService{
		logger:   logger,
		cfg:      cfg,
		users:    users,
		products: products,
		orders:   orders,
		notifier: notifier,
		events:   events,
	}
}

// validateCheckout rejects blank required fields. The struct tags catch
// missing values; this also catches whitespace-only ones.
func validateCheckout(req *structs.CheckoutRequest) error {
	required := []struct{ field, value string }{
		{"firstName", req.FirstName},
		{"lastName", req.LastName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"address", req.Address},
		{"city", req.City},
	}

	verr := &lib.ValidationError{}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			verr.Add(r.field, "is required")
		}
	}
	if len(req.Items) == 0 {
		verr.Add("items", "must contain at least one item")
	}
	if err := verr.ErrOrNil(); err != nil {
		return err
	}
	return lib.ValidateStruct(req)
}

type pricedLine struct {
	product *tables.Product
	variant *tables.ProductVariant
	item    *tables.OrderItem
}

// priceLines resolves every requested item against the catalog and computes
// unit and line prices.
func (os *OrderService) priceLines(ctx context.Context, req *structs.CheckoutRequest) ([]pricedLine, decimal.Decimal, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := os.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}
	byID := make(map[uuid.UUID]*tables.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	method := tables.ContactMethod(req.ContactMethod)
	lines := make([]pricedLine, 0, len(req.Items))
	total := decimal.Zero

	for i, reqItem := range req.Items {
		field := fmt.Sprintf("items[%d]", i)

		product, ok := byID[reqItem.ProductID]
		if !ok || !product.IsActive {
			return nil, decimal.Zero, lib.NewValidationError(field+".productId", "product is not available")
		}
		if method == tables.ContactMethodWhatsapp && !product.AllowWhatsapp {
			return nil, decimal.Zero, lib.NewValidationError("contactMethod", fmt.Sprintf("%s cannot be ordered via WhatsApp", product.Name))
		}
		if method == tables.ContactMethodEmail && !product.AllowEmail {
			return nil, decimal.Zero, lib.NewValidationError("contactMethod", fmt.Sprintf("%s cannot be ordered via email", product.Name))
		}

		unit := product.EffectivePrice()
		name := product.Name

		var variant *tables.ProductVariant
		if reqItem.VariantID != nil {
			for j := range product.Variants {
				if product.Variants[j].ID == *reqItem.VariantID {
					variant = &product.Variants[j]
					break
				}
			}
			if variant == nil {
				return nil, decimal.Zero, lib.NewValidationError(field+".variantId", "variant does not belong to product")
			}
			unit = unit.Mul(variant.PriceMultiplier).Round(2)
			name = fmt.Sprintf("%s (%s)", product.Name, variant.Name)
		}

		lineTotal := unit.Mul(decimal.NewFromInt(int64(reqItem.Quantity)))
		total = total.Add(lineTotal)

		customizations := make([]tables.OrderCustomization, 0, len(reqItem.Customizations))
		for _, c := range reqItem.Customizations {
			customizations = append(customizations, tables.OrderCustomization{Name: c.Name, Value: c.Value})
		}

		productID := product.ID
		lines = append(lines, pricedLine{
			product: product,
			variant: variant,
			item: &tables.OrderItem{
				ProductId:      &productID,
				VariantId:      reqItem.VariantID,
				Name:           name,
				Quantity:       reqItem.Quantity,
				UnitPrice:      unit,
				LineTotal:      lineTotal,
				Customizations: customizations,
			},
		})
	}

	return lines, total, nil
}

// Checkout validates, prices and stores an order, then notifies through the
// chosen channel. A failed customer email yields the stored order together
// with an error wrapping lib.ErrNotificationFailed.
func (os *OrderService) Checkout(ctx context.Context, req *structs.CheckoutRequest, principal *structs.Principal) (*CheckoutResult, error) {
	startTime := time.Now()

	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	lines, total, err := os.priceLines(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.TotalPrice != nil && !req.TotalPrice.Round(2).Equal(total) {
		os.logger.Warn("Client total does not match catalog total",
			gecho.Field("client_total", req.TotalPrice.String()),
			gecho.Field("server_total", total.String()),
		)
	}

	userID, err := resolveCustomer(ctx, os.users, principal, req.Email, req.FullName())
	if err != nil {
		os.logger.Error("Failed to resolve checkout customer", gecho.Field("error", err), gecho.Field("email", req.Email))
		return nil, err
	}

	order := &tables.Order{
		UserId:        userID,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		Email:         strings.TrimSpace(req.Email),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		City:          strings.TrimSpace(req.City),
		Country:       strings.TrimSpace(req.Country),
		Notes:         strings.TrimSpace(req.Notes),
		TotalPrice:    total,
		ContactMethod: tables.ContactMethod(req.ContactMethod),
		Status:        tables.OrderStatusPending,
		PaymentStatus: tables.PaymentStatusPending,
		VariantId:     orderVariant(lines),
	}

	items := make([]*tables.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.item)
	}

	if err := os.persist(ctx, order, items); err != nil {
		return nil, err
	}

	os.logger.Info("Order created",
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("user_id", userID),
		gecho.Field("total", total.String()),
		gecho.Field("contact_method", order.ContactMethod),
	)

	notification := buildOrderNotification(order, lines)
	result := &CheckoutResult{Order: order}

	var notifyErr error
	switch order.ContactMethod {
	case tables.ContactMethodWhatsapp:
		result.WhatsappLink = os.dispatchWhatsApp(ctx, order, notification)
	case tables.ContactMethodEmail:
		notifyErr = os.dispatchEmail(ctx, order, notification)
	}

	os.publish(ctx, os.cfg.Kafka.OrderTopic, order.Id.String(), NewDomainEvent(EventOrderCreated, order))

	os.logger.Debug("Checkout finished",
		gecho.Field("order_number", order.OrderNumber),
		gecho.Field("elapsed_time_ms", time.Since(startTime).Milliseconds()),
	)
	return result, notifyErr
}

// persist stores the order, regenerating the order number on a unique conflict.
func (os *OrderService) persist(ctx context.Context, order *tables.Order, items []*tables.OrderItem) error {
	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order.OrderNumber = lib.GenerateOrderNumber()
		err = os.orders.CreateWithItems(ctx, order, items)
		if err == nil {
			return nil
		}
		if !errors.Is(err, lib.ErrConflict) {
			break
		}
		os.logger.Warn("Order number collision, regenerating",
			gecho.Field("order_number", order.OrderNumber),
			gecho.Field("attempt", attempt),
		)
	}

	os.logger.Error("Failed to store order", gecho.Field("error", err), gecho.Field("email", order.Email))
	return err
}

func (os *OrderService) dispatchWhatsApp(ctx context.Context, order *tables.Order, n *structs.OrderNotification) string {
	if os.cfg.WhatsApp.MerchantPhone == "" {
		os.logger.Warn("WhatsApp merchant phone not configured", gecho.Field("order_number", order.OrderNumber))
	}

	link := lib.GenerateWhatsAppLink(os.cfg.WhatsApp.MerchantPhone, FormatWhatsAppMessage(n))
	recordNotification("whatsapp", "order_link", nil)

	order.WhatsappSent = true
	if err := os.orders.Update(ctx, order.Id, map[string]any{"whatsapp_sent": true}); err != nil {
		os.logger.Error("Failed to mark WhatsApp link as sent", gecho.Field("error", err), gecho.Field("order_number", order.OrderNumber))
	}

	if err := os.notifier.SendAdminOrderAlert(ctx, n); err != nil {
		os.logger.Warn("Admin order alert failed", gecho.Field("error", err), gecho.Field("order_number", order.OrderNumber))
	}
	return link
}

func (os *OrderService) dispatchEmail(ctx context.Context, order *tables.Order, n *structs.OrderNotification) error {
	if err := os.notifier.SendOrderConfirmation(ctx, n); err != nil {
		os.logger.Error("Order confirmation email failed, order kept",
			gecho.Field("error", err),
			gecho.Field("order_number", order.OrderNumber),
		)
		return fmt.Errorf("%w: %v", lib.ErrNotificationFailed, err)
	}

	if err := os.notifier.SendAdminOrderAlert(ctx, n); err != nil {
		os.logger.Warn("Admin order alert failed", gecho.Field("error", err), gecho.Field("order_number", order.OrderNumber))
	}

	order.EmailSent = true
	if err := os.orders.Update(ctx, order.Id, map[string]any{"email_sent": true}); err != nil {
		os.logger.Error("Failed to mark confirmation email as sent", gecho.Field("error", err), gecho.Field("order_number", order.OrderNumber))
	}
	return nil
}

func (os *OrderService) publish(ctx context.Context, topic, key string, event *DomainEvent) {
	if err := os.events.Publish(ctx, topic, key, event); err != nil {
		os.logger.Warn("Failed to publish event", gecho.Field("type", event.Type), gecho.Field("error", err))
	}
}

// orderVariant returns the variant of the first line that has one. The order
// keeps it so later estimated-days updates are checked against its window.
func orderVariant(lines []pricedLine) *uuid.UUID {
	for _, line := range lines {
		if line.item.VariantId != nil {
			return line.item.VariantId
		}
	}
	return nil
}

// deliveryEstimate takes the window of the first product, falling back to 7-10 days.
func deliveryEstimate(lines []pricedLine) structs.DeliveryEstimate {
	if len(lines) > 0 {
		p := lines[0].product
		if p.DeliveryDaysMin > 0 && p.DeliveryDaysMax >= p.DeliveryDaysMin {
			return structs.DeliveryEstimate{DaysMin: p.DeliveryDaysMin, DaysMax: p.DeliveryDaysMax}
		}
	}
	return structs.DeliveryEstimate{DaysMin: fallbackDaysMin, DaysMax: fallbackDaysMax}
}

func buildOrderNotification(order *tables.Order, lines []pricedLine) *structs.OrderNotification {
	items := make([]structs.NotificationItem, 0, len(lines))
	for _, line := range lines {
		customizations := make([]structs.Customization, 0, len(line.item.Customizations))
		for _, c := range line.item.Customizations {
			customizations = append(customizations, structs.Customization{Name: c.Name, Value: c.Value})
		}
		items = append(items, structs.NotificationItem{
			Name:           line.item.Name,
			Quantity:       line.item.Quantity,
			Price:          line.item.UnitPrice,
			Customizations: customizations,
		})
	}

	addressParts := []string{order.Address, order.City}
	if order.Country != "" {
		addressParts = append(addressParts, order.Country)
	}

	return &structs.OrderNotification{
		OrderNumber: order.OrderNumber,
		ClientName:  order.FirstName + " " + order.LastName,
		Email:       order.Email,
		Phone:       order.Phone,
		Address:     strings.Join(addressParts, ", "),
		Notes:       order.Notes,
		Total:       order.TotalPrice,
		Items:       items,
		Delivery:    deliveryEstimate(lines),
		Channel:     string(order.ContactMethod),
	}
}

// FormatWhatsAppMessage renders the pre-filled message the customer sends to the shop.
func FormatWhatsAppMessage(n *structs.OrderNotification) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Hello! I would like to place order %s.\n\n", n.OrderNumber)
	fmt.Fprintf(&b, "Name: %s\n", n.ClientName)
	fmt.Fprintf(&b, "Phone: %s\n", n.Phone)
	fmt.Fprintf(&b, "Email: %s\n", n.Email)
	fmt.Fprintf(&b, "Address: %s\n\n", n.Address)

	b.WriteString("Items:\n")
	for _, item := range n.Items {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", item.Quantity, item.Name, formatMoney(item.Price))
		for _, c := range item.Customizations {
			fmt.Fprintf(&b, "  %s: %s\n", c.Name, c.Value)
		}
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", formatMoney(n.Total))
	fmt.Fprintf(&b, "Estimated delivery: %d-%d days", n.Delivery.DaysMin, n.Delivery.DaysMax)
	if n.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s", n.Notes)
	}
	return b.String()
}

// ============================================================================
// Admin
// ============================================================================

func (os *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	return os.orders.FindByID(ctx, id)
}

func (os *OrderService) ListOrders(ctx context.Context, opts *structs.OrderListOptions) ([]tables.Order, int, error) {
	return os.orders.List(ctx, opts)
}

func (os *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]tables.Order, error) {
	return os.orders.ListByUser(ctx, userID)
}

// UpdateOrder applies an admin update. estimatedDays must lie inside the
// order variant's window and status changes must follow the transition table.
func (os *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *structs.UpdateOrderRequest, principal *structs.Principal) (*tables.Order, error) {
	order, err := os.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}

	if req.EstimatedDays != nil {
		days := *req.EstimatedDays
		if order.VariantId != nil {
			variant, err := os.products.FindVariant(ctx, *order.VariantId)
			if err != nil && !lib.IsNotFound(err) {
				return nil, err
			}
			if variant != nil && !variant.Contains(days) {
				return nil, &lib.RangeError{Field: "estimatedDays", Min: variant.DaysMin, Max: variant.DaysMax, Got: days}
			}
		}
		updates["estimated_days"] = days
	}

	becameConfirmed := false
	if req.Status != nil {
		next := tables.OrderStatus(*req.Status)
		if !order.Status.CanTransitionTo(next) {
			return nil, fmt.Errorf("%w: %s to %s", lib.ErrInvalidStatusTransition, order.Status, next)
		}
		if next != order.Status {
			updates["status"] = next
			becameConfirmed = next == tables.OrderStatusConfirmed
		}
	}

	if req.PaymentStatus != nil {
		updates["payment_status"] = tables.PaymentStatus(*req.PaymentStatus)
	}

	if len(updates) == 0 {
		return order, nil
	}

	if err := os.orders.Update(ctx, id, updates); err != nil {
		os.logger.Error("Failed to update order", gecho.Field("error", err), gecho.Field("order_id", id))
		return nil, err
	}

	updated, err := os.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if becameConfirmed {
		var adminID uuid.UUID
		if principal != nil {
			adminID = principal.UserID
		}
		os.logger.Info("Order confirmed",
			gecho.Field("order_number", updated.OrderNumber),
			gecho.Field("total", updated.TotalPrice.String()),
			gecho.Field("admin_id", adminID),
		)
		os.publish(ctx, os.cfg.Kafka.OrderTopic, updated.Id.String(), NewDomainEvent(EventOrderStatusChanged, map[string]any{
			"orderId":     updated.Id,
			"orderNumber": updated.OrderNumber,
			"from":        order.Status,
			"to":          updated.Status,
			"total":       updated.TotalPrice,
		}))
	}

	return updated, nil
}

// Stats computes revenue from CONFIRMED orders on demand.
func (os *OrderService) Stats(ctx context.Context) (*structs.RevenueStats, error) {
	revenue, confirmed, err := os.orders.ConfirmedRevenue(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := os.orders.CountByStatus(ctx, tables.OrderStatusPending)
	if err != nil {
		return nil, err
	}

	return &structs.RevenueStats{
		ConfirmedOrders: confirmed,
		Revenue:         revenue.StringFixed(2),
		PendingOrders:   pending,
	}, nil
}
