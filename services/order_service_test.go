package services

import (
	"context"
	"errors"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"strings"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	users    *mockUserStore
	products *mockProductStore
	orders   *mockOrderStore
	notifier *mockNotifier
	events   *mockPublisher
	service  *OrderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		users:    &mockUserStore{},
		products: &mockProductStore{},
		orders:   &mockOrderStore{},
		notifier: &mockNotifier{},
		events:   &mockPublisher{},
	}
	cfg := &structs.Config{
		WhatsApp: &structs.WhatsAppConfig{MerchantPhone: "+31 6 1234 5678"},
		Kafka:    &structs.KafkaConfig{OrderTopic: "orders"},
	}
	f.service = NewOrderService(gecho.NewDefaultLogger(), cfg, f.users, f.products, f.orders, f.notifier, f.events)
	f.events.On("Publish", mock.Anything, "orders", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func testProduct() tables.Product {
	id := uuid.New()
	return tables.Product{
		ID:              id,
		Name:            "Chunky Beanie",
		Price:           decimal.NewFromInt(25),
		DeliveryDaysMin: 3,
		DeliveryDaysMax: 5,
		AllowWhatsapp:   true,
		AllowEmail:      true,
		IsActive:        true,
		Variants: []tables.ProductVariant{
			{ID: uuid.New(), ProductID: id, Name: "Express", DaysMin: 2, DaysMax: 4, PriceMultiplier: decimal.RequireFromString("1.5")},
		},
	}
}

func checkoutRequest(method string, product tables.Product) *structs.CheckoutRequest {
	return &structs.CheckoutRequest{
		FirstName:     "Anna",
		LastName:      "Jansen",
		Email:         "anna@example.com",
		Phone:         "+31612345678",
		Address:       "Breiweg 1",
		City:          "Utrecht",
		ContactMethod: method,
		Items: []structs.CheckoutItem{
			{ProductID: product.ID, Quantity: 2, Customizations: []structs.Customization{{Name: "Colour", Value: "Sage"}}},
		},
	}
}

func TestCheckoutRejectsBlankFieldsWithoutStoring(t *testing.T) {
	f := newOrderFixture()
	req := checkoutRequest("email", testProduct())
	req.Address = "   "
	req.City = ""

	result, err := f.service.Checkout(context.Background(), req, nil)

	require.Error(t, err)
	assert.Nil(t, result)

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	fields := make([]string, 0, len(verr.Errors))
	for _, fe := range verr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"address", "city"}, fields)
	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutRejectsEmptyItems(t *testing.T) {
	f := newOrderFixture()
	req := checkoutRequest("email", testProduct())
	req.Items = nil

	_, err := f.service.Checkout(context.Background(), req, nil)

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutEmailStoresPendingOrder(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()
	guestID := uuid.New()

	f.products.On("FindByIDs", mock.Anything, []uuid.UUID{product.ID}).Return([]tables.Product{product}, nil)
	f.users.On("UpsertGuest", mock.Anything, "anna@example.com", "Anna Jansen").Return(&tables.User{Id: guestID}, nil)
	f.orders.On("CreateWithItems", mock.Anything, mock.AnythingOfType("*tables.Order"), mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, mock.Anything, map[string]any{"email_sent": true}).Return(nil)
	f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendAdminOrderAlert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Checkout(context.Background(), checkoutRequest("email", product), nil)
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.Equal(t, tables.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, guestID, order.UserId)
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, order.EmailSent)
	assert.Empty(t, result.WhatsappLink)
	assert.Regexp(t, `^KC-\d{6}-[A-Z0-9]{4}$`, order.OrderNumber)

	f.orders.AssertNumberOfCalls(t, "CreateWithItems", 1)
	f.notifier.AssertExpectations(t)
	f.events.AssertCalled(t, "Publish", mock.Anything, "orders", order.Id.String(), mock.Anything)
}

func TestCheckoutEmailFailureKeepsOrder(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{product}, nil)
	f.users.On("UpsertGuest", mock.Anything, mock.Anything, mock.Anything).Return(&tables.User{Id: uuid.New()}, nil)
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("smtp: connection refused"))

	result, err := f.service.Checkout(context.Background(), checkoutRequest("email", product), nil)

	require.ErrorIs(t, err, lib.ErrNotificationFailed)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Order.OrderNumber)
	assert.False(t, result.Order.EmailSent)
	f.orders.AssertNumberOfCalls(t, "CreateWithItems", 1)
	f.notifier.AssertNotCalled(t, "SendAdminOrderAlert", mock.Anything, mock.Anything)
}

func TestCheckoutWhatsAppReturnsLink(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()
	principal := &structs.Principal{UserID: uuid.New(), Role: structs.RoleClient}

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{product}, nil)
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, mock.Anything, map[string]any{"whatsapp_sent": true}).Return(nil)
	f.notifier.On("SendAdminOrderAlert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Checkout(context.Background(), checkoutRequest("whatsapp", product), principal)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.WhatsappLink, "https://wa.me/31612345678?text="))
	assert.Contains(t, result.WhatsappLink, result.Order.OrderNumber)
	assert.True(t, result.Order.WhatsappSent)
	assert.Equal(t, principal.UserID, result.Order.UserId)
	f.users.AssertNotCalled(t, "UpsertGuest", mock.Anything, mock.Anything, mock.Anything)
	f.notifier.AssertNotCalled(t, "SendOrderConfirmation", mock.Anything, mock.Anything)
}

func TestCheckoutAppliesVariantMultiplier(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()
	req := checkoutRequest("whatsapp", product)
	req.Items[0].VariantID = &product.Variants[0].ID

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{product}, nil)
	f.users.On("UpsertGuest", mock.Anything, mock.Anything, mock.Anything).Return(&tables.User{Id: uuid.New()}, nil)
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendAdminOrderAlert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Checkout(context.Background(), req, nil)
	require.NoError(t, err)

	assert.True(t, result.Order.TotalPrice.Equal(decimal.NewFromInt(75)), result.Order.TotalPrice.String())
	require.NotNil(t, result.Order.VariantId)
	assert.Equal(t, product.Variants[0].ID, *result.Order.VariantId)
}

func TestCheckoutKeepsFirstLineVariant(t *testing.T) {
	f := newOrderFixture()
	plain := testProduct()
	plain.Variants = nil
	varied := testProduct()
	req := checkoutRequest("email", plain)
	req.Items = append(req.Items, structs.CheckoutItem{ProductID: varied.ID, Quantity: 1, VariantID: &varied.Variants[0].ID})

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{plain, varied}, nil)
	f.users.On("UpsertGuest", mock.Anything, mock.Anything, mock.Anything).Return(&tables.User{Id: uuid.New()}, nil)
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.orders.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendOrderConfirmation", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendAdminOrderAlert", mock.Anything, mock.Anything).Return(nil)

	result, err := f.service.Checkout(context.Background(), req, nil)
	require.NoError(t, err)

	require.NotNil(t, result.Order.VariantId)
	assert.Equal(t, varied.Variants[0].ID, *result.Order.VariantId)
}

func TestCheckoutRejectsForeignVariant(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()
	req := checkoutRequest("email", product)
	foreign := uuid.New()
	req.Items[0].VariantID = &foreign

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{product}, nil)

	_, err := f.service.Checkout(context.Background(), req, nil)

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "items[0].variantId", verr.Errors[0].Field)
	f.orders.AssertNotCalled(t, "CreateWithItems", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckoutRejectsDisallowedChannel(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()
	product.AllowWhatsapp = false

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{product}, nil)

	_, err := f.service.Checkout(context.Background(), checkoutRequest("whatsapp", product), nil)

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "contactMethod", verr.Errors[0].Field)
}

func TestCheckoutRetriesOrderNumberConflict(t *testing.T) {
	f := newOrderFixture()
	product := testProduct()

	f.products.On("FindByIDs", mock.Anything, mock.Anything).Return([]tables.Product{product}, nil)
	f.users.On("UpsertGuest", mock.Anything, mock.Anything, mock.Anything).Return(&tables.User{Id: uuid.New()}, nil)
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(lib.ErrConflict).Once()
	f.orders.On("CreateWithItems", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.orders.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendAdminOrderAlert", mock.Anything, mock.Anything).Return(nil)

	_, err := f.service.Checkout(context.Background(), checkoutRequest("whatsapp", product), nil)

	require.NoError(t, err)
	f.orders.AssertNumberOfCalls(t, "CreateWithItems", 2)
}

func TestFormatWhatsAppMessage(t *testing.T) {
	msg := FormatWhatsAppMessage(&structs.OrderNotification{
		OrderNumber: "KC-123456-AB12",
		ClientName:  "Anna Jansen",
		Phone:       "+31612345678",
		Email:       "anna@example.com",
		Address:     "Breiweg 1, Utrecht",
		Total:       decimal.NewFromInt(50),
		Items: []structs.NotificationItem{
			{Name: "Chunky Beanie", Quantity: 2, Price: decimal.NewFromInt(25), Customizations: []structs.Customization{{Name: "Colour", Value: "Sage"}}},
		},
		Delivery: structs.DeliveryEstimate{DaysMin: 3, DaysMax: 5},
	})

	assert.Contains(t, msg, "KC-123456-AB12")
	assert.Contains(t, msg, "- 2x Chunky Beanie (€25.00)")
	assert.Contains(t, msg, "Colour: Sage")
	assert.Contains(t, msg, "Total: €50.00")
	assert.Contains(t, msg, "Estimated delivery: 3-5 days")
}

func TestDeliveryEstimateFallback(t *testing.T) {
	product := testProduct()
	product.DeliveryDaysMin, product.DeliveryDaysMax = 0, 0

	assert.Equal(t, structs.DeliveryEstimate{DaysMin: 7, DaysMax: 10}, deliveryEstimate([]pricedLine{{product: &product}}))
	assert.Equal(t, structs.DeliveryEstimate{DaysMin: 7, DaysMax: 10}, deliveryEstimate(nil))
}

// ============================================================================
// Admin updates
// ============================================================================

func storedOrder(status tables.OrderStatus, variantID *uuid.UUID) *tables.Order {
	return &tables.Order{
		Id:          uuid.New(),
		OrderNumber: "KC-000001-TEST",
		Status:      status,
		VariantId:   variantID,
		TotalPrice:  decimal.NewFromInt(40),
	}
}

func TestUpdateOrderEstimatedDaysOutsideVariantWindow(t *testing.T) {
	f := newOrderFixture()
	variant := &tables.ProductVariant{ID: uuid.New(), DaysMin: 5, DaysMax: 10}
	order := storedOrder(tables.OrderStatusPending, &variant.ID)

	f.orders.On("FindByID", mock.Anything, order.Id).Return(order, nil)
	f.products.On("FindVariant", mock.Anything, variant.ID).Return(variant, nil)

	days := 11
	_, err := f.service.UpdateOrder(context.Background(), order.Id, &structs.UpdateOrderRequest{EstimatedDays: &days}, nil)

	var rerr *lib.RangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "estimatedDays", rerr.Field)
	assert.Equal(t, 5, rerr.Min)
	assert.Equal(t, 10, rerr.Max)
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderEstimatedDaysAcceptsBounds(t *testing.T) {
	for _, days := range []int{5, 10} {
		f := newOrderFixture()
		variant := &tables.ProductVariant{ID: uuid.New(), DaysMin: 5, DaysMax: 10}
		order := storedOrder(tables.OrderStatusPending, &variant.ID)

		f.orders.On("FindByID", mock.Anything, order.Id).Return(order, nil)
		f.products.On("FindVariant", mock.Anything, variant.ID).Return(variant, nil)
		f.orders.On("Update", mock.Anything, order.Id, map[string]any{"estimated_days": days}).Return(nil)

		_, err := f.service.UpdateOrder(context.Background(), order.Id, &structs.UpdateOrderRequest{EstimatedDays: &days}, nil)

		require.NoError(t, err, "days=%d", days)
		f.orders.AssertExpectations(t)
	}
}

func TestUpdateOrderRejectsInvalidTransition(t *testing.T) {
	f := newOrderFixture()
	order := storedOrder(tables.OrderStatusDelivered, nil)
	f.orders.On("FindByID", mock.Anything, order.Id).Return(order, nil)

	status := string(tables.OrderStatusPending)
	_, err := f.service.UpdateOrder(context.Background(), order.Id, &structs.UpdateOrderRequest{Status: &status}, nil)

	require.ErrorIs(t, err, lib.ErrInvalidStatusTransition)
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateOrderConfirmPublishesEvent(t *testing.T) {
	f := newOrderFixture()
	order := storedOrder(tables.OrderStatusPending, nil)
	confirmed := *order
	confirmed.Status = tables.OrderStatusConfirmed

	f.orders.On("FindByID", mock.Anything, order.Id).Return(order, nil).Once()
	f.orders.On("FindByID", mock.Anything, order.Id).Return(&confirmed, nil).Once()
	f.orders.On("Update", mock.Anything, order.Id, map[string]any{"status": tables.OrderStatusConfirmed}).Return(nil)

	status := string(tables.OrderStatusConfirmed)
	updated, err := f.service.UpdateOrder(context.Background(), order.Id, &structs.UpdateOrderRequest{Status: &status}, &structs.Principal{UserID: uuid.New(), Role: structs.RoleAdmin})

	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusConfirmed, updated.Status)
	f.events.AssertCalled(t, "Publish", mock.Anything, "orders", order.Id.String(), mock.MatchedBy(func(e *DomainEvent) bool {
		return e.Type == EventOrderStatusChanged
	}))
}

func TestOrderStats(t *testing.T) {
	f := newOrderFixture()
	f.orders.On("ConfirmedRevenue", mock.Anything).Return(decimal.RequireFromString("123.5"), 3, nil)
	f.orders.On("CountByStatus", mock.Anything, tables.OrderStatusPending).Return(2, nil)

	stats, err := f.service.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &structs.RevenueStats{ConfirmedOrders: 3, Revenue: "123.50", PendingOrders: 2}, stats)
}
