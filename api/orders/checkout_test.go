package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"knitcraft_server/services"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stubs embed the store interfaces; calling anything not overridden panics,
// which keeps the tests honest about what checkout touches.

type stubUsers struct {
	services.UserStore
}

func (stubUsers) UpsertGuest(ctx context.Context, email, name string) (*tables.User, error) {
	return &tables.User{Id: uuid.New(), Email: email, Name: name}, nil
}

type stubProducts struct {
	services.ProductStore
	products []tables.Product
}

func (s stubProducts) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tables.Product, error) {
	return s.products, nil
}

type stubOrders struct {
	services.OrderStore
	created []*tables.Order
}

func (s *stubOrders) CreateWithItems(ctx context.Context, order *tables.Order, items []*tables.OrderItem) error {
	order.Id = uuid.New()
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrders) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

type stubNotifier struct {
	services.Notifier
	confirmErr error
}

func (s stubNotifier) SendOrderConfirmation(ctx context.Context, n *structs.OrderNotification) error {
	return s.confirmErr
}

func (s stubNotifier) SendAdminOrderAlert(ctx context.Context, n *structs.OrderNotification) error {
	return nil
}

type stubEvents struct{}

func (stubEvents) Publish(ctx context.Context, topic, key string, event *services.DomainEvent) error {
	return nil
}

type stubCarts struct {
	services.CartPersister
	deleted []string
}

func (s *stubCarts) DeleteCart(cartID string) error {
	s.deleted = append(s.deleted, cartID)
	return nil
}

type checkoutFixture struct {
	orders  *stubOrders
	carts   *stubCarts
	product tables.Product
	router  chi.Router
}

func newCheckoutFixture(confirmErr error) *checkoutFixture {
	logger := gecho.NewDefaultLogger()
	f := &checkoutFixture{
		orders: &stubOrders{},
		carts:  &stubCarts{},
		product: tables.Product{
			ID:              uuid.New(),
			Name:            "Chunky Beanie",
			Price:           decimal.NewFromInt(25),
			DeliveryDaysMin: 3,
			DeliveryDaysMax: 5,
			AllowWhatsapp:   true,
			AllowEmail:      true,
			IsActive:        true,
		},
	}

	cfg := &structs.Config{
		WhatsApp: &structs.WhatsAppConfig{MerchantPhone: "+31 6 1234 5678"},
		Kafka:    &structs.KafkaConfig{OrderTopic: "orders"},
	}
	products := stubProducts{products: []tables.Product{f.product}}
	orderService := services.NewOrderService(logger, cfg, stubUsers{}, products, f.orders, stubNotifier{confirmErr: confirmErr}, stubEvents{})
	cartService := services.NewCartService(logger, f.carts, products)

	orm := NewOrderRoutesManager(logger, orderService, cartService, nil)
	f.router = chi.NewRouter()
	f.router.Post("/checkout", orm.Checkout)
	return f
}

func (f *checkoutFixture) post(t *testing.T, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "cart_id", Value: "cart-1"})

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *checkoutFixture) validBody(method string) map[string]any {
	return map[string]any{
		"firstName":     "Anna",
		"lastName":      "Jansen",
		"email":         "anna@example.com",
		"phone":         "+31612345678",
		"address":       "Breiweg 1",
		"city":          "Utrecht",
		"contactMethod": method,
		"items": []map[string]any{
			{"productId": f.product.ID.String(), "quantity": 2},
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCheckoutRejectsMissingFieldWithoutStoring(t *testing.T) {
	f := newCheckoutFixture(nil)
	body := f.validBody("email")
	body["address"] = "   "

	rec := f.post(t, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.orders.created)
	assert.Empty(t, f.carts.deleted)
}

func TestCheckoutRejectsUnknownFields(t *testing.T) {
	f := newCheckoutFixture(nil)
	body := f.validBody("email")
	body["coupon"] = "FREE"

	rec := f.post(t, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.orders.created)
}

func TestCheckoutEmailSuccess(t *testing.T) {
	f := newCheckoutFixture(nil)

	rec := f.post(t, f.validBody("email"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.orders.created, 1)
	assert.True(t, f.orders.created[0].EmailSent)
	assert.Equal(t, []string{"cart-1"}, f.carts.deleted)

	var result services.CheckoutResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.Equal(t, f.orders.created[0].OrderNumber, result.Order.OrderNumber)
	assert.Empty(t, result.WhatsappLink)
}

func TestCheckoutEmailFailureKeepsOrder(t *testing.T) {
	f := newCheckoutFixture(errors.New("smtp: connection refused"))

	rec := f.post(t, f.validBody("email"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.Len(t, f.orders.created, 1)
	assert.False(t, f.orders.created[0].EmailSent)
	assert.Equal(t, []string{"cart-1"}, f.carts.deleted)

	env := decode(t, rec)
	assert.False(t, env.Success)

	var result services.CheckoutResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, f.orders.created[0].OrderNumber, result.Order.OrderNumber)
}

func TestCheckoutWhatsAppReturnsLink(t *testing.T) {
	f := newCheckoutFixture(nil)

	rec := f.post(t, f.validBody("whatsapp"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.orders.created, 1)

	var result services.CheckoutResult
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &result))
	assert.True(t, strings.HasPrefix(result.WhatsappLink, "https://wa.me/31612345678?text="))
	assert.True(t, result.Order.WhatsappSent)
}
