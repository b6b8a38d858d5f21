package services

import (
	"context"
	"errors"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type customOrderFixture struct {
	users    *mockUserStore
	orders   *mockCustomOrderStore
	notifier *mockNotifier
	events   *mockPublisher
	service  *CustomOrderService
}

func newCustomOrderFixture() *customOrderFixture {
	f := &customOrderFixture{
		users:    &mockUserStore{},
		orders:   &mockCustomOrderStore{},
		notifier: &mockNotifier{},
		events:   &mockPublisher{},
	}
	cfg := &structs.Config{Kafka: &structs.KafkaConfig{BespokeTopic: "bespoke"}}
	f.service = NewCustomOrderService(gecho.NewDefaultLogger(), cfg, f.orders, f.users, f.notifier, f.events)
	return f
}

func bespokeRequest() *structs.CustomOrderRequest {
	budget := decimal.NewFromInt(120)
	return &structs.CustomOrderRequest{
		Name:        " Anna Jansen ",
		Email:       "anna@example.com",
		Description: "A blanket in forest green, about 150 by 200 cm",
		Budget:      &budget,
	}
}

func TestCreateCustomOrderUpsertsGuestAndPublishes(t *testing.T) {
	f := newCustomOrderFixture()
	guest := &tables.User{Id: uuid.New(), Email: "anna@example.com"}

	f.users.On("UpsertGuest", mock.Anything, "anna@example.com", "Anna Jansen").Return(guest, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o *tables.CustomOrder) bool {
		return o.UserId == guest.Id && o.Status == tables.CustomOrderStatusPending && o.Name == "Anna Jansen"
	})).Return(nil)
	f.notifier.On("SendCustomOrderConfirmation", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendCustomOrderAlert", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, "bespoke", mock.Anything, mock.MatchedBy(func(e *DomainEvent) bool {
		return e.Type == EventBespokeCreated
	})).Return(nil)

	order, err := f.service.CreateCustomOrder(context.Background(), bespokeRequest(), nil)

	require.NoError(t, err)
	assert.Equal(t, tables.CustomOrderStatusPending, order.Status)
	assert.NotEqual(t, uuid.Nil, order.Id)
	f.users.AssertExpectations(t)
	f.orders.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
	f.events.AssertCalled(t, "Publish", mock.Anything, "bespoke", order.Id.String(), mock.Anything)
}

func TestCreateCustomOrderUsesPrincipal(t *testing.T) {
	f := newCustomOrderFixture()
	principal := &structs.Principal{UserID: uuid.New(), Role: structs.RoleClient}

	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendCustomOrderConfirmation", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendCustomOrderAlert", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	order, err := f.service.CreateCustomOrder(context.Background(), bespokeRequest(), principal)

	require.NoError(t, err)
	assert.Equal(t, principal.UserID, order.UserId)
	f.users.AssertNotCalled(t, "UpsertGuest", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateCustomOrderSurvivesNotifierAndBusFailures(t *testing.T) {
	f := newCustomOrderFixture()
	f.users.On("UpsertGuest", mock.Anything, mock.Anything, mock.Anything).Return(&tables.User{Id: uuid.New()}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("SendCustomOrderConfirmation", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	f.notifier.On("SendCustomOrderAlert", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	f.events.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	order, err := f.service.CreateCustomOrder(context.Background(), bespokeRequest(), nil)

	require.NoError(t, err)
	require.NotNil(t, order)
	f.notifier.AssertNumberOfCalls(t, "SendCustomOrderAlert", 1)
}

func TestCreateCustomOrderRejectsNegativeBudget(t *testing.T) {
	f := newCustomOrderFixture()
	req := bespokeRequest()
	negative := decimal.NewFromInt(-5)
	req.Budget = &negative

	_, err := f.service.CreateCustomOrder(context.Background(), req, nil)

	var verr *lib.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "budget", verr.Errors[0].Field)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateCustomOrderStatus(t *testing.T) {
	f := newCustomOrderFixture()
	id := uuid.New()
	status := "IN_PROGRESS"
	notes := "Yarn ordered"

	f.orders.On("Update", mock.Anything, id, map[string]any{
		"status":      tables.CustomOrderStatusInProgress,
		"admin_notes": notes,
	}).Return(nil)
	f.orders.On("FindByID", mock.Anything, id).Return(&tables.CustomOrder{Id: id, Status: tables.CustomOrderStatusInProgress, AdminNotes: notes}, nil)

	order, err := f.service.UpdateCustomOrder(context.Background(), id, &structs.UpdateCustomOrderRequest{Status: &status, AdminNotes: &notes})

	require.NoError(t, err)
	assert.Equal(t, tables.CustomOrderStatusInProgress, order.Status)
	f.orders.AssertExpectations(t)
}

func TestUpdateCustomOrderMissing(t *testing.T) {
	f := newCustomOrderFixture()
	id := uuid.New()
	status := "ACCEPTED"
	f.orders.On("Update", mock.Anything, id, mock.Anything).Return(lib.ErrNotFound)

	_, err := f.service.UpdateCustomOrder(context.Background(), id, &structs.UpdateCustomOrderRequest{Status: &status})

	assert.ErrorIs(t, err, lib.ErrNotFound)
	f.orders.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
