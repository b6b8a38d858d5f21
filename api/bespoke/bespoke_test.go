package bespoke

import (
	"context"
	"encoding/json"
	"knitcraft_server/api/middleware"
	"knitcraft_server/lib"
	"knitcraft_server/services"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenAuth map[string]*structs.Principal

func (a tokenAuth) Authenticate(token string) (*structs.Principal, error) {
	if p, ok := a[token]; ok {
		return p, nil
	}
	return nil, lib.ErrInvalidToken
}

type noLimit struct{}

func (noLimit) IncrementRateLimit(string, string, time.Duration) (int, error) { return 0, nil }

// stubCustomOrders embeds the store interface; only List is expected here.
type stubCustomOrders struct {
	services.CustomOrderStore
	byUser map[uuid.UUID][]tables.CustomOrder
}

func (s stubCustomOrders) List(ctx context.Context, status string, userID *uuid.UUID) ([]tables.CustomOrder, error) {
	return s.byUser[*userID], nil
}

var anna = &structs.Principal{UserID: uuid.New(), Email: "anna@example.com", Role: structs.RoleClient}

func newTestRouter() chi.Router {
	logger := gecho.NewDefaultLogger()
	cfg := &structs.Config{Kafka: &structs.KafkaConfig{BespokeTopic: "bespoke"}}
	store := stubCustomOrders{byUser: map[uuid.UUID][]tables.CustomOrder{
		anna.UserID: {{Id: uuid.New(), UserId: anna.UserID, Status: tables.CustomOrderStatusPending}},
	}}
	service := services.NewCustomOrderService(logger, cfg, store, nil, nil, nil)
	mw := middleware.NewMiddleware(cfg, logger, tokenAuth{"anna-token": anna}, noLimit{})

	r := chi.NewRouter()
	r.Use(mw.Authenticate)
	NewBespokeRoutesManager(logger, service, mw).RegisterRoutes(r)
	return r
}

func TestMyRequestsRequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bespoke/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyRequestsListsOwnOrders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/bespoke/", nil)
	req.AddCookie(&http.Cookie{Name: lib.AccessCookieName, Value: "anna-token"})
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []tables.CustomOrder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, anna.UserID, body.Data[0].UserId)
}

func TestCreateRequestRejectsNegativeBudget(t *testing.T) {
	payload := `{"name":"Anna","email":"anna@example.com","description":"A forest green blanket","budget":"-10"}`
	req := httptest.NewRequest(http.MethodPost, "/bespoke/", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "budget")
}
