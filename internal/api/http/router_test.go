package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/behnamfe76/helpdesk-service/internal/api/http/handlers"
	"github.com/behnamfe76/helpdesk-service/internal/auth"
	"github.com/behnamfe76/helpdesk-service/internal/domain"
	"github.com/behnamfe76/helpdesk-service/internal/events"
	"github.com/behnamfe76/helpdesk-service/internal/observability"
	"github.com/behnamfe76/helpdesk-service/internal/repository"
	"github.com/behnamfe76/helpdesk-service/internal/repository/mock_repository"
	"github.com/behnamfe76/helpdesk-service/internal/service"
)

const (
	ticketID     = "3f2b8c1e-6a0d-4a57-9d1e-0b6f3c2a9e11"
	customerID   = "9c1d2e3f-1111-4a57-9d1e-0b6f3c2a9e11"
	otherID      = "1e2d3c4b-3333-4a57-9d1e-0b6f3c2a9e11"
	technicianID = "7a6b5c4d-2222-4a57-9d1e-0b6f3c2a9e11"
	adminID      = "5b4a3c2d-4444-4a57-9d1e-0b6f3c2a9e11"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type harness struct {
	app     *fiber.App
	tokens  *auth.TokenManager
	users   *mock_repository.MockUserRepository
	tickets *mock_repository.MockTicketRepository
	changes *mock_repository.MockChangeStatusRepository
	tx      *mock_repository.MockTransactor
	people  map[string]*domain.User
}

func newHarness(t *testing.T, redisErr error) *harness {
	ctrl := gomock.NewController(t)
	h := &harness{
		tokens:  auth.NewTokenManager("secret", time.Hour),
		users:   mock_repository.NewMockUserRepository(ctrl),
		tickets: mock_repository.NewMockTicketRepository(ctrl),
		changes: mock_repository.NewMockChangeStatusRepository(ctrl),
		tx:      mock_repository.NewMockTransactor(ctrl),
		people: map[string]*domain.User{
			customerID:   {ID: customerID, Email: "c@example.com", Role: domain.RoleCustomer},
			otherID:      {ID: otherID, Email: "o@example.com", Role: domain.RoleCustomer},
			technicianID: {ID: technicianID, Email: "t@example.com", Role: domain.RoleTechnician},
			adminID:      {ID: adminID, Email: "a@example.com", Role: domain.RoleAdmin},
		},
	}
	h.users.EXPECT().GetByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id string) (*domain.User, error) {
			if u, ok := h.people[id]; ok {
				copied := *u
				return &copied, nil
			}
			return nil, pgx.ErrNoRows
		}).AnyTimes()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: h.tickets,
		ChangeRepo: h.changes,
		Transactor: h.tx,
		Numbers:    service.NewRandNumberGenerator(1),
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     logger,
	})
	userService := service.NewUserService(h.users, 4, logger)
	authService := service.NewAuthService(service.AuthDependencies{UserRepo: h.users, Tokens: h.tokens, BcryptCost: 4})

	h.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterMiddlewares(h.app, logger, metrics, MiddlewareConfig{Timeout: 5 * time.Second, CORSAllowOrigins: "*"})
	RegisterRoutes(h.app, RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk", "test", pinger{}, pinger{err: redisErr}),
		Metrics:        handlers.NewMetricsHandler(metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Users:          handlers.NewUsersHandler(userService),
		AuthMiddleware: auth.NewAuthMiddleware(h.tokens, h.users, nil, logger),
	})
	return h
}

func (h *harness) do(t *testing.T, method, path, userID string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		issued, err := h.tokens.GenerateToken(h.people[userID])
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+issued.Token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}
	return resp.StatusCode, decoded
}

func errorCode(body map[string]any) string {
	envelope, _ := body["error"].(map[string]any)
	code, _ := envelope["code"].(string)
	return code
}

func ownedTicket(owner string) *domain.Ticket {
	return &domain.Ticket{
		ID:        ticketID,
		Number:    17,
		Title:     "Printer jammed",
		Status:    domain.TicketStatusNew,
		OwnerID:   owner,
		CreatedAt: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestRoutes_CustomerCreatesTicket(t *testing.T) {
	h := newHarness(t, nil)
	h.tickets.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, ticket *domain.Ticket) error {
			ticket.ID = ticketID
			return nil
		})

	status, body := h.do(t, "POST", "/api/ticket", customerID, map[string]any{"title": "VPN down", "priority": "High"})

	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "New", data["status"])
	assert.Equal(t, customerID, data["owner_id"])
	assert.Equal(t, ticketID, data["id"])
}

func TestRoutes_CreateValidationEnvelope(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "POST", "/api/ticket", customerID, map[string]any{"title": " "})

	require.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, []any{"title is required"}, details["errors"])
}

func TestRoutes_TechnicianCannotCreate(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "POST", "/api/ticket", technicianID, map[string]any{"title": "VPN down"})

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))
}

func TestRoutes_MissingToken(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "GET", "/api/ticket", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))
}

func TestRoutes_OnlyOwnerMayUpdateOrDelete(t *testing.T) {
	h := newHarness(t, nil)
	h.tickets.EXPECT().GetByID(gomock.Any(), ticketID).Return(ownedTicket(customerID), nil).Times(2)

	status, _ := h.do(t, "PUT", "/api/ticket/"+ticketID, otherID, map[string]any{"title": "mine now"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.do(t, "DELETE", "/api/ticket/"+ticketID, otherID, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRoutes_OwnerDeletes(t *testing.T) {
	h := newHarness(t, nil)
	h.tickets.EXPECT().GetByID(gomock.Any(), ticketID).Return(ownedTicket(customerID), nil).Times(2)
	h.tickets.EXPECT().Delete(gomock.Any(), ticketID).Return(nil)

	status, _ := h.do(t, "DELETE", "/api/ticket/"+ticketID, customerID, nil)

	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestRoutes_TechnicianAssignsTicket(t *testing.T) {
	h := newHarness(t, nil)
	txTickets := mock_repository.NewMockTicketRepository(gomock.NewController(t))
	txChanges := mock_repository.NewMockChangeStatusRepository(gomock.NewController(t))
	h.tickets.EXPECT().GetByID(gomock.Any(), ticketID).Return(ownedTicket(customerID), nil)
	h.tx.EXPECT().RunInTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn repository.TicketTxFunc) error {
			return fn(txTickets, txChanges)
		})
	txTickets.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)
	txChanges.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	status, body := h.do(t, "PUT", "/api/ticket/"+ticketID+"/status/Assigned", technicianID, nil)

	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Assigned", data["status"])
	assert.Equal(t, technicianID, data["assigned_user_id"])
}

func TestRoutes_UnknownStatusLabel(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "PUT", "/api/ticket/"+ticketID+"/status/Reopened", technicianID, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestRoutes_TicketNotFound(t *testing.T) {
	h := newHarness(t, nil)
	h.tickets.EXPECT().GetByID(gomock.Any(), ticketID).Return(nil, pgx.ErrNoRows)

	status, body := h.do(t, "GET", "/api/ticket/"+ticketID, technicianID, nil)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestRoutes_ListScoping(t *testing.T) {
	h := newHarness(t, nil)
	empty := domain.Page[domain.Ticket]{Items: []domain.Ticket{}, Size: 10}

	h.tickets.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q repository.TicketQuery) (domain.Page[domain.Ticket], error) {
			require.NotNil(t, q.AssignedUserID)
			assert.Equal(t, technicianID, *q.AssignedUserID)
			assert.Nil(t, q.OwnerID)
			require.NotNil(t, q.Status)
			assert.Equal(t, domain.TicketStatusAssigned, *q.Status)
			assert.Equal(t, 2, q.Page)
			assert.Equal(t, 5, q.Size)
			return empty, nil
		})
	status, _ := h.do(t, "GET", "/api/ticket?assigned=true&status=Assigned&page=2&count=5", technicianID, nil)
	assert.Equal(t, fiber.StatusOK, status)

	h.tickets.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q repository.TicketQuery) (domain.Page[domain.Ticket], error) {
			require.NotNil(t, q.OwnerID)
			assert.Equal(t, customerID, *q.OwnerID)
			return empty, nil
		})
	status, _ = h.do(t, "GET", "/api/ticket?assigned=true", customerID, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRoutes_ListByNumberIsNotScoped(t *testing.T) {
	h := newHarness(t, nil)
	h.tickets.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q repository.TicketQuery) (domain.Page[domain.Ticket], error) {
			require.NotNil(t, q.Number)
			assert.Equal(t, 17, *q.Number)
			assert.Nil(t, q.OwnerID)
			return domain.Page[domain.Ticket]{Items: []domain.Ticket{*ownedTicket(otherID)}, Size: 10, TotalItems: 1}, nil
		})

	status, body := h.do(t, "GET", "/api/ticket?number=17", customerID, nil)

	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total_items"])
	assert.Len(t, data["items"], 1)
}

func TestRoutes_ListRejectsBadQuery(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "GET", "/api/ticket?status=Open&count=abc", customerID, nil)

	assert.Equal(t, fiber.StatusBadRequest, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Len(t, details["errors"], 2)
}

func TestRoutes_SummaryForAnyRole(t *testing.T) {
	h := newHarness(t, nil)
	h.tickets.EXPECT().FindAll(gomock.Any()).Return([]domain.Ticket{
		{Status: domain.TicketStatusNew},
		{Status: domain.TicketStatusResolved},
	}, nil)

	status, body := h.do(t, "GET", "/api/ticket/summary", adminID, nil)

	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["new"])
	assert.Equal(t, float64(1), data["resolved"])
	assert.Equal(t, float64(0), data["closed"])
}

func TestRoutes_UserAdministration(t *testing.T) {
	h := newHarness(t, nil)

	status, _ := h.do(t, "GET", "/api/user", customerID, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	h.users.EXPECT().GetByEmail(gomock.Any(), "c@example.com").Return(h.people[customerID], nil)
	status, body := h.do(t, "POST", "/api/user", adminID, map[string]any{"email": "c@example.com", "password": "pw", "role": "CUSTOMER"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	h.users.EXPECT().GetByEmail(gomock.Any(), "new@example.com").Return(nil, pgx.ErrNoRows)
	h.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	status, body = h.do(t, "POST", "/api/user", adminID, map[string]any{"email": "new@example.com", "password": "pw", "role": "TECHNICIAN"})
	require.Equal(t, fiber.StatusCreated, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "TECHNICIAN", data["role"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hash")
}

func TestRoutes_LoginAndRefresh(t *testing.T) {
	h := newHarness(t, nil)
	hash, err := auth.HashPassword("pw", 4)
	require.NoError(t, err)
	h.users.EXPECT().GetByEmail(gomock.Any(), "c@example.com").
		Return(&domain.User{ID: customerID, Email: "c@example.com", PasswordHash: hash, Role: domain.RoleCustomer}, nil).Times(2)

	status, body := h.do(t, "POST", "/api/auth", "", map[string]any{"email": "c@example.com", "password": "pw"})
	require.Equal(t, fiber.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, customerID, data["user"].(map[string]any)["id"])

	status, _ = h.do(t, "POST", "/api/auth", "", map[string]any{"email": "c@example.com", "password": "nope"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = h.do(t, "POST", "/api/refresh", customerID, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["data"].(map[string]any)["token"])
}

func TestRoutes_UnknownRoute(t *testing.T) {
	h := newHarness(t, nil)

	status, body := h.do(t, "GET", "/nowhere", "", nil)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestRoutes_HealthAndMetrics(t *testing.T) {
	h := newHarness(t, errors.New("redis down"))

	status, _ := h.do(t, "GET", "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := h.do(t, "GET", "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.True(t, strings.Contains(errorCode(body), "DEPENDENCY"))

	status, body = h.do(t, "GET", "/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	requests := body["data"].(map[string]any)["requests"].(map[string]any)
	found := false
	for key := range requests {
		if strings.HasSuffix(key, "|GET|200") {
			found = true
		}
	}
	assert.True(t, found, "expected a successful GET to be counted: %v", requests)
}
