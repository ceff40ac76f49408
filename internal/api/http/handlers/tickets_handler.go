package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/behnamfe76/helpdesk-service/internal/api/dto"
	"github.com/behnamfe76/helpdesk-service/internal/auth"
	"github.com/behnamfe76/helpdesk-service/internal/domain"
	"github.com/behnamfe76/helpdesk-service/internal/repository"
	"github.com/behnamfe76/helpdesk-service/internal/service"
	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler serves the ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /api/ticket.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.Create(c.UserContext(), principal.UserID, ticketInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// UpdateTicket PUT /api/ticket/:id. Only the owner may update.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.TicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.authorizeOwner(c, principal, auth.OpTicketUpdate); err != nil {
		return err
	}

	ticket, err := h.service.Update(c.UserContext(), c.Params("id"), principal.UserID, ticketInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// DeleteTicket DELETE /api/ticket/:id. Only the owner may delete.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if err := h.authorizeOwner(c, principal, auth.OpTicketDelete); err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), c.Params("id"), principal.UserID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetTicket GET /api/ticket/:id returns the ticket with its change-log.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.FetchWithHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ChangeStatus PUT /api/ticket/:id/status/:status.
func (h *TicketsHandler) ChangeStatus(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	ticket, err := h.service.Transition(c.UserContext(), c.Params("id"), c.Params("status"), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /api/ticket. A positive number switches to a lookup by
// number across all tickets; otherwise the listing is scoped to the caller.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	query, assignedOnly, err := parseTicketQuery(c)
	if err != nil {
		return err
	}

	var page domain.Page[domain.Ticket]
	if query.Number != nil && *query.Number > 0 {
		page, err = h.service.FindByNumber(c.UserContext(), *query.Number, query.Page, query.Size)
	} else {
		query.Number = nil
		page, err = h.service.Search(c.UserContext(), auth.ScopeTicketQuery(principal, query, assignedOnly))
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPageResponse(page, dto.NewTicketResponse)})
}

// Summary GET /api/ticket/summary.
func (h *TicketsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summarize(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSummaryResponse(summary)})
}

func (h *TicketsHandler) authorizeOwner(c *fiber.Ctx, principal *auth.Principal, op auth.Operation) error {
	ticket, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return auth.Authorize(principal.Role, op, auth.OwnershipOf(principal, ticket))
}

func ticketInput(req dto.TicketRequest) service.TicketInput {
	return service.TicketInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		AssignedUserID: req.AssignedUserID,
	}
}

func parseTicketQuery(c *fiber.Ctx) (repository.TicketQuery, bool, error) {
	var query repository.TicketQuery
	var problems []string

	page, err := parseInt(c.Query("page"), 0)
	if err != nil {
		problems = append(problems, "page must be a number")
	}
	size, err := parseInt(c.Query("count"), 0)
	if err != nil {
		problems = append(problems, "count must be a number")
	}
	query.Page, query.Size = page, size

	if title := strings.TrimSpace(c.Query("title")); title != "" {
		query.Title = &title
	}
	if label := c.Query("status"); label != "" {
		status, err := domain.ParseTicketStatus(label)
		if err != nil {
			problems = append(problems, "unknown status "+label)
		} else {
			query.Status = &status
		}
	}
	if priority := strings.TrimSpace(c.Query("priority")); priority != "" {
		p := domain.TicketPriority(priority)
		query.Priority = &p
	}
	if raw := c.Query("number"); raw != "" {
		number, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, "number must be a number")
		} else {
			query.Number = &number
		}
	}

	assignedOnly := false
	if raw := c.Query("assigned"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, "assigned must be true or false")
		}
		assignedOnly = parsed
	}

	if len(problems) > 0 {
		return query, false, apperrors.NewValidationErrors(problems)
	}
	return query, assignedOnly, nil
}

func parseInt(val string, def int) (int, error) {
	if val == "" {
		return def, nil
	}
	return strconv.Atoi(val)
}

func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}
