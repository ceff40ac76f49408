package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
	"github.com/behnamfe76/helpdesk-service/internal/events"
	"github.com/behnamfe76/helpdesk-service/internal/repository"
	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	changes    repository.ChangeStatusRepository
	tx         repository.Transactor
	numbers    NumberGenerator
	now        func() time.Time
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	ChangeRepo repository.ChangeStatusRepository
	Transactor repository.Transactor
	Numbers    NumberGenerator
	Clock      func() time.Time
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TicketInput carries the caller supplied ticket fields.
type TicketInput struct {
	Title          string
	Description    string
	Priority       domain.TicketPriority
	AssignedUserID *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	svc := &TicketService{
		tickets:    deps.TicketRepo,
		changes:    deps.ChangeRepo,
		tx:         deps.Transactor,
		numbers:    deps.Numbers,
		now:        deps.Clock,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
	if svc.numbers == nil {
		svc.numbers = NewRandNumberGenerator(time.Now().UnixNano())
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// Create stores a new ticket owned by ownerID. Status, owner, creation time
// and number are always assigned here; any assignment in input is ignored.
func (s *TicketService) Create(ctx context.Context, ownerID string, input TicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	var problems []string
	if title == "" {
		problems = append(problems, "title is required")
	}
	if strings.TrimSpace(ownerID) == "" {
		problems = append(problems, "owner is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems)
	}

	ticket := &domain.Ticket{
		Number:      s.numbers.Next(),
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.TicketStatusNew,
		Priority:    input.Priority,
		OwnerID:     ownerID,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, s.storeError("create ticket", err)
	}

	s.publishEvent(ctx, events.EventTicketCreated, ticket.ID, ownerID, events.TicketCreatedPayload{
		Number:   ticket.Number,
		Title:    ticket.Title,
		Priority: ticket.Priority,
	})
	return ticket, nil
}

// Update overwrites title, description and priority. Status, number, owner
// and creation time come from the stored record. A nil AssignedUserID clears
// the assignment; a non-nil one keeps whatever is stored, so reassignment is
// only possible through a transition to Assigned.
func (s *TicketService) Update(ctx context.Context, id, actorID string, input TicketInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	var problems []string
	if strings.TrimSpace(id) == "" {
		problems = append(problems, "ticket id is required")
	}
	if title == "" {
		problems = append(problems, "title is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems)
	}

	current, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Title = title
	updated.Description = strings.TrimSpace(input.Description)
	updated.Priority = input.Priority
	if input.AssignedUserID == nil {
		updated.AssignedUserID = nil
	}

	if err := s.tickets.Update(ctx, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ticketNotFound(id)
		}
		return nil, s.storeError("update ticket", err)
	}

	s.publishEvent(ctx, events.EventTicketUpdated, updated.ID, actorID, events.TicketUpdatedPayload{
		Title:          updated.Title,
		Priority:       updated.Priority,
		AssignedUserID: updated.AssignedUserID,
	})
	return &updated, nil
}

// Transition moves a ticket to the status named by label and appends the
// matching change-log entry in the same transaction. Moving to Assigned
// assigns the ticket to the actor.
func (s *TicketService) Transition(ctx context.Context, id, label, actorID string) (*domain.Ticket, error) {
	var problems []string
	if strings.TrimSpace(id) == "" {
		problems = append(problems, "ticket id is required")
	}
	if strings.TrimSpace(label) == "" {
		problems = append(problems, "status is required")
	}
	if strings.TrimSpace(actorID) == "" {
		problems = append(problems, "actor is required")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationErrors(problems)
	}

	status, err := domain.ParseTicketStatus(label)
	if err != nil {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{
			"status":  label,
			"allowed": domain.AllTicketStatuses(),
		})
	}

	ticket, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := ticket.Status
	ticket.Status = status
	if status == domain.TicketStatusAssigned {
		actor := actorID
		ticket.AssignedUserID = &actor
	}
	change := &domain.ChangeStatus{
		TicketID:     ticket.ID,
		UserChangeID: actorID,
		ChangedAt:    s.now().UTC(),
		Status:       status,
	}

	err = s.tx.RunInTx(ctx, func(tickets repository.TicketRepository, changes repository.ChangeStatusRepository) error {
		if err := tickets.Update(ctx, ticket); err != nil {
			return err
		}
		return changes.Create(ctx, change)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ticketNotFound(id)
		}
		return nil, s.storeError("transition ticket", err)
	}

	s.publishEvent(ctx, events.EventTicketStatusChanged, ticket.ID, actorID, events.TicketStatusChangedPayload{
		OldStatus: previous,
		NewStatus: status,
		ChangeID:  change.ID,
	})
	return ticket, nil
}

// Delete removes the ticket. Its change-log entries are kept.
func (s *TicketService) Delete(ctx context.Context, id, actorID string) error {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticket.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ticketNotFound(id)
		}
		return s.storeError("delete ticket", err)
	}

	s.publishEvent(ctx, events.EventTicketDeleted, ticket.ID, actorID, events.TicketDeletedPayload{
		Number: ticket.Number,
	})
	return nil
}

// Get returns the ticket without its history.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.load(ctx, id)
}

// FetchWithHistory returns the ticket with its change-log, newest first.
func (s *TicketService) FetchWithHistory(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	changes, err := s.changes.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, s.storeError("list ticket changes", err)
	}
	ticket.Changes = changes
	return ticket, nil
}

// Search returns one page of tickets matching q, newest first. Size 0 means
// the default page size.
func (s *TicketService) Search(ctx context.Context, q repository.TicketQuery) (domain.Page[domain.Ticket], error) {
	problems := pageProblems(q.Page, q.Size)
	if q.Status != nil {
		if _, err := domain.ParseTicketStatus(string(*q.Status)); err != nil {
			problems = append(problems, "unknown status "+string(*q.Status))
		}
	}
	if len(problems) > 0 {
		return domain.Page[domain.Ticket]{}, apperrors.NewValidationErrors(problems)
	}

	page, err := s.tickets.Search(ctx, q)
	if err != nil {
		return domain.Page[domain.Ticket]{}, s.storeError("search tickets", err)
	}
	return page, nil
}

// FindByNumber pages through every ticket carrying number. It is not scoped
// to the caller.
func (s *TicketService) FindByNumber(ctx context.Context, number, page, size int) (domain.Page[domain.Ticket], error) {
	return s.Search(ctx, repository.TicketQuery{Number: &number, Page: page, Size: size})
}

// Summarize counts every ticket per status.
func (s *TicketService) Summarize(ctx context.Context) (domain.Summary, error) {
	tickets, err := s.tickets.FindAll(ctx)
	if err != nil {
		return domain.Summary{}, s.storeError("summarize tickets", err)
	}
	var summary domain.Summary
	for _, t := range tickets {
		summary.Add(t.Status)
	}
	return summary, nil
}

const (
	maxPageSize = 100
	// maxPageIndex keeps page*size within an int for any accepted size.
	maxPageIndex = math.MaxInt / maxPageSize
)

func pageProblems(page, size int) []string {
	var problems []string
	if page < 0 || page > maxPageIndex {
		problems = append(problems, fmt.Sprintf("page must be between 0 and %d", maxPageIndex))
	}
	if size < 0 || size > maxPageSize {
		problems = append(problems, fmt.Sprintf("count must be between 1 and %d", maxPageSize))
	}
	return problems
}

func (s *TicketService) load(ctx context.Context, id string) (*domain.Ticket, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ticketNotFound(id)
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ticketNotFound(id)
		}
		return nil, s.storeError("load ticket", err)
	}
	return ticket, nil
}

func (s *TicketService) storeError(op string, err error) error {
	s.logger.Error("ticket store failure", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}

func (s *TicketService) publishEvent(ctx context.Context, eventType events.EventType, ticketID, actorID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewEvent(eventType, ticketID, actorID, s.now().UTC(), payload)
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.String("ticket_id", ticketID), zap.Error(err))
	}
}

func ticketNotFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}
