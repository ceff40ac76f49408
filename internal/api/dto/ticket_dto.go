package dto

import (
	"time"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
)

// TicketRequest payload for creating and updating tickets.
type TicketRequest struct {
	Title          string                `json:"title"`
	Description    string                `json:"description"`
	Priority       domain.TicketPriority `json:"priority"`
	AssignedUserID *string               `json:"assigned_user_id"`
}

// TicketResponse represents a ticket. Changes is only present on detail reads.
type TicketResponse struct {
	ID             string                 `json:"id"`
	Number         int                    `json:"number"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Status         domain.TicketStatus    `json:"status"`
	Priority       domain.TicketPriority  `json:"priority"`
	OwnerID        string                 `json:"owner_id"`
	AssignedUserID *string                `json:"assigned_user_id"`
	CreatedAt      time.Time              `json:"created_at"`
	Changes        []ChangeStatusResponse `json:"changes,omitempty"`
}

// ChangeStatusResponse is one change-log entry.
type ChangeStatusResponse struct {
	ID              string              `json:"id"`
	Status          domain.TicketStatus `json:"status"`
	UserChangeID    string              `json:"user_change_id"`
	UserChangeEmail string              `json:"user_change_email"`
	ChangedAt       time.Time           `json:"changed_at"`
}

// SummaryResponse carries per-status counts.
type SummaryResponse struct {
	New         int `json:"new"`
	Assigned    int `json:"assigned"`
	Approved    int `json:"approved"`
	Disapproved int `json:"disapproved"`
	Resolved    int `json:"resolved"`
	Closed      int `json:"closed"`
}

// PageResponse wraps one page of a listing.
type PageResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse maps a domain page through fn.
func NewPageResponse[S, T any](page domain.Page[S], fn func(*S) T) PageResponse[T] {
	items := make([]T, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, fn(&page.Items[i]))
	}
	return PageResponse[T]{
		Items:      items,
		Page:       page.Index,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
	}
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:             ticket.ID,
		Number:         ticket.Number,
		Title:          ticket.Title,
		Description:    ticket.Description,
		Status:         ticket.Status,
		Priority:       ticket.Priority,
		OwnerID:        ticket.OwnerID,
		AssignedUserID: ticket.AssignedUserID,
		CreatedAt:      ticket.CreatedAt,
	}
	if ticket.Changes != nil {
		resp.Changes = make([]ChangeStatusResponse, 0, len(ticket.Changes))
		for _, change := range ticket.Changes {
			resp.Changes = append(resp.Changes, ChangeStatusResponse{
				ID:              change.ID,
				Status:          change.Status,
				UserChangeID:    change.UserChangeID,
				UserChangeEmail: change.UserChangeEmail,
				ChangedAt:       change.ChangedAt,
			})
		}
	}
	return resp
}

// NewSummaryResponse maps a summary.
func NewSummaryResponse(s domain.Summary) SummaryResponse {
	return SummaryResponse{
		New:         s.New,
		Assigned:    s.Assigned,
		Approved:    s.Approved,
		Disapproved: s.Disapproved,
		Resolved:    s.Resolved,
		Closed:      s.Closed,
	}
}
