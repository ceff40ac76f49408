package domain

import (
	"errors"
	"fmt"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew         TicketStatus = "New"
	TicketStatusAssigned    TicketStatus = "Assigned"
	TicketStatusApproved    TicketStatus = "Approved"
	TicketStatusDisapproved TicketStatus = "Disapproved"
	TicketStatusResolved    TicketStatus = "Resolved"
	TicketStatusClosed      TicketStatus = "Closed"
)

// ErrUnknownStatus is returned when a label is not one of the ticket statuses.
var ErrUnknownStatus = errors.New("unknown status")

var ticketStatuses = []TicketStatus{
	TicketStatusNew,
	TicketStatusAssigned,
	TicketStatusApproved,
	TicketStatusDisapproved,
	TicketStatusResolved,
	TicketStatusClosed,
}

// AllTicketStatuses returns every status in declaration order.
func AllTicketStatuses() []TicketStatus {
	out := make([]TicketStatus, len(ticketStatuses))
	copy(out, ticketStatuses)
	return out
}

// ParseTicketStatus resolves a label to a status. Matching is exact and
// case-sensitive; no transition ordering is implied.
func ParseTicketStatus(label string) (TicketStatus, error) {
	for _, status := range ticketStatuses {
		if string(status) == label {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, label)
}

// TicketPriority is free text; these are the values the UI offers.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityNormal TicketPriority = "Normal"
	TicketPriorityLow    TicketPriority = "Low"
)

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID             string
	Number         int
	Title          string
	Description    string
	Status         TicketStatus
	Priority       TicketPriority
	OwnerID        string
	AssignedUserID *string
	CreatedAt      time.Time
	// Changes is only populated when the ticket is fetched with its history.
	Changes []ChangeStatus
}

// IsOwnedBy reports whether userID created the ticket.
func (t *Ticket) IsOwnedBy(userID string) bool {
	return t != nil && t.OwnerID != "" && t.OwnerID == userID
}
