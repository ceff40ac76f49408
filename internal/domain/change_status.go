package domain

import "time"

// ChangeStatus is an immutable audit entry written for every status transition.
// It refers to its ticket by id only.
type ChangeStatus struct {
	ID              string
	TicketID        string
	UserChangeID    string
	UserChangeEmail string
	ChangedAt       time.Time
	Status          TicketStatus
}
