package auth

import (
	"fmt"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
	"github.com/behnamfe76/helpdesk-service/internal/repository"
	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

// Operation names a guarded action.
type Operation string

const (
	OpTicketCreate     Operation = "ticket:create"
	OpTicketUpdate     Operation = "ticket:update"
	OpTicketDelete     Operation = "ticket:delete"
	OpTicketRead       Operation = "ticket:read"
	OpTicketList       Operation = "ticket:list"
	OpTicketTransition Operation = "ticket:transition"
	OpTicketSummary    Operation = "ticket:summary"
	OpUserManage       Operation = "user:manage"
)

// Ownership describes the caller's relation to the target ticket.
type Ownership int

const (
	// OwnershipNone means no ticket has been loaded yet (route level check).
	OwnershipNone Ownership = iota
	OwnershipOwner
	OwnershipOther
)

var rolePermissions = map[domain.Role]map[Operation]bool{
	domain.RoleCustomer: {
		OpTicketCreate:     true,
		OpTicketUpdate:     true,
		OpTicketDelete:     true,
		OpTicketRead:       true,
		OpTicketList:       true,
		OpTicketTransition: true,
		OpTicketSummary:    true,
	},
	domain.RoleTechnician: {
		OpTicketRead:       true,
		OpTicketList:       true,
		OpTicketTransition: true,
		OpTicketSummary:    true,
	},
	domain.RoleAdmin: {
		OpUserManage:    true,
		OpTicketSummary: true,
	},
}

// ownerOnly operations additionally require the caller to own the ticket.
var ownerOnly = map[Operation]bool{
	OpTicketUpdate: true,
	OpTicketDelete: true,
}

// Authorize is the single capability check for every guarded operation.
func Authorize(role domain.Role, op Operation, ownership Ownership) error {
	if !rolePermissions[role][op] {
		return apperrors.NewForbidden(fmt.Sprintf("role %s may not perform %s", role, op))
	}
	if ownerOnly[op] && ownership == OwnershipOther {
		return apperrors.NewForbidden("only the ticket owner may perform " + string(op))
	}
	return nil
}

// OwnershipOf relates the principal to a ticket's owner.
func OwnershipOf(principal *Principal, ticket *domain.Ticket) Ownership {
	if principal != nil && ticket.IsOwnedBy(principal.UserID) {
		return OwnershipOwner
	}
	return OwnershipOther
}

// ScopeTicketQuery narrows a listing to what the principal may see.
// Customers see their own tickets. Technicians see everything, or only
// tickets assigned to them when assignedOnly is set. Number lookups are not
// scoped.
func ScopeTicketQuery(principal *Principal, q repository.TicketQuery, assignedOnly bool) repository.TicketQuery {
	if principal == nil || q.Number != nil {
		return q
	}
	userID := principal.UserID
	switch principal.Role {
	case domain.RoleCustomer:
		q.OwnerID = &userID
	case domain.RoleTechnician:
		if assignedOnly {
			q.AssignedUserID = &userID
		}
	}
	return q
}
