package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTicketStatus_KnownLabels(t *testing.T) {
	for _, label := range []string{"New", "Assigned", "Approved", "Disapproved", "Resolved", "Closed"} {
		status, err := ParseTicketStatus(label)
		require.NoError(t, err, label)
		assert.Equal(t, label, string(status))
	}
}

func TestParseTicketStatus_IsCaseSensitive(t *testing.T) {
	for _, label := range []string{"new", "ASSIGNED", "Open", "", " Closed"} {
		_, err := ParseTicketStatus(label)
		assert.ErrorIs(t, err, ErrUnknownStatus, label)
	}
}

func TestAllTicketStatuses_ReturnsCopy(t *testing.T) {
	all := AllTicketStatuses()
	require.Len(t, all, 6)
	all[0] = "Mutated"
	assert.Equal(t, TicketStatusNew, AllTicketStatuses()[0])
}

func TestSummaryAdd(t *testing.T) {
	var s Summary
	for _, st := range []TicketStatus{TicketStatusNew, TicketStatusNew, TicketStatusNew, TicketStatusClosed, TicketStatusClosed, "Bogus"} {
		s.Add(st)
	}
	assert.Equal(t, Summary{New: 3, Closed: 2}, s)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("TECHNICIAN")
	require.NoError(t, err)
	assert.Equal(t, RoleTechnician, role)

	_, err = ParseRole("technician")
	assert.Error(t, err)
}

func TestPageTotalPages(t *testing.T) {
	assert.Equal(t, 0, Page[int]{Size: 10}.TotalPages())
	assert.Equal(t, 1, Page[int]{Size: 10, TotalItems: 10}.TotalPages())
	assert.Equal(t, 3, Page[int]{Size: 10, TotalItems: 21}.TotalPages())
	assert.Equal(t, 0, Page[int]{TotalItems: 5}.TotalPages())
}

func TestTicketIsOwnedBy(t *testing.T) {
	ticket := &Ticket{OwnerID: "u1"}
	assert.True(t, ticket.IsOwnedBy("u1"))
	assert.False(t, ticket.IsOwnedBy("u2"))
	assert.False(t, (&Ticket{}).IsOwnedBy(""))
}
