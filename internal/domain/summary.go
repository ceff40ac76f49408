package domain

// Summary counts tickets per status across the whole collection.
type Summary struct {
	New         int
	Assigned    int
	Approved    int
	Disapproved int
	Resolved    int
	Closed      int
}

// Add counts one ticket in the given status. Unknown statuses are ignored.
func (s *Summary) Add(status TicketStatus) {
	switch status {
	case TicketStatusNew:
		s.New++
	case TicketStatusAssigned:
		s.Assigned++
	case TicketStatusApproved:
		s.Approved++
	case TicketStatusDisapproved:
		s.Disapproved++
	case TicketStatusResolved:
		s.Resolved++
	case TicketStatusClosed:
		s.Closed++
	}
}
