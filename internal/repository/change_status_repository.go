package repository

import (
	"context"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
)

// ChangeStatusRepository stores the append-only status change log.
// Entries are never updated or deleted.
type ChangeStatusRepository interface {
	Create(ctx context.Context, change *domain.ChangeStatus) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.ChangeStatus, error)
}

type changeStatusRepository struct {
	db DBTX
}

// NewChangeStatusRepository builds repository.
func NewChangeStatusRepository(db DBTX) ChangeStatusRepository {
	return &changeStatusRepository{db: db}
}

func (r *changeStatusRepository) Create(ctx context.Context, change *domain.ChangeStatus) error {
	const query = `
        INSERT INTO change_status (ticket_id, user_id, changed_at, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		change.TicketID,
		change.UserChangeID,
		change.ChangedAt,
		change.Status,
	).Scan(&change.ID)
}

// ListByTicket returns the ticket's changes, newest first.
func (r *changeStatusRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.ChangeStatus, error) {
	const query = `
        SELECT c.id, c.ticket_id, c.user_id, COALESCE(u.email, ''), c.changed_at, c.status
        FROM change_status c LEFT JOIN users u ON u.id = c.user_id
        WHERE c.ticket_id=$1 ORDER BY c.changed_at DESC`
	rows, err := r.db.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ChangeStatus{}
	for rows.Next() {
		var change domain.ChangeStatus
		if err := rows.Scan(
			&change.ID,
			&change.TicketID,
			&change.UserChangeID,
			&change.UserChangeEmail,
			&change.ChangedAt,
			&change.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	return result, rows.Err()
}
