package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/behnamfe76/helpdesk-service/internal/domain"
)

// TicketQuery is the set of optional filters for a paged ticket listing.
// Nil fields are not applied. Page is zero-based.
type TicketQuery struct {
	Title          *string
	Status         *domain.TicketStatus
	Priority       *domain.TicketPriority
	OwnerID        *string
	AssignedUserID *string
	Number         *int
	Page           int
	Size           int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]domain.Ticket, error)
	Search(ctx context.Context, query TicketQuery) (domain.Page[domain.Ticket], error)
}

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

const ticketColumns = `id, number, title, description, status, priority, owner_id, assigned_user_id, created_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (number, title, description, status, priority, owner_id, assigned_user_id, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`
	return r.db.QueryRow(ctx, query,
		ticket.Number,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.OwnerID,
		ticket.AssignedUserID,
		ticket.CreatedAt,
	).Scan(&ticket.ID)
}

// Update writes the mutable columns. number, owner_id and created_at are
// never part of the statement.
func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, status=$3, priority=$4, assigned_user_id=$5
        WHERE id=$6`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Status,
		ticket.Priority,
		ticket.AssignedUserID,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := scanTicket(r.db.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) FindAll(ctx context.Context) ([]domain.Ticket, error) {
	rows, err := r.db.Query(ctx, `SELECT `+ticketColumns+` FROM tickets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Search(ctx context.Context, q TicketQuery) (domain.Page[domain.Ticket], error) {
	page, size := NormalizePage(q.Page, q.Size)
	where, args := ticketWhere(q)

	result := domain.Page[domain.Ticket]{Index: page, Size: size, Items: []domain.Ticket{}}
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets WHERE `+where, args...).Scan(&result.TotalItems); err != nil {
		return result, err
	}
	if result.TotalItems == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, where, size, page*size)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	items, err := scanTickets(rows)
	if err != nil {
		return result, err
	}
	if items != nil {
		result.Items = items
	}
	return result, nil
}

func ticketWhere(q TicketQuery) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if q.Title != nil && strings.TrimSpace(*q.Title) != "" {
		args = append(args, containsPattern(strings.ToLower(strings.TrimSpace(*q.Title))))
		clauses = append(clauses, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)))
	}
	if q.Status != nil {
		args = append(args, *q.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if q.Priority != nil && *q.Priority != "" {
		args = append(args, containsPattern(string(*q.Priority)))
		clauses = append(clauses, fmt.Sprintf("priority LIKE $%d", len(args)))
	}
	if q.OwnerID != nil {
		args = append(args, *q.OwnerID)
		clauses = append(clauses, fmt.Sprintf("owner_id=$%d", len(args)))
	}
	if q.AssignedUserID != nil {
		args = append(args, *q.AssignedUserID)
		clauses = append(clauses, fmt.Sprintf("assigned_user_id=$%d", len(args)))
	}
	if q.Number != nil {
		args = append(args, *q.Number)
		clauses = append(clauses, fmt.Sprintf("number=$%d", len(args)))
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches s literally anywhere in the column. Backslash is
// Postgres' default LIKE escape.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Title,
		&ticket.Description,
		&ticket.Status,
		&ticket.Priority,
		&ticket.OwnerID,
		&ticket.AssignedUserID,
		&ticket.CreatedAt,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
