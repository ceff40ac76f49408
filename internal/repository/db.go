package repository

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

//go:generate mockgen -source=ticket_repository.go -destination=mock_repository/mock_ticket_repository.go -package=mock_repository
//go:generate mockgen -source=change_status_repository.go -destination=mock_repository/mock_change_status_repository.go -package=mock_repository
//go:generate mockgen -source=user_repository.go -destination=mock_repository/mock_user_repository.go -package=mock_repository
//go:generate mockgen -source=transactor.go -destination=mock_repository/mock_transactor.go -package=mock_repository

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is a DBTX that can open transactions.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
	maxPageIndex    = math.MaxInt / maxPageSize
)

// NormalizePage clamps a zero-based page index and page size so that
// index*size never overflows.
func NormalizePage(index, size int) (int, int) {
	if index < 0 {
		index = 0
	}
	if index > maxPageIndex {
		index = maxPageIndex
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return index, size
}
