package repository

import (
	"context"
	"errors"
	"fmt"
)

// TicketTxFunc receives repositories bound to a single transaction.
type TicketTxFunc func(tickets TicketRepository, changes ChangeStatusRepository) error

// Transactor runs ticket and change-log writes as one unit.
type Transactor interface {
	RunInTx(ctx context.Context, fn TicketTxFunc) error
}

type pgxTransactor struct {
	db TxBeginner
}

// NewTransactor returns a Transactor that commits when fn returns nil and
// rolls back otherwise.
func NewTransactor(db TxBeginner) Transactor {
	return &pgxTransactor{db: db}
}

func (t *pgxTransactor) RunInTx(ctx context.Context, fn TicketTxFunc) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(NewTicketRepository(tx), NewChangeStatusRepository(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
