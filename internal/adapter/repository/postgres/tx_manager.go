package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxManager runs functions inside a database transaction.
type TxManager struct {
	db DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

// WithTx runs fn in a read-write transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
func (m *TxManager) WithTx(ctx context.Context, fn func(q Querier) error) error {
	return m.WithTxOptions(ctx, pgx.TxOptions{}, fn)
}

// WithSnapshot runs fn in a read-only repeatable-read transaction so that
// several reads observe the same state.
func (m *TxManager) WithSnapshot(ctx context.Context, fn func(q Querier) error) error {
	return m.WithTxOptions(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

// WithTxOptions runs fn in a transaction started with opts.
func (m *TxManager) WithTxOptions(ctx context.Context, opts pgx.TxOptions, fn func(q Querier) error) (err error) {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return storeError("begin", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return storeError("commit", err)
	}

	return nil
}
