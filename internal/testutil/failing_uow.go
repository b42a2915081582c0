package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/credo/internal/db"
)

// FailOnNthExec wraps inner so that its Nth ExecContext call returns err
// instead of reaching the database. Calls are counted from 1; reads pass
// through. Wrapping a plain *sql.DB simulates a store that fails midway
// through a reorder pass, where there is no transaction to roll back.
func FailOnNthExec(inner db.DBTX, n int32, err error) *FailingDBTX {
	return &FailingDBTX{DBTX: inner, failOn: n, err: err}
}

// FailingDBTX is the DBTX returned by FailOnNthExec.
type FailingDBTX struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *FailingDBTX) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// Execs reports how many ExecContext calls were attempted.
func (f *FailingDBTX) Execs() int32 { return f.count.Load() }

// FailOnNthExecUoW is a UnitOfWork whose transaction fails on the Nth
// ExecContext call, for rollback tests of multi-write operations.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	if fnErr := fn(ctx, FailOnNthExec(tx, u.FailOn, u.Err)); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}
