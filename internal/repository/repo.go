package repository

import (
	"context"      // context carries request deadlines into every query
	"database/sql" // sql provides the pooled connection handle
	"errors"
	"fmt"
)

// Repo is the MySQL-backed store for one entity kind. It holds no state of
// its own: every call acquires a pooled connection from db for the duration
// of the statement (or transaction) and releases it before returning.
type Repo[T any] struct {
	db *sql.DB
	t  Table[T]
}

// NewRepo constructs a Repo for the table described by t. The pool handle
// is shared by every repo; there is no package-level database handle.
func NewRepo[T any](db *sql.DB, t Table[T]) *Repo[T] {
	return &Repo[T]{db: db, t: t}
}

// Table returns the descriptor this repo was built with.
func (r *Repo[T]) Table() Table[T] { return r.t }

// Ping verifies the pool can reach the database.
func (r *Repo[T]) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }

// FindAll returns every row of the table. Rows come back in primary key
// order, which is not a stable pagination order under concurrent writes.
func (r *Repo[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := r.db.QueryContext(ctx, r.t.selectQuery("")+" ORDER BY "+quote(r.t.Key))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var v T
		if err := rows.Scan(r.t.dest(&v)...); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches one row by primary key. It returns a *NotFoundError when
// no row has that identity.
func (r *Repo[T]) FindByID(ctx context.Context, id int64) (*T, error) {
	return r.findByID(ctx, r.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repo[T]) findByID(ctx context.Context, q queryer, id int64) (*T, error) {
	var v T
	err := q.QueryRowContext(ctx, r.t.selectQuery(quote(r.t.Key)+" = ?"), id).Scan(r.t.dest(&v)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: r.t.Entity, ID: id}
		}
		return nil, err
	}
	return &v, nil
}

// FindFirstBy returns the lowest-keyed row whose column equals value.
func (r *Repo[T]) FindFirstBy(ctx context.Context, column string, value any) (*T, error) {
	if r.t.column(column) < 0 {
		return nil, fmt.Errorf("%w %q on %s", ErrUnknownColumn, column, r.t.Name)
	}
	q := r.t.selectQuery(quote(column)+" = ?") + " ORDER BY " + quote(r.t.Key) + " LIMIT 1"
	var v T
	if err := r.db.QueryRowContext(ctx, q, value).Scan(r.t.dest(&v)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Entity: r.t.Entity}
		}
		return nil, err
	}
	return &v, nil
}

// ExistsByID reports whether a row with the given identity exists.
func (r *Repo[T]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	q := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = ?)", quote(r.t.Name), quote(r.t.Key))
	var ok bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Insert adds e as a new row. Any identity already on e is ignored; on
// success e holds the generated identity and the committed column values.
func (r *Repo[T]) Insert(ctx context.Context, e *T) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, r.t.insertQuery(), r.t.Fields(e)...)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		return r.reload(ctx, tx, id, e)
	})
}

// Update writes every non-key field of e to the row keyed by e's identity,
// inserting the row when it does not exist. e is refreshed from the
// committed row.
func (r *Repo[T]) Update(ctx context.Context, e *T) error {
	id := *r.t.ID(e)
	if id == 0 {
		return ErrMissingID
	}
	return r.inTx(ctx, func(tx *sql.Tx) error {
		args := append([]any{id}, r.t.Fields(e)...)
		if _, err := tx.ExecContext(ctx, r.t.upsertQuery(), args...); err != nil {
			return err
		}
		return r.reload(ctx, tx, id, e)
	})
}

// Save inserts e when its identity is zero and updates it otherwise.
func (r *Repo[T]) Save(ctx context.Context, e *T) error {
	if *r.t.ID(e) == 0 {
		return r.Insert(ctx, e)
	}
	return r.Update(ctx, e)
}

// DeleteByID removes the row with the given identity. Deleting an absent
// identity is a no-op.
func (r *Repo[T]) DeleteByID(ctx context.Context, id int64) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(r.t.Name), quote(r.t.Key))
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *Repo[T]) reload(ctx context.Context, tx *sql.Tx, id int64, e *T) error {
	fresh, err := r.findByID(ctx, tx, id)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

// inTx runs fn in a transaction, committing when fn succeeds and rolling
// back on any error.
func (r *Repo[T]) inTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}
