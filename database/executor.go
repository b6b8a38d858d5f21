package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/uptrace/bun"
)

// run retries fn and tags failures with the operation name and elapsed time.
func run(ctx context.Context, op string, fn func() error) error {
	start := time.Now()
	if err := WithRetry(ctx, fn); err != nil {
		return fmt.Errorf("%s: %w (took %v)", op, err, time.Since(start))
	}
	return nil
}

func affected(res sql.Result, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// All returns every matching row.
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	var rows []T
	err := run(ctx, "select", func() error {
		rows = rows[:0]
		return q.selectInto(&rows, false).Scan(ctx)
	})
	return rows, err
}

// First returns the first matching row, or nil, nil when there is none.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	row := new(T)
	err := run(ctx, "select first", func() error {
		return q.selectInto(row, false).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (q *QueryBuilder[T]) Count(ctx context.Context) (n int, err error) {
	err = run(ctx, "count", func() error {
		n, err = q.selectInto((*T)(nil), true).Count(ctx)
		return err
	})
	return n, err
}

// Insert writes row and scans the generated columns back into it.
func (q *QueryBuilder[T]) Insert(ctx context.Context, row *T) (*T, error) {
	err := run(ctx, "insert", func() error {
		_, err := q.db.NewInsert().Model(row).Returning("*").Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Update sets the given columns on every matching row. Columns are written in
// sorted order so the statement text is stable.
func (q *QueryBuilder[T]) Update(ctx context.Context, set map[string]any) (n int, err error) {
	if len(set) == 0 {
		return 0, nil
	}
	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	slices.Sort(cols)

	err = run(ctx, "update", func() error {
		upd := q.db.NewUpdate().Model((*T)(nil))
		for _, col := range cols {
			upd = upd.Set("? = ?", bun.Ident(col), set[col])
		}
		n, err = affected(upd.ApplyQueryBuilder(q.filter).Exec(ctx))
		return err
	})
	return n, err
}

func (q *QueryBuilder[T]) Delete(ctx context.Context) (n int, err error) {
	err = run(ctx, "delete", func() error {
		n, err = affected(q.db.NewDelete().Model((*T)(nil)).ApplyQueryBuilder(q.filter).Exec(ctx))
		return err
	})
	return n, err
}
