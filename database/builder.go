package database

import (
	"github.com/uptrace/bun"
)

// OrderDirection is the direction of an ORDER BY term.
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// cond is a WHERE fragment already rendered with bun placeholders.
type cond struct {
	sql  string
	args []any
}

type orderTerm struct {
	column string
	dir    OrderDirection
}

// QueryBuilder collects filters, ordering and relations for a model T and
// runs them against a DB or a transaction.
type QueryBuilder[T any] struct {
	db        bun.IDB
	conds     []cond
	orders    []orderTerm
	relations []string
	limit     int
	offset    int
}

// Query starts a builder for T.
func Query[T any](db bun.IDB) *QueryBuilder[T] {
	return &QueryBuilder[T]{db: db}
}

// Where filters on column = value.
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	return q.WhereOp(column, "=", value)
}

// WhereOp filters with a comparison operator such as ">=" or "<>".
func (q *QueryBuilder[T]) WhereOp(column, op string, value any) *QueryBuilder[T] {
	return q.WhereRaw("? "+op+" ?", bun.Ident(column), value)
}

// WhereIn filters on column IN (values); values must be a slice.
func (q *QueryBuilder[T]) WhereIn(column string, values any) *QueryBuilder[T] {
	return q.WhereRaw("? IN (?)", bun.Ident(column), bun.In(values))
}

func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.conds = append(q.conds, cond{sql: sql, args: args})
	return q
}

func (q *QueryBuilder[T]) OrderBy(column string, dir OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, orderTerm{column: column, dir: dir})
	return q
}

func (q *QueryBuilder[T]) Limit(n int) *QueryBuilder[T] {
	q.limit = n
	return q
}

func (q *QueryBuilder[T]) Offset(n int) *QueryBuilder[T] {
	q.offset = n
	return q
}

// With preloads a bun relation by its struct field name.
func (q *QueryBuilder[T]) With(relation string) *QueryBuilder[T] {
	q.relations = append(q.relations, relation)
	return q
}

func (q *QueryBuilder[T]) filter(qb bun.QueryBuilder) bun.QueryBuilder {
	for _, c := range q.conds {
		qb = qb.Where(c.sql, c.args...)
	}
	return qb
}

// selectInto builds the SELECT for dest. Counting skips ordering and paging.
func (q *QueryBuilder[T]) selectInto(dest any, counting bool) *bun.SelectQuery {
	sel := q.db.NewSelect().Model(dest).ApplyQueryBuilder(q.filter)
	if counting {
		return sel
	}
	for _, rel := range q.relations {
		sel = sel.Relation(rel)
	}
	for _, o := range q.orders {
		sel = sel.OrderExpr("? "+string(o.dir), bun.Ident(o.column))
	}
	if q.limit > 0 {
		sel = sel.Limit(q.limit)
	}
	if q.offset > 0 {
		sel = sel.Offset(q.offset)
	}
	return sel
}
