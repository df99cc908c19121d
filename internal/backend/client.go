// Package backend describes the request/response boundary to the hosted
// database. Callers build a Query and hand it to a Client; the Client returns
// rows or an *Error and never caches anything.
package backend

import "context"

// Row is one record as returned by the backend, keyed by column name.
type Row map[string]any

type Client interface {
	Select(ctx context.Context, q Query) ([]Row, error)
	Count(ctx context.Context, table string, filters ...Filter) (int64, error)
	Insert(ctx context.Context, table string, values Row) (Row, error)
	Update(ctx context.Context, table string, values Row, filters ...Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
	// InTx runs fn against a client bound to a single transaction.
	InTx(ctx context.Context, fn func(Client) error) error
}

type Op string

const (
	OpEq     Op = "eq"
	OpNeq    Op = "neq"
	OpGt     Op = "gt"
	OpGte    Op = "gte"
	OpLt     Op = "lt"
	OpLte    Op = "lte"
	OpIsNull Op = "is_null"
)

type Filter struct {
	Column string
	Op     Op
	Value  any
}

func Eq(column string, value any) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

func Neq(column string, value any) Filter {
	return Filter{Column: column, Op: OpNeq, Value: value}
}

func IsNull(column string) Filter {
	return Filter{Column: column, Op: OpIsNull}
}

type Order struct {
	Column string
	Desc   bool
}

// Query is a read against one table. An empty Columns list selects "*".
type Query struct {
	Table   string
	Columns []string
	Filters []Filter
	Orders  []Order
	Limit   int
}

func From(table string) Query {
	return Query{Table: table}
}

func (q Query) Select(columns ...string) Query {
	q.Columns = append([]string(nil), columns...)
	return q
}

func (q Query) Where(filters ...Filter) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), filters...)
	return q
}

func (q Query) OrderBy(column string, desc bool) Query {
	q.Orders = append(append([]Order(nil), q.Orders...), Order{Column: column, Desc: desc})
	return q
}

func (q Query) Take(limit int) Query {
	q.Limit = limit
	return q
}
