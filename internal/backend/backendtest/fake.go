// Package backendtest provides an in-memory backend.Client for tests.
package backendtest

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"fueldesk/dashboard-service/internal/backend"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Fake struct {
	mu     sync.Mutex
	tables map[string][]backend.Row
	errs   map[string]error
	holds  map[string]chan struct{}
	calls  []string
	now    func() time.Time
}

func New() *Fake {
	return &Fake{
		tables: make(map[string][]backend.Row),
		errs:   make(map[string]error),
		holds:  make(map[string]chan struct{}),
		now:    time.Now,
	}
}

var _ backend.Client = (*Fake)(nil)

// Seed appends rows to table as given.
func (f *Fake) Seed(table string, rows ...backend.Row) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range rows {
		f.tables[table] = append(f.tables[table], clean(row))
	}
}

// FailWith makes every call against table return err until cleared with nil.
func (f *Fake) FailWith(table string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, table)
		return
	}
	f.errs[table] = err
}

// Hold blocks calls against table until the returned release func runs.
func (f *Fake) Hold(table string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.holds[table] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.holds, table)
			f.mu.Unlock()
			close(ch)
		})
	}
}

// Calls lists every call made so far as "op:table".
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Rows returns a copy of the stored rows of table.
func (f *Fake) Rows(table string) []backend.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]backend.Row, 0, len(f.tables[table]))
	for _, row := range f.tables[table] {
		out = append(out, copyRow(row))
	}
	return out
}

func (f *Fake) enter(ctx context.Context, op, table string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op+":"+table)
	hold := f.holds[table]
	err := f.errs[table]
	f.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *Fake) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	if err := f.enter(ctx, "select", q.Table); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []backend.Row
	for _, row := range f.tables[q.Table] {
		if matches(row, q.Filters) {
			out = append(out, project(row, q.Columns))
		}
	}
	if len(q.Orders) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.Orders {
				c := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (f *Fake) Count(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	if err := f.enter(ctx, "count", table); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.tables[table] {
		if matches(row, filters) {
			n++
		}
	}
	return n, nil
}

func (f *Fake) Insert(ctx context.Context, table string, values backend.Row) (backend.Row, error) {
	if err := f.enter(ctx, "insert", table); err != nil {
		return nil, err
	}
	row := clean(values)
	if _, ok := row["id"]; !ok || row["id"] == nil || row["id"] == "" {
		row["id"] = uuid.NewString()
	}
	if _, ok := row["created_at"]; !ok {
		row["created_at"] = f.now().UTC()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[table] = append(f.tables[table], row)
	return copyRow(row), nil
}

func (f *Fake) Update(ctx context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	if err := f.enter(ctx, "update", table); err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, &backend.Error{Code: "invalid_query", Message: "refusing to write without filters"}
	}
	set := clean(values)
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []backend.Row
	for _, row := range f.tables[table] {
		if !matches(row, filters) {
			continue
		}
		for k, v := range set {
			row[k] = v
		}
		out = append(out, copyRow(row))
	}
	return out, nil
}

func (f *Fake) Delete(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	if err := f.enter(ctx, "delete", table); err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, &backend.Error{Code: "invalid_query", Message: "refusing to write without filters"}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tables[table][:0]
	var n int64
	for _, row := range f.tables[table] {
		if matches(row, filters) {
			n++
			continue
		}
		kept = append(kept, row)
	}
	f.tables[table] = kept
	return n, nil
}

func (f *Fake) InTx(ctx context.Context, fn func(backend.Client) error) error {
	return fn(f)
}

func matches(row backend.Row, filters []backend.Filter) bool {
	for _, flt := range filters {
		v, present := row[flt.Column]
		switch flt.Op {
		case backend.OpIsNull:
			if present && v != nil {
				return false
			}
		case backend.OpEq, "":
			if compare(v, deref(flt.Value)) != 0 {
				return false
			}
		case backend.OpNeq:
			if compare(v, deref(flt.Value)) == 0 {
				return false
			}
		case backend.OpGt:
			if compare(v, deref(flt.Value)) <= 0 {
				return false
			}
		case backend.OpGte:
			if compare(v, deref(flt.Value)) < 0 {
				return false
			}
		case backend.OpLt:
			if compare(v, deref(flt.Value)) >= 0 {
				return false
			}
		case backend.OpLte:
			if compare(v, deref(flt.Value)) > 0 {
				return false
			}
		}
	}
	return true
}

func compare(a, b any) int {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	if da, ok := asDecimal(a); ok {
		if db, ok := asDecimal(b); ok {
			return da.Cmp(db)
		}
	}
	sa, sb := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

func asDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	default:
		return decimal.Decimal{}, false
	}
}

func project(row backend.Row, columns []string) backend.Row {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		return copyRow(row)
	}
	out := make(backend.Row, len(columns))
	for _, c := range columns {
		out[c] = row[c]
	}
	return out
}

func copyRow(row backend.Row) backend.Row {
	out := make(backend.Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func clean(row backend.Row) backend.Row {
	out := make(backend.Row, len(row))
	for k, v := range row {
		out[k] = deref(v)
	}
	return out
}

// deref stores pointer values the way a database column would: nil or the
// pointed-to value.
func deref(v any) any {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer {
		return v
	}
	if rv.IsNil() {
		return nil
	}
	return rv.Elem().Interface()
}
