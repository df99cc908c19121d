package backend

import (
	"context"
	"encoding/json"
	"fmt"
)

// Decode binds a row onto a json-tagged record.
func Decode[T any](row Row) (T, error) {
	var out T
	raw, err := json.Marshal(row)
	if err != nil {
		return out, &Error{Code: CodeDecode, Message: "row encode failed", Err: err}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &Error{Code: CodeDecode, Message: fmt.Sprintf("row decode failed: %v", err), Err: err}
	}
	return out, nil
}

func DecodeAll[T any](rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		item, err := Decode[T](row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// List runs q and decodes every row.
func List[T any](ctx context.Context, c Client, q Query) ([]T, error) {
	rows, err := c.Select(ctx, q)
	if err != nil {
		return nil, err
	}
	return DecodeAll[T](rows)
}

// One runs q and expects exactly one row.
func One[T any](ctx context.Context, c Client, q Query) (T, error) {
	var zero T
	if q.Limit == 0 || q.Limit > 2 {
		q.Limit = 2
	}
	rows, err := c.Select(ctx, q)
	if err != nil {
		return zero, err
	}
	switch len(rows) {
	case 0:
		return zero, NotFound(q.Table)
	case 1:
		return Decode[T](rows[0])
	default:
		return zero, &Error{Code: CodeMultipleRows, Message: "more than one " + q.Table + " row matched"}
	}
}

// InsertAs inserts values and decodes the stored row.
func InsertAs[T any](ctx context.Context, c Client, table string, values Row) (T, error) {
	row, err := c.Insert(ctx, table, values)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](row)
}

// UpdateAs updates matching rows and decodes the single affected row.
func UpdateAs[T any](ctx context.Context, c Client, table string, values Row, filters ...Filter) (T, error) {
	var zero T
	rows, err := c.Update(ctx, table, values, filters...)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, NotFound(table)
	}
	return Decode[T](rows[0])
}
