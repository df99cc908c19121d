// Package postgres implements backend.Client on a pgx connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"fueldesk/dashboard-service/internal/backend"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Client struct {
	db     querier
	tracer trace.Tracer
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{db: pool, tracer: otel.Tracer("fueldesk/backend/postgres")}
}

var _ backend.Client = (*Client)(nil)

func (c *Client) Select(ctx context.Context, q backend.Query) ([]backend.Row, error) {
	ctx, span := c.start(ctx, "select", q.Table)
	defer span.End()

	sql, args, err := buildSelect(q)
	if err != nil {
		return nil, c.fail(span, invalid(err))
	}
	return c.queryRows(ctx, span, sql, args)
}

func (c *Client) Count(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	ctx, span := c.start(ctx, "count", table)
	defer span.End()

	sql, args, err := buildCount(table, filters)
	if err != nil {
		return 0, c.fail(span, invalid(err))
	}
	var count int64
	if err := c.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, c.fail(span, translate(err))
	}
	return count, nil
}

func (c *Client) Insert(ctx context.Context, table string, values backend.Row) (backend.Row, error) {
	ctx, span := c.start(ctx, "insert", table)
	defer span.End()

	sql, args, err := buildInsert(table, values)
	if err != nil {
		return nil, c.fail(span, invalid(err))
	}
	rows, err := c.queryRows(ctx, span, sql, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, c.fail(span, backend.NotFound(table))
	}
	return rows[0], nil
}

func (c *Client) Update(ctx context.Context, table string, values backend.Row, filters ...backend.Filter) ([]backend.Row, error) {
	ctx, span := c.start(ctx, "update", table)
	defer span.End()

	sql, args, err := buildUpdate(table, values, filters)
	if err != nil {
		return nil, c.fail(span, invalid(err))
	}
	return c.queryRows(ctx, span, sql, args)
}

func (c *Client) Delete(ctx context.Context, table string, filters ...backend.Filter) (int64, error) {
	ctx, span := c.start(ctx, "delete", table)
	defer span.End()

	sql, args, err := buildDelete(table, filters)
	if err != nil {
		return 0, c.fail(span, invalid(err))
	}
	tag, err := c.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, c.fail(span, translate(err))
	}
	return tag.RowsAffected(), nil
}

func (c *Client) InTx(ctx context.Context, fn func(backend.Client) error) error {
	return pgx.BeginFunc(ctx, c.db, func(tx pgx.Tx) error {
		return fn(&Client{db: tx, tracer: c.tracer})
	})
}

func (c *Client) queryRows(ctx context.Context, span trace.Span, sql string, args []any) ([]backend.Row, error) {
	rows, err := c.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, c.fail(span, translate(err))
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, c.fail(span, translate(err))
	}
	out := make([]backend.Row, 0, len(maps))
	for _, m := range maps {
		row := make(backend.Row, len(m))
		for k, v := range m {
			row[k] = normalize(v)
		}
		out = append(out, row)
	}
	span.SetAttributes(attribute.Int("db.rows", len(out)))
	return out, nil
}

func (c *Client) start(ctx context.Context, op, table string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "backend."+op, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", op),
		attribute.String("db.sql.table", table),
	))
}

func (c *Client) fail(span trace.Span, err *backend.Error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Message)
	return err
}

func invalid(err error) *backend.Error {
	return &backend.Error{Code: "invalid_query", Message: err.Error(), Err: err}
}

func translate(err error) *backend.Error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &backend.Error{Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &backend.Error{Code: backend.CodeNotFound, Message: "no rows returned", Err: backend.ErrNotFound}
	}
	be := backend.AsError(err)
	if be.Code == backend.CodeUnexpected {
		be.Message = fmt.Sprintf("backend request failed: %v", err)
	}
	return be
}

// normalize turns pgx's generic decodings into JSON-friendly values.
func normalize(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case pgtype.Numeric:
		if !val.Valid || val.NaN || val.InfinityModifier != pgtype.Finite || val.Int == nil {
			return nil
		}
		return decimal.NewFromBigInt(val.Int, val.Exp)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
