package postgres

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"fueldesk/dashboard-service/internal/backend"

	"github.com/jackc/pgx/v5"
)

var (
	errInvalidIdentifier = errors.New("invalid identifier")
	errUnfiltered        = errors.New("refusing to write without filters")
	errNoValues          = errors.New("no values to write")
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func ident(name string) (string, error) {
	if !identifierPattern.MatchString(name) {
		return "", fmt.Errorf("%w: %q", errInvalidIdentifier, name)
	}
	return pgx.Identifier{name}.Sanitize(), nil
}

type sqlBuilder struct {
	sb   strings.Builder
	args []any
}

func (b *sqlBuilder) arg(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *sqlBuilder) where(filters []backend.Filter) error {
	for i, f := range filters {
		col, err := ident(f.Column)
		if err != nil {
			return err
		}
		if i == 0 {
			b.sb.WriteString(" WHERE ")
		} else {
			b.sb.WriteString(" AND ")
		}
		b.sb.WriteString(col)
		switch f.Op {
		case backend.OpEq, "":
			b.sb.WriteString(" = " + b.arg(f.Value))
		case backend.OpNeq:
			b.sb.WriteString(" <> " + b.arg(f.Value))
		case backend.OpGt:
			b.sb.WriteString(" > " + b.arg(f.Value))
		case backend.OpGte:
			b.sb.WriteString(" >= " + b.arg(f.Value))
		case backend.OpLt:
			b.sb.WriteString(" < " + b.arg(f.Value))
		case backend.OpLte:
			b.sb.WriteString(" <= " + b.arg(f.Value))
		case backend.OpIsNull:
			b.sb.WriteString(" IS NULL")
		default:
			return fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	return nil
}

func buildSelect(q backend.Query) (string, []any, error) {
	table, err := ident(q.Table)
	if err != nil {
		return "", nil, err
	}
	cols := "*"
	if len(q.Columns) > 0 && !(len(q.Columns) == 1 && q.Columns[0] == "*") {
		quoted := make([]string, 0, len(q.Columns))
		for _, c := range q.Columns {
			col, err := ident(c)
			if err != nil {
				return "", nil, err
			}
			quoted = append(quoted, col)
		}
		cols = strings.Join(quoted, ", ")
	}
	var b sqlBuilder
	b.sb.WriteString("SELECT " + cols + " FROM " + table)
	if err := b.where(q.Filters); err != nil {
		return "", nil, err
	}
	for i, o := range q.Orders {
		col, err := ident(o.Column)
		if err != nil {
			return "", nil, err
		}
		if i == 0 {
			b.sb.WriteString(" ORDER BY ")
		} else {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(col)
		if o.Desc {
			b.sb.WriteString(" DESC")
		} else {
			b.sb.WriteString(" ASC")
		}
	}
	if q.Limit > 0 {
		b.sb.WriteString(" LIMIT " + strconv.Itoa(q.Limit))
	}
	return b.sb.String(), b.args, nil
}

func buildCount(table string, filters []backend.Filter) (string, []any, error) {
	name, err := ident(table)
	if err != nil {
		return "", nil, err
	}
	var b sqlBuilder
	b.sb.WriteString("SELECT COUNT(*) FROM " + name)
	if err := b.where(filters); err != nil {
		return "", nil, err
	}
	return b.sb.String(), b.args, nil
}

func sortedColumns(values backend.Row) []string {
	cols := make([]string, 0, len(values))
	for k := range values {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func buildInsert(table string, values backend.Row) (string, []any, error) {
	name, err := ident(table)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, errNoValues
	}
	var b sqlBuilder
	cols := sortedColumns(values)
	quoted := make([]string, 0, len(cols))
	placeholders := make([]string, 0, len(cols))
	for _, c := range cols {
		col, err := ident(c)
		if err != nil {
			return "", nil, err
		}
		quoted = append(quoted, col)
		placeholders = append(placeholders, b.arg(values[c]))
	}
	b.sb.WriteString("INSERT INTO " + name + " (" + strings.Join(quoted, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ") RETURNING *")
	return b.sb.String(), b.args, nil
}

func buildUpdate(table string, values backend.Row, filters []backend.Filter) (string, []any, error) {
	name, err := ident(table)
	if err != nil {
		return "", nil, err
	}
	if len(values) == 0 {
		return "", nil, errNoValues
	}
	if len(filters) == 0 {
		return "", nil, errUnfiltered
	}
	var b sqlBuilder
	b.sb.WriteString("UPDATE " + name + " SET ")
	for i, c := range sortedColumns(values) {
		col, err := ident(c)
		if err != nil {
			return "", nil, err
		}
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(col + " = " + b.arg(values[c]))
	}
	if err := b.where(filters); err != nil {
		return "", nil, err
	}
	b.sb.WriteString(" RETURNING *")
	return b.sb.String(), b.args, nil
}

func buildDelete(table string, filters []backend.Filter) (string, []any, error) {
	name, err := ident(table)
	if err != nil {
		return "", nil, err
	}
	if len(filters) == 0 {
		return "", nil, errUnfiltered
	}
	var b sqlBuilder
	b.sb.WriteString("DELETE FROM " + name)
	if err := b.where(filters); err != nil {
		return "", nil, err
	}
	return b.sb.String(), b.args, nil
}
