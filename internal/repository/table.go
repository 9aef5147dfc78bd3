package repository

import (
	"fmt"
	"slices"
	"strings"
)

// Table describes how one entity kind maps onto its relational table. The
// generic stores need nothing else from an entity type.
type Table[T any] struct {
	Entity  string   // display name used in not-found messages, e.g. "User"
	Name    string   // table name, e.g. "users"
	Key     string   // primary key column, e.g. "user_id"
	Columns []string // non-key columns in the order returned by Fields
	// ID returns a pointer to the record's identity field.
	ID func(*T) *int64
	// Fields returns pointers to the non-key fields, aligned with Columns.
	Fields func(*T) []any
}

// dest returns scan destinations for a full row (key first).
func (t Table[T]) dest(v *T) []any {
	return append([]any{t.ID(v)}, t.Fields(v)...)
}

func quote(ident string) string { return "`" + ident + "`" }

func (t Table[T]) selectList() string {
	cols := make([]string, 0, len(t.Columns)+1)
	cols = append(cols, quote(t.Key))
	for _, c := range t.Columns {
		cols = append(cols, quote(c))
	}
	return strings.Join(cols, ", ")
}

func (t Table[T]) selectQuery(where string) string {
	q := fmt.Sprintf("SELECT %s FROM %s", t.selectList(), quote(t.Name))
	if where != "" {
		q += " WHERE " + where
	}
	return q
}

func (t Table[T]) insertQuery() string {
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = quote(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(t.Name), strings.Join(cols, ", "), placeholders(len(cols)))
}

// upsertQuery inserts a row with an explicit key or overwrites every
// non-key column of the existing row with that key. The row alias form
// needs MySQL 8.0.19 or later.
func (t Table[T]) upsertQuery() string {
	cols := make([]string, 0, len(t.Columns)+1)
	sets := make([]string, len(t.Columns))
	cols = append(cols, quote(t.Key))
	for i, c := range t.Columns {
		cols = append(cols, quote(c))
		sets[i] = fmt.Sprintf("%s = `new`.%s", quote(c), quote(c))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) AS `new` ON DUPLICATE KEY UPDATE %s",
		quote(t.Name), strings.Join(cols, ", "), placeholders(len(cols)), strings.Join(sets, ", "))
}

func (t Table[T]) column(name string) int {
	return slices.Index(t.Columns, name)
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
