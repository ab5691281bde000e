package database

import (
	"fmt"
	"strings"
)

// Key is one equality condition of an UPDATE's WHERE clause.
type Key struct {
	Column string
	Value  any
}

// Assignments accumulates the SET clause of a partial UPDATE. Placeholders are
// numbered in the order columns are added.
type Assignments struct {
	clauses []string
	args    []any
}

// Set appends "column = $n" bound to value.
func (a *Assignments) Set(column string, value any) {
	a.args = append(a.args, value)
	a.clauses = append(a.clauses, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

// Len reports how many columns are assigned.
func (a *Assignments) Len() int {
	return len(a.clauses)
}

// UpdateByID renders an UPDATE of the row with the given id.
func (a *Assignments) UpdateByID(table string, id int64, returning string) (string, []any) {
	return a.Update(table, returning, Key{Column: "id", Value: id})
}

// Update renders an UPDATE of the rows matching every key that also bumps
// updated_at, returning the listed columns.
func (a *Assignments) Update(table, returning string, keys ...Key) (string, []any) {
	clauses := append(append([]string{}, a.clauses...), "updated_at = NOW()")
	args := append([]any{}, a.args...)

	conditions := make([]string, 0, len(keys))
	for _, k := range keys {
		args = append(args, k.Value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", k.Column, len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE %s
		RETURNING %s`, table, strings.Join(clauses, ", "), strings.Join(conditions, " AND "), returning)

	return query, args
}
