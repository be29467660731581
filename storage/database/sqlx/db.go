// Package sqlxdb implements the domain repositories on PostgreSQL via sqlx.
package sqlxdb

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint violation,
// optionally on a specific constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != pqUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

// query accumulates WHERE conditions and positional args.
type query struct {
	conds []string
	args  []interface{}
}

// where appends a condition, renumbering each ? to its positional $n.
func (q *query) where(cond string, args ...interface{}) {
	for _, arg := range args {
		q.args = append(q.args, arg)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(q.args)), 1)
	}
	q.conds = append(q.conds, cond)
}

func (q *query) clause() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

// scopeCenters constrains rows carrying a center_id column to the scope.
func (q *query) scopeCenters(scope core.TenantScope, col string) {
	if !scope.AllCenters() {
		q.where(col+" = ?", scope.CenterID)
	}
}

// scopeStudentRows constrains rows of the students table itself to the scope.
func (q *query) scopeStudentRows(scope core.TenantScope) {
	if scope.Role == core.RoleParent {
		q.where("parent_id = ?", scope.UserID)
		return
	}
	q.scopeCenters(scope, "center_id")
}

// scopeStudents constrains rows keyed by student to the scope. Parents only
// see rows of students linked to them via parent_id.
func (q *query) scopeStudents(scope core.TenantScope, col string) {
	switch {
	case scope.AllCenters():
	case scope.Role == core.RoleParent:
		q.where(col+" IN (SELECT id FROM students WHERE parent_id = ?)", scope.UserID)
	default:
		q.where(col+" IN (SELECT id FROM students WHERE center_id = ?)", scope.CenterID)
	}
}

func pqStrArray(vals []string) pq.StringArray { return pq.StringArray(vals) }

func joinSets(sets []string) string { return strings.Join(sets, ", ") }

// sortable builds a table's whitelist of ORDER BY columns.
func sortable(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

// orderBy renders the ORDER BY clause from whitelisted fields only, falling
// back to a default ordering. Ordering fields come straight from the query
// string, so anything outside the whitelist is dropped rather than
// concatenated into the statement.
func orderBy(ordering []core.DBOrdering, allowed map[string]bool, fallback string) string {
	parts := make([]string, 0, len(ordering))
	for _, o := range ordering {
		if allowed[o.Field] {
			parts = append(parts, o.String())
		}
	}
	if len(parts) == 0 {
		return " ORDER BY " + fallback
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
