package sqlxdb

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/darasa/core"
)

func Test_query_where(t *testing.T) {
	q := new(query)
	q.where("center_id = ?", "c1")
	q.where("date BETWEEN ? AND ?", "2026-03-01", "2026-03-31")

	assert.Equal(t, " WHERE center_id = $1 AND date BETWEEN $2 AND $3", q.clause())
	assert.Equal(t, []interface{}{"c1", "2026-03-01", "2026-03-31"}, q.args)
}

func Test_orderBy(t *testing.T) {
	allowed := sortable("name", "grade", "created_at")

	tests := []struct {
		name     string
		ordering []core.DBOrdering
		want     string
	}{
		{name: "empty falls back", want: " ORDER BY name"},
		{
			name: "whitelisted fields render with direction",
			ordering: []core.DBOrdering{
				{Field: "grade", Ascending: true},
				{Field: "created_at", Ascending: false},
			},
			want: " ORDER BY grade ASC, created_at DESC",
		},
		{
			name: "unknown fields are dropped",
			ordering: []core.DBOrdering{
				{Field: "password_hash", Ascending: true},
				{Field: "name", Ascending: true},
			},
			want: " ORDER BY name ASC",
		},
		{
			name: "injected expressions never reach the statement",
			ordering: []core.DBOrdering{
				{Field: "(SELECT password_hash FROM users LIMIT 1)", Ascending: true},
			},
			want: " ORDER BY name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orderBy(tt.ordering, allowed, "name"))
		})
	}
}
