package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ComputeStats(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    Stats
	}{
		{
			name: "empty set yields zero stats, not NaN",
			want: Stats{},
		},
		{
			name: "3 of 4 present is 75%",
			records: []Record{
				{Status: StatusPresent},
				{Status: StatusPresent},
				{Status: StatusAbsent},
				{Status: StatusPresent},
			},
			want: Stats{Present: 3, Absent: 1, Total: 4, Rate: 75},
		},
		{
			name: "all absent",
			records: []Record{
				{Status: StatusAbsent},
				{Status: StatusAbsent},
			},
			want: Stats{Present: 0, Absent: 2, Total: 2, Rate: 0},
		},
		{
			name: "rounds to nearest integer",
			records: []Record{
				{Status: StatusPresent},
				{Status: StatusPresent},
				{Status: StatusAbsent},
			},
			want: Stats{Present: 2, Absent: 1, Total: 3, Rate: 67},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeStats(tt.records))
		})
	}
}

func Test_Percent_zeroGuard(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 75, Percent(3, 4))
	assert.Equal(t, 50, Percent(1, 2))
}

func Test_RankAbsentees(t *testing.T) {
	// B has the highest absence rate; A and C tie at 50% and must keep
	// their input order.
	entries := []StudentAbsence{
		{StudentID: "A", Absent: 5, Total: 10},
		{StudentID: "B", Absent: 8, Total: 10},
		{StudentID: "C", Absent: 8, Total: 16},
	}
	ranked := RankAbsentees(entries)

	assert.Len(t, ranked, 3)
	assert.Equal(t, "B", ranked[0].StudentID)
	assert.Equal(t, 80, ranked[0].Rate)
	assert.Equal(t, "A", ranked[1].StudentID)
	assert.Equal(t, 50, ranked[1].Rate)
	assert.Equal(t, "C", ranked[2].StudentID)
	assert.Equal(t, 50, ranked[2].Rate)

	// input untouched
	assert.Equal(t, 0, entries[0].Rate)
}

func Test_RankAbsentees_empty(t *testing.T) {
	assert.Empty(t, RankAbsentees(nil))
}

func Test_RankAbsentees_zeroTotals(t *testing.T) {
	ranked := RankAbsentees([]StudentAbsence{{StudentID: "A", Absent: 0, Total: 0}})
	assert.Equal(t, 0, ranked[0].Rate)
}
