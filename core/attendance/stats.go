package attendance

import (
	"math"
	"sort"
)

// Stats summarizes a set of attendance records. All derivations are
// total: an empty record set yields the zero value, never NaN.
type Stats struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Total   int `json:"total"`
	Rate    int `json:"rate"` // presence %, rounded to nearest integer
}

// StudentAbsence is one student's row in an absentee ranking.
type StudentAbsence struct {
	StudentID string `json:"student_id"`
	Absent    int    `json:"absent"`
	Total     int    `json:"total"`
	Rate      int    `json:"rate"` // absence %, rounded to nearest integer
}

// Percent computes round(100*part/total), with 0 for an empty total.
func Percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// ComputeStats aggregates records into presence counts and a rate.
func ComputeStats(records []Record) Stats {
	var s Stats
	for _, rec := range records {
		switch rec.Status {
		case StatusPresent:
			s.Present++
		case StatusAbsent:
			s.Absent++
		}
	}
	s.Total = s.Present + s.Absent
	s.Rate = Percent(s.Present, s.Total)
	return s
}

// RankAbsentees computes each entry's absence rate and orders the result
// worst-first. The sort is stable: entries with exactly equal rates keep
// their input order.
func RankAbsentees(entries []StudentAbsence) []StudentAbsence {
	ranked := make([]StudentAbsence, len(entries))
	copy(ranked, entries)
	for i := range ranked {
		ranked[i].Rate = Percent(ranked[i].Absent, ranked[i].Total)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rate > ranked[j].Rate
	})
	return ranked
}
