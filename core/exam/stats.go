package exam

import "math"

// Stats summarizes the recorded results of one test. All derivations
// are total: no results yields the zero value, never NaN.
type Stats struct {
	Count          int     `json:"count"`
	AveragePercent int     `json:"average_percent"` // mean marks as % of max, rounded
	Highest        float64 `json:"highest"`
	Lowest         float64 `json:"lowest"`
}

// ComputeStats aggregates results against the test's max marks.
func ComputeStats(test Test, results []Result) Stats {
	var s Stats
	if len(results) == 0 {
		return s
	}

	var sum float64
	s.Lowest = results[0].MarksObtained
	for _, r := range results {
		s.Count++
		sum += r.MarksObtained
		if r.MarksObtained > s.Highest {
			s.Highest = r.MarksObtained
		}
		if r.MarksObtained < s.Lowest {
			s.Lowest = r.MarksObtained
		}
	}
	if test.MaxMarks > 0 {
		mean := sum / float64(s.Count)
		s.AveragePercent = int(math.Round(100 * mean / test.MaxMarks))
	}
	return s
}
