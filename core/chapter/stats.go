package chapter

import "math"

// Completion summarizes chapter progress over an already-filtered set:
// the caller applies any subject/grade filter BEFORE computing, so the
// denominator always matches the filtered population. Total: an empty
// set yields zeros, never NaN.
type Completion struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"` // rounded to nearest integer
}

// ComputeCompletion counts completed chapters in the given set.
func ComputeCompletion(chapters []Chapter) Completion {
	var c Completion
	for _, ch := range chapters {
		c.Total++
		if ch.Completed {
			c.Completed++
		}
	}
	if c.Total > 0 {
		c.Percent = int(math.Round(100 * float64(c.Completed) / float64(c.Total)))
	}
	return c
}
