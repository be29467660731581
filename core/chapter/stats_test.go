package chapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ComputeCompletion(t *testing.T) {
	t.Run("empty set yields zero completion", func(t *testing.T) {
		assert.Equal(t, Completion{}, ComputeCompletion(nil))
	})

	t.Run("counts only completed chapters", func(t *testing.T) {
		chapters := []Chapter{
			{Completed: true},
			{Completed: false},
			{Completed: true},
			{Completed: true},
		}
		assert.Equal(t, Completion{Completed: 3, Total: 4, Percent: 75}, ComputeCompletion(chapters))
	})

	t.Run("denominator is the given set, not a larger population", func(t *testing.T) {
		// callers filter by subject/grade first; completion only ever
		// sees the filtered rows
		filtered := []Chapter{
			{Subject: "Math", Completed: true},
			{Subject: "Math", Completed: false},
		}
		assert.Equal(t, Completion{Completed: 1, Total: 2, Percent: 50}, ComputeCompletion(filtered))
	})
}
