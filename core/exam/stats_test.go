package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ComputeStats(t *testing.T) {
	test := Test{MaxMarks: 50}

	t.Run("no results yields zero stats", func(t *testing.T) {
		assert.Equal(t, Stats{}, ComputeStats(test, nil))
	})

	t.Run("aggregates count, average, highest and lowest", func(t *testing.T) {
		results := []Result{
			{MarksObtained: 40},
			{MarksObtained: 25},
			{MarksObtained: 45},
		}
		got := ComputeStats(test, results)
		assert.Equal(t, Stats{
			Count:          3,
			AveragePercent: 73, // mean 36.67 of 50
			Highest:        45,
			Lowest:         25,
		}, got)
	})

	t.Run("zero max marks never divides by zero", func(t *testing.T) {
		got := ComputeStats(Test{}, []Result{{MarksObtained: 10}})
		assert.Equal(t, 0, got.AveragePercent)
		assert.Equal(t, 1, got.Count)
	})
}
