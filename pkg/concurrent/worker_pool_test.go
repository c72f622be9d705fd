package concurrent

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunAll(t *testing.T) {
	testCases := []struct {
		name       string
		numWorkers int
		jobs       []int
		want       []int
	}{
		{
			name:       "single worker",
			numWorkers: 1,
			jobs:       []int{1, 2, 3},
			want:       []int{1, 4, 9},
		},
		{
			name:       "more workers than jobs",
			numWorkers: 8,
			jobs:       []int{5, 4},
			want:       []int{16, 25},
		},
		{
			name:       "no jobs",
			numWorkers: 2,
			jobs:       []int{},
			want:       []int{},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got := RunAll(tt.numWorkers, tt.jobs, func(x int) int { return x * x })
			sort.Ints(got)
			assert.Equal(t, tt.want, got)
		})
	}
}
