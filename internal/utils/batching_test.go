package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantSizes []int
	}{
		{"even split", 10, 5, []int{5, 5}},
		{"short last chunk", 12, 5, []int{5, 5, 2}},
		{"single partial chunk", 3, 8, []int{3}},
		{"empty input", 0, 5, nil},
		{"zero size", 4, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.n)
			for i := range items {
				items[i] = i
			}

			chunks := Chunk(items, tt.size)

			var sizes []int
			total := 0
			for _, c := range chunks {
				sizes = append(sizes, len(c))
				total += len(c)
			}
			assert.Equal(t, tt.wantSizes, sizes)
			if tt.size > 0 {
				assert.Equal(t, tt.n, total, "every item covered exactly once")
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 0, EstimateTokens(""))
	assert.Equal(t, 25, EstimateTokens(string(make([]byte, 100))))
}
