package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		page      int
		size      int
		wantFrom  int
		wantLimit int
	}{
		{name: "defaults", page: 0, size: 0, wantFrom: 0, wantLimit: 10},
		{name: "first page", page: 1, size: 20, wantFrom: 0, wantLimit: 20},
		{name: "third page", page: 3, size: 20, wantFrom: 40, wantLimit: 20},
		{name: "negative page clamped", page: -5, size: 20, wantFrom: 0, wantLimit: 20},
		{name: "oversized page size clamped", page: 2, size: 500, wantFrom: 10, wantLimit: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			from, limit := Calculate(tt.page, tt.size)
			assert.Equal(t, tt.wantFrom, from)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}
