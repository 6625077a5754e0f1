package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffsetPagination_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   OffsetPagination
		want OffsetPagination
	}{
		{"default limit", OffsetPagination{}, OffsetPagination{Limit: 50}},
		{"over max", OffsetPagination{Limit: 500, Offset: 10}, OffsetPagination{Limit: 100, Offset: 10}},
		{"negative offset", OffsetPagination{Limit: 5, Offset: -3}, OffsetPagination{Limit: 5}},
		{"within range", OffsetPagination{Limit: 1, Offset: 2}, OffsetPagination{Limit: 1, Offset: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamp(50, 100))
		})
	}
}
