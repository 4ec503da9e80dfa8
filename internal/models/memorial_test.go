package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		limit       int
		offset      int
		wantHasMore bool
	}{
		{"empty result", 0, 50, 0, false},
		{"first page of many", 120, 50, 0, true},
		{"middle page", 120, 50, 50, true},
		{"last full page", 120, 50, 100, false},
		{"exact fit", 100, 50, 50, false},
		{"offset past the end", 10, 50, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.total, tt.limit, tt.offset)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset)
			assert.Equal(t, tt.wantHasMore, p.HasMore)
		})
	}
}

func TestProfessionSlotActive(t *testing.T) {
	assert.True(t, ProfessionSlot{Profession: 3, MinCount: 2}.Active())
	assert.False(t, ProfessionSlot{Profession: 3}.Active())
	assert.False(t, ProfessionSlot{MinCount: 2}.Active())
	assert.False(t, ProfessionSlot{}.Active())
}
