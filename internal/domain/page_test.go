package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/hotel-booking/internal/domain"
)

func TestNewPaginationParams(t *testing.T) {
	intp := func(v int) *int { return &v }

	tests := []struct {
		name        string
		page, limit *int
		want        domain.PaginationParams
		wantOffset  int
	}{
		{"defaults", nil, nil, domain.PaginationParams{Page: 1, Limit: domain.DefaultPageLimit}, 0},
		{"explicit", intp(3), intp(10), domain.PaginationParams{Page: 3, Limit: 10}, 20},
		{"non-positive ignored", intp(0), intp(-5), domain.PaginationParams{Page: 1, Limit: domain.DefaultPageLimit}, 0},
		{"limit clamped", intp(2), intp(500), domain.PaginationParams{Page: 2, Limit: domain.MaxPageLimit}, domain.MaxPageLimit},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.NewPaginationParams(tc.page, tc.limit)

			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantOffset, got.Offset())
		})
	}
}
