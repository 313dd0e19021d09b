package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/camp-directory/internal/domain"
)

func ptr(v int) *int { return &v }

func TestNewPaginationParams(t *testing.T) {
	tests := []struct {
		name        string
		page, limit *int
		want        domain.PaginationParams
	}{
		{"defaults", nil, nil, domain.PaginationParams{Page: 1, Limit: 50}},
		{"explicit", ptr(3), ptr(20), domain.PaginationParams{Page: 3, Limit: 20}},
		{"limit capped", nil, ptr(500), domain.PaginationParams{Page: 1, Limit: 100}},
		{"non-positive ignored", ptr(0), ptr(-1), domain.PaginationParams{Page: 1, Limit: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.NewPaginationParams(tt.page, tt.limit))
		})
	}
}

func TestPaginationParams_Window(t *testing.T) {
	p := domain.PaginationParams{Page: 2, Limit: 10}
	assert.Equal(t, 10, p.Offset())

	start, end := p.Window(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = p.Window(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = p.Window(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)

	start, end = domain.PaginationParams{Page: 0, Limit: -3}.Window(5)
	assert.Equal(t, start, end, "a negative limit yields an empty page")
	assert.LessOrEqual(t, end, 5)
}
