package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{-3, 10, 1, 10},
		{2, MaxPageSize, 2, MaxPageSize},
		{4, MaxPageSize + 1, 4, DefaultPageSize},
	}

	for _, tt := range tests {
		page, size := NormalizePage(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, page)
		assert.Equal(t, tt.wantSize, size)
	}
}

func TestNewOffsetPage(t *testing.T) {
	page := NewOffsetPage([]int{1, 2}, 41, 3, 20)
	assert.Equal(t, 3, page.TotalPages)
	assert.EqualValues(t, 41, page.Total)

	empty := NewOffsetPage([]int{}, 0, 1, 20)
	assert.Zero(t, empty.TotalPages)
}

func TestCursorRoundTrip(t *testing.T) {
	in := NoteCursor{CreatedAt: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC), ID: 42}

	out, err := DecodeCursor(EncodeCursor(in))
	require.NoError(t, err)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeCursor(t *testing.T) {
	first, err := DecodeCursor("")
	require.NoError(t, err)
	assert.True(t, first.CreatedAt.After(time.Now()))

	_, err = DecodeCursor("not base64!")
	assert.Error(t, err)
}
