package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekID(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"mid october", time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), "2026-W42"},
		{"first iso week starts in december", time.Date(2025, 12, 29, 12, 0, 0, 0, time.UTC), "2026-W01"},
		{"january belongs to previous iso year", time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC), "2026-W53"},
		{"single digit week is padded", time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), "2026-W06"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekID(tt.t))
		})
	}
}

func TestYesterday(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-10-14", "2026-10-13"},
		{"2026-03-01", "2026-02-28"},
		{"2024-03-01", "2024-02-29"},
		{"2026-01-01", "2025-12-31"},
	}
	for _, tt := range tests {
		got, err := Yesterday(tt.date)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Yesterday(%q)", tt.date)
	}

	_, err := Yesterday("not-a-date")
	assert.Error(t, err)
}

func TestFixedAdvance(t *testing.T) {
	c := &Fixed{T: time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC)}
	assert.Equal(t, "2026-10-14", Today(c))
	c.Advance(1)
	assert.Equal(t, "2026-10-15", Today(c))
	assert.Equal(t, "2026-W42", ThisWeek(c))
	c.Advance(5)
	assert.Equal(t, "2026-W43", ThisWeek(c))
}

func TestSystemUsesLocation(t *testing.T) {
	loc := time.FixedZone("plus14", 14*3600)
	now := System{Location: loc}.Now()
	assert.Equal(t, loc, now.Location())
}
