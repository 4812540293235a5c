package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromKey(t *testing.T) {
	m, err := FromKey("2026-01")
	require.NoError(t, err)
	assert.Equal(t, 2026, m.Year)
	assert.Equal(t, time.January, m.Month)
	assert.Equal(t, "2026-01", m.Key())
}

func TestFromKeyRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "2026", "2026-13", "jan/2026", "2026-1"} {
		_, err := FromKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestStartEnd(t *testing.T) {
	m := Of(2026, 2)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), m.Start())
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), m.End())
	assert.Equal(t, 28, m.Days())

	// Bissexto
	assert.Equal(t, 29, Of(2028, 2).Days())
}

func TestDayClampsToMonthLength(t *testing.T) {
	feb := Of(2026, 2)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), feb.Day(31))
	assert.Equal(t, time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), feb.Day(15))
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), feb.Day(0))
}

func TestNextPrevAcrossYear(t *testing.T) {
	dec := Of(2025, 12)
	assert.Equal(t, "2026-01", dec.Next().Key())
	assert.Equal(t, "2025-12", Of(2026, 1).Prev().Key())
}

func TestContains(t *testing.T) {
	m := Of(2026, 1)
	assert.True(t, m.Contains(time.Date(2026, 1, 31, 23, 59, 0, 0, time.UTC)))
	assert.False(t, m.Contains(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
}
