package dateutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDays(t *testing.T) {
	next, err := AddDays("2026-01-30", 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-04", next)
}

func TestAddDaysNegative(t *testing.T) {
	prev, err := AddDays("2026-03-01", -1)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", prev)
}

func TestAddDaysMalformed(t *testing.T) {
	_, err := AddDays("not-a-date", 1)
	assert.Error(t, err)
}

func TestRangeInclusive(t *testing.T) {
	days, err := Range("2026-01-01", "2026-01-03")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-01", "2026-01-02", "2026-01-03"}, days)
}

func TestRangeEmptyWhenStartAfterEnd(t *testing.T) {
	days, err := Range("2026-01-05", "2026-01-01")
	require.NoError(t, err)
	assert.Empty(t, days)
}
