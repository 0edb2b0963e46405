package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScheduleTime_Relative(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	resolved, err := ResolveScheduleTime("2h", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(2*time.Hour), resolved)

	resolved, err = ResolveScheduleTime("30m", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), resolved)

	resolved, err = ResolveScheduleTime("1d", now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), resolved)
}

func TestResolveScheduleTime_Absolute(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	resolved, err := ResolveScheduleTime("2025-04-01T09:30:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC), resolved)

	// Seconds are optional.
	resolved, err = ResolveScheduleTime("2025-04-01 09:30", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC), resolved)

	// Offsets are normalized to UTC.
	resolved, err = ResolveScheduleTime("2025-04-01T09:30:00+02:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 7, 30, 0, 0, time.UTC), resolved)
	assert.Equal(t, time.UTC, resolved.Location())
}

func TestResolveScheduleTime_PastInstantAccepted(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	resolved, err := ResolveScheduleTime("2020-01-01T00:00:00", now)
	require.NoError(t, err)
	assert.True(t, resolved.Before(now))
}

func TestResolveScheduleTime_Invalid(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	for _, expr := range []string{"", "garbage", "2x", "h2", "10", "m", "1w", "2h30m"} {
		_, err := ResolveScheduleTime(expr, now)
		assert.ErrorIs(t, err, ErrInvalidScheduleExpression, "expression %q", expr)
	}
}
