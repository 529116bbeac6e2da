package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetHHMMComposesWithCurrentDay(t *testing.T) {
	c := New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	got, err := c.SetHHMM("6:30")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 6, 30, 0, 0, time.UTC), got)
}

func TestSetHHMMRollsDayOverAtMidnight(t *testing.T) {
	c := New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err := c.SetHHMM("23:45")
	require.NoError(t, err)
	next, err := c.SetHHMM("00:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), next)
}

func TestSetHHMMDoesNotRollOverOnFirstTick(t *testing.T) {
	c := New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	got, err := c.SetHHMM("00:00")
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestSetHHMMRejectsBadFormat(t *testing.T) {
	c := New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err := c.SetHHMM("25:99")
	require.Error(t, err)

	_, err = c.SetHHMM("not-a-time")
	require.Error(t, err)
}

func TestFormatCurrent(t *testing.T) {
	c := New(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	_, err := c.SetHHMM("9:05")
	require.NoError(t, err)
	require.Equal(t, "2024-03-01 09:05", c.FormatCurrent())
}

func TestInWindowNonWrapping(t *testing.T) {
	require.True(t, InWindow(630, 600, 660))
	require.False(t, InWindow(660, 600, 660))
	require.False(t, InWindow(500, 600, 660))
}

func TestInWindowWrapsAcrossMidnight(t *testing.T) {
	require.True(t, InWindow(23*60+30, 23*60, 60))
	require.True(t, InWindow(30, 23*60, 60))
	require.False(t, InWindow(12*60, 23*60, 60))
}

func TestInWindowEqualBoundsNeverActive(t *testing.T) {
	require.False(t, InWindow(100, 50, 50))
}

func TestMinutesSinceMidnight(t *testing.T) {
	m, err := MinutesSinceMidnight("01:30")
	require.NoError(t, err)
	require.Equal(t, 90, m)
}
