package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateKeyRoundTrip(t *testing.T) {
	// Every day of a leap year survives the round trip, including any
	// DST transitions the local zone has.
	day := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.Local)
	for day.Year() == 2024 {
		key := DateKey(day)
		back, err := ParseDateKey(key)
		require.NoError(t, err, "key %q", key)
		y1, m1, d1 := day.Date()
		y2, m2, d2 := back.Date()
		assert.Equal(t, [3]int{y1, int(m1), d1}, [3]int{y2, int(m2), d2}, "key %q", key)
		day = day.AddDate(0, 0, 1)
	}
}

func TestDateKeyZeroPadding(t *testing.T) {
	assert.Equal(t, "2025-03-02", DateKey(time.Date(2025, time.March, 2, 13, 45, 0, 0, time.Local)))
	assert.Equal(t, "1999-12-31", DateKey(time.Date(1999, time.December, 31, 0, 0, 0, 0, time.Local)))
}

func TestServerDateKey(t *testing.T) {
	key, err := ServerDateKey("2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", key)

	// Timestamped form, same zone as the viewer.
	raw := time.Date(2025, time.March, 2, 10, 0, 0, 0, time.Local).Format(time.RFC3339)
	key, err = ServerDateKey(raw)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-02", key)

	key, err = ServerDateKey("2024-02-29T08:30:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", key)

	_, err = ServerDateKey("not a date")
	assert.Error(t, err)
}
