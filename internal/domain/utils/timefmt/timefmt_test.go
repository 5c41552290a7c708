package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTime(t *testing.T) {
	cases := map[string]string{
		"13:05": "1:05 PM",
		"00:30": "12:30 AM",
		"12:00": "12:00 PM",
		"09:07": "9:07 AM",
		"23:59": "11:59 PM",
		"noon":  "noon",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatTime(in), in)
	}
}

func TestDefaultReminderTime(t *testing.T) {
	got, err := DefaultReminderTime("2025-06-01T00:00:00", "10:00")
	require.NoError(t, err)
	assert.Equal(t, "2025-05-31T10:00:00", got.Format("2006-01-02T15:04:05"))

	_, err = DefaultReminderTime("not-a-date", "10:00")
	assert.Error(t, err)
}

func TestCombineDefaultsToMidnight(t *testing.T) {
	got, err := Combine("2025-06-01", "")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 1, got.Day())
}

func TestReminderOptionsOnlyFuture(t *testing.T) {
	start, err := Combine("2025-06-10", "18:00")
	require.NoError(t, err)

	opts, err := ReminderOptions("2025-06-10", "18:00", start.Add(-3*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, opts, 2)
	assert.Equal(t, "1 hour before", opts[0].Label)
	assert.Equal(t, "1 day before", opts[1].Label)

	opts, err = ReminderOptions("2025-06-10", "18:00", start)
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "June 1, 2025", FormatDate("2025-06-01T00:00:00"))
	assert.Equal(t, "soon", FormatDate("soon"))
}
