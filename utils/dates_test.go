package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		d, err := ParseDate("2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("rfc3339 keeps calendar day", func(t *testing.T) {
		d, err := ParseDate("2024-06-01T23:30:00+07:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), d)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDate("01/06/2024")
		assert.Error(t, err)
	})
}

func TestNightsBetween(t *testing.T) {
	in := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 3, NightsBetween(in, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 1, NightsBetween(in, time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, 29, NightsBetween(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}
