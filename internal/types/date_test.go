package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_CalendarComparison(t *testing.T) {
	a := NewDate(2025, time.March, 14)
	b := NewDate(2025, time.March, 15)

	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Equal(b))

	// Time-of-day and zone are normalized away.
	late := DateOf(time.Date(2025, time.March, 14, 23, 59, 0, 0, time.FixedZone("X", 3*3600)))
	assert.True(t, a.Equal(late))
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.January, 2)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02"`, string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, d.Equal(parsed))
}

func TestDate_JSONNull(t *testing.T) {
	var d Date
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var parsed Date
	require.NoError(t, json.Unmarshal([]byte("null"), &parsed))
	assert.True(t, parsed.IsZero())
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("14/03/2025")
	assert.Error(t, err)
}
