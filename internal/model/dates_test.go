package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01"`), &d))
	assert.Equal(t, NewDate(2024, time.May, 1), d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-01"`, string(out))

	// A full timestamp is truncated to its day.
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-01T23:10:00Z"`), &d))
	assert.Equal(t, "2024-05-01", d.String())

	assert.Error(t, json.Unmarshal([]byte(`"01/05/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240501`), &d))
}

func TestDateTime_JSONAcceptsCommonLayouts(t *testing.T) {
	want := NewDateTime(time.Date(2024, time.June, 1, 22, 0, 0, 0, time.UTC))
	for _, in := range []string{
		`"2024-06-01T22:00:00Z"`,
		`"2024-06-01T23:00:00+01:00"`,
		`"2024-06-01T22:00:00"`,
		`"2024-06-01 22:00:00"`,
	} {
		var d DateTime
		require.NoError(t, json.Unmarshal([]byte(in), &d), in)
		assert.True(t, want.Equal(d.Time), in)
	}

	out, err := json.Marshal(want)
	require.NoError(t, err)
	assert.Equal(t, `"2024-06-01T22:00:00Z"`, string(out))
}

func TestDates_ScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", v)

	require.NoError(t, d.Scan([]byte("2023-12-31")))
	assert.Equal(t, NewDate(2023, time.December, 31), d)
	assert.Error(t, d.Scan(42))

	var dt DateTime
	require.NoError(t, dt.Scan("2024-06-01 22:00:00"))
	v, err = dt.Value()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01 22:00:00", v)
}

func TestNullLeavesDateUntouched(t *testing.T) {
	d := NewDate(2024, time.May, 1)
	require.NoError(t, d.UnmarshalJSON([]byte("null")))
	assert.Equal(t, NewDate(2024, time.May, 1), d)
}
