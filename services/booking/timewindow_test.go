package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		input   string
		minutes int
		ok      bool
	}{
		{"0930", 570, true},
		{"09:30", 570, true},
		{"0000", 0, true},
		{"00:00", 0, true},
		{"2359", 1439, true},
		{"2500", 0, false},
		{"0960", 0, false},
		{"9:00", 0, false},
		{"930", 0, false},
		{"09300", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
		{"09.30", 0, false},
	}
	for _, tc := range cases {
		minutes, err := ParseTimeOfDay(tc.input)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidTimeFormat, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		assert.Equal(t, tc.minutes, minutes, "input %q", tc.input)
	}
}

func TestParseTimeOfDayEquivalentForms(t *testing.T) {
	compact, err := ParseTimeOfDay("0900")
	require.NoError(t, err)
	colon, err := ParseTimeOfDay("09:00")
	require.NoError(t, err)
	assert.Equal(t, compact, colon)
}

func TestValidateOrder(t *testing.T) {
	assert.NoError(t, ValidateOrder(540, 600))
	assert.ErrorIs(t, ValidateOrder(600, 600), ErrEndNotAfterStart)
	assert.ErrorIs(t, ValidateOrder(600, 540), ErrEndNotAfterStart)
}

func TestFormatTimeOfDay(t *testing.T) {
	assert.Equal(t, "09:30", FormatTimeOfDay(570))
	assert.Equal(t, "00:00", FormatTimeOfDay(0))
	assert.Equal(t, "23:59", FormatTimeOfDay(1439))
}
