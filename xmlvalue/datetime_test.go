package xmlvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateRoundTrip(t *testing.T) {
	for _, in := range []string{"2024-02-29", "1999-12-31", "0001-01-01", "2024-02-29+05:30", "2024-02-29Z"} {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, in, d.String())
		})
	}
}

func TestDateRejectsInvalidLeapDay(t *testing.T) {
	_, err := ParseDate("2023-02-29")
	assert.Error(t, err)
}

func TestTimeCanonicalizesMidnight(t *testing.T) {
	tm, err := ParseTime("24:00:00")
	require.NoError(t, err)
	assert.Equal(t, "00:00:00", tm.String())
}

func TestDateTimeRollsForwardOnMidnight(t *testing.T) {
	dt, err := ParseDateTime("2024-01-01T24:00:00")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-02T00:00:00", dt.String())
}

func TestDateTimeEqualityMixedTimezone(t *testing.T) {
	withTZ, err := ParseDateTime("2024-01-01T00:00:00Z")
	require.NoError(t, err)
	withoutTZ, err := ParseDateTime("2024-01-01T00:00:00")
	require.NoError(t, err)
	assert.False(t, withTZ.Equal(withoutTZ))

	a, _ := ParseDateTime("2024-01-01T12:00:00+01:00")
	b, _ := ParseDateTime("2024-01-01T11:00:00Z")
	assert.True(t, a.Equal(b))
}

func TestDurationRoundTrip(t *testing.T) {
	for _, in := range []string{"P1Y2M3DT4H5M6S", "P0M", "-P1Y", "PT1.5S", "P1D"} {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDuration(in)
			require.NoError(t, err)
			d2, err := ParseDuration(d.String())
			require.NoError(t, err)
			assert.True(t, d.Equal(d2))
		})
	}
}

func TestDurationNegativeZeroCollapses(t *testing.T) {
	d, err := ParseDuration("-P0D")
	require.NoError(t, err)
	assert.False(t, d.Negative)
}

func TestYearMonthDurationRejectsDayTimeComponent(t *testing.T) {
	_, err := ParseYearMonthDuration("P1Y1D")
	assert.Error(t, err)
}

func TestDayTimeDurationRejectsYearMonthComponent(t *testing.T) {
	_, err := ParseDayTimeDuration("P1Y")
	assert.Error(t, err)
}

func TestDayTimeDurationRoundTrip(t *testing.T) {
	d, err := ParseDayTimeDuration("P1DT2H30M")
	require.NoError(t, err)
	d2, err := ParseDayTimeDuration(d.String())
	require.NoError(t, err)
	assert.True(t, d.Equal(d2))
}
