package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDate(t *testing.T) {
	d := time.Date(2006, time.June, 14, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "20060614", FormatDate(d))
	assert.Equal(t, "20060614235900", FormatTimestamp(d))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("20060614")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2006, time.June, 14, 0, 0, 0, 0, time.UTC), got)

	for _, bad := range []string{"2006-06-14", "20061314", "", " 20060614"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := ParseTimestamp("20060614153000")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2006, time.June, 14, 15, 30, 0, 0, time.UTC), got)

	_, err = ParseTimestamp("20060614")
	assert.Error(t, err)
}

func TestParseUserDate(t *testing.T) {
	want := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2024-03-01", "20240301", " 2024-03-01 "} {
		got, err := ParseUserDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseUserDate("01.03.2024")
	assert.Error(t, err)
}

func TestFieldSuffixes(t *testing.T) {
	assert.True(t, IsDateField("invoicedate"))
	assert.True(t, IsDateField("date"))
	assert.False(t, IsDateField("dateline"))
	assert.True(t, IsTimeField("logintime"))
	assert.False(t, IsTimeField("timeout"))
}
