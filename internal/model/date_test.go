package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neophilus/manifester/internal/runerr"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, err := ParseDate("2018/04")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2018, Month: 4}, d)
	assert.Equal(t, "Apr", d.Month.String())

	d, err = ParseDate("2016/12")
	require.NoError(t, err)
	assert.Equal(t, Month(12), d.Month)
}

func TestParseDate_Malformed(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"201804", "2018/13", "2018/00", "2018/4", "2018/", "abcd/04", "2018/ab", "+2018/04", "-201/04", "218/04", "02018/04", " 2018/04"} {
		_, err := ParseDate(in)
		require.Error(t, err, "input=%s", in)
		assert.True(t, runerr.Is(err, runerr.IdentifierMismatch), "input=%s", in)
	}
}

func TestMonthNames(t *testing.T) {
	t.Parallel()

	names := MonthNames()
	require.Len(t, names, 12)
	assert.Equal(t, "Jan", names[0])
	assert.Equal(t, "Dec", names[11])
	assert.Equal(t, "Month(13)", Month(13).String())
}
