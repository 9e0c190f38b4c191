package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPackedInt32_WorkedExample(t *testing.T) {
	d, err := FromPackedInt32(59611248)
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 1804, Month: 12, Day: 9}, d)
}

func TestToPackedInt32_RoundTrips(t *testing.T) {
	d := Date{Year: 1804, Month: 12, Day: 9}
	raw := ToPackedInt32(d)
	assert.Equal(t, int32(59611248), raw)

	back, err := FromPackedInt32(raw)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestFromBinaryHeuristic(t *testing.T) {
	d, ok := FromBinaryHeuristic(59611248)
	assert.True(t, ok)
	assert.Equal(t, Date{Year: 1804, Month: 12, Day: 9}, d)

	// A small integer decodes to a year far before 1, so the heuristic
	// must reject it.
	_, ok = FromBinaryHeuristic(1)
	assert.False(t, ok)

	_, ok = FromBinaryHeuristic(0)
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1444.11.11")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 1444, Month: 11, Day: 11}, d)
	assert.Equal(t, "1444.11.11", d.String())

	_, err = ParseDate("1444.13.1")
	assert.Error(t, err)

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDateCompareAndBefore(t *testing.T) {
	a := Date{Year: 1444, Month: 11, Day: 11}
	b := Date{Year: 1444, Month: 11, Day: 12}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestAddDays(t *testing.T) {
	d := Date{Year: 1444, Month: 12, Day: 31}
	next := d.AddDays(1)
	assert.Equal(t, Date{Year: 1445, Month: 1, Day: 1}, next)

	prev := next.AddDays(-1)
	assert.Equal(t, d, prev)
}
