package query

import (
	"testing"

	"github.com/paradoxgg/eu4save/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCache_PutGetRoundTrips(t *testing.T) {
	swe, err := model.ParseCountryTag("SWE")
	require.NoError(t, err)

	series := []LedgerEntry{
		{Tag: swe, Year: 1444, Value: 12.5},
		{Tag: swe, Year: 1445, Value: 13.0},
	}

	c := NewLedgerCache()

	_, ok, err := c.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put("checksum-a", series))

	got, ok, err := c.Get("checksum-a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, series, got)
}
