package melt

import (
	"testing"

	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeltCompressed_RoundTrips(t *testing.T) {
	tp, err := tape.ParseText([]byte("date=\"1444.11.11\"\nplayer=\"SWE\"\n"))
	require.NoError(t, err)

	m, err := New(WithPolicy(format.PolicyDefault))
	require.NoError(t, err)

	raw, err := m.Melt(tp, "gamestate")
	require.NoError(t, err)

	compressed, err := m.MeltCompressed(tp, "gamestate")
	require.NoError(t, err)
	assert.NotEqual(t, raw, compressed)

	decompressed, err := DecompressMelted(compressed)
	require.NoError(t, err)
	assert.Equal(t, raw, decompressed)
}
