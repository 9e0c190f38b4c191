package melt

import (
	"strings"
	"testing"

	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/resolver"
	"github.com/paradoxgg/eu4save/tape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, entries string) *resolver.Resolver {
	t.Helper()
	r, err := resolver.Load(strings.NewReader(entries))
	require.NoError(t, err)

	return r
}

// TestMelt_ScenarioC mirrors the worked example: date/is_ironman/player
// resolved by token id, is_ironman filtered, date decoded via the known
// "date" key (not the heuristic).
func TestMelt_ScenarioC(t *testing.T) {
	data := []byte{
		0x4D, 0x28, 0x01, 0x00, 0x0C, 0x00, 0x70, 0x98, 0x8D, 0x03,
		0x89, 0x35, 0x01, 0x00, 0x0E, 0x00, 0x01,
		0x38, 0x2A, 0x01, 0x00, 0x0F, 0x00, 0x03, 0x00, 0x42, 0x48, 0x41,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	r := newTestResolver(t, "0x284D date\n0x3589 is_ironman\n0x2A38 player\n")
	m, err := New(WithResolver(r), WithPolicy(format.PolicyError))
	require.NoError(t, err)

	out, err := m.Melt(tp, "gamestate")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\ndate=1804.12.9\nplayer=\"BHA\"\n", string(out))
}

func TestMelt_UnknownTokenIgnorePolicy(t *testing.T) {
	data := []byte{
		0xFF, 0xFF, 0x01, 0x00,
		0x0C, 0x00, 0x01, 0x00, 0x00, 0x00,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	m, err := New(WithPolicy(format.PolicyIgnore))
	require.NoError(t, err)

	out, err := m.Melt(tp, "")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\n", string(out))
	assert.NotContains(t, string(out), "__unknown_")
}

func TestMelt_UnknownTokenErrorPolicy(t *testing.T) {
	data := []byte{
		0xFF, 0xFF, 0x01, 0x00,
		0x0C, 0x00, 0x01, 0x00, 0x00, 0x00,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	m, err := New(WithPolicy(format.PolicyError))
	require.NoError(t, err)

	_, err = m.Melt(tp, "")
	assert.Error(t, err)
}

func TestMelt_UnknownTokenDefaultPolicy(t *testing.T) {
	data := []byte{
		0xFF, 0xFF, 0x01, 0x00,
		0x0C, 0x00, 0x01, 0x00, 0x00, 0x00,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	m, err := New(WithPolicy(format.PolicyDefault))
	require.NoError(t, err)

	out, err := m.Melt(tp, "")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\n__unknown_0xFFFF=1\n", string(out))
}

// TestMelt_ScenarioE: top-level flags={ schools_initiated="..." } where the
// inner value is a quoted date-looking string; it must stay quoted, never
// run through the date heuristic.
func TestMelt_ScenarioE(t *testing.T) {
	data := []byte{
		0x01, 0x10, 0x03, 0x00, // flags = {
		0x02, 0x10, 0x01, 0x00, // schools_initiated =
		0x0F, 0x00, 0x0A, 0x00, '1', '4', '4', '4', '.', '1', '1', '.', '1', '1',
		0x04, 0x00, // }
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	r := newTestResolver(t, "0x1001 flags\n0x1002 schools_initiated\n")
	m, err := New(WithResolver(r), WithPolicy(format.PolicyError))
	require.NoError(t, err)

	out, err := m.Melt(tp, "gamestate")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\nflags={\n schools_initiated=\"1444.11.11\"\n}\n", string(out))
}

func TestMelt_ArrayInline(t *testing.T) {
	r := newTestResolver(t, "0x2001 core_provinces\n")
	data := []byte{
		0x01, 0x20, 0x03, 0x00,
		0x0C, 0x00, 0x01, 0x00, 0x00, 0x00,
		0x0C, 0x00, 0x02, 0x00, 0x00, 0x00,
		0x0C, 0x00, 0x03, 0x00, 0x00, 0x00,
		0x04, 0x00,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	m, err := New(WithResolver(r))
	require.NoError(t, err)

	out, err := m.Melt(tp, "")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\ncore_provinces={1 2 3 }\n", string(out))
}

func TestMelt_Rgb(t *testing.T) {
	r := newTestResolver(t, "0x3001 color\n")
	data := []byte{
		0x01, 0x30, 0x3F, 0x05,
		0x03, 0x00, 10, 0, 20, 0, 30, 0, 0x04, 0x00,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)

	m, err := New(WithResolver(r))
	require.NoError(t, err)

	out, err := m.Melt(tp, "")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\ncolor=rgb { 10 20 30 }\n", string(out))
}

func TestMelt_ChecksumExemptOnlyInAI(t *testing.T) {
	r := newTestResolver(t, "0x4001 checksum\n")
	data := []byte{
		0x01, 0x40, 0x01, 0x00,
		0x0F, 0x00, 0x04, 0x00, 'a', 'b', 'c', 'd',
	}

	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)
	m, err := New(WithResolver(r))
	require.NoError(t, err)

	out, err := m.Melt(tp, "gamestate")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\n", string(out))

	out, err = m.Melt(tp, "ai")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\nchecksum=\"abcd\"\n", string(out))
}

func TestMelt_RawIntegerKeyDisablesHeuristic(t *testing.T) {
	r := newTestResolver(t, "0x5001 random\n")
	// i32 payload that would otherwise decode as a plausible date.
	data := []byte{
		0x01, 0x50, 0x01, 0x00,
		0x0C, 0x00, 0x70, 0x98, 0x8D, 0x03,
	}
	tp, err := tape.ParseBinary(data)
	require.NoError(t, err)
	m, err := New(WithResolver(r))
	require.NoError(t, err)

	out, err := m.Melt(tp, "")
	require.NoError(t, err)
	assert.Equal(t, "EU4txt\nrandom=59611248\n", string(out))
}
