package eu4save

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_TextSave(t *testing.T) {
	data := []byte("EU4txt\nhello=world\n")

	s, err := Open(data)
	require.NoError(t, err)

	t.Run("encoding", func(t *testing.T) {
		assert.Equal(t, "Text", s.Encoding.String())
	})

	t.Run("melt round trips plain text", func(t *testing.T) {
		out, err := s.Melt("")
		require.NoError(t, err)
		assert.Contains(t, string(out), "hello=world")
	})
}

func TestOpen_UnrecognizedHeader(t *testing.T) {
	_, err := Open([]byte("not a save"))
	assert.Error(t, err)
}

func TestSave_MetaAndGameState(t *testing.T) {
	data := []byte(`EU4txt
date="1444.11.11"
player="SWE"
countries={
	SWE={
		government="monarchy"
	}
}
provinces={
	1={
		owner="SWE"
	}
}
`)

	s, err := Open(data)
	require.NoError(t, err)

	meta, err := s.Meta()
	require.NoError(t, err)
	assert.Equal(t, "SWE", meta.Player.String())

	gs, err := s.GameState()
	require.NoError(t, err)
	require.Len(t, gs.Countries, 1)
	assert.Equal(t, "monarchy", gs.Countries[0].Government)
}
