package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseBinary_ScenarioC mirrors the worked example: date(i32)=1804.12.09
// packed form, is_ironman(bool)=yes, player(quoted)="BHA", addressed by raw
// 16-bit token ids rather than names.
func TestParseBinary_ScenarioC(t *testing.T) {
	data := []byte{
		0x4D, 0x28, 0x01, 0x00, 0x0C, 0x00, 0x70, 0x98, 0x8D, 0x03,
		0x89, 0x35, 0x01, 0x00, 0x0E, 0x00, 0x01,
		0x38, 0x2A, 0x01, 0x00, 0x0F, 0x00, 0x03, 0x00, 0x42, 0x48, 0x41,
	}

	tp, err := ParseBinary(data)
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 6)

	assert.Equal(t, KindToken, tp.Tokens[0].Kind)
	assert.Equal(t, uint16(0x284D), tp.Tokens[0].ID)
	assert.Equal(t, KindI32, tp.Tokens[1].Kind)

	assert.Equal(t, KindToken, tp.Tokens[2].Kind)
	assert.Equal(t, uint16(0x3589), tp.Tokens[2].ID)
	assert.Equal(t, KindBool, tp.Tokens[3].Kind)
	assert.True(t, tp.Tokens[3].Bool)

	assert.Equal(t, KindToken, tp.Tokens[4].Kind)
	assert.Equal(t, uint16(0x2A38), tp.Tokens[4].ID)
	assert.Equal(t, KindQuoted, tp.Tokens[5].Kind)
	assert.Equal(t, "BHA", string(tp.Tokens[5].Bytes))
}

// TestParseBinary_F64FixedPoint covers the Q49.15 decode worked example:
// raw bytes decode to 2.49860.
func TestParseBinary_F64FixedPoint(t *testing.T) {
	data := []byte{
		0x38, 0x2A, 0x01, 0x00, // token "player" id + '='
		0x67, 0x01, // idF64
		0xD2, 0x3F, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00,
	}

	tp, err := ParseBinary(data)
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 2)
	assert.Equal(t, KindF64, tp.Tokens[1].Kind)
	assert.InDelta(t, 2.49860, tp.Tokens[1].F64, 1e-9)
}

func TestParseBinary_UnknownTokenAsKey(t *testing.T) {
	data := []byte{
		0xFF, 0xFF, 0x01, 0x00, // unknown token id, '='
		0x0C, 0x00, 0x01, 0x00, 0x00, 0x00, // i32 = 1
	}
	tp, err := ParseBinary(data)
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 2)
	assert.Equal(t, KindToken, tp.Tokens[0].Kind)
	assert.Equal(t, uint16(0xFFFF), tp.Tokens[0].ID)
}

func TestParseBinary_NestedObject(t *testing.T) {
	data := []byte{
		0x01, 0x10, // key token
		0x03, 0x00, // '{'
		0x02, 0x10, // inner key token
		0x01, 0x00, // '='
		0x0C, 0x00, 0x2A, 0x00, 0x00, 0x00, // i32 = 42
		0x04, 0x00, // '}'
	}
	tp, err := ParseBinary(data)
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 5)
	assert.Equal(t, KindObject, tp.Tokens[1].Kind)
	assert.Equal(t, KindEnd, tp.Tokens[4].Kind)
	assert.Equal(t, 1, tp.Tokens[4].OpenIdx)
}

func TestParseBinary_Rgb(t *testing.T) {
	data := []byte{
		0x3F, 0x05, // rgb scalar id
		0x03, 0x00, // '{'
		10, 0, 20, 0, 30, 0,
		0x04, 0x00, // '}'
	}
	tp, err := ParseBinary(data)
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 1)
	assert.Equal(t, KindRgb, tp.Tokens[0].Kind)
	assert.Equal(t, [3]byte{10, 20, 30}, tp.Tokens[0].Rgb)
}

func TestParseBinary_Unbalanced(t *testing.T) {
	_, err := ParseBinary([]byte{0x03, 0x00})
	assert.Error(t, err)

	_, err = ParseBinary([]byte{0x04, 0x00})
	assert.Error(t, err)
}
