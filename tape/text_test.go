package tape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseText_FlatKeyValue(t *testing.T) {
	tp, err := ParseText([]byte(`date=1444.11.11 player="BHA"`))
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 4)

	assert.Equal(t, KindUnquoted, tp.Tokens[0].Kind)
	assert.Equal(t, "date", string(tp.Tokens[0].Bytes))
	assert.Equal(t, KindUnquoted, tp.Tokens[1].Kind)
	assert.Equal(t, "1444.11.11", string(tp.Tokens[1].Bytes))
	assert.Equal(t, KindUnquoted, tp.Tokens[2].Kind)
	assert.Equal(t, "player", string(tp.Tokens[2].Bytes))
	assert.Equal(t, KindQuoted, tp.Tokens[3].Kind)
	assert.Equal(t, "BHA", string(tp.Tokens[3].Bytes))
}

func TestParseText_NoSpaceAroundEquals(t *testing.T) {
	tp, err := ParseText([]byte(`player="BHA"`))
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 2)
	assert.Equal(t, "player", string(tp.Tokens[0].Bytes))
	assert.Equal(t, KindQuoted, tp.Tokens[1].Kind)
	assert.Equal(t, "BHA", string(tp.Tokens[1].Bytes))
}

func TestParseText_Array(t *testing.T) {
	tp, err := ParseText([]byte(`core_provinces={ 1 2 3 }`))
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 6)

	assert.Equal(t, "core_provinces", string(tp.Tokens[0].Bytes))
	arr := tp.Tokens[1]
	assert.Equal(t, KindArray, arr.Kind)
	first, end := tp.Child(1)
	assert.Equal(t, 2, first)
	assert.Equal(t, 5, end)
	for i, want := range []int32{1, 2, 3} {
		assert.Equal(t, KindI32, tp.Tokens[first+i].Kind)
		assert.Equal(t, want, tp.Tokens[first+i].I32)
	}
	assert.Equal(t, KindEnd, tp.Tokens[5].Kind)
	assert.Equal(t, 1, tp.Tokens[5].OpenIdx)
}

func TestParseText_HiddenObject(t *testing.T) {
	// bare values, then a key=value pair: array-then-object transition.
	tp, err := ParseText([]byte(`history={ 1444.11.11 owner="BHA" }`))
	require.NoError(t, err)

	// tokens: [0]=history key, [1]=HiddenObject opener, [2]=date bare,
	// [3]=owner key, [4]="BHA" value, [5]=End
	require.Len(t, tp.Tokens, 6)
	assert.Equal(t, KindHiddenObject, tp.Tokens[1].Kind)
	assert.Equal(t, 1, tp.Tokens[1].PairStart)
	assert.Equal(t, KindUnquoted, tp.Tokens[2].Kind)
	assert.Equal(t, "1444.11.11", string(tp.Tokens[2].Bytes))
	assert.Equal(t, "owner", string(tp.Tokens[3].Bytes))
	assert.Equal(t, "BHA", string(tp.Tokens[4].Bytes))
}

func TestParseText_Rgb(t *testing.T) {
	tp, err := ParseText([]byte(`color = rgb { 10 20 30 }`))
	require.NoError(t, err)
	require.Len(t, tp.Tokens, 2)
	assert.Equal(t, KindRgb, tp.Tokens[1].Kind)
	assert.Equal(t, [3]byte{10, 20, 30}, tp.Tokens[1].Rgb)
}

func TestParseText_Unbalanced(t *testing.T) {
	_, err := ParseText([]byte(`a={ b=1 `))
	assert.Error(t, err)

	_, err = ParseText([]byte(`a=1 }`))
	assert.Error(t, err)
}

func TestParseText_IntegerWidths(t *testing.T) {
	tp, err := ParseText([]byte(`a=1 b=4294967295 c=18446744073709551615 d=-5`))
	require.NoError(t, err)

	assert.Equal(t, KindI32, tp.Tokens[1].Kind)
	assert.Equal(t, KindU32, tp.Tokens[3].Kind)
	assert.Equal(t, KindU64, tp.Tokens[5].Kind)
	assert.Equal(t, KindI32, tp.Tokens[7].Kind)
	assert.Equal(t, int32(-5), tp.Tokens[7].I32)
}

func TestParseText_YesNo(t *testing.T) {
	tp, err := ParseText([]byte(`is_ironman=yes human=no`))
	require.NoError(t, err)
	assert.True(t, tp.Tokens[1].Bool)
	assert.False(t, tp.Tokens[3].Bool)
}
