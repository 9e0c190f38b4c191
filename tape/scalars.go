package tape

import (
	"bytes"
	"math"
	"strconv"
)

// classifyWord turns a bare text-dialect word into its tape token: a
// boolean, an integer of the smallest fitting width, a one-dot decimal
// number, or (for anything else, including two-dot date literals like
// "1444.11.11") a verbatim unquoted string — the date and enum values are
// left as text for the deserializer/melter to interpret with field context.
func classifyWord(word []byte) Token {
	switch string(word) {
	case "yes":
		return Token{Kind: KindBool, Bool: true}
	case "no":
		return Token{Kind: KindBool, Bool: false}
	}

	if isNumericWord(word) {
		switch bytes.Count(word, []byte{'.'}) {
		case 0:
			return classifyInteger(word)
		case 1:
			if f, ok := parseFloatWord(word); ok {
				return Token{Kind: KindF64, F64: f}
			}
		}
	}

	return Token{Kind: KindUnquoted, Bytes: word}
}

func isNumericWord(word []byte) bool {
	if len(word) == 0 {
		return false
	}

	i := 0
	if word[0] == '-' || word[0] == '+' {
		i++
	}
	if i == len(word) {
		return false
	}

	sawDigit := false
	for ; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.':
		default:
			return false
		}
	}

	return sawDigit
}

func classifyInteger(word []byte) Token {
	s := string(word)

	if s[0] != '-' {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			switch {
			case v <= math.MaxInt32:
				return Token{Kind: KindI32, I32: int32(v)}
			case v <= math.MaxUint32:
				return Token{Kind: KindU32, U32: uint32(v)}
			default:
				return Token{Kind: KindU64, U64: v}
			}
		}
	} else if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		if v >= math.MinInt32 && v <= math.MaxInt32 {
			return Token{Kind: KindI32, I32: int32(v)}
		}
	}

	return Token{Kind: KindUnquoted, Bytes: word}
}

func parseFloatWord(word []byte) (float64, bool) {
	f, err := strconv.ParseFloat(string(word), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

func parseInt(word []byte) (int64, bool) {
	v, err := strconv.ParseInt(string(word), 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
