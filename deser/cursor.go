package deser

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paradoxgg/eu4save/errs"
	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

// cursor pairs a Deserializer's configuration with the tape it is
// currently walking. Every deserialize entry point builds one and threads
// it through the recursive-descent helpers below.
type cursor struct {
	t *tape.Tape
	d *Deserializer
}

func (d *Deserializer) cursor(t *tape.Tape) *cursor {
	return &cursor{t: t, d: d}
}

// fieldName resolves tok (a key-position token) to its textual field name.
// skip reports an unresolved token id under PolicyIgnore: the caller must
// skip this key and its entire value.
func (c *cursor) fieldName(tok tape.Token) (name string, skip bool, err error) {
	switch tok.Kind {
	case tape.KindToken:
		return c.resolveToken(tok.ID)
	case tape.KindQuoted, tape.KindUnquoted:
		return string(tok.Bytes), false, nil
	case tape.KindI32:
		return strconv.FormatInt(int64(tok.I32), 10), false, nil
	case tape.KindU32:
		return strconv.FormatUint(uint64(tok.U32), 10), false, nil
	case tape.KindU64:
		return strconv.FormatUint(tok.U64, 10), false, nil
	case tape.KindBool:
		return boolText(tok.Bool), false, nil
	default:
		return "", false, &errs.ParseError{Msg: fmt.Sprintf("unsupported key kind %s", tok.Kind)}
	}
}

// textValue renders any scalar token as text, for fields whose value is
// stashed verbatim (the province history "other" map, event fallbacks).
func (c *cursor) textValue(tok tape.Token) (text string, skip bool, err error) {
	switch tok.Kind {
	case tape.KindToken:
		return c.resolveToken(tok.ID)
	case tape.KindBool:
		return boolText(tok.Bool), false, nil
	case tape.KindI32:
		return strconv.FormatInt(int64(tok.I32), 10), false, nil
	case tape.KindU32:
		return strconv.FormatUint(uint64(tok.U32), 10), false, nil
	case tape.KindU64:
		return strconv.FormatUint(tok.U64, 10), false, nil
	case tape.KindF32:
		return strconv.FormatFloat(float64(tok.F32), 'f', 3, 32), false, nil
	case tape.KindF64:
		return strconv.FormatFloat(tok.F64, 'f', 5, 64), false, nil
	case tape.KindQuoted, tape.KindUnquoted:
		return string(tok.Bytes), false, nil
	case tape.KindRgb:
		return fmt.Sprintf("%d %d %d", tok.Rgb[0], tok.Rgb[1], tok.Rgb[2]), false, nil
	default:
		return "", false, &errs.ParseError{Msg: fmt.Sprintf("unsupported value kind %s", tok.Kind)}
	}
}

func (c *cursor) resolveToken(id uint16) (string, bool, error) {
	if name, ok := c.d.cfg.resolver.Lookup(id); ok {
		return name, false, nil
	}

	switch c.d.cfg.policy {
	case format.PolicyError:
		return "", false, &errs.UnknownTokenError{ID: id}
	case format.PolicyIgnore:
		return "", true, nil
	default:
		return fmt.Sprintf("__unknown_0x%04X", id), false, nil
	}
}

func boolText(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func asFloat(tok tape.Token) (float64, bool) {
	switch tok.Kind {
	case tape.KindF32:
		return float64(tok.F32), true
	case tape.KindF64:
		return tok.F64, true
	case tape.KindI32:
		return float64(tok.I32), true
	case tape.KindU32:
		return float64(tok.U32), true
	case tape.KindU64:
		return float64(tok.U64), true
	default:
		return 0, false
	}
}

func asInt(tok tape.Token) (int64, bool) {
	switch tok.Kind {
	case tape.KindI32:
		return int64(tok.I32), true
	case tape.KindU32:
		return int64(tok.U32), true
	case tape.KindU64:
		return int64(tok.U64), true
	default:
		return 0, false
	}
}

func asTag(tok tape.Token) (model.CountryTag, bool) {
	var s string
	switch tok.Kind {
	case tape.KindQuoted, tape.KindUnquoted:
		s = string(tok.Bytes)
	default:
		return model.CountryTag{}, false
	}

	tag, err := model.ParseCountryTag(s)
	if err != nil {
		return model.CountryTag{}, false
	}

	return tag, true
}

// tryDateKey attempts to read tok (a key-position token) as a date, the
// fallback interpretation for any key a history block doesn't recognize by
// name (§4.5 "Context-sensitive history blocks").
func tryDateKey(tok tape.Token) (model.Date, bool) {
	switch tok.Kind {
	case tape.KindQuoted, tape.KindUnquoted:
		d, err := model.ParseDate(string(tok.Bytes))
		return d, err == nil
	case tape.KindI32:
		return model.FromBinaryHeuristic(tok.I32)
	default:
		return model.Date{}, false
	}
}

// forEachPair walks the key/value pairs of the object/hidden-object opened
// at openIdx (§4.5 "Map vs Sequence dispatch"). A HiddenObject's leading
// bare (unkeyed) children are skipped: the deserializer treats every
// object-shaped scope purely as a map, the melter is the one component
// that must reproduce the bare prefix verbatim.
func (c *cursor) forEachPair(openIdx int, fn func(keyTok tape.Token, valueIdx int) error) error {
	opener := c.t.Tokens[openIdx]
	first, end := c.t.Child(openIdx)

	pos := first
	consumed := 0
	for pos < end {
		if opener.Kind == tape.KindHiddenObject && consumed < opener.PairStart {
			pos = c.t.Skip(pos)
			consumed++

			continue
		}

		keyTok := c.t.Tokens[pos]
		valueIdx := pos + 1
		if err := fn(keyTok, valueIdx); err != nil {
			return err
		}
		pos = c.t.Skip(valueIdx)
		consumed += 2
	}

	return nil
}

// forEachTopLevelPair walks the implicit top-level object's key/value
// pairs. Unlike a nested Object, the top level has no opener token — its
// extent is simply the whole tape (§3 "the stream is an implicit object").
func (c *cursor) forEachTopLevelPair(fn func(keyTok tape.Token, valueIdx int) error) error {
	pos := 0
	end := len(c.t.Tokens)

	for pos < end {
		keyTok := c.t.Tokens[pos]
		valueIdx := pos + 1
		if valueIdx >= end {
			return &errs.ParseError{Msg: "dangling top-level key with no value", Offset: pos}
		}

		if err := fn(keyTok, valueIdx); err != nil {
			return err
		}
		pos = c.t.Skip(valueIdx)
	}

	return nil
}

// forEachElement walks the bare children of the array opened at openIdx.
func (c *cursor) forEachElement(openIdx int, fn func(valueIdx int) error) error {
	first, end := c.t.Child(openIdx)

	pos := first
	for pos < end {
		if err := fn(pos); err != nil {
			return err
		}
		pos = c.t.Skip(pos)
	}

	return nil
}

// alternatingPairs reads the bare array opened at openIdx two elements at a
// time, as used by players_countries ("name, tag, name, tag, ...") (§4.5
// "Alternating key/value maps").
func (c *cursor) alternatingPairs(openIdx int, fn func(a, b tape.Token) error) error {
	first, end := c.t.Child(openIdx)

	pos := first
	for pos < end {
		aTok := c.t.Tokens[pos]
		nextPos := c.t.Skip(pos)
		if nextPos >= end {
			return &errs.ParseError{Msg: "alternating list has an odd element count", Offset: pos}
		}
		bTok := c.t.Tokens[nextPos]

		if err := fn(aTok, bTok); err != nil {
			return err
		}
		pos = c.t.Skip(nextPos)
	}

	return nil
}

// yesValuedSet reads the object opened at openIdx into the set of keys
// whose value is the literal boolean true ("yes" in the text dialect),
// e.g. a province's building list (§4.5 "yes-valued sets").
func (c *cursor) yesValuedSet(openIdx int) (map[string]bool, error) {
	out := make(map[string]bool)

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		val := c.t.Tokens[valueIdx]
		if val.Kind == tape.KindBool && val.Bool {
			out[name] = true
		}

		return nil
	})

	return out, err
}

// fixedFloatArray reads up to n elements from the array opened at openIdx
// into a length-n slice, draining (ignoring) any elements beyond n so the
// cursor stays in sync with the caller's schema (§4.5 "Numeric arrays with
// length guarantees").
func (c *cursor) fixedFloatArray(openIdx int, n int) ([]float64, error) {
	out := make([]float64, n)
	i := 0

	err := c.forEachElement(openIdx, func(valueIdx int) error {
		if i < n {
			if v, ok := asFloat(c.t.Tokens[valueIdx]); ok {
				out[i] = v
			}
		}
		i++

		return nil
	})

	return out, err
}

// lossMax is MAX in the loss-encoding wrap rule: i32::MAX / 1000.
const lossMax = math.MaxInt32 / 1000

// decodeLoss applies the signed-value wrap rule used by loss tables (§4.5
// "Loss-encoded numbers").
func decodeLoss(x int32) int64 {
	switch {
	case x >= 0:
		return int64(x)
	case x > -lossMax:
		return int64(x) + 2*lossMax
	default:
		v := int64(x)
		if v < 0 {
			v = -v
		}

		return v
	}
}

// walkHistory iterates the pairs of a history object, dispatching
// recognized field names through known, then trying every other key as a
// date through onDate, and finally handing anything left to onUnrecognized
// (§4.5 "Context-sensitive history blocks").
func (c *cursor) walkHistory(
	openIdx int,
	known func(name string, valueIdx int) (handled bool, err error),
	onDate func(d model.Date, valueIdx int) error,
	onUnrecognized func(name string, valueIdx int) error,
) error {
	return c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		if known != nil {
			handled, err := known(name, valueIdx)
			if err != nil {
				return err
			}
			if handled {
				return nil
			}
		}

		if d, ok := tryDateKey(keyTok); ok {
			return onDate(d, valueIdx)
		}

		if onUnrecognized != nil {
			return onUnrecognized(name, valueIdx)
		}

		return nil
	})
}
