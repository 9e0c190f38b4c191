package tape

import (
	"encoding/binary"
	"math"

	"github.com/paradoxgg/eu4save/errs"
	"github.com/paradoxgg/eu4save/internal/cp1252"
)

// Control and scalar ids for the binary dialect (§4.3).
const (
	idOpenBrace  uint16 = 0x0003
	idCloseBrace uint16 = 0x0004
	idEquals     uint16 = 0x0001
	idI32        uint16 = 0x000C
	idF32        uint16 = 0x000D
	idBool       uint16 = 0x000E
	idQuoted     uint16 = 0x000F
	idU32        uint16 = 0x0014
	idUnquoted   uint16 = 0x0017
	idF64        uint16 = 0x0167
	idU64        uint16 = 0x0129
	idRgb        uint16 = 0x053F
)

// f64Scale is the Q49.15 fixed-point scale: 15 fractional bits.
const f64Scale = float64(1 << 15)

// ParseBinary scans the binary dialect described in §4.3 into a flat tape.
// It does not consult a resolver: unresolved token ids are tagged
// KindToken and resolved later by whichever component (melt, deser) has a
// resolver in hand.
func ParseBinary(data []byte) (*Tape, error) {
	s := &binScanner{data: data}
	b := NewBuilder()
	levels := []level{{}}

	for !s.eof() {
		id, err := s.readU16()
		if err != nil {
			return nil, err
		}

		switch id {
		case idCloseBrace:
			if len(levels) == 1 {
				return nil, unbalanced(s.pos - 2)
			}
			if err := b.Close(s.pos - 2); err != nil {
				return nil, err
			}
			levels = levels[:len(levels)-1]
			parent := &levels[len(levels)-1]
			keyed := parent.pendingKey
			parent.pendingKey = false
			b.Element(keyed)

		case idEquals:
			return nil, &errs.ParseError{Msg: "unexpected '=' token", Offset: s.pos - 2}

		case idOpenBrace:
			b.Open()
			levels = append(levels, level{})

		default:
			tok, err := s.readValue(id)
			if err != nil {
				return nil, err
			}
			b.Scalar(tok)

			cur := &levels[len(levels)-1]
			if cur.pendingKey {
				cur.pendingKey = false
				b.Element(true)

				continue
			}

			if s.peekEquals() {
				_, _ = s.readU16()
				cur.pendingKey = true
			} else {
				b.Element(false)
			}
		}
	}

	if len(levels) != 1 || levels[0].pendingKey {
		return nil, unbalanced(s.pos)
	}

	return b.Finish(s.pos)
}

type binScanner struct {
	data []byte
	pos  int
}

func (s *binScanner) eof() bool { return s.pos >= len(s.data) }

func (s *binScanner) readU16() (uint16, error) {
	if s.pos+2 > len(s.data) {
		return 0, &errs.ParseError{Msg: "truncated token id", Offset: s.pos}
	}
	v := binary.LittleEndian.Uint16(s.data[s.pos:])
	s.pos += 2

	return v, nil
}

func (s *binScanner) peekEquals() bool {
	return s.pos+2 <= len(s.data) && binary.LittleEndian.Uint16(s.data[s.pos:]) == idEquals
}

func (s *binScanner) readBytes(n int) ([]byte, error) {
	if s.pos+n > len(s.data) {
		return nil, &errs.ParseError{Msg: "truncated scalar payload", Offset: s.pos}
	}
	b := s.data[s.pos : s.pos+n]
	s.pos += n

	return b, nil
}

func (s *binScanner) readValue(id uint16) (Token, error) {
	switch id {
	case idI32:
		b, err := s.readBytes(4)
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: KindI32, I32: int32(binary.LittleEndian.Uint32(b))}, nil

	case idU32:
		b, err := s.readBytes(4)
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: KindU32, U32: binary.LittleEndian.Uint32(b)}, nil

	case idU64:
		b, err := s.readBytes(8)
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: KindU64, U64: binary.LittleEndian.Uint64(b)}, nil

	case idBool:
		b, err := s.readBytes(1)
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: KindBool, Bool: b[0] != 0}, nil

	case idQuoted:
		raw, err := s.readLenPrefixed()
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: KindQuoted, Bytes: []byte(cp1252.Decode(raw))}, nil

	case idUnquoted:
		raw, err := s.readLenPrefixed()
		if err != nil {
			return Token{}, err
		}

		return Token{Kind: KindUnquoted, Bytes: []byte(cp1252.Decode(raw))}, nil

	case idF32:
		b, err := s.readBytes(4)
		if err != nil {
			return Token{}, err
		}
		raw := int32(binary.LittleEndian.Uint32(b))

		return Token{Kind: KindF32, F32: float32(float64(raw) / 1000.0)}, nil

	case idF64:
		b, err := s.readBytes(8)
		if err != nil {
			return Token{}, err
		}
		raw := int64(binary.LittleEndian.Uint64(b))
		v := float64(raw) / f64Scale
		v = math.Round(v*1e5) / 1e5

		return Token{Kind: KindF64, F64: v}, nil

	case idRgb:
		return s.readRgb()

	default:
		return Token{Kind: KindToken, ID: id}, nil
	}
}

func (s *binScanner) readLenPrefixed() ([]byte, error) {
	lenBytes, err := s.readBytes(2)
	if err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint16(lenBytes))

	return s.readBytes(n)
}

// readRgb parses the rgb scalar's `{ c1 c2 c3 [c4] }` body. Each component
// is a raw (untagged) little-endian u16 masked to its low byte on store
// (§4.5 "Bytes-into-u8-triple"); the optional fourth component (alpha) is
// read and discarded.
func (s *binScanner) readRgb() (Token, error) {
	open, err := s.readU16()
	if err != nil {
		return Token{}, err
	}
	if open != idOpenBrace {
		return Token{}, &errs.ParseError{Msg: "rgb value missing opening brace", Offset: s.pos - 2}
	}

	var comps []byte
	for {
		v, err := s.readU16()
		if err != nil {
			return Token{}, err
		}
		if v == idCloseBrace {
			break
		}
		if len(comps) < 4 {
			comps = append(comps, byte(v))
		}
	}

	if len(comps) < 3 {
		return Token{}, &errs.ParseError{Msg: "rgb value needs at least 3 components", Offset: s.pos}
	}

	return Token{Kind: KindRgb, Rgb: [3]byte{comps[0], comps[1], comps[2]}}, nil
}
