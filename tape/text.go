package tape

import (
	"github.com/paradoxgg/eu4save/errs"
)

// level tracks, for the scope currently being filled at this depth,
// whether the previously-read term was a key awaiting its value.
type level struct {
	pendingKey bool
}

// ParseText scans the plaintext dialect described in §4.3 into a flat tape.
func ParseText(data []byte) (*Tape, error) {
	s := &textScanner{data: data}
	b := NewBuilder()
	levels := []level{{}}

	for {
		s.skipSpace()
		if s.eof() {
			break
		}

		c := s.data[s.pos]
		switch {
		case c == '}':
			s.pos++
			if len(levels) == 1 {
				return nil, unbalanced(s.pos - 1)
			}
			if err := b.Close(s.pos - 1); err != nil {
				return nil, err
			}
			levels = levels[:len(levels)-1]
			parent := &levels[len(levels)-1]
			keyed := parent.pendingKey
			parent.pendingKey = false
			b.Element(keyed)

		case c == '{':
			s.pos++
			b.Open()
			levels = append(levels, level{})

		case c == '"':
			tok, err := s.readQuoted()
			if err != nil {
				return nil, err
			}
			b.Scalar(tok)
			completeTerm(b, &levels[len(levels)-1])

		default:
			word, wordStart, err := s.readWord()
			if err != nil {
				return nil, err
			}

			if string(word) == "rgb" && s.peekRgbOpen() {
				tok, err := s.readRgbBody()
				if err != nil {
					return nil, err
				}
				b.Scalar(tok)
				completeTerm(b, &levels[len(levels)-1])
				continue
			}

			tok := classifyWord(word)
			_ = wordStart
			b.Scalar(tok)

			cur := &levels[len(levels)-1]
			if cur.pendingKey {
				cur.pendingKey = false
				b.Element(true)
				continue
			}

			s.skipSpace()
			if !s.eof() && s.data[s.pos] == '=' {
				s.pos++
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

// completeTerm is used for terms (quoted strings, rgb values) that can
// never themselves be a dangling key: it resolves whether the term was the
// value half of a pending key, or a bare value, and advances bookkeeping.
//
// Unlike bare words, quoted strings and rgb values are never followed by
// '=' in practice (a quoted key is extremely rare and not attempted here),
// so this helper does not re-check for a trailing '='.
func completeTerm(b *Builder, cur *level) {
	if cur.pendingKey {
		cur.pendingKey = false
		b.Element(true)

		return
	}

	b.Element(false)
}

type textScanner struct {
	data []byte
	pos  int
}

func (s *textScanner) eof() bool { return s.pos >= len(s.data) }

func (s *textScanner) skipSpace() {
	for !s.eof() {
		switch s.data[s.pos] {
		case ' ', '\t', '\r', '\n':
			s.pos++
		default:
			return
		}
	}
}

func isWordByte(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '{', '}', '=', '"':
		return false
	default:
		return true
	}
}

func (s *textScanner) readWord() ([]byte, int, error) {
	start := s.pos
	for !s.eof() && isWordByte(s.data[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return nil, start, &errs.ParseError{Msg: "expected value", Offset: start}
	}

	return s.data[start:s.pos], start, nil
}

func (s *textScanner) readQuoted() (Token, error) {
	start := s.pos
	s.pos++ // opening quote
	contentStart := s.pos
	for !s.eof() && s.data[s.pos] != '"' {
		s.pos++
	}
	if s.eof() {
		return Token{}, &errs.ParseError{Msg: "unterminated quoted string", Offset: start}
	}

	content := s.data[contentStart:s.pos]
	s.pos++ // closing quote

	if n := len(content); n > 0 && content[n-1] == '\n' {
		content = content[:n-1]
		if n := len(content); n > 0 && content[n-1] == '\r' {
			content = content[:n-1]
		}
	}

	return Token{Kind: KindQuoted, Bytes: content}, nil
}

// peekRgbOpen reports whether, ignoring whitespace, the next byte is '{'.
// It does not consume anything.
func (s *textScanner) peekRgbOpen() bool {
	p := s.pos
	for p < len(s.data) {
		switch s.data[p] {
		case ' ', '\t', '\r', '\n':
			p++
			continue
		}
		break
	}

	return p < len(s.data) && s.data[p] == '{'
}

func (s *textScanner) readRgbBody() (Token, error) {
	s.skipSpace()
	s.pos++ // '{'

	var comps []int64
	for {
		s.skipSpace()
		if s.eof() {
			return Token{}, &errs.ParseError{Msg: "unterminated rgb value", Offset: s.pos}
		}
		if s.data[s.pos] == '}' {
			s.pos++
			break
		}

		word, start, err := s.readWord()
		if err != nil {
			return Token{}, err
		}

		v, ok := parseInt(word)
		if !ok {
			return Token{}, &errs.ParseError{Msg: "invalid rgb component", Offset: start}
		}
		comps = append(comps, v)
	}

	if len(comps) < 3 {
		return Token{}, &errs.ParseError{Msg: "rgb value needs at least 3 components", Offset: s.pos}
	}

	return Token{Kind: KindRgb, Rgb: [3]byte{byte(comps[0]), byte(comps[1]), byte(comps[2])}}, nil
}
