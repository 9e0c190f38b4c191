// Package melt re-serializes a binary-dialect Tape back into the text
// dialect (§4.4), resolving token ids, applying the date heuristic, and
// filtering sensitive fields.
package melt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paradoxgg/eu4save/errs"
	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/internal/options"
	"github.com/paradoxgg/eu4save/internal/pool"
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/resolver"
	"github.com/paradoxgg/eu4save/tape"
)

// config holds Melt's tunables, set via functional options.
type config struct {
	resolver *resolver.Resolver
	policy   format.TokenPolicy
	flavor   Flavor
}

func defaultConfig() *config {
	return &config{
		resolver: resolver.Empty(),
		policy:   format.PolicyDefault,
		flavor:   EU4{},
	}
}

// Option configures a Melter.
type Option = options.Option[*config]

// WithResolver supplies the token-id-to-name table used to resolve
// Token(id) keys and values.
func WithResolver(r *resolver.Resolver) Option {
	return options.NoError(func(c *config) { c.resolver = r })
}

// WithPolicy sets the behavior on an unresolved token id (§4.4).
func WithPolicy(p format.TokenPolicy) Option {
	return options.NoError(func(c *config) { c.policy = p })
}

// WithFlavor sets the game-specific date-key/filtered-key tables.
func WithFlavor(f Flavor) Option {
	return options.NoError(func(c *config) { c.flavor = f })
}

// Melter re-serializes tapes into the text dialect under a fixed
// configuration. It holds no per-tape state and is safe for concurrent use.
type Melter struct {
	cfg *config
}

// New builds a Melter from opts, defaulting to an empty resolver (every
// token id misses), PolicyDefault, and the EU4 flavor.
func New(opts ...Option) (*Melter, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Melter{cfg: cfg}, nil
}

// Melt re-serializes t as a top-level save section. section names the
// entry being melted ("meta", "gamestate", "ai", or "" for a standalone
// save); it controls the one section-dependent filtered key (checksum).
func (m *Melter) Melt(t *tape.Tape, section string) ([]byte, error) {
	w := &walker{
		tape:    t,
		cfg:     m.cfg,
		section: section,
		buf:     pool.GetMeltBuffer(),
	}
	defer pool.PutMeltBuffer(w.buf)

	w.buf.MustWriteString("EU4txt\n")

	if err := w.run(); err != nil {
		return nil, err
	}

	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())

	return out, nil
}

// frameClose describes how a pushed scope must be terminated.
type frameClose uint8

const (
	closeNone frameClose = iota // HiddenObject, or a bare (unkeyed) HiddenObject: never braced
	closeInline                 // Array value: "}\n" immediately, no indent, no leading newline
	closeMulti                  // Object (or bare container) value: indented "}\n" on its own line
)

// scopeFrame is one entry of the melter's explicit walk stack (§9
// "Non-recursive tape walk" — the melter walks the tape the same way the
// parser built it, never recursing with scope depth).
type scopeFrame struct {
	kind      tape.Kind
	endIdx    int // index of this scope's KindEnd token
	pos       int // next child index to visit
	consumed  int // bare-zone slot count, for HiddenObject's pairStart comparison
	pairStart int

	depth        int
	close        frameClose
	transitioned bool // HiddenObject only: already emitted the bare->keyed newline
}

type walker struct {
	tape    *tape.Tape
	cfg     *config
	section string
	buf     *pool.ByteBuffer
}

func (w *walker) run() error {
	stack := []scopeFrame{{
		kind:   tape.KindObject,
		endIdx: len(w.tape.Tokens),
		pos:    0,
		depth:  0,
		close:  closeNone, // top level never gets braces
	}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]

		if f.pos >= f.endIdx {
			switch f.close {
			case closeMulti:
				indent(w.buf, f.depth-1)
				w.buf.MustWriteString("}\n")
			case closeInline:
				w.buf.MustWriteString("}\n")
			case closeNone:
			}
			stack = stack[:len(stack)-1]

			continue
		}

		bareZone := f.kind == tape.KindArray || (f.kind == tape.KindHiddenObject && f.consumed < f.pairStart)

		if bareZone {
			idx := f.pos
			tok := w.tape.Tokens[idx]

			if tok.Kind.IsScopeOpen() {
				child := w.pushBareContainer(tok, f.depth)
				child.pos = idx + 1
				f.pos = tok.EndIdx
				f.consumed++
				stack = append(stack, child)

				continue
			}

			text, skip, err := w.formatValue(tok, "")
			if err != nil {
				return err
			}
			if !skip {
				w.buf.MustWriteString(text)
				w.buf.MustWriteByte(' ')
			}
			f.pos++
			f.consumed++

			continue
		}

		if f.kind == tape.KindHiddenObject && !f.transitioned {
			w.buf.MustWriteByte('\n')
			f.transitioned = true
		}

		keyIdx := f.pos
		keyTok := w.tape.Tokens[keyIdx]
		valueIdx := keyIdx + 1
		if valueIdx >= len(w.tape.Tokens) {
			return &errs.ParseError{Msg: "dangling key with no value", Offset: valueIdx}
		}
		valueTok := w.tape.Tokens[valueIdx]

		keyText, keySuppressed, err := w.formatKey(keyTok)
		if err != nil {
			return err
		}

		filtered := keySuppressed || w.isFilteredKey(keyText)

		if valueTok.Kind.IsScopeOpen() {
			if filtered {
				f.pos = valueTok.EndIdx
				f.consumed++

				continue
			}

			child := w.pushKeyedContainer(keyText, valueTok, f.depth)
			child.pos = valueIdx + 1
			f.pos = valueTok.EndIdx
			f.consumed++
			stack = append(stack, child)

			continue
		}

		valueText, valueSkip, err := w.formatValue(valueTok, keyText)
		if err != nil {
			return err
		}

		if !filtered && !valueSkip {
			indent(w.buf, f.depth)
			w.buf.MustWriteString(keyText)
			w.buf.MustWriteByte('=')
			w.buf.MustWriteString(valueText)
			w.buf.MustWriteByte('\n')
		}

		f.pos = valueIdx + 1
		f.consumed++
	}

	return nil
}

// pushKeyedContainer writes the opening text for value (a container) at
// key position and returns the frame that will process its children.
func (w *walker) pushKeyedContainer(keyText string, value tape.Token, parentDepth int) scopeFrame {
	switch value.Kind {
	case tape.KindObject:
		indent(w.buf, parentDepth)
		w.buf.MustWriteString(keyText)
		w.buf.MustWriteString("={\n")

		return childFrame(value, parentDepth, closeMulti)

	case tape.KindArray:
		indent(w.buf, parentDepth)
		w.buf.MustWriteString(keyText)
		w.buf.MustWriteString("={")

		return childFrame(value, parentDepth, closeInline)

	default: // tape.KindHiddenObject
		indent(w.buf, parentDepth)
		w.buf.MustWriteString(keyText)
		w.buf.MustWriteByte('=')

		return childFrame(value, parentDepth, closeNone)
	}
}

// pushBareContainer writes the opening text for value as an unkeyed array
// element and returns the frame that will process its children.
func (w *walker) pushBareContainer(value tape.Token, parentDepth int) scopeFrame {
	switch value.Kind {
	case tape.KindObject:
		w.buf.MustWriteString("{\n")
		return childFrame(value, parentDepth, closeMulti)
	case tape.KindArray:
		w.buf.MustWriteByte('{')
		return childFrame(value, parentDepth, closeInline)
	default: // tape.KindHiddenObject
		return childFrame(value, parentDepth, closeNone)
	}
}

func childFrame(value tape.Token, parentDepth int, close frameClose) scopeFrame {
	return scopeFrame{
		kind:      value.Kind,
		endIdx:    value.EndIdx - 1, // index of the KindEnd token itself
		pos:       0,
		pairStart: value.PairStart,
		depth:     parentDepth + 1,
		close:     close,
	}
}

func indent(buf *pool.ByteBuffer, depth int) {
	for i := 0; i < depth; i++ {
		buf.MustWriteByte(' ')
	}
}

// formatKey renders tok as a bare key-position string. suppressed reports
// an unresolved token id under PolicyIgnore: the caller must skip the
// whole key/value pair.
func (w *walker) formatKey(tok tape.Token) (text string, suppressed bool, err error) {
	switch tok.Kind {
	case tape.KindToken:
		return w.resolveToken(tok.ID)
	case tape.KindQuoted:
		return trimTrailingNewline(tok.Bytes), false, nil
	case tape.KindUnquoted:
		return string(tok.Bytes), false, nil
	case tape.KindBool:
		return boolText(tok.Bool), false, nil
	case tape.KindI32:
		return strconv.FormatInt(int64(tok.I32), 10), false, nil
	case tape.KindU32:
		return strconv.FormatUint(uint64(tok.U32), 10), false, nil
	case tape.KindU64:
		return strconv.FormatUint(tok.U64, 10), false, nil
	default:
		return "", false, &errs.ParseError{Msg: fmt.Sprintf("unsupported key kind %s", tok.Kind)}
	}
}

// formatValue renders tok as a value-position string. keyName is the
// already-resolved key text ("" in array/bare context) and drives the date
// heuristic and raw-integer overrides. skip reports an unresolved token id
// under PolicyIgnore.
func (w *walker) formatValue(tok tape.Token, keyName string) (text string, skip bool, err error) {
	switch tok.Kind {
	case tape.KindToken:
		return w.resolveToken(tok.ID)

	case tape.KindBool:
		return boolText(tok.Bool), false, nil

	case tape.KindI32:
		return w.formatI32(tok.I32, keyName)

	case tape.KindU32:
		return strconv.FormatUint(uint64(tok.U32), 10), false, nil

	case tape.KindU64:
		return strconv.FormatUint(tok.U64, 10), false, nil

	case tape.KindF32:
		return strconv.FormatFloat(float64(tok.F32), 'f', 3, 32), false, nil

	case tape.KindF64:
		return strconv.FormatFloat(tok.F64, 'f', 5, 64), false, nil

	case tape.KindQuoted:
		return `"` + trimTrailingNewline(tok.Bytes) + `"`, false, nil

	case tape.KindUnquoted:
		return string(tok.Bytes), false, nil

	case tape.KindRgb:
		return fmt.Sprintf("rgb { %d %d %d }", tok.Rgb[0], tok.Rgb[1], tok.Rgb[2]), false, nil

	default:
		return "", false, &errs.ParseError{Msg: fmt.Sprintf("unsupported value kind %s", tok.Kind)}
	}
}

func (w *walker) formatI32(v int32, keyName string) (string, bool, error) {
	if keyName != "" {
		if _, known := w.cfg.flavor.KnownDateKeys()[keyName]; known {
			d, err := model.FromPackedInt32(v)
			if err != nil {
				return "", false, &errs.InvalidDateError{Value: v}
			}

			return d.String(), false, nil
		}

		if w.disablesHeuristic(keyName) {
			return strconv.FormatInt(int64(v), 10), false, nil
		}
	}

	if d, ok := model.FromBinaryHeuristic(v); ok {
		return d.String(), false, nil
	}

	return strconv.FormatInt(int64(v), 10), false, nil
}

func (w *walker) disablesHeuristic(keyName string) bool {
	if _, raw := w.cfg.flavor.RawIntegerKeys()[keyName]; raw {
		return true
	}
	for _, suffix := range w.cfg.flavor.RawIntegerSuffixes() {
		if strings.HasSuffix(keyName, suffix) {
			return true
		}
	}

	return false
}

func (w *walker) resolveToken(id uint16) (string, bool, error) {
	if name, ok := w.cfg.resolver.Lookup(id); ok {
		return name, false, nil
	}

	switch w.cfg.policy {
	case format.PolicyError:
		return "", false, &errs.UnknownTokenError{ID: id}
	case format.PolicyIgnore:
		return "", true, nil
	default: // format.PolicyDefault
		return fmt.Sprintf("__unknown_0x%04X", id), false, nil
	}
}

func (w *walker) isFilteredKey(keyText string) bool {
	exemption, ok := w.cfg.flavor.FilteredKeys()[keyText]
	if !ok {
		return false
	}

	return !(exemption.hasExemption && exemption.exemptSection == w.section)
}

func boolText(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}

func trimTrailingNewline(b []byte) string {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
		if n := len(b); n > 0 && b[n-1] == '\r' {
			b = b[:n-1]
		}
	}

	return string(b)
}
