package tape

// frame tracks the in-progress bookkeeping for one open scope: how many
// leading bare children it has seen before (if ever) its first key/value
// pair, and whether it has seen a pair at all. This is exactly the state
// needed to decide, on Close, whether the scope was an Array, an Object,
// or a HiddenObject (array-then-object transition).
type frame struct {
	openIdx   int
	bareCount int
	sawKeyed  bool
}

// Builder accumulates tokens into a flat Tape while tracking open scopes on
// an explicit (heap-allocated) stack, never the Go call stack, so parsing
// does not recurse with scope depth (§4.3, §9 "Non-recursive tape walk").
type Builder struct {
	Tokens []Token
	stack  []frame
}

// NewBuilder returns an empty Builder ready to accept tokens for a tape
// whose top level is the implicit object described in §3.
func NewBuilder() *Builder {
	return &Builder{}
}

// Depth reports how many scopes are currently open.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Open begins a new scope and returns its tentative opener index. The
// opener's Kind is finalized by Close.
func (b *Builder) Open() int {
	idx := len(b.Tokens)
	b.Tokens = append(b.Tokens, Token{Kind: KindArray})
	b.stack = append(b.stack, frame{openIdx: idx})

	return idx
}

// Scalar appends a fully-formed scalar token and returns its index.
func (b *Builder) Scalar(tok Token) int {
	idx := len(b.Tokens)
	b.Tokens = append(b.Tokens, tok)

	return idx
}

// Element must be called exactly once per logical element of the
// currently-open scope (a bare value, or a completed key+value pair),
// after all of that element's tokens — including any nested scope — have
// been appended. It is a no-op at the implicit top-level scope, which
// never receives an opener/End pair of its own.
func (b *Builder) Element(keyed bool) {
	if len(b.stack) == 0 {
		return
	}

	f := &b.stack[len(b.stack)-1]
	if keyed {
		f.sawKeyed = true
	} else if !f.sawKeyed {
		f.bareCount++
	}
}

// Close finalizes the innermost open scope: decides Object vs Array vs
// HiddenObject, back-patches the opener token, and appends the matching
// KindEnd token.
func (b *Builder) Close(offset int) error {
	if len(b.stack) == 0 {
		return unbalanced(offset)
	}

	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	endIdx := len(b.Tokens)

	var kind Kind
	switch {
	case f.sawKeyed && f.bareCount > 0:
		kind = KindHiddenObject
	case f.sawKeyed:
		kind = KindObject
	default:
		kind = KindArray
	}

	b.Tokens[f.openIdx].Kind = kind
	b.Tokens[f.openIdx].EndIdx = endIdx + 1
	b.Tokens[f.openIdx].PairStart = f.bareCount

	b.Tokens = append(b.Tokens, Token{Kind: KindEnd, OpenIdx: f.openIdx})

	return nil
}

// Finish validates that every scope was closed and returns the tape.
func (b *Builder) Finish(offset int) (*Tape, error) {
	if len(b.stack) != 0 {
		return nil, unbalanced(offset)
	}

	return &Tape{Tokens: b.Tokens}, nil
}
