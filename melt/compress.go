package melt

import (
	"github.com/klauspost/compress/s2"

	"github.com/paradoxgg/eu4save/tape"
)

// MeltCompressed melts t exactly as Melt does, then S2-block-compresses the
// result for a caller handing the melted text to a slower sink (cold
// storage, a network write) instead of consuming it directly. Melt itself
// always returns raw text so invariant 1 (output begins with "EU4txt\n")
// holds unconditionally.
func (m *Melter) MeltCompressed(t *tape.Tape, section string) ([]byte, error) {
	raw, err := m.Melt(t, section)
	if err != nil {
		return nil, err
	}

	return s2.Encode(nil, raw), nil
}

// DecompressMelted reverses MeltCompressed.
func DecompressMelted(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}
