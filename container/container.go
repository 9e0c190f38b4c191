// Package container classifies raw save bytes into one of the four
// recognized shapes (§4.1) and exposes their entries. Open inflates every
// zip member up front, not lazily on first access, each with an exact-size
// target so a corrupt or hostile central directory cannot force unbounded
// decompression.
package container

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/paradoxgg/eu4save/errs"
	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/internal/options"
)

// textSentinel and binSentinel are the two 6-byte header tags a save (or a
// zip member's inflated payload) must begin with.
var (
	textSentinel = []byte("EU4txt")
	binSentinel  = []byte("EU4bin")
	zipSignature = []byte{0x50, 0x4B, 0x03, 0x04}
)

// zipEntryOrder is the canonical iteration order for a zipped save's
// members; absent members are skipped.
var zipEntryOrder = []string{"meta", "gamestate", "ai"}

func init() {
	// klauspost/compress's flate decoder is a drop-in, faster replacement
	// for compress/flate; registering it globally speeds up every zip
	// member this package inflates.
	zip.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})
}

// Entry is one payload extracted from a container: the bare save itself
// (Name == "") or one named member of a zip archive.
type Entry struct {
	Name string
	Data []byte
}

// Container holds the classified encoding and the decoded entries of a save.
type Container struct {
	Encoding      format.Encoding
	entries       []Entry
	totalInflated int64
}

// Entries returns the container's entries in meta, gamestate, ai order.
func (c *Container) Entries() []Entry { return c.entries }

// Entry returns the named entry, or false if absent. For a non-zip
// container the only entry has an empty Name.
func (c *Container) Entry(name string) (Entry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}

	return Entry{}, false
}

// TotalInflatedSize returns the sum of inflated entry sizes.
func (c *Container) TotalInflatedSize() int64 { return c.totalInflated }

// config holds Open's tunables, set via functional options.
type config struct {
	maxInflatedSize int64
}

func newConfig() *config {
	return &config{maxInflatedSize: 512 * 1024 * 1024}
}

// Option configures Open.
type Option = options.Option[*config]

// WithMaxInflatedSize caps the total bytes Open will inflate from a zip
// container, guarding against a central directory that lies about
// UncompressedSize64.
func WithMaxInflatedSize(n int64) Option {
	return options.NoError(func(c *config) { c.maxInflatedSize = n })
}

// Detect classifies data without inflating anything.
func Detect(data []byte) (format.Encoding, error) {
	switch {
	case hasPrefix(data, textSentinel):
		return format.Text, nil
	case hasPrefix(data, binSentinel):
		return format.Binary, nil
	case hasPrefix(data, zipSignature):
		// A zip's own encoding depends on its members; the caller needs
		// Open to determine Text vs Binary.
		return 0, nil
	default:
		return 0, errs.ErrUnknownHeader
	}
}

// Open classifies data and inflates it into a Container ready for the tape
// parser.
func Open(data []byte, opts ...Option) (*Container, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	switch {
	case hasPrefix(data, textSentinel):
		return &Container{
			Encoding: format.Text,
			entries:  []Entry{{Data: data[len(textSentinel):]}},
		}, nil
	case hasPrefix(data, binSentinel):
		return &Container{
			Encoding: format.Binary,
			entries:  []Entry{{Data: data[len(binSentinel):]}},
		}, nil
	case hasPrefix(data, zipSignature):
		return openZip(data, cfg)
	default:
		return nil, errs.ErrUnknownHeader
	}
}

func hasPrefix(data, prefix []byte) bool {
	return len(data) >= len(prefix) && bytes.Equal(data[:len(prefix)], prefix)
}

func openZip(data []byte, cfg *config) (*Container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrZipCentralDirectory, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	var (
		entries []Entry
		enc     format.Encoding
		total   int64
	)

	for _, name := range zipEntryOrder {
		f, ok := files[name]
		if !ok {
			continue
		}

		raw, err := inflateEntry(f, cfg)
		if err != nil {
			return nil, err
		}

		total += int64(len(raw))
		if total > cfg.maxInflatedSize {
			return nil, &errs.ZipSizeError{Name: name, Expected: cfg.maxInflatedSize, Actual: total}
		}

		entryEnc, payload, err := splitSentinel(raw, name)
		if err != nil {
			return nil, err
		}

		if enc == 0 {
			enc = entryEnc
		} else if enc != entryEnc {
			return nil, &errs.ParseError{Msg: fmt.Sprintf("entry %q encoding disagrees with prior entries", name)}
		}

		entries = append(entries, Entry{Name: name, Data: payload})
	}

	if len(entries) == 0 {
		return nil, &errs.ZipMissingEntryError{Name: "gamestate"}
	}

	containerEnc := format.BinaryZip
	if enc == format.Text {
		containerEnc = format.TextZip
	}

	return &Container{Encoding: containerEnc, entries: entries, totalInflated: total}, nil
}

// inflateEntry decompresses f into a buffer sized exactly to its declared
// uncompressed size, then confirms the compressed stream ends there:
// neither short (EarlyEOF) nor long (ZipSizeError).
func inflateEntry(f *zip.File, cfg *config) ([]byte, error) {
	if int64(f.UncompressedSize64) > cfg.maxInflatedSize {
		return nil, &errs.ZipSizeError{Name: f.Name, Expected: cfg.maxInflatedSize, Actual: int64(f.UncompressedSize64)}
	}

	rc, err := f.Open()
	if err != nil {
		return nil, &errs.ZipExtractionError{Name: f.Name, Cause: err}
	}
	defer rc.Close()

	buf := make([]byte, f.UncompressedSize64)
	n, err := io.ReadFull(rc, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, &errs.InflationError{Msg: err.Error()}
	}
	if int64(n) < int64(f.UncompressedSize64) {
		return nil, &errs.EarlyEOFError{Written: int64(n)}
	}

	// Confirm the stream doesn't have trailing data beyond the declared
	// size (a corrupt or adversarial central directory).
	var extra [1]byte
	if m, _ := rc.Read(extra[:]); m > 0 {
		return nil, &errs.ZipSizeError{Name: f.Name, Expected: int64(f.UncompressedSize64), Actual: int64(f.UncompressedSize64) + 1}
	}

	return buf, nil
}

func splitSentinel(raw []byte, name string) (format.Encoding, []byte, error) {
	switch {
	case hasPrefix(raw, textSentinel):
		return format.Text, raw[len(textSentinel):], nil
	case hasPrefix(raw, binSentinel):
		return format.Binary, raw[len(binSentinel):], nil
	default:
		return 0, nil, fmt.Errorf("entry %q: %w", name, errs.ErrUnknownHeader)
	}
}
