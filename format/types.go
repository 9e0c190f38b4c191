// Package format defines the small enumerations shared across the
// container, tape, and melt packages, in the style of the teacher's own
// format package (EncodingType/CompressionType as small uint8 enums with a
// String method).
package format

// Encoding identifies which of the four container shapes a save was
// recognized as (§4.1).
type Encoding uint8

const (
	// Text is a single EU4txt-prefixed plaintext entry.
	Text Encoding = iota + 1
	// Binary is a single EU4bin-prefixed binary entry.
	Binary
	// TextZip is a zip archive whose entries are EU4txt-prefixed.
	TextZip
	// BinaryZip is a zip archive whose entries are EU4bin-prefixed.
	BinaryZip
)

func (e Encoding) String() string {
	switch e {
	case Text:
		return "Text"
	case Binary:
		return "Binary"
	case TextZip:
		return "TextZip"
	case BinaryZip:
		return "BinaryZip"
	default:
		return "Unknown"
	}
}

// IsBinary reports whether the encoding's payload is the binary dialect.
func (e Encoding) IsBinary() bool {
	return e == Binary || e == BinaryZip
}

// IsZip reports whether the encoding wraps its entries in a zip container.
func (e Encoding) IsZip() bool {
	return e == TextZip || e == BinaryZip
}

// TokenPolicy controls how the melter reacts to an unresolved 16-bit token
// id (§4.4).
type TokenPolicy uint8

const (
	// PolicyError fails the melt with errs.UnknownTokenError.
	PolicyError TokenPolicy = iota + 1
	// PolicyIgnore skips the key and its entire value, including any
	// nested scope.
	PolicyIgnore
	// PolicyDefault emits a synthetic "__unknown_0xHHHH" key name.
	PolicyDefault
)

func (p TokenPolicy) String() string {
	switch p {
	case PolicyError:
		return "Error"
	case PolicyIgnore:
		return "Ignore"
	case PolicyDefault:
		return "Default"
	default:
		return "Unknown"
	}
}

// CompressionType identifies an optional archival/cache codec wired from the
// domain stack (§ SPEC_FULL DOMAIN STACK); it is unrelated to the save
// file's own container compression, which is always plain DEFLATE.
type CompressionType uint8

const (
	CompressionNone CompressionType = iota + 1
	CompressionS2
	CompressionLZ4
	CompressionZstd
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZstd:
		return "Zstd"
	default:
		return "Unknown"
	}
}
