package model

import "github.com/paradoxgg/eu4save/errs"

// CountryTag is a 3-byte country identifier, stored inline to avoid a heap
// allocation per reference (§3 Primitives). Equality is byte-wise.
type CountryTag [3]byte

// ParseCountryTag validates s as exactly 3 ASCII alphanumeric-or-hyphen
// bytes and returns it as a CountryTag.
func ParseCountryTag(s string) (CountryTag, error) {
	if len(s) != 3 {
		return CountryTag{}, &errs.InvalidSyntaxError{Msg: "country tag must be 3 bytes: " + s}
	}

	var tag CountryTag
	for i := 0; i < 3; i++ {
		c := s[i]
		if !isTagByte(c) {
			return CountryTag{}, &errs.InvalidSyntaxError{Msg: "invalid country tag byte in: " + s}
		}
		tag[i] = c
	}

	return tag, nil
}

func isTagByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-':
		return true
	default:
		return false
	}
}

func (t CountryTag) String() string { return string(t[:]) }

// IsZero reports whether t is the unset tag.
func (t CountryTag) IsZero() bool { return t == CountryTag{} }

// ProvinceId is a province identifier. Negative encodings (used for
// destroyed or placeholder provinces) are normalized to their absolute
// value on construction (§3 Primitives).
type ProvinceId int32

// NewProvinceId normalizes raw into a ProvinceId, taking the absolute
// value of negative inputs.
func NewProvinceId(raw int32) ProvinceId {
	if raw < 0 {
		return ProvinceId(-raw)
	}

	return ProvinceId(raw)
}

// ObjId identifies a game object such as a monarch, leader, or army: a
// numeric id paired with a type discriminant (§3 Primitives).
type ObjId struct {
	ID   uint32
	Type uint32
}
