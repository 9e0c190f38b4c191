package melt

// Flavor selects melt-time behavior that varies only by which Paradox game
// produced the save: which field names are known to hold dates, and which
// field names must never be interpreted as dates regardless of how their
// packed integer decodes (§4.4 "Dates").
//
// A single game (EU4) ships today, but the interface keeps the date-key
// tables out of the Melter itself so a sibling game's melt package (CK3,
// HOI4) can supply its own without touching this one.
type Flavor interface {
	Name() string
	// KnownDateKeys names fields whose i32 value is always a date, skipping
	// the heuristic entirely.
	KnownDateKeys() map[string]struct{}
	// RawIntegerKeys names fields whose i32 value is never a date even if
	// it happens to decode as a plausible one.
	RawIntegerKeys() map[string]struct{}
	// RawIntegerSuffixes names suffixes (e.g. "seed") that disable the date
	// heuristic for any key ending in them.
	RawIntegerSuffixes() []string
	// FilteredKeys names fields suppressed entirely at melt time, together
	// with their value, unless the current section is exempt (the "ai"
	// section is exempt for "checksum").
	FilteredKeys() map[string]sectionExemption
}

// sectionExemption names the one section (if any) in which a filtered key
// is emitted anyway. A zero value has no exemption: the key is always
// filtered.
type sectionExemption struct {
	hasExemption  bool
	exemptSection string
}

// EU4 is the Flavor for Europa Universalis IV saves, grounded on the field
// names called out explicitly in §4.4.
type EU4 struct{}

func (EU4) Name() string { return "eu4" }

func (EU4) KnownDateKeys() map[string]struct{} {
	return map[string]struct{}{
		"date":            {},
		"start_date":      {},
		"date_built":      {},
		"last_war":        {},
		"end_date":        {},
		"birth_date":      {},
		"death_date":      {},
		"conversion_date": {},
		"election":        {},
		"last_election":   {},
	}
}

func (EU4) RawIntegerKeys() map[string]struct{} {
	return map[string]struct{}{
		"random": {},
		"id":     {},
	}
}

func (EU4) RawIntegerSuffixes() []string {
	return []string{"seed"}
}

func (EU4) FilteredKeys() map[string]sectionExemption {
	return map[string]sectionExemption{
		"is_ironman": {},
		"checksum":   {hasExemption: true, exemptSection: "ai"},
	}
}
