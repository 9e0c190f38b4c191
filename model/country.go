package model

// CountryEventKind tags the variant of a CountryEvent (§4.5 "Polymorphic
// events"). Unknown variants with a scalar value are recorded as
// CountryEventOther; unknown variants whose value is a block are skipped.
// Neither is a parse error.
type CountryEventKind uint8

const (
	CountryEventChangedTagFrom CountryEventKind = iota + 1
	CountryEventOther
)

// CountryEvent is one dated change recorded in a country's history block.
type CountryEvent struct {
	Kind    CountryEventKind
	PrevTag CountryTag // ChangedTagFrom
	Key     string     // Other: the raw field name
	Value   string     // Other: the raw value text
}

// DatedCountryEvent pairs a CountryEvent with the date it occurred on.
type DatedCountryEvent struct {
	Date  Date
	Event CountryEvent
}

// CountryHistory is a country's history block: known preamble fields plus
// a chronological event list (§4.5).
type CountryHistory struct {
	Government      string
	Religion        string
	TechnologyGroup string
	Events          []DatedCountryEvent
}

// Country is one nation as it stands at save time, plus its full history.
type Country struct {
	Tag        CountryTag
	Name       string
	Government string
	Religion   string
	Culture    string
	Capital    ProvinceId
	WasPlayer  bool
	// Flags is the yes-valued flag set parsed from the country's top-level
	// "flags" object (§4.5 "yes-valued sets").
	Flags   map[string]bool
	History CountryHistory

	// Income and Expense are the raw fixed-length ledger arrays consulted
	// by the Mana/Income/Expense breakdown query (§4.6.5): 19 and 38
	// entries respectively, drained past that length if the save carries
	// more (§9 "Deserializer drains").
	Income  []float64
	Expense []float64
	// ManaSpent holds the raw per-category mana-spend arrays for
	// [ADM, DIP, MIL], consulted by the same breakdown query.
	ManaSpent [3][]float64

	// ObjID, RulerID, and PreviousRulersIDSum feed the Inheritance query
	// (§4.6.6); they default to the zero ObjId/0 when the save doesn't
	// carry them (pre-monarchy governments, missing history).
	ObjID               ObjId
	RulerID             ObjId
	PreviousRulersIDSum uint64
	ProvinceCount       int
}
