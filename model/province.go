package model

// ProvinceEventKind tags the variant of a ProvinceEvent (§4.5 "Polymorphic
// events"). Unknown variants with a scalar value are recorded as
// ProvinceEventOther; unknown variants whose value is a block are skipped.
// Neither is a parse error.
type ProvinceEventKind uint8

const (
	ProvinceEventOwner ProvinceEventKind = iota + 1
	ProvinceEventController
	ProvinceEventBuildingConstructed
	ProvinceEventBuildingDestroyed
	ProvinceEventOther
)

// ProvinceEvent is one dated change recorded in a province's history block.
type ProvinceEvent struct {
	Kind     ProvinceEventKind
	Tag      CountryTag // Owner/Controller
	Building string     // BuildingConstructed/BuildingDestroyed
	Key      string     // Other: the raw field name
	Value    string     // Other: the raw value text
}

// DatedProvinceEvent pairs a ProvinceEvent with the date it occurred on.
type DatedProvinceEvent struct {
	Date  Date
	Event ProvinceEvent
}

// ProvinceHistory is a province's history block: the starting-state
// preamble plus a chronological event list (§3, §4.5).
type ProvinceHistory struct {
	InitialOwner      CountryTag
	InitialController CountryTag
	// InitialBuildings holds the yes-valued building flags present in the
	// preamble, before any dated Constructed/Destroyed event (§4.6.7).
	InitialBuildings map[string]bool
	Events           []DatedProvinceEvent
	// Other holds preamble keys that are neither a recognized field name
	// nor a parseable date (§4.5 "Context-sensitive history blocks").
	Other map[string]string
}

// Province is one map province: its current state plus its full history.
type Province struct {
	ID         ProvinceId
	Name       string
	Owner      CountryTag
	Controller CountryTag
	Buildings  map[string]bool
	Modifiers  []string
	History    ProvinceHistory
}
