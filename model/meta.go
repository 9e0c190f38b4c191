package model

// Version is the save's four-part game version quadruple (§3 Meta).
type Version struct {
	Major, Minor, Patch, Build int
}

// Meta is the save's header block (§3): campaign identity, player context,
// and the small set of fields needed to recognize a save without
// deserializing its full game state.
type Meta struct {
	CampaignID    string
	SaveName      string
	Player        CountryTag
	Date          Date
	IsIronman     bool
	Multiplayer   bool
	DLCEnabled    []string
	Mods          []string
	Checksum      string
	SavegameVersion Version
}
