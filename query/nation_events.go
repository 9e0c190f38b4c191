package query

import (
	"sort"

	"github.com/paradoxgg/eu4save/model"
)

// NationEventKind tags the variant of a NationEvent.
type NationEventKind uint8

const (
	NationEventTagSwitch NationEventKind = iota + 1
	NationEventAnnexed
	NationEventAppeared
)

// NationEvent is one dated transition in a nation-chain's life (§4.6.2).
type NationEvent struct {
	Kind NationEventKind
	Tag  model.CountryTag // TagSwitch: the tag switched to
	Date model.Date
}

// NationEvents is the synthesized timeline for one nation-chain, keyed by
// its earliest-known ("initial") tag (§4.6.2).
type NationEvents struct {
	Initial model.CountryTag
	Latest  model.CountryTag
	Stored  model.CountryTag
	Events  []NationEvent
}

type tagSwitchRecord struct {
	Tag  model.CountryTag
	Date model.Date
}

// ComputeNationEvents synthesizes, per nation-chain, its tag-switch history
// plus Appeared/Annexed transitions derived from running province counts
// (§4.6.2). startDate gates Appeared events: a chain already holding
// provinces at game start does not "Appear" again.
func ComputeNationEvents(gs *model.GameState, owners *ProvinceOwners, startDate model.Date) map[model.CountryTag]*NationEvents {
	byInitial := map[model.CountryTag]*NationEvents{}
	storageToInitial := map[model.CountryTag]model.CountryTag{}
	tagToStorage := map[model.CountryTag]model.CountryTag{}

	for _, co := range gs.Countries {
		stored := co.Tag

		var switches []tagSwitchRecord
		for _, de := range co.History.Events {
			if de.Event.Kind != model.CountryEventChangedTagFrom {
				continue
			}
			switches = append(switches, tagSwitchRecord{Tag: de.Event.PrevTag, Date: de.Date})
		}
		sort.SliceStable(switches, func(i, j int) bool { return switches[i].Date.Compare(switches[j].Date) < 0 })

		initial := stored
		if len(switches) > 0 {
			initial = switches[0].Tag
		}

		ne := &NationEvents{Initial: initial, Latest: stored, Stored: stored}
		for i, sw := range switches {
			to := stored
			if i+1 < len(switches) {
				to = switches[i+1].Tag
			}
			ne.Events = append(ne.Events, NationEvent{Kind: NationEventTagSwitch, Tag: to, Date: sw.Date})
		}

		byInitial[initial] = ne
		storageToInitial[stored] = initial
		tagToStorage[stored] = stored
		for _, sw := range switches {
			tagToStorage[sw.Tag] = stored
		}
	}

	storageFor := func(tag model.CountryTag) model.CountryTag {
		if s, ok := tagToStorage[tag]; ok {
			return s
		}

		return tag
	}

	appendEvent := func(storage model.CountryTag, ev NationEvent) {
		if initial, ok := storageToInitial[storage]; ok {
			byInitial[initial].Events = append(byInitial[initial].Events, ev)
		}
	}

	provinceOwnerStorage := map[model.ProvinceId]model.CountryTag{}
	counts := map[model.CountryTag]int{}
	everOwned := map[model.CountryTag]bool{}

	for p, tag := range owners.Initial {
		s := storageFor(tag)
		provinceOwnerStorage[p] = s
		counts[s]++
		everOwned[s] = true
	}

	for _, ch := range owners.Changes {
		newStorage := storageFor(ch.Tag)
		oldStorage, hadOwner := provinceOwnerStorage[ch.Province]

		if hadOwner && oldStorage != newStorage {
			counts[oldStorage]--
			if counts[oldStorage] < 0 {
				// Clamp and continue rather than go negative (§8 invariant 4).
				counts[oldStorage] = 0
			}
			if counts[oldStorage] == 0 {
				appendEvent(oldStorage, NationEvent{Kind: NationEventAnnexed, Date: ch.Date})
			}
		}

		if !hadOwner || oldStorage != newStorage {
			wasZero := counts[newStorage] == 0
			counts[newStorage]++
			everOwned[newStorage] = true
			if wasZero && ch.Date.Compare(startDate) > 0 {
				appendEvent(newStorage, NationEvent{Kind: NationEventAppeared, Date: ch.Date})
			}
		}

		provinceOwnerStorage[ch.Province] = newStorage
	}

	for initial, ne := range byInitial {
		if !everOwned[ne.Stored] {
			delete(byInitial, initial)

			continue
		}
		sort.SliceStable(ne.Events, func(i, j int) bool { return ne.Events[i].Date.Compare(ne.Events[j].Date) < 0 })
	}

	return byInitial
}
