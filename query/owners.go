// Package query builds the derived, read-only views described in §4.6 over
// an already-deserialized model.GameState: province ownership timelines,
// nation event synthesis, player history, annual ledger series, mana/income/
// expense breakdowns, inheritance prediction, and per-province building
// history.
package query

import (
	"sort"

	"github.com/paradoxgg/eu4save/internal/hash"
	"github.com/paradoxgg/eu4save/model"
)

// ProvinceOwnerChange is one entry in a province's ownership timeline.
type ProvinceOwnerChange struct {
	Province model.ProvinceId
	Tag      model.CountryTag
	Date     model.Date
}

// ProvinceOwners is the result of a single pass over the province map:
// each province's starting owner, plus the chronological list of
// owner-changing events across every province (§4.6.1).
type ProvinceOwners struct {
	Initial map[model.ProvinceId]model.CountryTag
	Changes []ProvinceOwnerChange
}

// ComputeProvinceOwners builds the ProvinceOwners view. Events that do not
// actually change the running owner are suppressed (§4.6.1); the result is
// stably sorted by (date, province id) (§8 invariant 3).
func ComputeProvinceOwners(gs *model.GameState) *ProvinceOwners {
	out := &ProvinceOwners{Initial: make(map[model.ProvinceId]model.CountryTag, len(gs.Provinces))}

	// Duplicate-tag merges accumulate event lists (mergeProvince), so the
	// same owner-change can land in a province's history twice when a save
	// repeats a province block under a duplicate id. Key the de-dup set on
	// (tag, province) folded with the event date rather than keep a second
	// map[ProvinceId][]model.Date per province.
	seen := make(map[uint64]struct{}, len(gs.Provinces))

	for _, p := range gs.Provinces {
		if !p.History.InitialOwner.IsZero() {
			out.Initial[p.ID] = p.History.InitialOwner
		}

		running := p.History.InitialOwner
		for _, de := range p.History.Events {
			if de.Event.Kind != model.ProvinceEventOwner {
				continue
			}
			if de.Event.Tag == running {
				continue
			}

			key := hash.TagProvince(de.Event.Tag.String(), int(p.ID)) ^ hash.ID(de.Date.String())
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			running = de.Event.Tag
			out.Changes = append(out.Changes, ProvinceOwnerChange{
				Province: p.ID,
				Tag:      de.Event.Tag,
				Date:     de.Date,
			})
		}
	}

	sort.SliceStable(out.Changes, func(i, j int) bool {
		a, b := out.Changes[i], out.Changes[j]
		if c := a.Date.Compare(b.Date); c != 0 {
			return c < 0
		}

		return a.Province < b.Province
	})

	return out
}
