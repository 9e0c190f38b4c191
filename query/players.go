package query

import "github.com/paradoxgg/eu4save/model"

// PlayerHistory is one human-controlled nation's recorded history plus the
// player name(s) associated with its tag (§4.6.3).
type PlayerHistory struct {
	Tag     model.CountryTag
	Players []string
	History model.CountryHistory
	// Initial is ordinarily Tag itself; for a single-player ironman save
	// where the human released and played as a new nation, it is grafted
	// to the released starting tag (§4.6.3, §9).
	Initial model.CountryTag
}

// ComputePlayerHistories builds a PlayerHistory for every country flagged
// was_player. nationEvents supplies the release-and-play-as graft when the
// save qualifies (single-player ironman, §9 "Open questions").
func ComputePlayerHistories(
	gs *model.GameState,
	nationEvents map[model.CountryTag]*NationEvents,
	meta *model.Meta,
) []PlayerHistory {
	playersByTag := map[model.CountryTag][]string{}
	uniqueNames := map[string]bool{}
	for _, pc := range gs.PlayersCountries {
		playersByTag[pc.Tag] = append(playersByTag[pc.Tag], pc.Name)
		uniqueNames[pc.Name] = true
	}

	graftEligible := meta != nil && meta.IsIronman && !meta.Multiplayer && len(uniqueNames) == 1

	var out []PlayerHistory
	for _, co := range gs.Countries {
		if !co.WasPlayer {
			continue
		}

		ph := PlayerHistory{
			Tag:     co.Tag,
			Players: playersByTag[co.Tag],
			History: co.History,
			Initial: co.Tag,
		}

		if graftEligible {
			if ne := findByStored(nationEvents, co.Tag); ne != nil {
				ph.Initial = ne.Initial
			}
		}

		out = append(out, ph)
	}

	return out
}

func findByStored(m map[model.CountryTag]*NationEvents, stored model.CountryTag) *NationEvents {
	for _, ne := range m {
		if ne.Stored == stored {
			return ne
		}
	}

	return nil
}
