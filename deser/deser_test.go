package deser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

func mustParse(t *testing.T, src string) *tape.Tape {
	t.Helper()
	tp, err := tape.ParseText([]byte(src))
	require.NoError(t, err)

	return tp
}

func TestDeser_Meta(t *testing.T) {
	src := `date="1444.11.11"
campaign_id="abc-123"
save_game="my save"
player="SWE"
is_ironman=yes
multiplayer=no
checksum="deadbeef"
dlc_enabled={
	"Conquest of Paradise"
	"Wealth of Nations"
}
savegame_version={
	first=1
	second=31
	third=1
	fourth=0
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	m, err := d.Meta(tp)
	require.NoError(t, err)

	assert.Equal(t, model.Date{Year: 1444, Month: 11, Day: 11}, m.Date)
	assert.Equal(t, "abc-123", m.CampaignID)
	assert.Equal(t, "my save", m.SaveName)
	assert.True(t, m.IsIronman)
	assert.False(t, m.Multiplayer)
	assert.Equal(t, "deadbeef", m.Checksum)
	assert.Equal(t, []string{"Conquest of Paradise", "Wealth of Nations"}, m.DLCEnabled)
	assert.Equal(t, model.Version{Major: 1, Minor: 31, Patch: 1, Build: 0}, m.SavegameVersion)
}

func TestDeser_Province(t *testing.T) {
	src := `{
owner="FRA"
controller="FRA"
name="Paris"
buildings={
	temple=yes
	fort_15th=no
}
history={
	owner="REB"
	add_core="FRA"
	1444.11.11={
		owner="FRA"
		temple=yes
	}
}
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	p, err := d.Province(tp, 0, model.NewProvinceId(183))
	require.NoError(t, err)

	assert.Equal(t, model.ProvinceId(183), p.ID)
	assert.Equal(t, "Paris", p.Name)
	assert.Equal(t, model.CountryTag{'F', 'R', 'A'}, p.Owner)
	assert.True(t, p.Buildings["temple"])
	assert.False(t, p.Buildings["fort_15th"])
	assert.Equal(t, model.CountryTag{'R', 'E', 'B'}, p.History.InitialOwner)
	assert.Equal(t, "FRA", p.History.Other["add_core"])
	require.Len(t, p.History.Events, 2)
	assert.Equal(t, model.Date{Year: 1444, Month: 11, Day: 11}, p.History.Events[0].Date)
	assert.Equal(t, model.ProvinceEventOwner, p.History.Events[0].Event.Kind)
	assert.Equal(t, model.ProvinceEventBuildingConstructed, p.History.Events[1].Event.Kind)
	assert.Equal(t, "temple", p.History.Events[1].Event.Building)
}

func TestDeser_Country(t *testing.T) {
	src := `{
government="monarchy"
religion="catholic"
primary_culture="french"
was_player=yes
flags={
	had_first_contact=yes
	some_false_flag=no
}
history={
	government="monarchy"
	1453.1.1={
		changed_tag_from="XXX"
	}
}
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	tag := model.CountryTag{'F', 'R', 'A'}
	co, err := d.Country(tp, 0, tag)
	require.NoError(t, err)

	assert.Equal(t, tag, co.Tag)
	assert.Equal(t, "monarchy", co.Government)
	assert.True(t, co.WasPlayer)
	assert.True(t, co.Flags["had_first_contact"])
	assert.False(t, co.Flags["some_false_flag"])
	require.Len(t, co.History.Events, 1)
	assert.Equal(t, model.CountryEventChangedTagFrom, co.History.Events[0].Event.Kind)
	assert.Equal(t, model.CountryTag{'X', 'X', 'X'}, co.History.Events[0].Event.PrevTag)
}

func TestDeser_War_UnrecognizedEventIsFatal(t *testing.T) {
	src := `{
name="War of the Spanish Succession"
1701.1.1={
	add_attacker="FRA"
	add_defender="ENG"
}
1714.1.1={
	something_unrecognized="foo"
}
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	_, err = d.War(tp, 0, "")
	assert.Error(t, err)
}

func TestDeser_War_RecognizedEventsAccumulate(t *testing.T) {
	src := `{
name="War of the Spanish Succession"
1701.1.1={
	add_attacker="FRA"
	add_defender="ENG"
}
1702.1.1={
	battle="Blenheim"
}
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	w, err := d.War(tp, 0, "")
	require.NoError(t, err)

	assert.Equal(t, "War of the Spanish Succession", w.Name)
	require.Len(t, w.Events, 3)
	assert.Equal(t, model.WarEventAddAttacker, w.Events[0].Event.Kind)
	assert.Equal(t, model.WarEventAddDefender, w.Events[1].Event.Kind)
	assert.Equal(t, model.WarEventBattle, w.Events[2].Event.Kind)
	assert.Equal(t, "Blenheim", w.Events[2].Event.Name)
}

func TestDeser_GameState_MergesDuplicateCountryTags(t *testing.T) {
	src := `countries={
	FRA={
		government="monarchy"
		history={
			1444.11.11={
				changed_tag_from="XXX"
			}
		}
	}
	FRA={
		religion="catholic"
		history={
			1500.1.1={
				changed_tag_from="YYY"
			}
		}
	}
}
provinces={
	1={
		owner="FRA"
	}
}
players_countries={
	"Player One"
	"FRA"
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	gs, err := d.GameState(tp)
	require.NoError(t, err)

	require.Len(t, gs.Countries, 1)
	fra := gs.Countries[0]
	assert.Equal(t, "monarchy", fra.Government)
	assert.Equal(t, "catholic", fra.Religion)
	require.Len(t, fra.History.Events, 2)

	require.Len(t, gs.Provinces, 1)
	assert.Equal(t, model.CountryTag{'F', 'R', 'A'}, gs.Provinces[0].Owner)

	require.Len(t, gs.PlayersCountries, 1)
	assert.Equal(t, "Player One", gs.PlayersCountries[0].Name)
	assert.Equal(t, model.CountryTag{'F', 'R', 'A'}, gs.PlayersCountries[0].Tag)
}

func TestDeser_GameState_TradeNodeCountrySectionSwitch(t *testing.T) {
	src := `trade={
	node={
		definitions="english_channel"
		highest_power=42.5
		FRA={
			privateer_money=10.0
		}
		ENG={
			privateer_money=0.0
			collected_value=0.0
		}
	}
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	gs, err := d.GameState(tp)
	require.NoError(t, err)

	require.Len(t, gs.TradeNodes, 1)
	node := gs.TradeNodes[0]
	assert.Equal(t, "english_channel", node.Name)
	assert.InDelta(t, 42.5, node.HighestPower, 0.0001)
	require.Len(t, node.Countries, 1)
	assert.Equal(t, model.CountryTag{'F', 'R', 'A'}, node.Countries[0].Tag)
	assert.InDelta(t, 10.0, node.Countries[0].PrivateerMoney, 0.0001)
}

func TestDeser_GameState_Ledger(t *testing.T) {
	src := `ledger={
	income={
		FRA={
			1444 10.5
			1445 12.0
		}
	}
}
`
	tp := mustParse(t, src)
	d, err := New()
	require.NoError(t, err)

	gs, err := d.GameState(tp)
	require.NoError(t, err)

	fra := model.CountryTag{'F', 'R', 'A'}
	datum := gs.Ledger["income"][fra]
	assert.Equal(t, []int{1444, 1445}, datum.Years)
	assert.InDeltaSlice(t, []float64{10.5, 12.0}, datum.Values, 0.0001)
}
