package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paradoxgg/eu4save/deser"
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

func mustParse(t *testing.T, src string) *tape.Tape {
	t.Helper()
	tp, err := tape.ParseText([]byte(src))
	require.NoError(t, err)

	return tp
}

func TestComputeProvinceOwners_SuppressesNonChangingEvents(t *testing.T) {
	gs := &model.GameState{
		Provinces: []model.Province{
			{
				ID: 1,
				History: model.ProvinceHistory{
					InitialOwner: tag("FRA"),
					Events: []model.DatedProvinceEvent{
						{Date: model.Date{Year: 1450, Month: 1, Day: 1}, Event: model.ProvinceEvent{Kind: model.ProvinceEventOwner, Tag: tag("FRA")}},
						{Date: model.Date{Year: 1460, Month: 1, Day: 1}, Event: model.ProvinceEvent{Kind: model.ProvinceEventOwner, Tag: tag("ENG")}},
					},
				},
			},
		},
	}

	owners := ComputeProvinceOwners(gs)
	assert.Equal(t, tag("FRA"), owners.Initial[1])
	require.Len(t, owners.Changes, 1)
	assert.Equal(t, tag("ENG"), owners.Changes[0].Tag)
}

func TestComputeProvinceOwners_StableSortByDateThenProvince(t *testing.T) {
	gs := &model.GameState{
		Provinces: []model.Province{
			{ID: 2, History: model.ProvinceHistory{InitialOwner: tag("FRA"), Events: []model.DatedProvinceEvent{
				{Date: model.Date{Year: 1500, Month: 1, Day: 1}, Event: model.ProvinceEvent{Kind: model.ProvinceEventOwner, Tag: tag("ENG")}},
			}}},
			{ID: 1, History: model.ProvinceHistory{InitialOwner: tag("FRA"), Events: []model.DatedProvinceEvent{
				{Date: model.Date{Year: 1500, Month: 1, Day: 1}, Event: model.ProvinceEvent{Kind: model.ProvinceEventOwner, Tag: tag("ENG")}},
			}}},
		},
	}

	owners := ComputeProvinceOwners(gs)
	require.Len(t, owners.Changes, 2)
	assert.Equal(t, model.ProvinceId(1), owners.Changes[0].Province)
	assert.Equal(t, model.ProvinceId(2), owners.Changes[1].Province)
}

func TestComputeNationEvents_TagSwitchChain(t *testing.T) {
	// Scenario H (§8): TYR switches to IRE on 1518-01-29, then IRE to GBR
	// on 1606-08-04. The final country is stored under GBR.
	gs := &model.GameState{
		Countries: []model.Country{
			{
				Tag: tag("GBR"),
				History: model.CountryHistory{
					Events: []model.DatedCountryEvent{
						{Date: model.Date{Year: 1518, Month: 1, Day: 29}, Event: model.CountryEvent{Kind: model.CountryEventChangedTagFrom, PrevTag: tag("TYR")}},
						{Date: model.Date{Year: 1606, Month: 8, Day: 4}, Event: model.CountryEvent{Kind: model.CountryEventChangedTagFrom, PrevTag: tag("IRE")}},
					},
				},
			},
		},
		Provinces: []model.Province{
			{ID: 1, History: model.ProvinceHistory{InitialOwner: tag("TYR")}},
		},
	}

	owners := ComputeProvinceOwners(gs)
	startDate := model.Date{Year: 1444, Month: 11, Day: 11}
	events := ComputeNationEvents(gs, owners, startDate)

	ne, ok := events[tag("TYR")]
	require.True(t, ok)
	assert.Equal(t, tag("TYR"), ne.Initial)
	assert.Equal(t, tag("GBR"), ne.Latest)
	assert.Equal(t, tag("GBR"), ne.Stored)

	require.Len(t, ne.Events, 2)
	assert.Equal(t, NationEventTagSwitch, ne.Events[0].Kind)
	assert.Equal(t, tag("IRE"), ne.Events[0].Tag)
	assert.Equal(t, model.Date{Year: 1518, Month: 1, Day: 29}, ne.Events[0].Date)
	assert.Equal(t, tag("GBR"), ne.Events[1].Tag)
	assert.Equal(t, model.Date{Year: 1606, Month: 8, Day: 4}, ne.Events[1].Date)
}

func TestComputeNationEvents_ExcludesTagsThatNeverOwnedAProvince(t *testing.T) {
	gs := &model.GameState{
		Countries: []model.Country{
			{Tag: tag("XXX")},
		},
	}
	owners := ComputeProvinceOwners(gs)
	events := ComputeNationEvents(gs, owners, model.Date{Year: 1444, Month: 11, Day: 11})

	_, ok := events[tag("XXX")]
	assert.False(t, ok)
}

func TestProvinceBuildingHistory_ScenarioG(t *testing.T) {
	src := `{
owner="ENG"
history={
	owner="ENG"
	1486.6.3={
		marketplace=yes
	}
}
}
`
	tp := mustParse(t, src)
	d, err := deser.New()
	require.NoError(t, err)

	p, err := d.Province(tp, 0, model.NewProvinceId(236))
	require.NoError(t, err)

	events := ProvinceBuildingHistory(p)
	require.Len(t, events, 1)
	assert.Equal(t, "marketplace", events[0].Building)
	assert.Equal(t, model.Date{Year: 1486, Month: 6, Day: 3}, events[0].Date)
	assert.Equal(t, BuildingConstructed, events[0].Action)
}

func TestComputeLedgerSeries_AnnualizesIncomeAndPadsMissingYears(t *testing.T) {
	gs := &model.GameState{
		Ledger: map[string]map[model.CountryTag]model.LedgerDatum{
			"income": {
				tag("FRA"): {Years: []int{1445}, Values: []float64{120.0}},
			},
		},
	}
	ne := &NationEvents{Initial: tag("FRA"), Stored: tag("FRA")}

	start := model.Date{Year: 1444, Month: 11, Day: 11}
	end := model.Date{Year: 1446, Month: 1, Day: 1}
	series := ComputeLedgerSeries(gs, ne, "income", start, end)

	require.Len(t, series, 3)
	assert.InDelta(t, 0.0, series[0].Value, 0.0001)
	assert.InDelta(t, 10.0, series[1].Value, 0.0001)
	assert.InDelta(t, 0.0, series[2].Value, 0.0001)
}

func TestManaIncomeExpense_IndexShift(t *testing.T) {
	co := &model.Country{
		Income: make([]float64, 28),
	}
	co.Income[25] = 100
	co.Income[26] = 200

	assert.Equal(t, 100.0, IncomeAt(co, 25, 30))
	assert.Equal(t, 200.0, IncomeAt(co, 26, 30))

	// At >=1.31, indices past 25 shift by one slot.
	assert.Equal(t, 100.0, IncomeAt(co, 25, 31))
	assert.Equal(t, 0.0, IncomeAt(co, 26, 31))
}

func TestComputeInheritance_Deterministic(t *testing.T) {
	in := InheritanceInput{
		NationID:            10,
		EmperorRulerID:      20,
		CuriaNationID:       5,
		OwnRulerID:          30,
		PreviousRulersIDSum: 40,
		CapitalProvince:     100,
		ProvinceCount:       15,
		IsCatholic:          true,
		CurrentYear:         1500,
	}

	r1 := ComputeInheritance(in)
	r2 := ComputeInheritance(in)
	assert.Equal(t, r1, r2)

	subtotal := 10 + 20 + 5 + 30 + 40 + 100 + 15 + 1500
	assert.Equal(t, subtotal%100, r1.TValue)
	assert.Equal(t, r1.TValue-5, r1.Value)

	for _, w := range r1.Windows {
		assert.GreaterOrEqual(t, w[0], in.CurrentYear)
	}
}

func tag(s string) model.CountryTag {
	ct, err := model.ParseCountryTag(s)
	if err != nil {
		panic(err)
	}

	return ct
}
