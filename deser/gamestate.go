package deser

import (
	"strconv"

	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

// GameState deserializes the entire gamestate section (§3 GameState).
// Countries and provinces keyed by a duplicated tag or id merge with
// last-field-wins semantics, accumulating their event lists (§4.5
// "Aggregate fields declared as duplicated").
func (d *Deserializer) GameState(t *tape.Tape) (*model.GameState, error) {
	c := d.cursor(t)
	gs := &model.GameState{Ledger: map[string]map[model.CountryTag]model.LedgerDatum{}}

	countryIndex := map[model.CountryTag]int{}
	provinceIndex := map[model.ProvinceId]int{}

	err := c.forEachTopLevelPair(func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		val := c.t.Tokens[valueIdx]

		switch name {
		case "current_age":
			if s, ok := stringValue(val); ok {
				gs.CurrentAge = s
			}
		case "start_date":
			if date, ok := asDateValue(val); ok {
				gs.StartDate = date
			}
		case "countries":
			if val.Kind.IsScopeOpen() {
				return c.forEachPair(valueIdx, func(ctok tape.Token, cvidx int) error {
					return d.mergeCountryEntry(t, ctok, cvidx, gs, countryIndex)
				})
			}
		case "provinces":
			if val.Kind.IsScopeOpen() {
				return c.forEachPair(valueIdx, func(ptok tape.Token, pvidx int) error {
					return d.mergeProvinceEntry(t, ptok, pvidx, gs, provinceIndex)
				})
			}
		case "trade":
			if val.Kind.IsScopeOpen() {
				return c.forEachPair(valueIdx, func(ttok tape.Token, tvidx int) error {
					tname, tskip, terr := c.fieldName(ttok)
					if terr != nil || tskip {
						return terr
					}
					tval := c.t.Tokens[tvidx]
					if tname != "node" || !tval.Kind.IsScopeOpen() {
						return nil
					}
					if tval.Kind != tape.KindArray {
						node, err := d.tradeNode(t, tvidx)
						if err != nil {
							return err
						}
						gs.TradeNodes = append(gs.TradeNodes, *node)

						return nil
					}

					return c.forEachElement(tvidx, func(nvidx int) error {
						nval := c.t.Tokens[nvidx]
						if !nval.Kind.IsScopeOpen() {
							return nil
						}
						node, err := d.tradeNode(t, nvidx)
						if err != nil {
							return err
						}
						gs.TradeNodes = append(gs.TradeNodes, *node)

						return nil
					})
				})
			}
		case "active_war":
			if val.Kind.IsScopeOpen() {
				w, err := d.War(t, valueIdx, "")
				if err != nil {
					return err
				}
				gs.ActiveWars = append(gs.ActiveWars, *w)
			}
		case "previous_war":
			if val.Kind.IsScopeOpen() {
				w, err := d.War(t, valueIdx, "")
				if err != nil {
					return err
				}
				gs.PreviousWars = append(gs.PreviousWars, *w)
			}
		case "players_countries":
			if val.Kind.IsScopeOpen() {
				return c.alternatingPairs(valueIdx, func(a, b tape.Token) error {
					playerName, ok := stringValue(a)
					if !ok {
						return nil
					}
					tag, ok := asTag(b)
					if !ok {
						return nil
					}
					gs.PlayersCountries = append(gs.PlayersCountries, model.PlayerCountry{Name: playerName, Tag: tag})

					return nil
				})
			}
		case "ledger":
			if val.Kind.IsScopeOpen() {
				return c.ledger(valueIdx, gs)
			}
		case "diplomacy":
			if val.Kind.IsScopeOpen() {
				rels, err := c.diplomacy(valueIdx)
				if err != nil {
					return err
				}
				gs.Diplomacy = append(gs.Diplomacy, rels...)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return gs, nil
}

func (d *Deserializer) mergeCountryEntry(
	t *tape.Tape,
	ctok tape.Token,
	cvidx int,
	gs *model.GameState,
	index map[model.CountryTag]int,
) error {
	c := d.cursor(t)
	tagStr, skip, err := c.fieldName(ctok)
	if err != nil || skip {
		return err
	}
	tag, tagErr := model.ParseCountryTag(tagStr)
	if tagErr != nil {
		return nil
	}
	cval := c.t.Tokens[cvidx]
	if !cval.Kind.IsScopeOpen() {
		return nil
	}

	country, err := d.Country(t, cvidx, tag)
	if err != nil {
		return err
	}

	if idx, ok := index[tag]; ok {
		mergeCountry(&gs.Countries[idx], country)
	} else {
		index[tag] = len(gs.Countries)
		gs.Countries = append(gs.Countries, *country)
	}

	return nil
}

func (d *Deserializer) mergeProvinceEntry(
	t *tape.Tape,
	ptok tape.Token,
	pvidx int,
	gs *model.GameState,
	index map[model.ProvinceId]int,
) error {
	c := d.cursor(t)
	idText, skip, err := c.fieldName(ptok)
	if err != nil || skip {
		return err
	}
	n, convErr := strconv.ParseInt(idText, 10, 32)
	if convErr != nil {
		return nil
	}
	pval := c.t.Tokens[pvidx]
	if !pval.Kind.IsScopeOpen() {
		return nil
	}

	id := model.NewProvinceId(int32(n))
	province, err := d.Province(t, pvidx, id)
	if err != nil {
		return err
	}

	if idx, ok := index[id]; ok {
		mergeProvince(&gs.Provinces[idx], province)
	} else {
		index[id] = len(gs.Provinces)
		gs.Provinces = append(gs.Provinces, *province)
	}

	return nil
}

func mergeCountry(dst *model.Country, src *model.Country) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Government != "" {
		dst.Government = src.Government
	}
	if src.Religion != "" {
		dst.Religion = src.Religion
	}
	if src.Culture != "" {
		dst.Culture = src.Culture
	}
	if src.Capital != 0 {
		dst.Capital = src.Capital
	}
	dst.WasPlayer = dst.WasPlayer || src.WasPlayer
	if len(src.Income) > 0 {
		dst.Income = src.Income
	}
	if len(src.Expense) > 0 {
		dst.Expense = src.Expense
	}
	for i := range src.ManaSpent {
		if len(src.ManaSpent[i]) > 0 {
			dst.ManaSpent[i] = src.ManaSpent[i]
		}
	}
	if src.ObjID != (model.ObjId{}) {
		dst.ObjID = src.ObjID
	}
	if src.RulerID != (model.ObjId{}) {
		dst.RulerID = src.RulerID
	}
	if src.PreviousRulersIDSum != 0 {
		dst.PreviousRulersIDSum = src.PreviousRulersIDSum
	}
	if src.ProvinceCount != 0 {
		dst.ProvinceCount = src.ProvinceCount
	}

	for k, v := range src.Flags {
		if dst.Flags == nil {
			dst.Flags = map[string]bool{}
		}
		dst.Flags[k] = v
	}

	if src.History.Government != "" {
		dst.History.Government = src.History.Government
	}
	if src.History.Religion != "" {
		dst.History.Religion = src.History.Religion
	}
	if src.History.TechnologyGroup != "" {
		dst.History.TechnologyGroup = src.History.TechnologyGroup
	}
	dst.History.Events = append(dst.History.Events, src.History.Events...)
}

func mergeProvince(dst *model.Province, src *model.Province) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if !src.Owner.IsZero() {
		dst.Owner = src.Owner
	}
	if !src.Controller.IsZero() {
		dst.Controller = src.Controller
	}
	for k, v := range src.Buildings {
		if dst.Buildings == nil {
			dst.Buildings = map[string]bool{}
		}
		dst.Buildings[k] = v
	}
	dst.Modifiers = append(dst.Modifiers, src.Modifiers...)

	if !src.History.InitialOwner.IsZero() {
		dst.History.InitialOwner = src.History.InitialOwner
	}
	if !src.History.InitialController.IsZero() {
		dst.History.InitialController = src.History.InitialController
	}
	for k, v := range src.History.InitialBuildings {
		if dst.History.InitialBuildings == nil {
			dst.History.InitialBuildings = map[string]bool{}
		}
		dst.History.InitialBuildings[k] = v
	}
	for k, v := range src.History.Other {
		if dst.History.Other == nil {
			dst.History.Other = map[string]string{}
		}
		dst.History.Other[k] = v
	}
	dst.History.Events = append(dst.History.Events, src.History.Events...)
}

func (c *cursor) diplomacy(openIdx int) ([]model.DiplomaticRelation, error) {
	var rels []model.DiplomaticRelation

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		kind, skip, err := c.fieldName(keyTok)
		if err != nil || skip {
			return err
		}
		val := c.t.Tokens[valueIdx]
		if val.Kind != tape.KindArray {
			return nil
		}

		return c.forEachElement(valueIdx, func(entryIdx int) error {
			entryVal := c.t.Tokens[entryIdx]
			if !entryVal.Kind.IsScopeOpen() {
				return nil
			}

			var rel model.DiplomaticRelation
			rel.Kind = kind
			err := c.forEachPair(entryIdx, func(fkTok tape.Token, fvIdx int) error {
				fname, fskip, ferr := c.fieldName(fkTok)
				if ferr != nil || fskip {
					return ferr
				}
				fval := c.t.Tokens[fvIdx]

				switch fname {
				case "first":
					if tag, ok := asTag(fval); ok {
						rel.First = tag
					}
				case "second":
					if tag, ok := asTag(fval); ok {
						rel.Second = tag
					}
				case "start_date", "date":
					if date, ok := asDateValue(fval); ok {
						rel.StartDate = date
					}
				}

				return nil
			})
			if err != nil {
				return err
			}

			rels = append(rels, rel)

			return nil
		})
	})

	return rels, err
}

func (c *cursor) ledger(openIdx int, gs *model.GameState) error {
	return c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		channel, skip, err := c.fieldName(keyTok)
		if err != nil || skip {
			return err
		}
		val := c.t.Tokens[valueIdx]
		if !val.Kind.IsScopeOpen() {
			return nil
		}

		perTag := gs.Ledger[channel]
		if perTag == nil {
			perTag = map[model.CountryTag]model.LedgerDatum{}
			gs.Ledger[channel] = perTag
		}

		return c.forEachPair(valueIdx, func(tagTok tape.Token, seriesIdx int) error {
			tagStr, tskip, terr := c.fieldName(tagTok)
			if terr != nil || tskip {
				return terr
			}
			tag, tagErr := model.ParseCountryTag(tagStr)
			if tagErr != nil {
				return nil
			}
			seriesVal := c.t.Tokens[seriesIdx]
			if !seriesVal.Kind.IsScopeOpen() {
				return nil
			}

			var datum model.LedgerDatum
			err := c.alternatingPairs(seriesIdx, func(a, b tape.Token) error {
				yr, ok := asInt(a)
				if !ok {
					return nil
				}
				v, ok := asFloat(b)
				if !ok {
					return nil
				}
				datum.Years = append(datum.Years, int(yr))
				datum.Values = append(datum.Values, v)

				return nil
			})
			if err != nil {
				return err
			}

			perTag[tag] = datum

			return nil
		})
	})
}

// tradeNode deserializes a trade node object (§4.5 "Trade nodes"): a fixed
// prefix, then a mode switch into a tag-keyed country suffix once
// highest_power is seen.
func (d *Deserializer) tradeNode(t *tape.Tape, openIdx int) (*model.TradeNode, error) {
	c := d.cursor(t)
	n := &model.TradeNode{}
	inCountrySection := false

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil || skip {
			return err
		}
		val := c.t.Tokens[valueIdx]

		switch name {
		case "highest_power":
			if v, ok := asFloat(val); ok {
				n.HighestPower = v
			}
			inCountrySection = true

			return nil
		case "name", "definitions":
			if s, ok := stringValue(val); ok {
				n.Name = s
			}

			return nil
		}

		if inCountrySection && isCountryTagLike(name) && val.Kind.IsScopeOpen() {
			tag, tagErr := model.ParseCountryTag(name)
			if tagErr != nil {
				return nil
			}
			entry, err := c.tradeNodeCountry(valueIdx, tag)
			if err != nil {
				return err
			}
			if entry != nil {
				n.Countries = append(n.Countries, *entry)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return n, nil
}

func isCountryTagLike(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		b := s[i]
		if !(b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '-') {
			return false
		}
	}

	return true
}

// tradeNodeCountry reads one country's entry within a trade node's suffix,
// keeping it only if it carries at least one non-zero interesting field.
func (c *cursor) tradeNodeCountry(openIdx int, tag model.CountryTag) (*model.TradeNodeCountry, error) {
	entry := &model.TradeNodeCountry{Tag: tag, Other: map[string]float64{}}
	interesting := false

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil || skip {
			return err
		}
		v, ok := asFloat(c.t.Tokens[valueIdx])
		if !ok {
			return nil
		}

		if name == "privateer_money" {
			entry.PrivateerMoney = v
			if v != 0 {
				interesting = true
			}

			return nil
		}

		entry.Other[name] = v
		if v != 0 {
			interesting = true
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	if !interesting {
		return nil, nil
	}

	return entry, nil
}
