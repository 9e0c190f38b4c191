package deser

import (
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

// Country deserializes the country object opened at openIdx into a Country
// with the given tag (§3 Country, §4.5 history blocks).
func (d *Deserializer) Country(t *tape.Tape, openIdx int, tag model.CountryTag) (*model.Country, error) {
	c := d.cursor(t)
	co := &model.Country{Tag: tag}

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		val := c.t.Tokens[valueIdx]

		switch name {
		case "name":
			if s, ok := stringValue(val); ok {
				co.Name = s
			}
		case "government":
			if s, ok := stringValue(val); ok {
				co.Government = s
			}
		case "religion":
			if s, ok := stringValue(val); ok {
				co.Religion = s
			}
		case "primary_culture":
			if s, ok := stringValue(val); ok {
				co.Culture = s
			}
		case "capital":
			if n, ok := asInt(val); ok {
				co.Capital = model.NewProvinceId(int32(n))
			}
		case "was_player":
			if b, ok := boolValue(val); ok {
				co.WasPlayer = b
			}
		case "flags":
			if val.Kind.IsScopeOpen() {
				set, err := c.yesValuedSet(valueIdx)
				if err != nil {
					return err
				}
				co.Flags = set
			}
		case "id":
			if val.Kind.IsScopeOpen() {
				if objID, ok := c.objId(valueIdx); ok {
					co.ObjID = objID
				}
			}
		case "monarch":
			if val.Kind.IsScopeOpen() {
				if objID, ok := c.objId(valueIdx); ok {
					co.RulerID = objID
				}
			}
		case "previous_monarchs":
			if val.Kind == tape.KindArray {
				sum, err := c.sumPreviousMonarchIDs(valueIdx)
				if err != nil {
					return err
				}
				co.PreviousRulersIDSum = sum
			}
		case "lastmonthincometable":
			if val.Kind == tape.KindArray {
				arr, err := c.fixedFloatArray(valueIdx, 19)
				if err != nil {
					return err
				}
				co.Income = arr
			}
		case "lastmonthexpensetable":
			if val.Kind == tape.KindArray {
				arr, err := c.fixedFloatArray(valueIdx, 38)
				if err != nil {
					return err
				}
				co.Expense = arr
			}
		case "adm_spent":
			if arr, err := c.manaSpentArray(val, valueIdx); err != nil {
				return err
			} else if arr != nil {
				co.ManaSpent[0] = arr
			}
		case "dip_spent":
			if arr, err := c.manaSpentArray(val, valueIdx); err != nil {
				return err
			} else if arr != nil {
				co.ManaSpent[1] = arr
			}
		case "mil_spent":
			if arr, err := c.manaSpentArray(val, valueIdx); err != nil {
				return err
			} else if arr != nil {
				co.ManaSpent[2] = arr
			}
		case "owned_provinces":
			if val.Kind == tape.KindArray {
				n := 0
				if err := c.forEachElement(valueIdx, func(int) error { n++; return nil }); err != nil {
					return err
				}
				co.ProvinceCount = n
			}
		case "history":
			if val.Kind.IsScopeOpen() {
				hist, err := c.countryHistory(valueIdx)
				if err != nil {
					return err
				}
				co.History = *hist
				if co.Government == "" {
					co.Government = hist.Government
				}
				if co.Religion == "" {
					co.Religion = hist.Religion
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return co, nil
}

func (c *cursor) manaSpentArray(val tape.Token, valueIdx int) ([]float64, error) {
	if val.Kind != tape.KindArray {
		return nil, nil
	}

	return c.fixedFloatArray(valueIdx, 30)
}

func (c *cursor) objId(openIdx int) (model.ObjId, bool) {
	var id model.ObjId
	var ok bool

	_ = c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil || skip {
			return nil
		}
		n, good := asInt(c.t.Tokens[valueIdx])
		if !good {
			return nil
		}

		switch name {
		case "id":
			id.ID = uint32(n)
			ok = true
		case "type":
			id.Type = uint32(n)
			ok = true
		}

		return nil
	})

	return id, ok
}

func (c *cursor) sumPreviousMonarchIDs(openIdx int) (uint64, error) {
	var sum uint64

	err := c.forEachElement(openIdx, func(valueIdx int) error {
		val := c.t.Tokens[valueIdx]
		if !val.Kind.IsScopeOpen() {
			return nil
		}
		if objID, ok := c.objId(valueIdx); ok {
			sum += uint64(objID.ID)
		}

		return nil
	})

	return sum, err
}

func (c *cursor) countryHistory(openIdx int) (*model.CountryHistory, error) {
	h := &model.CountryHistory{}

	known := func(name string, valueIdx int) (bool, error) {
		val := c.t.Tokens[valueIdx]

		switch name {
		case "government":
			if s, ok := stringValue(val); ok {
				h.Government = s
			}

			return true, nil
		case "religion":
			if s, ok := stringValue(val); ok {
				h.Religion = s
			}

			return true, nil
		case "technology_group":
			if s, ok := stringValue(val); ok {
				h.TechnologyGroup = s
			}

			return true, nil
		default:
			return false, nil
		}
	}

	onDate := func(date model.Date, valueIdx int) error {
		val := c.t.Tokens[valueIdx]
		if !val.Kind.IsScopeOpen() {
			return nil
		}

		events, err := c.countryDatedEvents(valueIdx)
		if err != nil {
			return err
		}
		for _, e := range events {
			h.Events = append(h.Events, model.DatedCountryEvent{Date: date, Event: e})
		}

		return nil
	}

	// Unrecognized non-date preamble keys are discarded, matching the
	// treatment of war history rather than province history's "other" map.
	if err := c.walkHistory(openIdx, known, onDate, nil); err != nil {
		return nil, err
	}

	return h, nil
}

func (c *cursor) countryDatedEvents(openIdx int) ([]model.CountryEvent, error) {
	var events []model.CountryEvent

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		val := c.t.Tokens[valueIdx]

		if name == "changed_tag_from" {
			if tag, ok := asTag(val); ok {
				events = append(events, model.CountryEvent{Kind: model.CountryEventChangedTagFrom, PrevTag: tag})
			}

			return nil
		}

		if val.Kind.IsScopeOpen() {
			return nil
		}
		text, skip2, err := c.textValue(val)
		if err != nil {
			return err
		}
		if skip2 {
			return nil
		}
		events = append(events, model.CountryEvent{Kind: model.CountryEventOther, Key: name, Value: text})

		return nil
	})

	return events, err
}
