package deser

import (
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

// Province deserializes the province object opened at openIdx into a
// Province with the given id (§3 Province, §4.5 history blocks).
func (d *Deserializer) Province(t *tape.Tape, openIdx int, id model.ProvinceId) (*model.Province, error) {
	c := d.cursor(t)
	p := &model.Province{ID: id, Buildings: map[string]bool{}}

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
				p.Name = s
			}
		case "owner":
			if tag, ok := asTag(val); ok {
				p.Owner = tag
			}
		case "controller":
			if tag, ok := c.controllerTag(val, valueIdx); ok {
				p.Controller = tag
			}
		case "buildings":
			if val.Kind.IsScopeOpen() {
				set, err := c.yesValuedSet(valueIdx)
				if err != nil {
					return err
				}
				for k := range set {
					p.Buildings[k] = true
				}
			}
		case "modifier", "modifiers":
			if val.Kind == tape.KindArray {
				mods, err := c.provinceModifierNames(valueIdx)
				if err != nil {
					return err
				}
				p.Modifiers = append(p.Modifiers, mods...)
			}
		case "history":
			if val.Kind.IsScopeOpen() {
				hist, err := c.provinceHistory(valueIdx)
				if err != nil {
					return err
				}
				p.History = *hist
				if p.Owner.IsZero() {
					p.Owner = hist.InitialOwner
				}
				if p.Controller.IsZero() {
					p.Controller = hist.InitialController
				}
				for k := range hist.InitialBuildings {
					p.Buildings[k] = true
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

// controllerTag reads a controller field that may be a bare tag (older
// saves) or an object wrapping a "tag" sub-field (newer saves).
func (c *cursor) controllerTag(val tape.Token, valueIdx int) (model.CountryTag, bool) {
	if tag, ok := asTag(val); ok {
		return tag, true
	}
	if !val.Kind.IsScopeOpen() {
		return model.CountryTag{}, false
	}

	var found model.CountryTag
	var ok bool
	_ = c.forEachPair(valueIdx, func(keyTok tape.Token, innerIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil || skip {
			return nil
		}
		if name == "tag" {
			if tag, good := asTag(c.t.Tokens[innerIdx]); good {
				found, ok = tag, true
			}
		}

		return nil
	})

	return found, ok
}

func (c *cursor) provinceModifierNames(openIdx int) ([]string, error) {
	var out []string
	err := c.forEachElement(openIdx, func(valueIdx int) error {
		val := c.t.Tokens[valueIdx]
		if !val.Kind.IsScopeOpen() {
			return nil
		}

		return c.forEachPair(valueIdx, func(keyTok tape.Token, innerIdx int) error {
			name, skip, err := c.fieldName(keyTok)
			if err != nil || skip {
				return nil
			}
			if name == "modifier" {
				if s, ok := stringValue(c.t.Tokens[innerIdx]); ok {
					out = append(out, s)
				}
			}

			return nil
		})
	})

	return out, err
}

func (c *cursor) provinceHistory(openIdx int) (*model.ProvinceHistory, error) {
	h := &model.ProvinceHistory{InitialBuildings: map[string]bool{}, Other: map[string]string{}}

	known := func(name string, valueIdx int) (bool, error) {
		val := c.t.Tokens[valueIdx]

		switch name {
		case "owner":
			if tag, ok := asTag(val); ok {
				h.InitialOwner = tag
			}

			return true, nil
		case "controller":
			if tag, ok := c.controllerTag(val, valueIdx); ok {
				h.InitialController = tag
			}

			return true, nil
		default:
			if val.Kind == tape.KindBool && val.Bool {
				h.InitialBuildings[name] = true

				return true, nil
			}

			return false, nil
		}
	}

	onDate := func(date model.Date, valueIdx int) error {
		val := c.t.Tokens[valueIdx]
		if !val.Kind.IsScopeOpen() {
			return nil
		}

		events, err := c.provinceDatedEvents(valueIdx)
		if err != nil {
			return err
		}
		for _, e := range events {
			h.Events = append(h.Events, model.DatedProvinceEvent{Date: date, Event: e})
		}

		return nil
	}

	onUnrecognized := func(name string, valueIdx int) error {
		text, skip, err := c.textValue(c.t.Tokens[valueIdx])
		if err != nil {
			return err
		}
		if !skip {
			h.Other[name] = text
		}

		return nil
	}

	if err := c.walkHistory(openIdx, known, onDate, onUnrecognized); err != nil {
		return nil, err
	}

	return h, nil
}

// provinceDatedEvents decodes the object hanging off a single date key
// within a province history block into zero or more events: an owner or
// controller change, a building flag, or a raw other-field fallback
// (§4.5 "Polymorphic events", ignore-unknown for province).
func (c *cursor) provinceDatedEvents(openIdx int) ([]model.ProvinceEvent, error) {
	var events []model.ProvinceEvent

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
		case "owner":
			if tag, ok := asTag(val); ok {
				events = append(events, model.ProvinceEvent{Kind: model.ProvinceEventOwner, Tag: tag})
			}

			return nil
		case "controller":
			if tag, ok := c.controllerTag(val, valueIdx); ok {
				events = append(events, model.ProvinceEvent{Kind: model.ProvinceEventController, Tag: tag})
			}

			return nil
		}

		if val.Kind == tape.KindBool {
			kind := model.ProvinceEventBuildingDestroyed
			if val.Bool {
				kind = model.ProvinceEventBuildingConstructed
			}
			events = append(events, model.ProvinceEvent{Kind: kind, Building: name})

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
		events = append(events, model.ProvinceEvent{Kind: model.ProvinceEventOther, Key: name, Value: text})

		return nil
	})

	return events, err
}
