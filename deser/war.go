package deser

import (
	"fmt"

	"github.com/paradoxgg/eu4save/errs"
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

// War deserializes the war object opened at openIdx. Unlike province and
// country history, an unrecognized dated event here is a fatal parse error
// rather than a silently-ignored one (§4.5 "Polymorphic events").
func (d *Deserializer) War(t *tape.Tape, openIdx int, fallbackName string) (*model.WarHistory, error) {
	c := d.cursor(t)
	w := &model.WarHistory{Name: fallbackName}

	known := func(name string, valueIdx int) (bool, error) {
		if name == "name" {
			if s, ok := stringValue(c.t.Tokens[valueIdx]); ok {
				w.Name = s
			}

			return true, nil
		}

		return false, nil
	}

	onDate := func(date model.Date, valueIdx int) error {
		val := c.t.Tokens[valueIdx]
		if !val.Kind.IsScopeOpen() {
			return nil
		}

		events, err := c.warDatedEvents(valueIdx)
		if err != nil {
			return err
		}
		for _, e := range events {
			w.Events = append(w.Events, model.DatedWarEvent{Date: date, Event: e})
		}

		return nil
	}

	if err := c.walkHistory(openIdx, known, onDate, nil); err != nil {
		return nil, err
	}

	return w, nil
}

func (c *cursor) warDatedEvents(openIdx int) ([]model.WarEvent, error) {
	var events []model.WarEvent

	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		val := c.t.Tokens[valueIdx]

		if name == "battle" {
			s, ok := stringValue(val)
			if !ok {
				return &errs.ParseError{Msg: "malformed battle entry", Offset: valueIdx}
			}
			events = append(events, model.WarEvent{Kind: model.WarEventBattle, Name: s})

			return nil
		}

		var kind model.WarEventKind
		switch name {
		case "add_attacker":
			kind = model.WarEventAddAttacker
		case "add_defender":
			kind = model.WarEventAddDefender
		case "rem_attacker":
			kind = model.WarEventRemoveAttacker
		case "rem_defender":
			kind = model.WarEventRemoveDefender
		default:
			return &errs.ParseError{Msg: fmt.Sprintf("unrecognized war event %q", name), Offset: valueIdx}
		}

		tag, ok := asTag(val)
		if !ok {
			return &errs.ParseError{Msg: fmt.Sprintf("malformed %s entry", name), Offset: valueIdx}
		}
		events = append(events, model.WarEvent{Kind: kind, Tag: tag})

		return nil
	})

	return events, err
}
