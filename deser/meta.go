package deser

import (
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/tape"
)

// Meta deserializes the save's meta section (§3 Meta).
func (d *Deserializer) Meta(t *tape.Tape) (*model.Meta, error) {
	c := d.cursor(t)
	m := &model.Meta{}

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
		case "date":
			if v, ok := asDateValue(val); ok {
				m.Date = v
			}
		case "campaign_id", "campaign_identifier":
			if s, ok := stringValue(val); ok {
				m.CampaignID = s
			}
		case "save_game", "name":
			if s, ok := stringValue(val); ok {
				m.SaveName = s
			}
		case "player":
			if tag, ok := asTag(val); ok {
				m.Player = tag
			}
		case "ironman", "is_ironman":
			if b, ok := boolValue(val); ok {
				m.IsIronman = b
			}
		case "multiplayer", "multi_player":
			if b, ok := boolValue(val); ok {
				m.Multiplayer = b
			}
		case "checksum":
			if s, ok := stringValue(val); ok {
				m.Checksum = s
			}
		case "dlc_enabled":
			if val.Kind.IsScopeOpen() {
				list, err := c.stringList(valueIdx)
				if err != nil {
					return err
				}
				m.DLCEnabled = list
			}
		case "mods", "mod_enabled":
			if val.Kind.IsScopeOpen() {
				list, err := c.stringList(valueIdx)
				if err != nil {
					return err
				}
				m.Mods = list
			}
		case "savegame_version":
			if val.Kind == tape.KindObject {
				v, err := c.savegameVersion(valueIdx)
				if err != nil {
					return err
				}
				m.SavegameVersion = v
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (c *cursor) stringList(openIdx int) ([]string, error) {
	var out []string
	err := c.forEachElement(openIdx, func(valueIdx int) error {
		if s, ok := stringValue(c.t.Tokens[valueIdx]); ok {
			out = append(out, s)
		}

		return nil
	})

	return out, err
}

func (c *cursor) savegameVersion(openIdx int) (model.Version, error) {
	var v model.Version
	err := c.forEachPair(openIdx, func(keyTok tape.Token, valueIdx int) error {
		name, skip, err := c.fieldName(keyTok)
		if err != nil {
			return err
		}
		if skip {
			return nil
		}

		n, ok := asInt(c.t.Tokens[valueIdx])
		if !ok {
			return nil
		}

		switch name {
		case "first":
			v.Major = int(n)
		case "second":
			v.Minor = int(n)
		case "third":
			v.Patch = int(n)
		case "fourth":
			v.Build = int(n)
		}

		return nil
	})

	return v, err
}

func stringValue(tok tape.Token) (string, bool) {
	switch tok.Kind {
	case tape.KindQuoted, tape.KindUnquoted:
		return string(tok.Bytes), true
	default:
		return "", false
	}
}

func boolValue(tok tape.Token) (bool, bool) {
	if tok.Kind == tape.KindBool {
		return tok.Bool, true
	}

	return false, false
}

// asDateValue reads a value-position token as a date: a textual literal in
// the text dialect, or a packed i32 in the binary dialect (accepted
// unconditionally here since the field name "date" already establishes
// intent — the melter, not the deserializer, is the one that needs the
// plausibility heuristic to disambiguate an unnamed context).
func asDateValue(tok tape.Token) (model.Date, bool) {
	switch tok.Kind {
	case tape.KindQuoted, tape.KindUnquoted:
		d, err := model.ParseDate(string(tok.Bytes))
		return d, err == nil
	case tape.KindI32:
		d, err := model.FromPackedInt32(tok.I32)
		return d, err == nil
	default:
		return model.Date{}, false
	}
}
