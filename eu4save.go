// Package eu4save is a convenience façade over container, tape, melt, deser
// and query: the synchronous read -> parse -> deserialize -> query pipeline
// described in §5 Concurrency & Resource Model.
package eu4save

import (
	"github.com/paradoxgg/eu4save/container"
	"github.com/paradoxgg/eu4save/deser"
	"github.com/paradoxgg/eu4save/errs"
	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/melt"
	"github.com/paradoxgg/eu4save/model"
	"github.com/paradoxgg/eu4save/resolver"
	"github.com/paradoxgg/eu4save/tape"
)

// config holds the façade's tunables, set via functional options and
// threaded down into melt.Melter/deser.Deserializer.
type config struct {
	resolver *resolver.Resolver
	policy   format.TokenPolicy
	flavor   melt.Flavor
}

func defaultConfig() *config {
	return &config{resolver: resolver.Empty(), policy: format.PolicyDefault, flavor: melt.EU4{}}
}

// Option configures a Save's parsing, melting, and deserializing behavior.
type Option func(*config)

// WithResolver supplies the token-id-to-name table used when the save turns
// out to be binary.
func WithResolver(r *resolver.Resolver) Option {
	return func(c *config) { c.resolver = r }
}

// WithPolicy sets the behavior on an unresolved token id, shared by melt
// and deser.
func WithPolicy(p format.TokenPolicy) Option {
	return func(c *config) { c.policy = p }
}

// WithFlavor sets the melter's game-specific date-key/filtered-key tables.
func WithFlavor(f melt.Flavor) Option {
	return func(c *config) { c.flavor = f }
}

// Save is an opened and parsed savegame: one Tape per container entry, kept
// alongside the encoding that was detected and the configuration used to
// parse it.
type Save struct {
	cfg       *config
	Encoding  format.Encoding
	container *container.Container
	tapes     map[string]*tape.Tape
}

// Open classifies raw bytes, inflates any zip members, and parses every
// entry into a Tape (§4.1, §4.3). The save's own dialect (text or binary)
// is read from the detected Encoding; no option selects it manually.
func Open(data []byte, opts ...Option) (*Save, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	c, err := container.Open(data)
	if err != nil {
		return nil, err
	}

	tapes := make(map[string]*tape.Tape, len(c.Entries()))
	for _, e := range c.Entries() {
		t, err := parseEntry(c.Encoding, e.Data)
		if err != nil {
			return nil, err
		}
		tapes[e.Name] = t
	}

	return &Save{cfg: cfg, Encoding: c.Encoding, container: c, tapes: tapes}, nil
}

func parseEntry(enc format.Encoding, data []byte) (*tape.Tape, error) {
	if enc.IsBinary() {
		return tape.ParseBinary(data)
	}

	return tape.ParseText(data)
}

// Tape returns the parsed tape for the named container entry ("meta",
// "gamestate", "ai"), or the sole entry when name is "" and the save was
// not a zip.
func (s *Save) Tape(name string) (*tape.Tape, bool) {
	t, ok := s.tapes[name]

	return t, ok
}

// Melt re-serializes the named entry back into the text dialect (§4.4). It
// is a no-op-equivalent (besides re-formatting) for an already-text save.
func (s *Save) Melt(name string) ([]byte, error) {
	t, ok := s.tapes[name]
	if !ok {
		return nil, &errs.ZipMissingEntryError{Name: name}
	}

	m, err := melt.New(melt.WithResolver(s.cfg.resolver), melt.WithPolicy(s.cfg.policy), melt.WithFlavor(s.cfg.flavor))
	if err != nil {
		return nil, err
	}

	return m.Melt(t, name)
}

func (s *Save) deserializer() (*deser.Deserializer, error) {
	return deser.New(deser.WithResolver(s.cfg.resolver), deser.WithPolicy(s.cfg.policy))
}

// Meta deserializes the save's meta section: a zip's named "meta" member
// when present, otherwise the sole "" entry of a standalone save.
func (s *Save) Meta() (*model.Meta, error) {
	t, ok := s.entryTape("meta")
	if !ok {
		return nil, &errs.ZipMissingEntryError{Name: "meta"}
	}

	d, err := s.deserializer()
	if err != nil {
		return nil, err
	}

	m, err := d.Meta(t)
	if err != nil {
		return nil, &errs.DeserializeError{Part: "meta", Cause: err}
	}

	return m, nil
}

// GameState deserializes the save's gamestate section.
func (s *Save) GameState() (*model.GameState, error) {
	t, ok := s.entryTape("gamestate")
	if !ok {
		return nil, &errs.ZipMissingEntryError{Name: "gamestate"}
	}

	d, err := s.deserializer()
	if err != nil {
		return nil, err
	}

	gs, err := d.GameState(t)
	if err != nil {
		return nil, &errs.DeserializeError{Part: "gamestate", Cause: err}
	}

	return gs, nil
}

// entryTape resolves name against either the zip member of that name or,
// for a standalone (non-zip) save, the sole "" entry.
func (s *Save) entryTape(name string) (*tape.Tape, bool) {
	if t, ok := s.tapes[name]; ok {
		return t, true
	}

	t, ok := s.tapes[""]

	return t, ok
}
