// Package deser drives a visitor-style walk over a Tape (either dialect)
// to materialize the typed entities in package model (§4.5).
package deser

import (
	"github.com/paradoxgg/eu4save/format"
	"github.com/paradoxgg/eu4save/internal/options"
	"github.com/paradoxgg/eu4save/resolver"
)

// config holds a Deserializer's tunables, set via functional options.
type config struct {
	resolver *resolver.Resolver
	policy   format.TokenPolicy
}

func defaultConfig() *config {
	return &config{resolver: resolver.Empty(), policy: format.PolicyDefault}
}

// Option configures a Deserializer.
type Option = options.Option[*config]

// WithResolver supplies the token-id-to-name table used to resolve
// Token(id) keys and values when deserializing a binary-dialect tape.
func WithResolver(r *resolver.Resolver) Option {
	return options.NoError(func(c *config) { c.resolver = r })
}

// WithPolicy sets the behavior on an unresolved token id (mirrors melt's
// policy, since an unresolved field name is equally ambiguous here).
func WithPolicy(p format.TokenPolicy) Option {
	return options.NoError(func(c *config) { c.policy = p })
}

// Deserializer materializes model entities from a tape under a fixed
// configuration. It holds no per-tape state and is safe for concurrent use.
type Deserializer struct {
	cfg *config
}

// New builds a Deserializer from opts.
func New(opts ...Option) (*Deserializer, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Deserializer{cfg: cfg}, nil
}
