package tariff

import (
	"time"

	"github.com/TomasB/geotariff/internal/data"
)

// Config assembles a tariff middleware from a resolver and per-country delays.
//
//	layer := tariff.NewConfig(reader).
//		With("US", 2*time.Second).
//		With("CN", 500*time.Millisecond).
//		IntoLayer()
type Config struct {
	resolver data.CountryLookup
	table    *TableBuilder
}

// NewConfig returns a Config with no delays.
func NewConfig(resolver data.CountryLookup) *Config {
	return &Config{resolver: resolver, table: NewTableBuilder()}
}

// With adds a delay for the given ISO alpha-2 country code. Codes are case
// insensitive and the last value given for a code wins.
func (c *Config) With(code string, delay time.Duration) *Config {
	c.table.With(code, delay)
	return c
}

// IntoPolicy freezes the configured delays into a Policy.
func (c *Config) IntoPolicy() *Policy {
	return NewPolicy(c.resolver, c.table.Build())
}

// IntoLayer freezes the configured delays into a middleware Layer.
func (c *Config) IntoLayer() *Layer {
	return NewLayer(c.IntoPolicy())
}
