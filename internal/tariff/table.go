package tariff

import (
	"sort"
	"time"

	"github.com/TomasB/geotariff/internal/data"
)

// Table maps country codes to delays. A built Table is never modified.
type Table struct {
	delays map[data.CountryCode]time.Duration
}

// Get returns the delay configured for code, or zero.
func (t Table) Get(code data.CountryCode) time.Duration {
	return t.delays[data.ParseCountryCode(string(code))]
}

// Len returns the number of countries with a non-zero delay.
func (t Table) Len() int {
	return len(t.delays)
}

// Countries returns the configured country codes in sorted order.
func (t Table) Countries() []data.CountryCode {
	codes := make([]data.CountryCode, 0, len(t.delays))
	for code := range t.delays {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// TableBuilder collects country delays before freezing them into a Table.
type TableBuilder struct {
	delays map[data.CountryCode]time.Duration
}

// NewTableBuilder returns an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{delays: make(map[data.CountryCode]time.Duration)}
}

// With sets the delay for code, replacing any earlier value. A delay of zero
// or less clears the code.
func (b *TableBuilder) With(code string, delay time.Duration) *TableBuilder {
	cc := data.ParseCountryCode(code)
	if cc == data.Unknown {
		return b
	}
	if delay <= 0 {
		delete(b.delays, cc)
		return b
	}
	b.delays[cc] = delay
	return b
}

// Build returns a Table holding a copy of the current entries.
func (b *TableBuilder) Build() Table {
	delays := make(map[data.CountryCode]time.Duration, len(b.delays))
	for code, d := range b.delays {
		delays[code] = d
	}
	return Table{delays: delays}
}
