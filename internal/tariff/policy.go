package tariff

import (
	"net"
	"time"

	"github.com/TomasB/geotariff/internal/data"
)

// Policy decides how long to hold a request from a given address.
//
// Decisions fail open: an address that cannot be resolved, or a country
// without a configured delay, gets no delay.
type Policy struct {
	resolver data.CountryLookup
	table    Table
}

// NewPolicy returns a Policy over resolver and table.
func NewPolicy(resolver data.CountryLookup, table Table) *Policy {
	return &Policy{resolver: resolver, table: table}
}

// Decide returns the delay for ip, possibly zero.
func (p *Policy) Decide(ip net.IP) time.Duration {
	_, d := p.Explain(ip)
	return d
}

// Explain returns the resolved country alongside the delay for ip.
func (p *Policy) Explain(ip net.IP) (data.CountryCode, time.Duration) {
	if ip == nil {
		return data.Unknown, 0
	}
	code := p.resolver.LookupCountry(ip)
	if code == data.Unknown {
		return data.Unknown, 0
	}
	return code, p.table.Get(code)
}

// Table returns the policy's delay table.
func (p *Policy) Table() Table {
	return p.table
}
