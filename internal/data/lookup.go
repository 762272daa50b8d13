package data

import (
	"net"
	"strings"
)

// CountryCode is an ISO-3166 alpha-2 country code in upper case.
type CountryCode string

// Unknown is returned when an address cannot be resolved to a country.
const Unknown CountryCode = ""

// ParseCountryCode returns the canonical form of s.
func ParseCountryCode(s string) CountryCode {
	return CountryCode(strings.ToUpper(strings.TrimSpace(s)))
}

// CountryLookup defines the interface for IP-to-country lookups.
type CountryLookup interface {
	// LookupCountry returns the country code for the given IP address.
	// It never fails: misses, reserved ranges and nil addresses all yield Unknown.
	LookupCountry(ip net.IP) CountryCode

	// Close releases any resources held by the lookup implementation.
	Close() error
}
