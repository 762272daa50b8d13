package data

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/oschwald/geoip2-golang"
)

// OpenError reports a database that could not be opened.
type OpenError struct {
	Source string
	Err    error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open MMDB %s: %v", e.Source, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}

// MmdbReader implements CountryLookup using a MaxMind MMDB file.
type MmdbReader struct {
	db *geoip2.Reader
}

// NewMmdbReader opens the MMDB file at the given path and returns a reader.
func NewMmdbReader(path string) (*MmdbReader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, &OpenError{Source: path, Err: err}
	}
	return &MmdbReader{db: db}, nil
}

// NewMmdbReaderFromBytes returns a reader over an in-memory MMDB image.
func NewMmdbReaderFromBytes(b []byte) (*MmdbReader, error) {
	db, err := geoip2.FromBytes(b)
	if err != nil {
		return nil, &OpenError{Source: "<memory>", Err: err}
	}
	return &MmdbReader{db: db}, nil
}

// LookupCountry returns the ISO-3166 country code for the given IP address,
// or Unknown if the database has no country for it.
func (r *MmdbReader) LookupCountry(ip net.IP) CountryCode {
	if ip == nil {
		return Unknown
	}
	record, err := r.db.Country(ip)
	if err != nil {
		slog.Debug("country lookup failed", "ip", ip.String(), "error", err)
		return Unknown
	}
	return ParseCountryCode(record.Country.IsoCode)
}

// DatabaseType reports the type string from the database metadata.
func (r *MmdbReader) DatabaseType() string {
	return r.db.Metadata().DatabaseType
}

// Close releases the MMDB reader resources.
func (r *MmdbReader) Close() error {
	return r.db.Close()
}
