package data

import (
	"errors"
	"net"
	"os"
	"testing"
)

const testMMDBPath = "../../testdata/GeoLite2-Country-Test.mmdb"

func skipIfNoMMDB(t *testing.T) {
	t.Helper()
	if _, err := os.Stat(testMMDBPath); os.IsNotExist(err) {
		t.Skip("test MMDB file not found; download it with: curl -L -o testdata/GeoLite2-Country-Test.mmdb https://github.com/maxmind/MaxMind-DB/raw/main/test-data/GeoLite2-Country-Test.mmdb")
	}
}

func TestNewMmdbReader_Success(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testMMDBPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()
}

func TestNewMmdbReader_InvalidPath(t *testing.T) {
	_, err := NewMmdbReader("/nonexistent/path.mmdb")
	if err == nil {
		t.Fatal("expected error for invalid path")
	}

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *OpenError, got %T", err)
	}
	if openErr.Source != "/nonexistent/path.mmdb" {
		t.Errorf("expected source to be the path, got %q", openErr.Source)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", openErr.Err)
	}
}

func TestNewMmdbReaderFromBytes_Garbage(t *testing.T) {
	_, err := NewMmdbReaderFromBytes([]byte("definitely not a maxmind database"))

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("expected *OpenError, got %v", err)
	}
}

func TestNewMmdbReaderFromBytes_Success(t *testing.T) {
	skipIfNoMMDB(t)

	b, err := os.ReadFile(testMMDBPath)
	if err != nil {
		t.Fatalf("failed to read MMDB: %v", err)
	}
	reader, err := NewMmdbReaderFromBytes(b)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	if got := reader.LookupCountry(net.ParseIP("216.160.83.56")); got != "US" {
		t.Errorf("expected country US, got %q", got)
	}
}

func TestMmdbReader_LookupCountry(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testMMDBPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	tests := []struct {
		name string
		ip   string
		want CountryCode
	}{
		{name: "UK IP", ip: "2.125.160.216", want: "GB"},
		{name: "US IP", ip: "216.160.83.56", want: "US"},
		{name: "SE IP", ip: "89.160.20.112", want: "SE"},
		{name: "IPv6 JP", ip: "2001:218::", want: "JP"},
		{name: "private", ip: "10.1.2.3", want: Unknown},
		{name: "loopback", ip: "127.0.0.1", want: Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("failed to parse IP: %s", tt.ip)
			}

			if country := reader.LookupCountry(ip); country != tt.want {
				t.Errorf("expected country %q, got %q", tt.want, country)
			}
		})
	}
}

func TestMmdbReader_LookupNilIP(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testMMDBPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}
	defer reader.Close()

	if got := reader.LookupCountry(nil); got != Unknown {
		t.Errorf("expected Unknown for nil IP, got %q", got)
	}
}

func TestMmdbReader_Close(t *testing.T) {
	skipIfNoMMDB(t)

	reader, err := NewMmdbReader(testMMDBPath)
	if err != nil {
		t.Fatalf("failed to create reader: %v", err)
	}

	if err := reader.Close(); err != nil {
		t.Fatalf("failed to close reader: %v", err)
	}
}

func TestParseCountryCode(t *testing.T) {
	tests := map[string]CountryCode{
		"us":   "US",
		" Fr ": "FR",
		"DE":   "DE",
		"":     Unknown,
	}
	for in, want := range tests {
		if got := ParseCountryCode(in); got != want {
			t.Errorf("ParseCountryCode(%q) = %q, want %q", in, got, want)
		}
	}
}
