package tariff

import (
	"net"
	"testing"
	"time"

	"github.com/TomasB/geotariff/internal/data"
)

// mockLookup implements data.CountryLookup for testing.
type mockLookup struct {
	countries map[string]data.CountryCode
}

func (m *mockLookup) LookupCountry(ip net.IP) data.CountryCode {
	if ip == nil {
		return data.Unknown
	}
	return m.countries[ip.String()]
}

func (m *mockLookup) Close() error {
	return nil
}

const (
	usIP      = "216.160.83.56"
	frIP      = "81.2.69.200"
	deIP      = "89.160.20.112"
	unknownIP = "10.0.0.1"
)

func newMockLookup() *mockLookup {
	return &mockLookup{countries: map[string]data.CountryCode{
		usIP: "US",
		frIP: "FR",
		deIP: "DE",
	}}
}

func TestPolicy_Decide(t *testing.T) {
	policy := NewConfig(newMockLookup()).
		With("US", time.Second).
		With("FR", 500*time.Millisecond).
		IntoPolicy()

	tests := []struct {
		name string
		ip   string
		want time.Duration
	}{
		{name: "configured US", ip: usIP, want: time.Second},
		{name: "configured FR", ip: frIP, want: 500 * time.Millisecond},
		{name: "unconfigured DE", ip: deIP, want: 0},
		{name: "unresolvable", ip: unknownIP, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Decide(net.ParseIP(tt.ip)); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPolicy_DecideNilIP(t *testing.T) {
	policy := NewConfig(newMockLookup()).With("US", time.Second).IntoPolicy()

	if got := policy.Decide(nil); got != 0 {
		t.Errorf("expected no delay for nil IP, got %v", got)
	}
}

func TestPolicy_Explain(t *testing.T) {
	policy := NewConfig(newMockLookup()).With("US", time.Second).IntoPolicy()

	country, delay := policy.Explain(net.ParseIP(deIP))
	if country != "DE" {
		t.Errorf("expected country DE, got %q", country)
	}
	if delay != 0 {
		t.Errorf("expected no delay, got %v", delay)
	}

	country, delay = policy.Explain(net.ParseIP(unknownIP))
	if country != data.Unknown || delay != 0 {
		t.Errorf("expected Unknown with no delay, got %q %v", country, delay)
	}
}

func TestPolicy_Deterministic(t *testing.T) {
	policy := NewConfig(newMockLookup()).With("FR", 250*time.Millisecond).IntoPolicy()
	ip := net.ParseIP(frIP)

	for i := 0; i < 10; i++ {
		if got := policy.Decide(ip); got != 250*time.Millisecond {
			t.Fatalf("call %d: expected 250ms, got %v", i, got)
		}
	}
}

func TestConfig_IntoPolicyFreezes(t *testing.T) {
	cfg := NewConfig(newMockLookup()).With("US", time.Second)
	policy := cfg.IntoPolicy()

	cfg.With("US", 0)

	if got := policy.Decide(net.ParseIP(usIP)); got != time.Second {
		t.Errorf("policy changed after config update: got %v", got)
	}
}
