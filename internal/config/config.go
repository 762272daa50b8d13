package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port       string
	GRPCPort   string
	LogLevel   string
	MMDBPath   string
	TariffFile string
	Tariffs    []Tariff
}

// Tariff is a delay for one country.
type Tariff struct {
	Country string
	Delay   time.Duration
}

// File is the layout of the YAML tariff file.
type File struct {
	Tariffs []FileTariff `yaml:"tariffs"`
}

// FileTariff is one entry of the YAML tariff file.
type FileTariff struct {
	Country string `yaml:"country"`
	Delay   string `yaml:"delay"`
}

// Load reads the configuration using getenv. Tariffs from TARIFF_FILE come
// first, followed by those in TARIFFS, so later entries override earlier ones.
func Load(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:       getenv("PORT"),
		GRPCPort:   getenv("GRPC_PORT"),
		LogLevel:   getenv("LOG_LEVEL"),
		MMDBPath:   getenv("MMDB_PATH"),
		TariffFile: getenv("TARIFF_FILE"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.MMDBPath == "" {
		return nil, fmt.Errorf("MMDB_PATH environment variable is required")
	}

	if cfg.TariffFile != "" {
		tariffs, err := ReadFile(cfg.TariffFile)
		if err != nil {
			return nil, err
		}
		cfg.Tariffs = append(cfg.Tariffs, tariffs...)
	}

	tariffs, err := ParseList(getenv("TARIFFS"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARIFFS: %w", err)
	}
	cfg.Tariffs = append(cfg.Tariffs, tariffs...)

	return cfg, nil
}

// ReadFile reads tariffs from a YAML file.
func ReadFile(path string) ([]Tariff, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tariff file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse tariff file %s: %w", path, err)
	}

	tariffs := make([]Tariff, 0, len(f.Tariffs))
	for i, ft := range f.Tariffs {
		t, err := parseTariff(ft.Country, ft.Delay)
		if err != nil {
			return nil, fmt.Errorf("tariff file %s entry %d: %w", path, i, err)
		}
		tariffs = append(tariffs, t)
	}
	return tariffs, nil
}

// ParseList parses a comma separated list such as "US=1s,FR=500ms".
func ParseList(s string) ([]Tariff, error) {
	var tariffs []Tariff
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		code, delay, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("entry %q: expected COUNTRY=DURATION", item)
		}
		t, err := parseTariff(code, delay)
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", item, err)
		}
		tariffs = append(tariffs, t)
	}
	return tariffs, nil
}

func parseTariff(code, delay string) (Tariff, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !isCountryCode(code) {
		return Tariff{}, fmt.Errorf("invalid country code %q", code)
	}
	d, err := time.ParseDuration(strings.TrimSpace(delay))
	if err != nil {
		return Tariff{}, fmt.Errorf("invalid delay for %s: %w", code, err)
	}
	if d < 0 {
		return Tariff{}, fmt.Errorf("negative delay for %s: %s", code, d)
	}
	return Tariff{Country: code, Delay: d}, nil
}

func isCountryCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
