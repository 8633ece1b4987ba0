package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Listen names the endpoints a loaded deployment binds.
type Listen struct {
	// TCP serves the stream dialects.
	TCP string
	// UDP serves the session-signaling dialect.
	UDP string
	// Metrics is an optional sidecar endpoint for the metrics exposition.
	Metrics string
}

// File is the result of loading an on-disk configuration of any supported
// schema version, migrated up to the current one and applied on top of the
// defaults.
type File struct {
	Listen Listen
	Config *Config
}

// Each schema version is a standalone statically-typed struct, and each
// version transition is one explicit migration function applied sequentially.
// No dynamic typing involved.
type (
	fileV1 struct {
		Version int    `yaml:"version"`
		Listen  string `yaml:"listen"`
		// ForwardHeader being set implied trusting it in v1, which conflated
		// two decisions. v2 splits them.
		ForwardHeader string `yaml:"forward_header"`
		RateLimit     struct {
			Max            int `yaml:"max"`
			WindowSeconds  int `yaml:"window_seconds"`
			PenaltySeconds int `yaml:"penalty_seconds"`
		} `yaml:"rate_limit"`
		LogLevel string `yaml:"log_level"`
	}

	quotaV2 struct {
		Max     int    `yaml:"max"`
		Window  string `yaml:"window"`
		Penalty string `yaml:"penalty"`
	}

	fileV2 struct {
		Version int `yaml:"version"`
		Listen  struct {
			TCP     string `yaml:"tcp"`
			UDP     string `yaml:"udp"`
			Metrics string `yaml:"metrics"`
		} `yaml:"listen"`
		Proxy struct {
			TrustForwarded bool   `yaml:"trust_forwarded"`
			ForwardHeader  string `yaml:"forward_header"`
		} `yaml:"proxy"`
		RateLimit struct {
			Default quotaV2            `yaml:"default"`
			Buckets map[string]quotaV2 `yaml:"buckets"`
		} `yaml:"rate_limit"`
		Log struct {
			Level       string `yaml:"level"`
			Development bool   `yaml:"development"`
		} `yaml:"log"`
	}
)

const currentVersion = 2

// Load reads a YAML configuration file, migrates older schema versions to the
// current one and overlays the result onto Default().
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}

	return parse(data)
}

func parse(data []byte) (File, error) {
	var probe struct {
		Version int `yaml:"version"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return File{}, fmt.Errorf("config: %w", err)
	}

	var v2 fileV2

	switch probe.Version {
	case 0, 1:
		// version omitted means the oldest schema
		var v1 fileV1
		if err := yaml.Unmarshal(data, &v1); err != nil {
			return File{}, fmt.Errorf("config: %w", err)
		}

		v2 = migrateV1(v1)
	case currentVersion:
		if err := yaml.Unmarshal(data, &v2); err != nil {
			return File{}, fmt.Errorf("config: %w", err)
		}
	default:
		return File{}, fmt.Errorf("config: unsupported schema version %d", probe.Version)
	}

	return v2.apply()
}

func migrateV1(v1 fileV1) (v2 fileV2) {
	v2.Version = currentVersion
	v2.Listen.TCP = v1.Listen
	v2.Proxy.ForwardHeader = v1.ForwardHeader
	v2.Proxy.TrustForwarded = v1.ForwardHeader != ""
	v2.Log.Level = v1.LogLevel

	if v1.RateLimit.Max != 0 {
		v2.RateLimit.Default = quotaV2{
			Max:     v1.RateLimit.Max,
			Window:  (time.Duration(v1.RateLimit.WindowSeconds) * time.Second).String(),
			Penalty: (time.Duration(v1.RateLimit.PenaltySeconds) * time.Second).String(),
		}
	}

	return v2
}

func (f fileV2) apply() (File, error) {
	cfg := Default()

	if f.Proxy.ForwardHeader != "" {
		cfg.Proxy.ForwardHeader = f.Proxy.ForwardHeader
	}
	cfg.Proxy.TrustForwarded = f.Proxy.TrustForwarded

	if f.Log.Level != "" {
		cfg.Log.Level = f.Log.Level
	}
	cfg.Log.Development = f.Log.Development

	if f.RateLimit.Default.Max != 0 {
		quota, err := f.RateLimit.Default.parse()
		if err != nil {
			return File{}, err
		}

		cfg.RateLimit.Default = quota
	}

	for name, raw := range f.RateLimit.Buckets {
		quota, err := raw.parse()
		if err != nil {
			return File{}, err
		}

		cfg.RateLimit.Buckets[name] = quota
	}

	return File{
		Listen: Listen{
			TCP:     f.Listen.TCP,
			UDP:     f.Listen.UDP,
			Metrics: f.Listen.Metrics,
		},
		Config: cfg,
	}, nil
}

func (q quotaV2) parse() (Quota, error) {
	window, err := time.ParseDuration(q.Window)
	if err != nil {
		return Quota{}, fmt.Errorf("config: bad quota window: %w", err)
	}

	penalty, err := time.ParseDuration(q.Penalty)
	if err != nil {
		return Quota{}, fmt.Errorf("config: bad quota penalty: %w", err)
	}

	return Quota{Max: q.Max, Window: window, Penalty: penalty}, nil
}
