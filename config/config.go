package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/lessonbird/timetable/core/model"
	"github.com/lessonbird/timetable/infra/mqtt"
)

type Config struct {
	API       APIConfig       `json:"api"`
	Store     StoreConfig     `json:"store"`
	Metrics   MetricsConfig   `json:"metrics"`
	MQTT      mqtt.Config     `json:"mqtt"`
	Decisions DecisionsConfig `json:"decisions"`
	Subjects  []SubjectConfig `json:"subjects"`
}

// APIConfig configures the JSON API server.
type APIConfig struct {
	Addr string `json:"addr"`
	// Token guards mutating endpoints when non-empty ("Bearer <token>").
	Token string `json:"token"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// MetricsConfig configures the metrics sinks.
type MetricsConfig struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusPort    string `json:"prometheus_port"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *MetricsConfig) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":9090"
	}
}

// SubjectConfig seeds one catalog entry.
type SubjectConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	CanCoRun bool   `json:"can_co_run"`
	IsSolo   bool   `json:"is_solo"`
}

// Subject converts the config entry to the domain type.
func (c SubjectConfig) Subject() model.Subject {
	return model.Subject{ID: c.ID, Name: c.Name, Priority: c.Priority, CanCoRun: c.CanCoRun, IsSolo: c.IsSolo}
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("TT_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "tt_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.API.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Store.SetDefaults()
	cfg.Decisions.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Decisions.Validate(); err != nil {
		return nil, err
	}
	for _, s := range cfg.Subjects {
		if err := s.Subject().Validate(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}
