package config

import "fmt"

// StoreConfig selects and configures the placement store backend.
type StoreConfig struct {
	// Backend selects the store type: "memory", "sqlite" or "redis".
	Backend string `json:"backend"`
	// Path is the database file location for the sqlite backend.
	Path string `json:"path"`
	// RedisAddr, RedisPassword and RedisDB configure the redis backend.
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "timetable.db"
	}
	if c.Backend == "redis" && c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("store: path is required for sqlite backend")
		}
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("store: redis_addr is required for redis backend")
		}
	default:
		return fmt.Errorf("store: unknown backend %s", c.Backend)
	}
	return nil
}

// DecisionsConfig configures the admission decision log.
type DecisionsConfig struct {
	// Backend selects the log store type: "none", "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the log store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *DecisionsConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "decisions.log"
	}
}

// Validate checks mandatory fields.
func (c DecisionsConfig) Validate() error {
	if c.Backend != "none" && c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("decisions: unknown backend %s", c.Backend)
	}
	if c.Backend != "none" && c.Path == "" {
		return fmt.Errorf("decisions: path is required")
	}
	return nil
}
