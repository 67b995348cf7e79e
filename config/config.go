// Package config holds the parameters of a simulation run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all the parameters of a run.
type Config struct {
	NumStations  int     `yaml:"num_stations"`
	SimDuration  float64 `yaml:"sim_duration"`
	SlotDuration float64 `yaml:"slot_duration"`

	OnDuration     int     `yaml:"on_duration"`
	MeanIdleTime   float64 `yaml:"mean_idle_time"`
	PacketInterval float64 `yaml:"packet_interval"`

	// Persistence is the probability of attempting on an idle channel. Nil
	// selects 1/NumStations.
	Persistence           *float64 `yaml:"persistence"`
	GuardInterval         float64  `yaml:"guard_interval"`
	SessionLength         int      `yaml:"session_length"`
	MaxBackoff            int      `yaml:"max_backoff"`
	PersistAfterCollision bool     `yaml:"persist_after_collision"`

	Seed int64 `yaml:"seed"`
}

// Default returns the configuration of the reference run: 50 stations over
// 10000 seconds.
func Default() Config {
	return Config{
		NumStations:    50,
		SimDuration:    10000,
		SlotDuration:   1,
		OnDuration:     10,
		MeanIdleTime:   10000,
		PacketInterval: 1,
		GuardInterval:  0.1,
		SessionLength:  10,
		MaxBackoff:     15,
		Seed:           1,
	}
}

// SetPersistence fixes the persistence probability.
func (c *Config) SetPersistence(p float64) {
	c.Persistence = &p
}

// ResolvedPersistence returns the persistence probability, or 1/NumStations
// when it is unset.
func (c Config) ResolvedPersistence() float64 {
	if c.Persistence != nil {
		return *c.Persistence
	}

	if c.NumStations > 0 {
		return 1 / float64(c.NumStations)
	}

	return 0
}

// A ConfigurationError reports an invalid parameter.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// Validate returns all the problems of the configuration, joined.
func (c Config) Validate() error {
	var errs []error

	check := func(ok bool, field string, value any, reason string) {
		if !ok {
			errs = append(errs, &ConfigurationError{
				Field:  field,
				Value:  value,
				Reason: reason,
			})
		}
	}

	check(c.NumStations >= 1, "num_stations", c.NumStations, "must be at least 1")
	check(c.SimDuration >= 0, "sim_duration", c.SimDuration, "must not be negative")
	check(c.SlotDuration > 0, "slot_duration", c.SlotDuration, "must be positive")
	check(c.OnDuration > 0, "on_duration", c.OnDuration, "must be positive")
	check(c.MeanIdleTime > 0, "mean_idle_time", c.MeanIdleTime, "must be positive")
	check(c.PacketInterval > 0, "packet_interval", c.PacketInterval, "must be positive")

	if c.Persistence != nil {
		p := *c.Persistence
		check(p > 0 && p <= 1, "persistence", p, "must be in (0, 1]")
	}

	check(c.GuardInterval >= 0 && c.GuardInterval < c.SlotDuration,
		"guard_interval", c.GuardInterval, "must be in [0, slot_duration)")
	check(c.SessionLength > 0, "session_length", c.SessionLength, "must be positive")
	check(c.MaxBackoff >= 0, "max_backoff", c.MaxBackoff, "must not be negative")

	return errors.Join(errs...)
}

// Load reads a YAML file on top of the default configuration. Unknown keys
// are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
