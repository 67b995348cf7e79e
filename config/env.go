package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment key read by ApplyEnv.
const EnvPrefix = "PCSMA_"

type setter func(c *Config, value string) error

func intField(get func(c *Config) *int) setter {
	return func(c *Config, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}

		*get(c) = v

		return nil
	}
}

func floatField(get func(c *Config) *float64) setter {
	return func(c *Config, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		*get(c) = v

		return nil
	}
}

var envFields = map[string]setter{
	"NUM_STATIONS":    intField(func(c *Config) *int { return &c.NumStations }),
	"SIM_DURATION":    floatField(func(c *Config) *float64 { return &c.SimDuration }),
	"SLOT_DURATION":   floatField(func(c *Config) *float64 { return &c.SlotDuration }),
	"ON_DURATION":     intField(func(c *Config) *int { return &c.OnDuration }),
	"MEAN_IDLE_TIME":  floatField(func(c *Config) *float64 { return &c.MeanIdleTime }),
	"PACKET_INTERVAL": floatField(func(c *Config) *float64 { return &c.PacketInterval }),
	"GUARD_INTERVAL":  floatField(func(c *Config) *float64 { return &c.GuardInterval }),
	"SESSION_LENGTH":  intField(func(c *Config) *int { return &c.SessionLength }),
	"MAX_BACKOFF":     intField(func(c *Config) *int { return &c.MaxBackoff }),
	"PERSISTENCE": func(c *Config, value string) error {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}

		c.SetPersistence(v)

		return nil
	},
	"PERSIST_AFTER_COLLISION": func(c *Config, value string) error {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}

		c.PersistAfterCollision = v

		return nil
	},
	"SEED": func(c *Config, value string) error {
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}

		c.Seed = v

		return nil
	},
}

// ApplyEnv overrides the fields named by PCSMA_* keys. Other keys are
// ignored.
func ApplyEnv(c *Config, env map[string]string) error {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		if len(k) <= len(EnvPrefix) || k[:len(EnvPrefix)] != EnvPrefix {
			continue
		}

		set, ok := envFields[k[len(EnvPrefix):]]
		if !ok {
			return fmt.Errorf("unknown setting %s", k)
		}

		if err := set(c, env[k]); err != nil {
			return &ConfigurationError{
				Field:  k,
				Value:  env[k],
				Reason: err.Error(),
			}
		}
	}

	return nil
}

// ApplyEnvFile reads a .env file and applies its PCSMA_* keys.
func ApplyEnvFile(c *Config, path string) error {
	env, err := godotenv.Read(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	return ApplyEnv(c, env)
}
