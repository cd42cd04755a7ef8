package config

import (
	"fmt"
	"os"
	"strconv"
)

// envOverrides maps environment variables to config field setters.
var envOverrides = []struct {
	envVar string
	apply  func(*Config, string) error
}{
	{
		envVar: "SERVER_PORT",
		apply: func(c *Config, v string) error {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("not a number: %q", v)
			}
			c.Server.Port = port
			return nil
		},
	},
	{
		envVar: "SERVER_ADDRESS",
		apply: func(c *Config, v string) error {
			c.Server.Address = v
			return nil
		},
	},
	{
		envVar: "SERVER_HEADLESS",
		apply: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("not a boolean: %q", v)
			}
			c.Server.Headless = b
			return nil
		},
	},
	{
		envVar: "BROWSER_GATHER_USAGE_STATS",
		apply: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("not a boolean: %q", v)
			}
			c.Telemetry.GatherUsageStats = b
			return nil
		},
	},
	{
		envVar: "STOWPACK_STORE_PATH",
		apply: func(c *Config, v string) error {
			c.Store.Path = v
			return nil
		},
	},
	{
		envVar: "STOWPACK_BROWSER_PATH",
		apply: func(c *Config, v string) error {
			c.Render.BrowserPath = v
			return nil
		},
	},
	{
		envVar: "STOWPACK_LOG_LEVEL",
		apply: func(c *Config, v string) error {
			c.LogLevel = v
			return nil
		},
	},
}

// applyEnvOverrides modifies config in place with environment variable
// values.
func applyEnvOverrides(cfg *Config) error {
	for _, override := range envOverrides {
		val := os.Getenv(override.envVar)
		if val == "" {
			continue
		}
		if err := override.apply(cfg, val); err != nil {
			return fmt.Errorf("%s: %w", override.envVar, err)
		}
	}
	return nil
}
