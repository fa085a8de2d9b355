// Package config loads the settings shared by the simulate, ingest and
// server commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/SwiggitySwerve/MekStation-sub016/internal/event"
)

type Log struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

type Sim struct {
	// Workers caps parallel duels; zero means one per CPU.
	Workers  int    `mapstructure:"workers"`
	MaxTurns int    `mapstructure:"maxTurns"`
	Runs     int    `mapstructure:"runs"`
	Seed     uint64 `mapstructure:"seed"`
	// Red and Blue are model codes, looked up in the built-in units first.
	Red          string `mapstructure:"red"`
	Blue         string `mapstructure:"blue"`
	ClusterTable string `mapstructure:"clusterTable"`
}

type Store struct {
	Path string `mapstructure:"path"`
}

type Catalog struct {
	DSN    string `mapstructure:"dsn"`
	MTFDir string `mapstructure:"mtfDir"`
}

type Server struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Log     Log     `mapstructure:"log"`
	Sim     Sim     `mapstructure:"sim"`
	Store   Store   `mapstructure:"store"`
	Catalog Catalog `mapstructure:"catalog"`
	Server  Server  `mapstructure:"server"`
}

// Rules is the optional rule set the simulation runs under.
func (c Config) Rules() event.Rules {
	return event.Rules{ClusterTable: event.ClusterTable(c.Sim.ClusterTable)}
}

func (c Config) validate() error {
	switch event.ClusterTable(c.Sim.ClusterTable) {
	case "", event.ClusterStandard, event.ClusterExpected:
	default:
		return fmt.Errorf("config: unknown cluster table %q", c.Sim.ClusterTable)
	}
	if c.Sim.Runs < 0 || c.Sim.MaxTurns < 0 || c.Sim.Workers < 0 {
		return errors.New("config: sim counts must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)

	v.SetDefault("sim.workers", 0)
	v.SetDefault("sim.maxTurns", 20)
	v.SetDefault("sim.runs", 1)
	v.SetDefault("sim.seed", 1)
	v.SetDefault("sim.red", "HBK-4P")
	v.SetDefault("sim.blue", "HBK-4G")
	v.SetDefault("sim.clusterTable", string(event.ClusterStandard))

	v.SetDefault("store.path", "mekstation.db")

	v.SetDefault("catalog.dsn", "")
	v.SetDefault("catalog.mtfDir", "")

	v.SetDefault("server.addr", ":8080")
}

// Load reads the file at path over the defaults, then applies MEKSTATION_*
// environment overrides (MEKSTATION_SIM_MAXTURNS, MEKSTATION_STORE_PATH).
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("MEKSTATION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if filepath.Ext(path) == "" {
				v.SetConfigType("json")
			}
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
