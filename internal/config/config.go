// Package config loads server settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server      Server      `toml:"server"`
	Engine      Engine      `toml:"engine"`
	Matchmaking Matchmaking `toml:"matchmaking"`
}

type Server struct {
	Addr         string `toml:"addr"`
	AllowOrigins string `toml:"allow_origins"` // comma separated, passed to the CORS middleware
}

type Engine struct {
	// StrictLegality rejects moves that leave the mover's king in check.
	StrictLegality bool `toml:"strict_legality"`
}

type Matchmaking struct {
	Interval Duration `toml:"interval"`
}

// Duration is a time.Duration written as a string ("1s", "500ms").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Server: Server{
			Addr:         ":3000",
			AllowOrigins: "http://localhost:5173",
		},
		Engine: Engine{
			StrictLegality: true,
		},
		Matchmaking: Matchmaking{
			Interval: Duration{time.Second},
		},
	}
}

// Parse decodes TOML data over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. An empty path or a missing file yields the
// defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Matchmaking.Interval.Duration <= 0 {
		return errors.New("config: matchmaking.interval must be positive")
	}
	return nil
}
