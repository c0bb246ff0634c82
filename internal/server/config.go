package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/feltstack/holdem-core/internal/room"
)

// Config is the complete server configuration: the one listening
// address §6 names, plus the per-room defaults a freshly created room
// inherits (starting chips, blinds, seat cap, turn and inter-hand
// timing). None of this is part of the wire protocol itself.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Room   RoomSettings   `hcl:"room,block"`
}

// ServerSettings is the listening address and log verbosity.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomSettings mirrors room.Config in HCL-decodable form; turn and
// inter-hand delays are given in whole seconds on the wire since HCL has
// no native duration type.
type RoomSettings struct {
	StartingChips    int `hcl:"starting_chips,optional"`
	SmallBlind       int `hcl:"small_blind,optional"`
	BigBlind         int `hcl:"big_blind,optional"`
	MaxSeats         int `hcl:"max_seats,optional"`
	TurnSeconds      int `hcl:"turn_seconds,optional"`
	InterHandSeconds int `hcl:"inter_hand_seconds,optional"`
}

// DefaultConfig matches §6's stated defaults exactly.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "0.0.0.0",
			Port:     8080,
			LogLevel: "info",
		},
		Room: RoomSettings{
			StartingChips:    1000,
			SmallBlind:       10,
			BigBlind:         20,
			MaxSeats:         6,
			TurnSeconds:      30,
			InterHandSeconds: 6,
		},
	}
}

// LoadConfig loads configuration from an HCL file, falling back to
// DefaultConfig entirely when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("server: parse %s: %s", filename, diags.Error())
	}

	cfg := DefaultConfig()
	diags = gohcl.DecodeBody(file.Body, nil, cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("server: decode %s: %s", filename, diags.Error())
	}
	cfg.applyZeroDefaults()
	return cfg, nil
}

// applyZeroDefaults fills in any field an HCL file left at its zero
// value with the corresponding default, so a config file only needs to
// override the settings it cares about.
func (c *Config) applyZeroDefaults() {
	d := DefaultConfig()
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = d.Server.LogLevel
	}
	if c.Room.StartingChips == 0 {
		c.Room.StartingChips = d.Room.StartingChips
	}
	if c.Room.SmallBlind == 0 {
		c.Room.SmallBlind = d.Room.SmallBlind
	}
	if c.Room.BigBlind == 0 {
		c.Room.BigBlind = d.Room.BigBlind
	}
	if c.Room.MaxSeats == 0 {
		c.Room.MaxSeats = d.Room.MaxSeats
	}
	if c.Room.TurnSeconds == 0 {
		c.Room.TurnSeconds = d.Room.TurnSeconds
	}
	if c.Room.InterHandSeconds == 0 {
		c.Room.InterHandSeconds = d.Room.InterHandSeconds
	}
}

// Validate rejects a configuration the server could not run with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: invalid port %d", c.Server.Port)
	}
	if c.Room.SmallBlind <= 0 {
		return fmt.Errorf("server: small blind must be positive")
	}
	if c.Room.BigBlind <= 0 {
		return fmt.Errorf("server: big blind must be positive")
	}
	if c.Room.MaxSeats < 2 || c.Room.MaxSeats > 6 {
		return fmt.Errorf("server: max seats must be between 2 and 6")
	}
	if c.Room.StartingChips <= 0 {
		return fmt.Errorf("server: starting chips must be positive")
	}
	return nil
}

// Addr returns the address Start should listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// RoomConfig translates the HCL settings into the room.Config every
// freshly created Controller is built with.
func (c *Config) RoomConfig() room.Config {
	return room.Config{
		StartingChips:  c.Room.StartingChips,
		SmallBlind:     c.Room.SmallBlind,
		BigBlind:       c.Room.BigBlind,
		MaxSeats:       c.Room.MaxSeats,
		TurnTimeout:    time.Duration(c.Room.TurnSeconds) * time.Second,
		InterHandDelay: time.Duration(c.Room.InterHandSeconds) * time.Second,
	}
}
