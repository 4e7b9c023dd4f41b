// Copyright (C) 2024  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package uniden

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration that reads and writes as "100ms" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Limits bound every walk over a scanner table.
type Limits struct {
	Systems  int `toml:"systems"`
	Groups   int `toml:"groups"`
	Channels int `toml:"channels"`
	Lockouts int `toml:"lockouts"`
}

// DefaultLimits returns the table sizes of the BCD996XT family.
func DefaultLimits() Limits {
	return Limits{
		Systems:  500,
		Groups:   25000,
		Channels: 25000,
		Lockouts: 1000,
	}
}

// Config selects the link to the scanner and the client behavior.
// Either Port (serial) or Address (network) must be set.
type Config struct {
	Port     string   `toml:"port"`
	BaudRate int      `toml:"baud_rate"`
	DataBits int      `toml:"data_bits"`
	StopBits int      `toml:"stop_bits"`
	Parity   string   `toml:"parity"`
	Timeout  Duration `toml:"timeout"`
	Network  string   `toml:"network"`
	Address  string   `toml:"address"`
	LogLevel string   `toml:"log_level"`
	Limits   Limits   `toml:"limits"`
}

// DefaultConfig returns 115200 8N1 with a 100ms timeout.
func DefaultConfig() Config {
	return Config{
		BaudRate: 115200,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  Duration{DefaultTimeout},
		Network:  "tcp",
		LogLevel: "info",
		Limits:   DefaultLimits(),
	}
}

// LoadConfig reads a TOML file over the defaults and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("uniden: failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("uniden: unknown config keys in %s: %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("uniden: invalid config %s: %w", path, err)
	}
	return cfg, nil
}

var validBaudRates = map[int]bool{4800: true, 9600: true, 19200: true, 38400: true, 57600: true, 115200: true}

// Validate checks the link settings and limits.
func (c Config) Validate() error {
	if c.Port == "" && c.Address == "" {
		return errors.New("either port or address must be set")
	}
	if c.Port != "" && c.Address != "" {
		return errors.New("port and address are mutually exclusive")
	}
	if c.Port != "" {
		if !validBaudRates[c.BaudRate] {
			return fmt.Errorf("unsupported baud rate %d", c.BaudRate)
		}
		if c.DataBits < 5 || c.DataBits > 8 {
			return fmt.Errorf("data bits must be 5-8, got %d", c.DataBits)
		}
		if c.StopBits != 1 && c.StopBits != 2 {
			return fmt.Errorf("stop bits must be 1 or 2, got %d", c.StopBits)
		}
		switch c.Parity {
		case "N", "E", "O":
		default:
			return fmt.Errorf("parity must be N, E or O, got %q", c.Parity)
		}
	}
	if c.Address != "" {
		switch c.Network {
		case "tcp", "tcp4", "tcp6", "unix":
		default:
			return fmt.Errorf("unsupported network %q", c.Network)
		}
	}
	if c.Timeout.Duration <= 0 {
		return errors.New("timeout must be positive")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	l := c.Limits
	if l.Systems <= 0 || l.Groups <= 0 || l.Channels <= 0 || l.Lockouts <= 0 {
		return fmt.Errorf("limits must be positive: %+v", l)
	}
	return nil
}

// Open connects to the scanner named in the config.
func (c Config) Open() (*LineTransport, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Port != "" {
		return OpenSerial(c)
	}
	return DialLine(c.Network, c.Address, c.Timeout.Duration)
}
