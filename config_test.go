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
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "uniden.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
port = "/dev/ttyUSB0"
baud_rate = 57600
timeout = "250ms"
log_level = "debug"

[limits]
systems = 100
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Port != "/dev/ttyUSB0" || cfg.BaudRate != 57600 {
		t.Errorf("LoadConfig returned port %q baud %d", cfg.Port, cfg.BaudRate)
	}
	if cfg.Timeout.Duration != 250*time.Millisecond {
		t.Errorf("timeout is %v, expected 250ms", cfg.Timeout.Duration)
	}
	if cfg.DataBits != 8 || cfg.StopBits != 1 || cfg.Parity != "N" {
		t.Errorf("defaults were not kept: %+v", cfg)
	}
	if cfg.Limits.Systems != 100 || cfg.Limits.Channels != DefaultLimits().Channels {
		t.Errorf("limits are %+v", cfg.Limits)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
		msg  string
	}{
		{name: "unknown key", body: "port = \"COM3\"\nspeed = 9600\n", msg: "unknown config keys"},
		{name: "no link", body: "log_level = \"info\"\n", msg: "either port or address"},
		{name: "both links", body: "port = \"COM3\"\naddress = \"10.0.0.2:4000\"\n", msg: "mutually exclusive"},
		{name: "baud rate", body: "port = \"COM3\"\nbaud_rate = 1200\n", msg: "baud rate"},
		{name: "parity", body: "port = \"COM3\"\nparity = \"X\"\n", msg: "parity"},
		{name: "network", body: "address = \"10.0.0.2:4000\"\nnetwork = \"udp\"\n", msg: "network"},
		{name: "log level", body: "port = \"COM3\"\nlog_level = \"loud\"\n", msg: "invalid log level"},
		{name: "timeout", body: "port = \"COM3\"\ntimeout = \"soon\"\n", msg: "failed to read config"},
		{name: "limits", body: "port = \"COM3\"\n[limits]\nlockouts = -1\n", msg: "limits must be positive"},
	}

	for _, tc := range testCases {
		_, err := LoadConfig(writeConfig(t, tc.body))
		if err == nil {
			t.Errorf("%s: LoadConfig succeeded", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.msg) {
			t.Errorf("%s: error %q does not mention %q", tc.name, err, tc.msg)
		}
	}
}

func TestDurationText(t *testing.T) {
	d := Duration{1500 * time.Millisecond}
	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	var back Duration
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if back != d {
		t.Errorf("Duration round trip returned %v, expected %v", back, d)
	}
}
