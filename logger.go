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
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// StringToLevel maps the accepted level names to zerolog levels.
var StringToLevel = map[string]zerolog.Level{
	"TRACE":   zerolog.TraceLevel,
	"DEBUG":   zerolog.DebugLevel,
	"INFO":    zerolog.InfoLevel,
	"WARNING": zerolog.WarnLevel,
	"ERROR":   zerolog.ErrorLevel,
	"NONE":    zerolog.Disabled,
}

// ParseLogLevel converts a level name such as "debug" to a zerolog level.
func ParseLogLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	if l, ok := StringToLevel[strings.ToUpper(strings.TrimSpace(level))]; ok {
		return l, nil
	}
	return zerolog.NoLevel, fmt.Errorf("invalid log level: %s. Available levels: %v", level, availableLevels())
}

func availableLevels() []string {
	levels := make([]string, 0, len(StringToLevel))
	for name := range StringToLevel {
		levels = append(levels, name)
	}
	sort.Strings(levels)
	return levels
}

// NewLogger builds a console logger tagged with prefix. A nil out writes to
// stderr; an unknown level falls back to info.
func NewLogger(out io.Writer, level string, prefix string) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	lvl, err := ParseLogLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	console := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	ctx := zerolog.New(console).Level(lvl).With().Timestamp()
	if prefix != "" {
		ctx = ctx.Str("component", prefix)
	}
	return ctx.Logger()
}
