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
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// fakeScanner answers commands from a script. Each command has a queue of
// answers; the last one is repeated. Commands without a script are
// acknowledged with "<MNEMONIC>,OK".
type fakeScanner struct {
	script map[string][]string
	sent   []string
}

func newFakeScanner() *fakeScanner {
	return &fakeScanner{script: make(map[string][]string)}
}

func (f *fakeScanner) on(command string, answers ...string) {
	f.script[command] = append(f.script[command], answers...)
}

func (f *fakeScanner) Send(command string) (string, error) {
	f.sent = append(f.sent, command)
	res := ""
	if q := f.script[command]; len(q) > 0 {
		res = q[0]
		if len(q) > 1 {
			f.script[command] = q[1:]
		}
	} else {
		mnemonic, _, _ := strings.Cut(command, ",")
		res = mnemonic + ",OK"
	}
	if err := checkResponse(command, res); err != nil {
		return "", err
	}
	return res, nil
}

// sentWith returns the commands that start with prefix.
func (f *fakeScanner) sentWith(prefix string) []string {
	var out []string
	for _, cmd := range f.sent {
		if strings.HasPrefix(cmd, prefix) {
			out = append(out, cmd)
		}
	}
	return out
}

// getLine renders a get response for layout. Links default to -1 and
// values to empty.
func getLine(l *recordLayout, values map[string]string) string {
	parts := []string{l.mnemonic}
	for _, name := range l.get {
		v, ok := values[name]
		if !ok && strings.HasPrefix(name, "@") && name != linkSeq && name != linkEcho {
			v = "-1"
		}
		parts = append(parts, v)
	}
	return strings.Join(parts, ",")
}

func newTestSession(t *testing.T, f *fakeScanner) *Session {
	t.Helper()
	s := NewSession(f, zerolog.Nop(), Limits{})
	s.comSettle = 0
	return s
}

func newTestScanner(t *testing.T, f *fakeScanner) *Scanner {
	t.Helper()
	sc := NewScanner(f, zerolog.Nop(), Limits{})
	sc.comSettle = 0
	return sc
}
