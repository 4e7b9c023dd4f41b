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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCheckResponse(t *testing.T) {
	testCases := []struct {
		res   string
		token string
		bad   bool
	}{
		{res: "SIN,NG", token: "NG", bad: true},
		{res: "ERR", token: "ERR", bad: true},
		{res: "", token: "", bad: true},
		{res: "CIN,ORER", token: "ORER", bad: true},
		{res: "FER", token: "FER", bad: true},
		{res: "PRG,OK", bad: false},
		{res: "VOL,0", bad: false},
		{res: "CIN,Dispatch,01552500,NFM", bad: false},
		// empty trailing fields are normal in multi field answers
		{res: "TFQ,01552500,,0", bad: false},
		{res: "TFQ,01552500,1,", bad: false},
		{res: "CIN,Dispatch,01552500,ERR", token: "ERR", bad: true},
		{res: "GIN,C,Fire,NG", token: "NG", bad: true},
		{res: "SIF,,,FER", token: "FER", bad: true},
	}

	for _, tc := range testCases {
		err := checkResponse("X", tc.res)
		if !tc.bad {
			if err != nil {
				t.Errorf("checkResponse(%q) returned %v", tc.res, err)
			}
			continue
		}
		var ce *CommandError
		if !errors.As(err, &ce) {
			t.Errorf("checkResponse(%q) returned %v, expected a CommandError", tc.res, err)
			continue
		}
		if ce.Token != tc.token {
			t.Errorf("checkResponse(%q) token is %q, expected %q", tc.res, ce.Token, tc.token)
		}
	}
}

func TestSessionSendError(t *testing.T) {
	f := newFakeScanner()
	f.on("SIN,5", "SIN,ERR")
	s := newTestSession(t, f)

	_, err := s.Send("SIN,5")
	if !IsCommandError(err) {
		t.Fatalf("Send returned %v, expected a CommandError", err)
	}
	last := s.LastCommandError()
	if last == nil || last.Command != "SIN,5" || last.Token != "ERR" {
		t.Errorf("LastCommandError is %+v", last)
	}

	// fetching a system whose answer is ERR fails the fetch
	_, err = s.FetchSystem(5, nil)
	if !IsCommandError(err) {
		t.Errorf("FetchSystem returned %v, expected a CommandError", err)
	}
}

func TestSessionNotConnected(t *testing.T) {
	s := NewSession(nil, zerolog.Nop(), Limits{})
	if _, err := s.Send("MDL"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Send without transport returned %v, expected ErrNotConnected", err)
	}
}

func TestProgramModeNesting(t *testing.T) {
	f := newFakeScanner()
	s := newTestSession(t, f)

	err := s.ProgramMode(func() error {
		if !s.InProgramMode() {
			t.Errorf("InProgramMode is false inside a scope")
		}
		return s.ProgramMode(func() error {
			_, err := s.Send("SIH")
			return err
		})
	})
	if err != nil {
		t.Fatalf("ProgramMode failed: %v", err)
	}
	if s.InProgramMode() {
		t.Errorf("InProgramMode is true after the outer scope")
	}
	expected := []string{"PRG", "SIH", "EPG"}
	if !equalStrings(f.sent, expected) {
		t.Errorf("sent %v, expected %v", f.sent, expected)
	}
}

func TestProgramModeExitsOnError(t *testing.T) {
	f := newFakeScanner()
	s := newTestSession(t, f)
	boom := errors.New("boom")

	err := s.ProgramMode(func() error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("ProgramMode returned %v, expected the scope error", err)
	}
	if got := f.sentWith("EPG"); len(got) != 1 {
		t.Errorf("EPG sent %d times, expected once", len(got))
	}
}

func TestExplicitProgramMode(t *testing.T) {
	f := newFakeScanner()
	s := newTestSession(t, f)

	if err := s.EnterProgramMode(); err != nil {
		t.Fatalf("EnterProgramMode failed: %v", err)
	}
	if err := s.EnterProgramMode(); err != nil {
		t.Fatalf("second EnterProgramMode failed: %v", err)
	}
	if err := s.ProgramMode(func() error { return nil }); err != nil {
		t.Fatalf("ProgramMode failed: %v", err)
	}
	if !s.InProgramMode() {
		t.Errorf("scope end released an explicit hold")
	}
	if err := s.ExitProgramMode(); err != nil {
		t.Fatalf("ExitProgramMode failed: %v", err)
	}
	if err := s.ExitProgramMode(); err != nil {
		t.Fatalf("second ExitProgramMode failed: %v", err)
	}
	expected := []string{"PRG", "EPG"}
	if !equalStrings(f.sent, expected) {
		t.Errorf("sent %v, expected %v", f.sent, expected)
	}
}

func TestProgramModeRefused(t *testing.T) {
	f := newFakeScanner()
	f.on("PRG", "PRG,NG")
	s := newTestSession(t, f)

	called := false
	err := s.ProgramMode(func() error {
		called = true
		return nil
	})
	if !IsCommandError(err) {
		t.Fatalf("ProgramMode returned %v, expected a CommandError", err)
	}
	if called || s.InProgramMode() {
		t.Errorf("scope ran or mode is held after PRG was refused")
	}
}

func TestSessionLogsCommands(t *testing.T) {
	f := newFakeScanner()
	f.on("MDL", "MDL,BCD396XT")
	s := newTestSession(t, f)

	var buf bytes.Buffer
	s.SetLogOutput(&buf)
	s.logger = s.logger.Level(zerolog.DebugLevel)
	if _, err := s.Model(); err != nil {
		t.Fatalf("Model failed: %v", err)
	}
	if !strings.Contains(buf.String(), "BCD396XT") {
		t.Errorf("debug log does not contain the response: %q", buf.String())
	}
}
