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
	"io"
	"time"

	"github.com/rs/zerolog"
)

// comSettleTime is how long the scanner ignores commands after "COM,OK".
const comSettleTime = 2 * time.Second

// Session owns the link to one scanner: it sends commands, logs them,
// remembers the last error token and tracks program mode. Only one
// Session may drive a scanner at a time.
type Session struct {
	transport Transporter
	logger    zerolog.Logger
	limits    Limits
	held      bool // program mode entered explicitly
	depth     int  // nested ProgramMode scopes
	lastErr   *CommandError
	comSettle time.Duration
}

// NewSession creates a session over t. Zero limits select DefaultLimits.
func NewSession(t Transporter, logger zerolog.Logger, limits Limits) *Session {
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}
	return &Session{
		transport: t,
		logger:    logger,
		limits:    limits,
		comSettle: comSettleTime,
	}
}

// LastCommandError returns the last error token the scanner sent.
func (s *Session) LastCommandError() *CommandError {
	return s.lastErr
}

func (s *Session) setLastCommandError(err *CommandError) {
	s.lastErr = err
	if err != nil {
		s.logger.Warn().Str("cmd", err.Command).Str("token", err.Token).Msg("command rejected")
	}
}

// SetLogOutput redirects the session log.
func (s *Session) SetLogOutput(w io.Writer) {
	s.logger = s.logger.Output(zerolog.ConsoleWriter{Out: w, NoColor: true})
}

// Logger returns the session logger.
func (s *Session) Logger() zerolog.Logger {
	return s.logger
}

// Limits returns the walk limits in use.
func (s *Session) Limits() Limits {
	return s.limits
}

// Send issues one command and returns the raw answer.
func (s *Session) Send(command string) (string, error) {
	if s.transport == nil {
		return "", ErrNotConnected
	}
	s.logger.Debug().Str("cmd", command).Msg("send")
	res, err := s.transport.Send(command)
	if err == nil {
		err = checkResponse(command, res)
	}
	if err != nil {
		var ce *CommandError
		if errors.As(err, &ce) {
			s.setLastCommandError(ce)
		}
		return "", err
	}
	s.logger.Debug().Str("cmd", command).Str("res", res).Msg("recv")
	return res, nil
}

// Close closes the transport when it supports closing.
func (s *Session) Close() error {
	if c, ok := s.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// InProgramMode reports whether the scanner is held in program mode.
func (s *Session) InProgramMode() bool {
	return s.held || s.depth > 0
}

// EnterProgramMode puts the scanner into program mode until
// ExitProgramMode. Calling it again while entered does nothing.
func (s *Session) EnterProgramMode() error {
	if s.held {
		return nil
	}
	if !s.InProgramMode() {
		if err := s.sendMode("PRG"); err != nil {
			return err
		}
	}
	s.held = true
	return nil
}

// ExitProgramMode releases EnterProgramMode. The scanner leaves program
// mode once no ProgramMode scope is open either.
func (s *Session) ExitProgramMode() error {
	if !s.held {
		return nil
	}
	s.held = false
	if s.InProgramMode() {
		return nil
	}
	return s.sendMode("EPG")
}

// ProgramMode runs fn with the scanner in program mode. Scopes nest; the
// outermost one leaves program mode on every return path.
func (s *Session) ProgramMode(fn func() error) (err error) {
	if !s.InProgramMode() {
		if err := s.sendMode("PRG"); err != nil {
			return err
		}
	}
	s.depth++
	defer func() {
		s.depth--
		if s.InProgramMode() {
			return
		}
		if exitErr := s.sendMode("EPG"); exitErr != nil {
			if err == nil {
				err = exitErr
			} else {
				s.logger.Error().Err(exitErr).Msg("failed to leave program mode")
			}
		}
	}()
	return fn()
}

func (s *Session) sendMode(command string) error {
	if _, err := s.Send(command); err != nil {
		return err
	}
	s.logger.Info().Str("cmd", command).Msg("program mode")
	return nil
}

// requireProgramMode guards structural operations.
func (s *Session) requireProgramMode() error {
	if !s.InProgramMode() {
		return ErrProgramModeRequired
	}
	return nil
}
