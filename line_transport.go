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
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	serial "github.com/hootrhino/goserial"
	"github.com/rs/zerolog"
)

const (
	// DefaultTimeout is the read timeout the scanner protocol is designed for.
	DefaultTimeout = 100 * time.Millisecond
	maxLineSize    = 4096
	lineTerminator = '\r'
)

// LineTransport speaks the scanner's line protocol over any byte stream: a
// serial port, a TCP connection to a serial server or a test double.
type LineTransport struct {
	conn     io.ReadWriteCloser
	timeout  time.Duration
	logger   zerolog.Logger
	readByte []byte
	mu       sync.Mutex
}

// NewLineTransport wraps conn. A zero timeout selects DefaultTimeout.
func NewLineTransport(conn io.ReadWriteCloser, timeout time.Duration) *LineTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &LineTransport{
		conn:     conn,
		timeout:  timeout,
		logger:   zerolog.Nop(),
		readByte: make([]byte, 1),
	}
}

// OpenSerial opens the serial port named in cfg.
func OpenSerial(cfg Config) (*LineTransport, error) {
	port, err := serial.Open(&serial.Config{
		Address:  cfg.Port,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.Timeout.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("uniden: failed to open serial port %s: %w", cfg.Port, err)
	}
	return NewLineTransport(port, cfg.Timeout.Duration), nil
}

// DialLine connects to a serial server such as ser2net.
func DialLine(network, address string, timeout time.Duration) (*LineTransport, error) {
	dialTimeout := timeout * 10
	if dialTimeout < time.Second {
		dialTimeout = time.Second
	}
	conn, err := net.DialTimeout(network, address, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("uniden: failed to dial %s %s: %w", network, address, err)
	}
	return NewLineTransport(conn, timeout), nil
}

// SetLogger sets the logger used for byte level tracing.
func (t *LineTransport) SetLogger(logger zerolog.Logger) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logger = logger
}

// SetTimeout updates the read timeout.
func (t *LineTransport) SetTimeout(timeout time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t.timeout = timeout
}

// Send writes command followed by CR and reads one CR terminated answer.
// A read that times out yields an empty answer, which is an error token.
func (t *LineTransport) Send(command string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return "", ErrNotConnected
	}
	if err := t.writeLine(command); err != nil {
		return "", err
	}
	res, err := t.readLine()
	if err != nil {
		return "", err
	}
	t.logger.Trace().Str("cmd", command).Str("res", res).Msg("line")
	if err := checkResponse(command, res); err != nil {
		return "", err
	}
	return res, nil
}

func (t *LineTransport) writeLine(command string) error {
	if strings.ContainsRune(command, lineTerminator) {
		return fmt.Errorf("uniden: command %q contains a line terminator", command)
	}
	data := []byte(command + string(lineTerminator))
	if c, ok := t.conn.(net.Conn); ok {
		_ = c.SetWriteDeadline(time.Now().Add(t.timeout))
		defer c.SetWriteDeadline(time.Time{})
	}
	written := 0
	for written < len(data) {
		n, err := t.conn.Write(data[written:])
		if err != nil {
			return fmt.Errorf("uniden: write failed after %d bytes: %w", written, err)
		}
		if n == 0 {
			return fmt.Errorf("uniden: short write after %d bytes", written)
		}
		written += n
	}
	return nil
}

func (t *LineTransport) readLine() (string, error) {
	deadline := time.Now().Add(t.timeout)
	if c, ok := t.conn.(net.Conn); ok {
		_ = c.SetReadDeadline(deadline)
		defer c.SetReadDeadline(time.Time{})
	}
	var line []byte
	for {
		n, err := t.conn.Read(t.readByte)
		if n == 1 {
			if t.readByte[0] == lineTerminator {
				return strings.TrimSpace(string(line)), nil
			}
			line = append(line, t.readByte[0])
			if len(line) > maxLineSize {
				return "", fmt.Errorf("uniden: response exceeds %d bytes", maxLineSize)
			}
			continue
		}
		if err != nil {
			if isTimeout(err) || errors.Is(err, io.EOF) || !time.Now().Before(deadline) {
				return strings.TrimSpace(string(line)), nil
			}
			return "", fmt.Errorf("uniden: read failed: %w", err)
		}
		if time.Now().After(deadline) {
			return strings.TrimSpace(string(line)), nil
		}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Close closes the underlying connection.
func (t *LineTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// IsConnected returns true until Close is called.
func (t *LineTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}
