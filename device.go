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
	"strconv"
	"strings"
)

// MemoryUsage is the MEM answer.
type MemoryUsage struct {
	PercentUsed int
	Systems     int
	Sites       int
	Channels    int
	Locations   int
}

// BandCoverage is one DBC entry: the default search step and modulation
// of a band, in document form.
type BandCoverage struct {
	Band       int
	Step       string
	Modulation string
}

// Default band coverage entries are numbered 1-31.
const bandCoverageCount = 31

// Model returns the scanner model, e.g. BCD396XT.
func (s *Session) Model() (string, error) {
	return s.queryValue("MDL")
}

// Version returns the firmware version string.
func (s *Session) Version() (string, error) {
	return s.queryValue("VER")
}

// FreeMemoryBlocks returns the number of unused memory blocks.
func (s *Session) FreeMemoryBlocks() (int, error) {
	var n int
	err := s.ProgramMode(func() error {
		v, err := s.queryValue("RMB")
		if err != nil {
			return err
		}
		n, err = parseCount("RMB", v)
		return err
	})
	return n, err
}

// MemoryUsage returns memory use and record counts.
func (s *Session) MemoryUsage() (MemoryUsage, error) {
	var mu MemoryUsage
	err := s.ProgramMode(func() error {
		res, err := s.Send("MEM")
		if err != nil {
			return err
		}
		tokens := strings.Split(res, ",")
		if len(tokens) != 6 || tokens[0] != "MEM" {
			return &CodecError{Field: "MEM", Value: res, Reason: "unexpected response"}
		}
		dst := []*int{&mu.PercentUsed, &mu.Systems, &mu.Sites, &mu.Channels, &mu.Locations}
		for i, p := range dst {
			if *p, err = parseCount("MEM", tokens[i+1]); err != nil {
				return err
			}
		}
		return nil
	})
	return mu, err
}

// DefaultBandCoverage reads the search step and modulation of every band.
func (s *Session) DefaultBandCoverage() ([]BandCoverage, error) {
	var out []BandCoverage
	err := s.ProgramMode(func() error {
		for band := 1; band <= bandCoverageCount; band++ {
			res, err := s.Send(fmt.Sprintf("DBC,%d", band))
			if err != nil {
				return err
			}
			tokens := strings.Split(res, ",")
			if len(tokens) != 3 || tokens[0] != "DBC" {
				return &CodecError{Field: "DBC", Value: res, Reason: "unexpected response"}
			}
			step, err := stepValue.Decode(tokens[1])
			if err != nil {
				return &CodecError{Field: "DBC.step", Value: tokens[1], Reason: "bad step", Err: err}
			}
			mod, err := ModulationTable.Decode(tokens[2])
			if err != nil {
				return &CodecError{Field: "DBC.modulation", Value: tokens[2], Reason: "bad modulation", Err: err}
			}
			out = append(out, BandCoverage{Band: band, Step: step, Modulation: mod})
		}
		return nil
	})
	return out, err
}

// Volume returns the volume level, 0-15.
func (s *Session) Volume() (int, error) {
	return s.queryLevel("VOL")
}

// SetVolume sets the volume level, 0-15.
func (s *Session) SetVolume(level int) error {
	return s.setLevel("VOL", level)
}

// Squelch returns the squelch level: 0 open, 15 closed.
func (s *Session) Squelch() (int, error) {
	return s.queryLevel("SQL")
}

func (s *Session) SetSquelch(level int) error {
	return s.setLevel("SQL", level)
}

// BatteryVoltage returns the battery voltage computed from the BAV A/D
// reading.
func (s *Session) BatteryVoltage() (float64, error) {
	v, err := s.queryValue("BAV")
	if err != nil {
		return 0, err
	}
	ad, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || ad < 0 || ad > batteryADMax {
		return 0, &CodecError{Field: "BAV", Value: v, Reason: fmt.Sprintf("A/D value outside 0..%d", batteryADMax), Err: err}
	}
	return batteryVolts * float64(ad) * 2 / batteryADMax, nil
}

const (
	batteryADMax = 1023
	batteryVolts = 3.2
)

// JumpToNumberTag starts scanning at the channel holding the given
// system and channel number tags. Either tag may be blank but not both.
func (s *Session) JumpToNumberTag(sysTag, chanTag string) error {
	sysWire, err := numberTagCodec.Encode(sysTag)
	if err != nil {
		return &CodecError{Field: "JNT.sys_tag", Value: sysTag, Reason: "bad number tag", Err: err}
	}
	chanWire, err := numberTagCodec.Encode(chanTag)
	if err != nil {
		return &CodecError{Field: "JNT.chan_tag", Value: chanTag, Reason: "bad number tag", Err: err}
	}
	if sysWire == "" && chanWire == "" {
		return &CodecError{Field: "JNT", Reason: "need a system or channel tag"}
	}
	_, err = s.Send("JNT," + sysWire + "," + chanWire)
	return err
}

var levelCodec = intCodec{min: 0, max: 15}

func (s *Session) queryLevel(mnemonic string) (int, error) {
	v, err := s.queryValue(mnemonic)
	if err != nil {
		return 0, err
	}
	if _, err := levelCodec.Decode(v); err != nil {
		return 0, &CodecError{Field: mnemonic, Value: v, Reason: "level out of range", Err: err}
	}
	return strconv.Atoi(v)
}

func (s *Session) setLevel(mnemonic string, level int) error {
	v, err := levelCodec.Encode(strconv.Itoa(level))
	if err != nil {
		return &CodecError{Field: mnemonic, Value: strconv.Itoa(level), Reason: "level out of range", Err: err}
	}
	_, err = s.Send(mnemonic + "," + v)
	return err
}

func (s *Session) queryValue(mnemonic string) (string, error) {
	res, err := s.Send(mnemonic)
	if err != nil {
		return "", err
	}
	return parseValueResponse(mnemonic, res)
}

func parseCount(field, v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, &CodecError{Field: field, Value: v, Reason: "not a count", Err: err}
	}
	return n, nil
}
