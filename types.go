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
	"io"
	"strconv"
)

// Index addresses one record in a scanner memory table. The scanner hands
// indices out on create; the host never invents them.
type Index int

// NoIndex terminates a chain and marks records that do not exist on the
// scanner yet.
const NoIndex Index = -1

// QuickKeyCount is the length of every quick lockout vector.
const QuickKeyCount = 10

func (i Index) String() string {
	return strconv.Itoa(int(i))
}

// ParseIndex parses an index token as sent by the scanner.
func ParseIndex(s string) (Index, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return NoIndex, &CodecError{Value: s, Reason: "index is not an integer", Err: err}
	}
	if n < -1 {
		return NoIndex, &CodecError{Value: s, Reason: "negative index"}
	}
	return Index(n), nil
}

// Kind names the record tables.
type Kind int

const (
	KindSystem Kind = iota
	KindSite
	KindGroup
	KindChannel
	KindTalkGroup
	KindTrunkFrequency
	KindBlock
)

var kindNames = map[Kind]string{
	KindSystem:         "system",
	KindSite:           "site",
	KindGroup:          "group",
	KindChannel:        "channel",
	KindTalkGroup:      "talkgroup",
	KindTrunkFrequency: "trunk frequency",
	KindBlock:          "block",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// RecordState tracks one record between the host and the scanner.
type RecordState int

const (
	StateUnsynced RecordState = iota // built locally, never fetched
	StateFetched
	StateModified
	StatePushed
	StateDeleted
)

func (s RecordState) String() string {
	switch s {
	case StateUnsynced:
		return "unsynced"
	case StateFetched:
		return "fetched"
	case StateModified:
		return "modified"
	case StatePushed:
		return "pushed"
	case StateDeleted:
		return "deleted"
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// ScannerApi is the operation surface of a connected scanner.
type ScannerApi interface {
	// Session
	LastCommandError() *CommandError // LastCommandError returns the last error token seen
	SetLogOutput(io.Writer)          // SetLogOutput redirects the session log
	Close() error                    // Close releases the transport
	// Device information
	Model() (string, error)                       // Model returns the MDL answer
	Version() (string, error)                     // Version returns the firmware version
	FreeMemoryBlocks() (int, error)               // FreeMemoryBlocks returns the idle block count
	MemoryUsage() (MemoryUsage, error)            // MemoryUsage returns the MEM counters
	DefaultBandCoverage() ([]BandCoverage, error) // DefaultBandCoverage reads DBC 1..31
	Volume() (int, error)                         // Volume returns the volume level
	SetVolume(level int) error                    // SetVolume sets the volume level
	Squelch() (int, error)                        // Squelch returns the squelch level
	SetSquelch(level int) error                   // SetSquelch sets the squelch level
	BatteryVoltage() (float64, error)             // BatteryVoltage converts the BAV reading
	JumpToNumberTag(sysTag, chanTag string) error // JumpToNumberTag sends JNT
	// Memory tree
	PullAll() error                   // PullAll reads every system into the tree
	PushAll() error                   // PushAll writes the tree back
	ExportDocument(w io.Writer) error // ExportDocument writes the scan document
	ImportDocument(r io.Reader) error // ImportDocument replaces the tree from a document
	PullSettings() error              // PullSettings reads the settings block
	PushSettings() error              // PushSettings writes the settings block
	PullSearch() error                // PullSearch reads the search block
	PushSearch() error                // PushSearch writes the search block
}
