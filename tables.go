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

import "fmt"

// Lookup tables, one per field kind. They are built at init and only read
// afterwards.
var (
	OnOffTable      = NewEnumTable("onoff", "0", "off", "1", "on")
	LockoutTable    = NewEnumTable("lockout", "0", "unlock", "1", "lockout")
	SystemTypeTable = NewEnumTable("system type",
		"CNV", "conventional",
		"MOT", "motorola",
		"EDC", "edacs",
		"EDS", "edacs_scat",
		"LTR", "ltr",
		"P25S", "p25_standard",
		"P25F", "p25_one_frequency",
	)
	ModulationTable = NewEnumTable("modulation",
		"AUTO", "auto", "AM", "am", "FM", "fm", "NFM", "nfm", "WFM", "wfm", "FMB", "fmb")
	ColorTable = NewEnumTable("color",
		"OFF", "off", "BLUE", "blue", "RED", "red", "MAGENTA", "magenta",
		"GREEN", "green", "CYAN", "cyan", "YELLOW", "yellow", "WHITE", "white")
	BacklightColorTable = NewEnumTable("backlight color",
		"BLUE", "blue", "RED", "red", "MAGENTA", "magenta", "GREEN", "green",
		"CYAN", "cyan", "YELLOW", "yellow", "WHITE", "white")
	AlertToneTable = NewEnumTable("alert tone",
		"0", "off", "1", "1", "2", "2", "3", "3", "4", "4", "5", "5", "6", "6", "7", "7", "8", "8", "9", "9")
	AlertLevelTable   = numberedTable("alert level", "auto", 15)
	AudioTypeTable    = NewEnumTable("audio type", "0", "all", "1", "analog", "2", "digital")
	AlertPatternTable = NewEnumTable("alert pattern", "0", "on", "1", "slow", "2", "fast")
	IDSearchTable     = NewEnumTable("id search", "0", "scan", "1", "search")
	StatusBitTable    = NewEnumTable("status bit", "0", "ignore", "1", "yes")
	EndCodeTable      = NewEnumTable("end code", "0", "ignore", "1", "analog", "2", "analog_digital")
	EdacsFormatTable  = NewEnumTable("edacs format", "0", "decimal", "1", "afs")
	IDFormatTable     = NewEnumTable("id format", "0", "decimal", "1", "hex")
	BacklightTable    = NewEnumTable("backlight event",
		"IF", "infinite", "10", "10sec", "30", "30sec", "KY", "keypress", "SQ", "squelch")
	DimmerTable       = NewEnumTable("dimmer", "1", "low", "2", "middle", "3", "high")
	PriorityModeTable = NewEnumTable("priority mode", "0", "off", "1", "on", "2", "plus_on")
	ChannelLogTable   = NewEnumTable("channel log", "0", "off", "1", "on", "2", "extend")
	CloseCallTable    = NewEnumTable("close call mode", "0", "off", "1", "cc_pri", "2", "cc_dnd")
	CodeSearchTable   = NewEnumTable("code search", "0", "off", "1", "ctcss_dcs", "2", "nac")
	GroupTypeTable    = NewEnumTable("group type", "C", "channel", "T", "tgid")
	QuickKeyTable     = NewEnumTable("quick key state", "0", "none", "1", "on", "2", "off")
	ToneTable         = newToneTable()
)

var ctcssTones = []string{
	"67.0", "69.3", "71.9", "74.4", "77.0", "79.7", "82.5", "85.4", "88.5", "91.5",
	"94.8", "97.4", "100.0", "103.5", "107.2", "110.9", "114.8", "118.8", "123.0", "127.3",
	"131.8", "136.5", "141.3", "146.2", "151.4", "156.7", "159.8", "162.2", "165.5", "167.9",
	"171.3", "173.8", "177.3", "179.9", "183.5", "186.2", "189.9", "192.8", "196.6", "199.5",
	"203.5", "206.5", "210.7", "218.1", "225.7", "229.1", "233.6", "241.8", "250.3", "254.1",
}

var dcsCodes = []string{
	"023", "025", "026", "031", "032", "036", "043", "047", "051", "053",
	"054", "065", "071", "072", "073", "074", "114", "115", "116", "122",
	"125", "131", "132", "134", "143", "145", "152", "155", "156", "162",
	"165", "172", "174", "205", "212", "223", "225", "226", "243", "244",
	"245", "246", "251", "252", "255", "261", "263", "265", "266", "271",
	"274", "306", "311", "315", "325", "331", "332", "343", "346", "351",
	"356", "364", "365", "371", "411", "412", "413", "423", "431", "432",
	"445", "446", "452", "454", "455", "462", "464", "465", "466", "503",
	"506", "516", "523", "526", "532", "546", "565", "606", "612", "624",
	"627", "631", "632", "654", "662", "664", "703", "712", "723", "731",
	"732", "734", "743", "754",
}

// CTCSS tones use codes 64-113 and DCS codes 128-231.
const (
	ctcssFirstCode = 64
	dcsFirstCode   = 128
)

func newToneTable() *EnumTable {
	pairs := []string{"0", "all", "127", "search", "240", "no_tone"}
	for i, tone := range ctcssTones {
		pairs = append(pairs, fmt.Sprint(ctcssFirstCode+i), tone)
	}
	for i, code := range dcsCodes {
		pairs = append(pairs, fmt.Sprint(dcsFirstCode+i), "D"+code)
	}
	return NewEnumTable("ctcss/dcs", pairs...)
}

// numberedTable maps "0" to zeroLabel and 1..n to themselves.
func numberedTable(name, zeroLabel string, n int) *EnumTable {
	pairs := []string{"0", zeroLabel}
	for i := 1; i <= n; i++ {
		pairs = append(pairs, fmt.Sprint(i), fmt.Sprint(i))
	}
	return NewEnumTable(name, pairs...)
}

// Value codecs shared by the record layouts.
var (
	nameCodec       = textCodec{max: 16}
	quickKeyCodec   = intCodec{min: 0, max: 99, tokens: []string{"."}}
	keyCodec        = intCodec{min: 0, max: 9, tokens: []string{"."}}
	holdCodec       = intCodec{min: 0, max: 255}
	delayCodec      = setCodec{values: []string{"-10", "-5", "-2", "0", "1", "2", "5", "10", "30"}}
	numberTagCodec  = intCodec{min: 0, max: 999, tokens: []string{"NONE"}}
	p25WaitingCodec = intCodec{min: 0, max: 1000, step: 100}
	volOffsetCodec  = intCodec{min: -3, max: 3}
	lcnCodec        = intCodec{min: 0, max: 4095}
	fleetMapCodec   = intCodec{min: 0, max: 16}
	customMapCodec  = patternCodec{length: 8, alphabet: "0123456789ABCDE"}
	broadcastCodec  = patternCodec{length: 16, alphabet: "01"}
	bandMaskCodec   = patternCodec{alphabet: "01"}
	searchGrpCodec  = patternCodec{length: QuickKeyCount, alphabet: "01"}
	p25NacCodec     = nacCodec{tokens: []string{"SRCH"}}
	baudRateCodec   = setCodec{values: []string{"OFF", "4800", "9600", "19200", "38400", "57600", "115200"}}
	freqValue       = frequencyCodec{}
	stepValue       = stepCodec{tokens: []string{"AUTO"}}
	rawValue        = rawCodec{}
)
