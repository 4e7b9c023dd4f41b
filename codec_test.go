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
	"testing"
)

func TestEncodeFrequency(t *testing.T) {
	testCases := []struct {
		human    string
		expected string
	}{
		{human: "146.25", expected: "01462500"},
		{human: "146.2500", expected: "01462500"},
		{human: "851.0125", expected: "08510125"},
		{human: "1240.5", expected: "12405000"},
		{human: "25", expected: "00250000"},
		{human: ".5", expected: "00005000"},
		{human: "460.123456", expected: "04601234"},
		{human: "", expected: ""},
	}

	for _, tc := range testCases {
		wire, err := EncodeFrequency(tc.human)
		if err != nil {
			t.Fatalf("EncodeFrequency(%q) failed: %v", tc.human, err)
		}
		if wire != tc.expected {
			t.Errorf("EncodeFrequency(%q) returned %q, expected %q", tc.human, wire, tc.expected)
		}
	}
}

func TestEncodeFrequencyInvalid(t *testing.T) {
	for _, human := range []string{"abc", "12345.0", "146,52", "-1.0"} {
		if _, err := EncodeFrequency(human); err == nil {
			t.Errorf("EncodeFrequency(%q) expected an error", human)
		}
	}
}

func TestDecodeFrequency(t *testing.T) {
	testCases := []struct {
		wire     string
		expected string
	}{
		{wire: "01462500", expected: "146.2500"},
		{wire: "08510125", expected: "851.0125"},
		{wire: "00250000", expected: "25.0000"},
		{wire: "250000", expected: "25.0000"},
	}

	for _, tc := range testCases {
		human, err := DecodeFrequency(tc.wire)
		if err != nil {
			t.Fatalf("DecodeFrequency(%q) failed: %v", tc.wire, err)
		}
		if human != tc.expected {
			t.Errorf("DecodeFrequency(%q) returned %q, expected %q", tc.wire, human, tc.expected)
		}
	}
	if _, err := DecodeFrequency("1462500A"); err == nil {
		t.Errorf("DecodeFrequency accepted a non numeric value")
	}
}

func TestFrequencyRoundTrip(t *testing.T) {
	testCases := []struct {
		human      string
		normalized string
	}{
		{human: "146.52", normalized: "146.5200"},
		{human: "0.1", normalized: "0.1000"},
		{human: "9999.9999", normalized: "9999.9999"},
		{human: "162.55", normalized: "162.5500"},
		{human: "453.0375", normalized: "453.0375"},
	}

	for _, tc := range testCases {
		wire, err := EncodeFrequency(tc.human)
		if err != nil {
			t.Fatalf("EncodeFrequency(%q) failed: %v", tc.human, err)
		}
		back, err := DecodeFrequency(wire)
		if err != nil {
			t.Fatalf("DecodeFrequency(%q) failed: %v", wire, err)
		}
		if back != tc.normalized {
			t.Errorf("round trip of %q returned %q, expected %q", tc.human, back, tc.normalized)
		}
	}
}

func TestRotateQuickKeys(t *testing.T) {
	v := []string{"0", "1", "2", "1", "1", "0", "2", "2", "1", "0"}
	head := RotateToHead(v)
	expected := []string{"0", "0", "1", "2", "1", "1", "0", "2", "2", "1"}
	if !equalStrings(head, expected) {
		t.Errorf("RotateToHead returned %v, expected %v", head, expected)
	}
	if back := RotateToTail(head); !equalStrings(back, v) {
		t.Errorf("RotateToTail(RotateToHead(v)) returned %v, expected %v", back, v)
	}
	if !equalStrings(v, []string{"0", "1", "2", "1", "1", "0", "2", "2", "1", "0"}) {
		t.Errorf("RotateToHead modified its input: %v", v)
	}
}

func TestRotateIsSelfInverse(t *testing.T) {
	// every 10 element 0/1/2 vector with a single digit changed
	base := []int{0, 1, 2, 0, 1, 2, 0, 1, 2, 0}
	for i := 0; i < QuickKeyCount; i++ {
		for d := 0; d < 3; d++ {
			v := append([]int(nil), base...)
			v[i] = d
			got := RotateToTail(RotateToHead(v))
			for j := range v {
				if got[j] != v[j] {
					t.Fatalf("rotation of %v is not self inverse: got %v", v, got)
				}
			}
			got = RotateToHead(RotateToTail(v))
			for j := range v {
				if got[j] != v[j] {
					t.Fatalf("rotation of %v is not self inverse: got %v", v, got)
				}
			}
		}
	}
}

func TestRotateOtherLengthsUnchanged(t *testing.T) {
	for _, v := range [][]string{nil, {"1"}, {"1", "2", "0"}, {"0", "1", "2", "0", "1", "2", "0", "1", "2", "0", "1"}} {
		if got := RotateToHead(v); !equalStrings(got, v) {
			t.Errorf("RotateToHead(%v) returned %v, expected it unchanged", v, got)
		}
		if got := RotateToTail(v); !equalStrings(got, v) {
			t.Errorf("RotateToTail(%v) returned %v, expected it unchanged", v, got)
		}
	}
}

func TestEnumTable(t *testing.T) {
	testCases := []struct {
		table *EnumTable
		code  string
		label string
	}{
		{table: OnOffTable, code: "1", label: "on"},
		{table: LockoutTable, code: "1", label: "lockout"},
		{table: SystemTypeTable, code: "CNV", label: "conventional"},
		{table: SystemTypeTable, code: "P25S", label: "p25_standard"},
		{table: ModulationTable, code: "NFM", label: "nfm"},
		{table: ColorTable, code: "MAGENTA", label: "magenta"},
		{table: AlertLevelTable, code: "0", label: "auto"},
		{table: AlertLevelTable, code: "15", label: "15"},
		{table: ToneTable, code: "64", label: "67.0"},
		{table: ToneTable, code: "113", label: "254.1"},
		{table: ToneTable, code: "128", label: "d023"},
		{table: ToneTable, code: "231", label: "d754"},
		{table: ToneTable, code: "240", label: "no_tone"},
		{table: GroupTypeTable, code: "T", label: "tgid"},
	}

	for _, tc := range testCases {
		label, err := tc.table.Decode(tc.code)
		if err != nil {
			t.Fatalf("%s Decode(%q) failed: %v", tc.table.Name(), tc.code, err)
		}
		if label != tc.label {
			t.Errorf("%s Decode(%q) returned %q, expected %q", tc.table.Name(), tc.code, label, tc.label)
		}
		code, err := tc.table.Encode(tc.label)
		if err != nil {
			t.Fatalf("%s Encode(%q) failed: %v", tc.table.Name(), tc.label, err)
		}
		if code != tc.code {
			t.Errorf("%s Encode(%q) returned %q, expected %q", tc.table.Name(), tc.label, code, tc.code)
		}
	}
}

func TestEnumTableUnknown(t *testing.T) {
	_, err := ModulationTable.Decode("SSB")
	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("Decode of an unknown code returned %v, expected a CodecError", err)
	}
	if _, err := ModulationTable.Encode("ssb"); err == nil {
		t.Errorf("Encode of an unknown label expected an error")
	}
	if code, err := ModulationTable.Encode("NFM"); err != nil || code != "NFM" {
		t.Errorf("Encode is expected to ignore case: got %q, %v", code, err)
	}
}

func TestToneTableSize(t *testing.T) {
	if n := ToneTable.Len(); n != 157 {
		t.Errorf("ToneTable has %d entries, expected 157", n)
	}
}

func TestNewEnumTableDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewEnumTable with a duplicate label did not panic")
		}
	}()
	NewEnumTable("dup", "0", "off", "1", "OFF")
}

func TestFieldCodecs(t *testing.T) {
	testCases := []struct {
		name    string
		codec   FieldCodec
		human   string
		wire    string
		invalid string
	}{
		{name: "quick key", codec: quickKeyCodec, human: ".", wire: ".", invalid: "100"},
		{name: "number tag", codec: numberTagCodec, human: "none", wire: "NONE", invalid: "1000"},
		{name: "p25 waiting", codec: p25WaitingCodec, human: "300", wire: "300", invalid: "250"},
		{name: "delay", codec: delayCodec, human: "-5", wire: "-5", invalid: "3"},
		{name: "step", codec: stepValue, human: "12.5", wire: "1250", invalid: "1.255"},
		{name: "step auto", codec: stepValue, human: "auto", wire: "AUTO", invalid: "x"},
		{name: "nac", codec: p25NacCodec, human: "293", wire: "293", invalid: "1000"},
		{name: "custom fleet map", codec: customMapCodec, human: "0123abcd", wire: "0123ABCD", invalid: "0123ABCF"},
		{name: "name", codec: nameCodec, human: "County Fire", wire: "County Fire", invalid: "a,b"},
	}

	for _, tc := range testCases {
		wire, err := tc.codec.Encode(tc.human)
		if err != nil {
			t.Fatalf("%s Encode(%q) failed: %v", tc.name, tc.human, err)
		}
		if wire != tc.wire {
			t.Errorf("%s Encode(%q) returned %q, expected %q", tc.name, tc.human, wire, tc.wire)
		}
		if _, err := tc.codec.Decode(wire); err != nil {
			t.Errorf("%s Decode(%q) failed: %v", tc.name, wire, err)
		}
		if _, err := tc.codec.Encode(tc.invalid); err == nil {
			t.Errorf("%s Encode(%q) expected an error", tc.name, tc.invalid)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
