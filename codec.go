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
	"unicode/utf8"
)

// FieldCodec converts one field between its wire token and its document
// form. An empty wire token means "unknown / leave unchanged" and always
// maps to an empty document value, in both directions.
type FieldCodec interface {
	Decode(wire string) (string, error)
	Encode(human string) (string, error)
}

// DecodeFrequency renders an 8 digit wire frequency (100 Hz units) as MHz
// with exactly four decimals: "01462500" -> "146.2500".
func DecodeFrequency(wire string) (string, error) {
	if wire == "" {
		return "", nil
	}
	if len(wire) > 8 || !isDigits(wire) {
		return "", &CodecError{Value: wire, Reason: "frequency must be up to 8 digits"}
	}
	v, err := strconv.Atoi(wire)
	if err != nil {
		return "", &CodecError{Value: wire, Reason: "invalid frequency", Err: err}
	}
	return fmt.Sprintf("%d.%04d", v/10000, v%10000), nil
}

// EncodeFrequency turns a decimal MHz string into the 8 digit wire form.
// Digits past the fourth decimal place are dropped.
func EncodeFrequency(human string) (string, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return "", nil
	}
	whole, frac, _ := strings.Cut(human, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return "", &CodecError{Value: human, Reason: "frequency must be a decimal number"}
	}
	whole = strings.TrimLeft(whole, "0")
	if len(whole) > 4 {
		return "", &CodecError{Value: human, Reason: "frequency out of range"}
	}
	if len(frac) > 4 {
		frac = frac[:4]
	}
	return strings.Repeat("0", 4-len(whole)) + whole + frac + strings.Repeat("0", 4-len(frac)), nil
}

// RotateToHead moves the last element of a 10 element vector to the front.
// Vectors of any other length are returned unchanged.
func RotateToHead[T any](v []T) []T {
	out := append([]T(nil), v...)
	if len(out) != QuickKeyCount {
		return out
	}
	last := out[QuickKeyCount-1]
	copy(out[1:], out[:QuickKeyCount-1])
	out[0] = last
	return out
}

// RotateToTail is the inverse of RotateToHead.
func RotateToTail[T any](v []T) []T {
	out := append([]T(nil), v...)
	if len(out) != QuickKeyCount {
		return out
	}
	first := out[0]
	copy(out, out[1:])
	out[QuickKeyCount-1] = first
	return out
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// EnumTable is a fixed two way mapping between wire codes and labels.
// Tables are built once at package init and never modified afterwards.
type EnumTable struct {
	name    string
	codes   []string
	byCode  map[string]string
	byLabel map[string]string
}

// NewEnumTable builds a table from alternating code, label pairs. Labels
// are matched case-insensitively on encode.
func NewEnumTable(name string, pairs ...string) *EnumTable {
	if len(pairs)%2 != 0 {
		panic(fmt.Sprintf("uniden: enum table %s: odd number of entries", name))
	}
	t := &EnumTable{
		name:    name,
		byCode:  make(map[string]string, len(pairs)/2),
		byLabel: make(map[string]string, len(pairs)/2),
	}
	for i := 0; i < len(pairs); i += 2 {
		code, label := pairs[i], strings.ToLower(pairs[i+1])
		if _, dup := t.byCode[code]; dup {
			panic(fmt.Sprintf("uniden: enum table %s: duplicate code %q", name, code))
		}
		if _, dup := t.byLabel[label]; dup {
			panic(fmt.Sprintf("uniden: enum table %s: duplicate label %q", name, label))
		}
		t.codes = append(t.codes, code)
		t.byCode[code] = label
		t.byLabel[label] = code
	}
	return t
}

// Name returns the table name.
func (t *EnumTable) Name() string { return t.name }

// Len returns the number of entries.
func (t *EnumTable) Len() int { return len(t.codes) }

// Decode maps a wire code to its label.
func (t *EnumTable) Decode(code string) (string, error) {
	if code == "" {
		return "", nil
	}
	label, ok := t.byCode[code]
	if !ok {
		return "", &CodecError{Field: t.name, Value: code, Reason: "unknown code"}
	}
	return label, nil
}

// Encode maps a label to its wire code.
func (t *EnumTable) Encode(label string) (string, error) {
	if label == "" {
		return "", nil
	}
	code, ok := t.byLabel[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return "", &CodecError{Field: t.name, Value: label, Reason: "unknown label"}
	}
	return code, nil
}

// textCodec passes free text through, bounded in length.
type textCodec struct {
	max int
}

func (c textCodec) Decode(wire string) (string, error) {
	return wire, nil
}

func (c textCodec) Encode(human string) (string, error) {
	if c.max > 0 && utf8.RuneCountInString(human) > c.max {
		return "", &CodecError{Value: human, Reason: fmt.Sprintf("longer than %d characters", c.max)}
	}
	if strings.ContainsAny(human, ",\r\n") {
		return "", &CodecError{Value: human, Reason: "contains a delimiter"}
	}
	return human, nil
}

// intCodec validates a bounded integer, optionally on a step grid, and
// accepts a few literal tokens (".", "NONE", ...) as is.
type intCodec struct {
	min, max int
	step     int
	tokens   []string
}

func (c intCodec) check(v string) (string, error) {
	for _, tok := range c.tokens {
		if strings.EqualFold(v, tok) {
			return tok, nil
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return "", &CodecError{Value: v, Reason: "not an integer", Err: err}
	}
	if n < c.min || n > c.max {
		return "", &CodecError{Value: v, Reason: fmt.Sprintf("outside %d..%d", c.min, c.max)}
	}
	if c.step > 1 && (n-c.min)%c.step != 0 {
		return "", &CodecError{Value: v, Reason: fmt.Sprintf("not a multiple of %d", c.step)}
	}
	return v, nil
}

func (c intCodec) Decode(wire string) (string, error) {
	if wire == "" {
		return "", nil
	}
	return c.check(wire)
}

func (c intCodec) Encode(human string) (string, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return "", nil
	}
	return c.check(human)
}

// setCodec accepts one of a fixed list of literal values.
type setCodec struct {
	values []string
}

func (c setCodec) check(v string) (string, error) {
	for _, allowed := range c.values {
		if v == allowed {
			return v, nil
		}
	}
	return "", &CodecError{Value: v, Reason: fmt.Sprintf("not one of %s", strings.Join(c.values, ","))}
}

func (c setCodec) Decode(wire string) (string, error) {
	if wire == "" {
		return "", nil
	}
	return c.check(wire)
}

func (c setCodec) Encode(human string) (string, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return "", nil
	}
	return c.check(human)
}

type frequencyCodec struct{}

func (frequencyCodec) Decode(wire string) (string, error) { return DecodeFrequency(wire) }

func (frequencyCodec) Encode(human string) (string, error) { return EncodeFrequency(human) }

// stepCodec converts steps carried in hundredths of a kHz ("625") to
// decimal kHz ("6.25").
type stepCodec struct {
	tokens []string
}

func (c stepCodec) Decode(wire string) (string, error) {
	if wire == "" {
		return "", nil
	}
	for _, tok := range c.tokens {
		if wire == tok {
			return strings.ToLower(tok), nil
		}
	}
	if !isDigits(wire) {
		return "", &CodecError{Value: wire, Reason: "step must be numeric"}
	}
	n, err := strconv.Atoi(wire)
	if err != nil {
		return "", &CodecError{Value: wire, Reason: "invalid step", Err: err}
	}
	whole, frac := n/100, n%100
	switch {
	case frac == 0:
		return strconv.Itoa(whole), nil
	case frac%10 == 0:
		return fmt.Sprintf("%d.%d", whole, frac/10), nil
	default:
		return fmt.Sprintf("%d.%02d", whole, frac), nil
	}
}

func (c stepCodec) Encode(human string) (string, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return "", nil
	}
	for _, tok := range c.tokens {
		if strings.EqualFold(human, tok) {
			return tok, nil
		}
	}
	whole, frac, _ := strings.Cut(human, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) || len(frac) > 2 {
		return "", &CodecError{Value: human, Reason: "step must have at most two decimals"}
	}
	w, err := strconv.Atoi(whole)
	if err != nil {
		return "", &CodecError{Value: human, Reason: "invalid step", Err: err}
	}
	f := 0
	if frac != "" {
		f, _ = strconv.Atoi(frac + strings.Repeat("0", 2-len(frac)))
	}
	return strconv.Itoa(w*100 + f), nil
}

// patternCodec validates digit strings such as the broadcast screen mask or
// a custom fleet map. A zero length accepts any width.
type patternCodec struct {
	length   int
	alphabet string
}

func (c patternCodec) check(v string) (string, error) {
	if c.length > 0 && len(v) != c.length {
		return "", &CodecError{Value: v, Reason: fmt.Sprintf("must be %d characters", c.length)}
	}
	for _, r := range v {
		if !strings.ContainsRune(c.alphabet, r) {
			return "", &CodecError{Value: v, Reason: fmt.Sprintf("characters must be in %q", c.alphabet)}
		}
	}
	return v, nil
}

func (c patternCodec) Decode(wire string) (string, error) {
	if wire == "" {
		return "", nil
	}
	return c.check(wire)
}

func (c patternCodec) Encode(human string) (string, error) {
	human = strings.ToUpper(strings.TrimSpace(human))
	if human == "" {
		return "", nil
	}
	return c.check(human)
}

// nacCodec handles P25 NAC values: 0-FFF in hex or one of the literal tokens.
type nacCodec struct {
	tokens []string
}

func (c nacCodec) check(v string) (string, error) {
	for _, tok := range c.tokens {
		if strings.EqualFold(v, tok) {
			return tok, nil
		}
	}
	n, err := strconv.ParseUint(v, 16, 16)
	if err != nil || n > 0xFFF {
		return "", &CodecError{Value: v, Reason: "NAC must be 0-FFF"}
	}
	return strings.ToUpper(v), nil
}

func (c nacCodec) Decode(wire string) (string, error) {
	if wire == "" {
		return "", nil
	}
	return c.check(wire)
}

func (c nacCodec) Encode(human string) (string, error) {
	human = strings.TrimSpace(human)
	if human == "" {
		return "", nil
	}
	return c.check(human)
}

// rawCodec passes values through untouched. Used for coordinates and band
// plan values whose format the scanner owns.
type rawCodec struct{}

func (rawCodec) Decode(wire string) (string, error) { return wire, nil }

func (rawCodec) Encode(human string) (string, error) {
	if strings.ContainsAny(human, ",\r\n") {
		return "", &CodecError{Value: human, Reason: "contains a delimiter"}
	}
	return human, nil
}
