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
	"strings"
)

// Layout tokens. A layout lists the positional fields of one command: a
// document key, a reserved slot or a structural link.
const (
	rsv         = "-"
	linkReverse = "@rev"
	linkForward = "@fwd"
	linkParent  = "@parent"
	linkSystem  = "@sys"
	linkHead    = "@head"
	linkTail    = "@tail"
	linkHead2   = "@head2"
	linkTail2   = "@tail2"
	linkLoHead  = "@lohead"
	linkLoTail  = "@lotail"
	linkSeq     = "@seq"
	linkEcho    = "@arg"
)

// Links holds the structural fields of a record. They are owned by the
// scanner and never written back.
type Links struct {
	Reverse     Index
	Forward     Index
	Parent      Index
	System      Index
	Head        Index
	Tail        Index
	TGIDHead    Index
	TGIDTail    Index
	LockoutHead Index
	LockoutTail Index
	Sequence    string
}

// NewLinks returns links with every index set to NoIndex.
func NewLinks() Links {
	return Links{
		Reverse: NoIndex, Forward: NoIndex, Parent: NoIndex, System: NoIndex,
		Head: NoIndex, Tail: NoIndex, TGIDHead: NoIndex, TGIDTail: NoIndex,
		LockoutHead: NoIndex, LockoutTail: NoIndex,
	}
}

func (l *Links) set(token, value string) error {
	if token == linkSeq {
		l.Sequence = value
		return nil
	}
	if token == linkEcho {
		return nil
	}
	idx, err := ParseIndex(value)
	if err != nil {
		return err
	}
	switch token {
	case linkReverse:
		l.Reverse = idx
	case linkForward:
		l.Forward = idx
	case linkParent:
		l.Parent = idx
	case linkSystem:
		l.System = idx
	case linkHead:
		l.Head = idx
	case linkTail:
		l.Tail = idx
	case linkHead2:
		l.TGIDHead = idx
	case linkTail2:
		l.TGIDTail = idx
	case linkLoHead:
		l.LockoutHead = idx
	case linkLoTail:
		l.LockoutTail = idx
	default:
		return fmt.Errorf("unknown link token %s", token)
	}
	return nil
}

// recordLayout describes the get response and the set command of one
// scanner mnemonic.
type recordLayout struct {
	mnemonic string
	get      []string
	set      []string
	codecs   map[string]FieldCodec
}

func newLayout(mnemonic, get, set string, codecs map[string]FieldCodec) *recordLayout {
	l := &recordLayout{
		mnemonic: mnemonic,
		get:      strings.Split(get, ","),
		codecs:   codecs,
	}
	if set != "" {
		l.set = strings.Split(set, ",")
	}
	return l
}

func isValueToken(name string) bool {
	return name != rsv && !strings.HasPrefix(name, "@")
}

// Keys returns the document keys of the layout in wire order.
func (l *recordLayout) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, list := range [][]string{l.get, l.set} {
		for _, name := range list {
			if isValueToken(name) && !seen[name] {
				seen[name] = true
				keys = append(keys, name)
			}
		}
	}
	return keys
}

// writable reports whether key is sent by the set command.
func (l *recordLayout) writable(key string) bool {
	for _, name := range l.set {
		if name == key {
			return true
		}
	}
	return false
}

// query builds the get command, e.g. "SIN,12".
func (l *recordLayout) query(args ...string) string {
	return strings.Join(append([]string{l.mnemonic}, args...), ",")
}

// Decode splits a get response into wire values and links. Every value is
// checked against its codec; the field count must match the layout.
func (l *recordLayout) Decode(res string, links *Links) (map[string]string, error) {
	tokens := strings.Split(res, ",")
	if tokens[0] != l.mnemonic {
		return nil, &CodecError{Field: l.mnemonic, Value: res, Reason: "unexpected response"}
	}
	fields := tokens[1:]
	if len(fields) != len(l.get) {
		return nil, &CodecError{
			Field:  l.mnemonic,
			Value:  res,
			Reason: fmt.Sprintf("expected %d fields, got %d", len(l.get), len(fields)),
		}
	}
	values := make(map[string]string, len(fields))
	for i, name := range l.get {
		tok := strings.TrimSpace(fields[i])
		switch {
		case name == rsv:
		case strings.HasPrefix(name, "@"):
			if links == nil {
				continue
			}
			if err := links.set(name, tok); err != nil {
				return nil, l.fieldError(name, err)
			}
		default:
			if _, err := l.codec(name).Decode(tok); err != nil {
				return nil, l.fieldError(name, err)
			}
			values[name] = tok
		}
	}
	return values, nil
}

// Encode builds the set command. Missing values are sent empty, which the
// scanner treats as unchanged.
func (l *recordLayout) Encode(values map[string]string, args ...string) string {
	parts := make([]string, 0, 1+len(args)+len(l.set))
	parts = append(parts, l.mnemonic)
	parts = append(parts, args...)
	for _, name := range l.set {
		if name == rsv {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, values[name])
	}
	return strings.Join(parts, ",")
}

func (l *recordLayout) codec(key string) FieldCodec {
	if c, ok := l.codecs[key]; ok {
		return c
	}
	return rawValue
}

func (l *recordLayout) hasKey(key string) bool {
	_, ok := l.codecs[key]
	return ok
}

func (l *recordLayout) fieldError(name string, err error) error {
	var ce *CodecError
	if errors.As(err, &ce) {
		out := *ce
		out.Field = l.mnemonic + "." + name
		return &out
	}
	return &CodecError{Field: l.mnemonic + "." + name, Reason: err.Error(), Err: err}
}

// parseIndexResponse reads the index returned by create commands such as
// "CSY,12". -1 means the scanner is out of memory.
func parseIndexResponse(mnemonic, res string) (Index, error) {
	tokens := strings.Split(res, ",")
	if len(tokens) != 2 || tokens[0] != mnemonic {
		return NoIndex, &CodecError{Field: mnemonic, Value: res, Reason: "unexpected response"}
	}
	idx, err := ParseIndex(tokens[1])
	if err != nil {
		return NoIndex, err
	}
	if idx == NoIndex {
		return NoIndex, fmt.Errorf("%s: %w", mnemonic, ErrMemoryExhausted)
	}
	return idx, nil
}

// parseValueResponse reads a single value answer such as "VOL,7".
func parseValueResponse(mnemonic, res string) (string, error) {
	tokens := strings.Split(res, ",")
	if len(tokens) != 2 || tokens[0] != mnemonic {
		return "", &CodecError{Field: mnemonic, Value: res, Reason: "unexpected response"}
	}
	return tokens[1], nil
}
