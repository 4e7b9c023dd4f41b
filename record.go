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
	"sort"
)

// Record is the shared shape of every memory entity: wire values keyed by
// document key, the structural links reported by the scanner and the sync
// state. Values are stored in wire form and validated on every write.
type Record struct {
	kind    Kind
	index   Index
	state   RecordState
	links   Links
	layouts []*recordLayout
	values  map[string]string
}

func newRecord(kind Kind, layouts ...*recordLayout) Record {
	return Record{
		kind:    kind,
		index:   NoIndex,
		state:   StateUnsynced,
		links:   NewLinks(),
		layouts: layouts,
		values:  make(map[string]string),
	}
}

func (r *Record) Kind() Kind         { return r.kind }
func (r *Record) Index() Index       { return r.index }
func (r *Record) State() RecordState { return r.state }
func (r *Record) Links() Links       { return r.links }

// Deleted reports whether the record was removed from the scanner.
func (r *Record) Deleted() bool { return r.state == StateDeleted }

func (r *Record) checkLive() error {
	if r.state == StateDeleted {
		return &StaleRecordError{Kind: r.kind, Index: r.index}
	}
	return nil
}

func (r *Record) layoutFor(key string) *recordLayout {
	for _, l := range r.layouts {
		if l.hasKey(key) {
			return l
		}
	}
	return nil
}

// Keys returns every document key the record knows, sorted.
func (r *Record) Keys() []string {
	var keys []string
	for _, l := range r.layouts {
		keys = append(keys, l.Keys()...)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the document form of one field.
func (r *Record) Get(key string) (string, error) {
	if err := r.checkLive(); err != nil {
		return "", err
	}
	l := r.layoutFor(key)
	if l == nil {
		return "", &CodecError{Field: key, Reason: "unknown field", Err: ErrUnknownField}
	}
	v, err := l.codec(key).Decode(r.values[key])
	if err != nil {
		return "", l.fieldError(key, err)
	}
	return v, nil
}

// Raw returns the wire form of one field.
func (r *Record) Raw(key string) (string, error) {
	if err := r.checkLive(); err != nil {
		return "", err
	}
	if r.layoutFor(key) == nil {
		return "", &CodecError{Field: key, Reason: "unknown field", Err: ErrUnknownField}
	}
	return r.values[key], nil
}

// Set stores the document form of one field. The change stays local until
// the record is pushed.
func (r *Record) Set(key, value string) error {
	if err := r.checkLive(); err != nil {
		return err
	}
	l := r.layoutFor(key)
	if l == nil {
		return &CodecError{Field: key, Value: value, Reason: "unknown field", Err: ErrUnknownField}
	}
	wire, err := l.codec(key).Encode(value)
	if err != nil {
		return l.fieldError(key, err)
	}
	r.values[key] = wire
	if r.state == StateFetched || r.state == StatePushed {
		r.state = StateModified
	}
	return nil
}

// Fields returns the document form of every non-empty field.
func (r *Record) Fields() (map[string]string, error) {
	if err := r.checkLive(); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(r.values))
	for key, wire := range r.values {
		if wire == "" {
			continue
		}
		l := r.layoutFor(key)
		if l == nil {
			continue
		}
		v, err := l.codec(key).Decode(wire)
		if err != nil {
			return nil, l.fieldError(key, err)
		}
		out[key] = v
	}
	return out, nil
}

// load sets every field of a document map.
func (r *Record) load(fields map[string]string) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.Set(k, fields[k]); err != nil {
			return err
		}
	}
	return nil
}

// absorb merges freshly fetched wire values. For protected records the
// scanner withholds most fields as blanks; those never clobber a value
// that is already known.
func (r *Record) absorb(fetched map[string]string, protected bool) {
	for key, v := range fetched {
		if protected && v == "" && r.values[key] != "" {
			continue
		}
		r.values[key] = v
	}
}

func (r *Record) markFetched(idx Index, links Links) {
	r.index = idx
	r.links = links
	r.state = StateFetched
}

func (r *Record) markPushed() {
	r.state = StatePushed
}

func (r *Record) markDeleted() {
	r.state = StateDeleted
}
