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
	"time"
)

// Block is one flat configuration command of the settings or search
// area, e.g. BLT or CSP,3. Blocks have no links and are never protected.
type Block struct {
	Record
	Section  string
	layout   *recordLayout
	args     []string
	readOnly bool
}

type blockSpec struct {
	section  string
	layout   *recordLayout
	args     []string
	readOnly bool
}

func newBlocks(specs []blockSpec) []*Block {
	blocks := make([]*Block, 0, len(specs))
	for _, spec := range specs {
		blocks = append(blocks, &Block{
			Record:   newRecord(KindBlock, spec.layout),
			Section:  spec.section,
			layout:   spec.layout,
			args:     spec.args,
			readOnly: spec.readOnly,
		})
	}
	return blocks
}

// ReadOnly reports whether the scanner accepts writes for the block.
func (b *Block) ReadOnly() bool { return b.readOnly }

func findBlock(blocks []*Block, section string) *Block {
	for _, b := range blocks {
		if b.Section == section {
			return b
		}
	}
	return nil
}

func (s *Session) fetchBlocks(blocks []*Block) error {
	for _, b := range blocks {
		res, err := s.Send(b.layout.query(b.args...))
		if err != nil {
			return fmt.Errorf("%s: %w", b.Section, err)
		}
		values, err := b.layout.Decode(res, nil)
		if err != nil {
			return fmt.Errorf("%s: %w", b.Section, err)
		}
		b.absorb(values, false)
		b.state = StateFetched
	}
	return nil
}

// pushBlocks writes every writable block. The block named last, if any,
// is sent after all others and followed by settle.
func (s *Session) pushBlocks(blocks []*Block, last string, settle time.Duration) error {
	var deferred *Block
	for _, b := range blocks {
		if b.readOnly {
			continue
		}
		if b.Section == last {
			deferred = b
			continue
		}
		if err := s.pushBlock(b); err != nil {
			return err
		}
	}
	if deferred == nil {
		return nil
	}
	if err := s.pushBlock(deferred); err != nil {
		return err
	}
	if settle > 0 {
		time.Sleep(settle)
	}
	return nil
}

func (s *Session) pushBlock(b *Block) error {
	if _, err := s.Send(b.layout.Encode(b.values, b.args...)); err != nil {
		return fmt.Errorf("%s: %w", b.Section, err)
	}
	b.markPushed()
	return nil
}

// blocksDocument renders blocks as section -> key -> value.
func blocksDocument(blocks []*Block) (map[string]map[string]string, error) {
	doc := make(map[string]map[string]string, len(blocks))
	for _, b := range blocks {
		fields, err := b.Fields()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Section, err)
		}
		if len(fields) > 0 {
			doc[b.Section] = fields
		}
	}
	return doc, nil
}

func loadBlocks(blocks []*Block, doc map[string]map[string]string) error {
	for section, fields := range doc {
		b := findBlock(blocks, section)
		if b == nil {
			return &CodecError{Field: section, Reason: "unknown section", Err: ErrUnknownField}
		}
		if err := b.load(fields); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}
	return nil
}
