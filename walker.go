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
	"strings"
)

// chain describes one sibling list held by a parent record.
type chain struct {
	table  string
	head   Index
	tail   Index
	parent Index // expected Links.Parent of every child, NoIndex to skip
	system Index // expected Links.System of every child, NoIndex to skip
	limit  int
}

// walkChain follows head -> forward links until NoIndex, fetching each
// record once. The reverse link of every record must point at the one
// before it and the walk must end on the tail, so a chain that is
// asymmetric, cyclic, longer than limit or owned by another parent fails
// with a HierarchyError instead of being tolerated.
func walkChain[T any](c chain, fetch func(Index) (T, Links, error)) ([]T, error) {
	var out []T
	if c.head == NoIndex {
		if c.tail != NoIndex {
			return nil, &HierarchyError{Table: c.table, Index: c.tail, Reason: "tail set on an empty chain"}
		}
		return nil, nil
	}
	visited := make(map[Index]bool)
	prev := NoIndex
	for cur := c.head; cur != NoIndex; {
		if len(out) >= c.limit {
			return out, &HierarchyError{Table: c.table, Index: cur, Reason: fmt.Sprintf("more than %d records", c.limit)}
		}
		if visited[cur] {
			return out, &HierarchyError{Table: c.table, Index: cur, Reason: "index revisited"}
		}
		visited[cur] = true
		item, links, err := fetch(cur)
		if err != nil {
			return out, fmt.Errorf("%s %d: %w", c.table, cur, err)
		}
		if links.Reverse != prev {
			return out, &HierarchyError{
				Table:  c.table,
				Index:  cur,
				Reason: fmt.Sprintf("reverse link is %d, expected %d", links.Reverse, prev),
			}
		}
		if c.parent != NoIndex && links.Parent != c.parent {
			return out, &HierarchyError{
				Table:  c.table,
				Index:  cur,
				Reason: fmt.Sprintf("parent is %d, expected %d", links.Parent, c.parent),
			}
		}
		if c.system != NoIndex && links.System != c.system {
			return out, &HierarchyError{
				Table:  c.table,
				Index:  cur,
				Reason: fmt.Sprintf("system is %d, expected %d", links.System, c.system),
			}
		}
		out = append(out, item)
		prev = cur
		cur = links.Forward
	}
	if prev != c.tail {
		return out, &HierarchyError{
			Table:  c.table,
			Index:  prev,
			Reason: fmt.Sprintf("chain ends at %d but tail is %d", prev, c.tail),
		}
	}
	return out, nil
}

// collectList repeats one query until the scanner answers -1, returning the
// values seen before it. Used by GLI, SLI and GLF.
func collectList(send func(string) (string, error), command string, limit int) ([]string, error) {
	mnemonic, _, _ := strings.Cut(command, ",")
	seen := make(map[string]bool)
	var out []string
	for {
		res, err := send(command)
		if err != nil {
			return out, err
		}
		v, err := parseValueResponse(mnemonic, res)
		if err != nil {
			return out, err
		}
		if v == NoIndex.String() {
			return out, nil
		}
		if seen[v] {
			return out, &HierarchyError{Table: mnemonic, Index: NoIndex, Reason: fmt.Sprintf("value %s returned twice", v)}
		}
		if len(out) >= limit {
			return out, &HierarchyError{Table: mnemonic, Index: NoIndex, Reason: fmt.Sprintf("more than %d values", limit)}
		}
		seen[v] = true
		out = append(out, v)
	}
}
