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

// node is one synthetic record of a chain.
type node struct {
	rev, fwd, parent Index
}

func fetchNodes(nodes map[Index]node, calls *[]Index) func(Index) (Index, Links, error) {
	return func(idx Index) (Index, Links, error) {
		*calls = append(*calls, idx)
		n, ok := nodes[idx]
		if !ok {
			return idx, NewLinks(), &CommandError{Command: "GIN," + idx.String(), Token: "NG"}
		}
		links := NewLinks()
		links.Reverse, links.Forward, links.Parent = n.rev, n.fwd, n.parent
		return idx, links, nil
	}
}

func TestWalkChain(t *testing.T) {
	nodes := map[Index]node{
		10: {rev: NoIndex, fwd: 11, parent: 1},
		11: {rev: 10, fwd: 12, parent: 1},
		12: {rev: 11, fwd: NoIndex, parent: 1},
	}
	var calls []Index
	got, err := walkChain(chain{table: "group", head: 10, tail: 12, parent: 1, system: NoIndex, limit: 100},
		fetchNodes(nodes, &calls))
	if err != nil {
		t.Fatalf("walkChain failed: %v", err)
	}
	expected := []Index{10, 11, 12}
	if len(got) != len(expected) {
		t.Fatalf("walkChain returned %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] || calls[i] != expected[i] {
			t.Errorf("walkChain returned %v after fetching %v, expected %v", got, calls, expected)
		}
	}
}

func TestWalkChainEmpty(t *testing.T) {
	var calls []Index
	got, err := walkChain(chain{table: "group", head: NoIndex, tail: NoIndex, limit: 10}, fetchNodes(nil, &calls))
	if err != nil {
		t.Fatalf("walkChain failed: %v", err)
	}
	if len(got) != 0 || len(calls) != 0 {
		t.Errorf("walkChain of an empty chain returned %v and fetched %v", got, calls)
	}

	_, err = walkChain(chain{table: "group", head: NoIndex, tail: 5, limit: 10}, fetchNodes(nil, &calls))
	if !IsHierarchyError(err) {
		t.Errorf("walkChain with only a tail returned %v, expected a HierarchyError", err)
	}
}

func TestWalkChainViolations(t *testing.T) {
	testCases := []struct {
		name  string
		nodes map[Index]node
		c     chain
	}{
		{
			name: "cycle",
			nodes: map[Index]node{
				10: {rev: NoIndex, fwd: 11, parent: 1},
				11: {rev: 10, fwd: 10, parent: 1},
			},
			c: chain{table: "group", head: 10, tail: 12, parent: 1, system: NoIndex, limit: 100},
		},
		{
			name: "asymmetric reverse link",
			nodes: map[Index]node{
				10: {rev: NoIndex, fwd: 11, parent: 1},
				11: {rev: 12, fwd: 12, parent: 1},
				12: {rev: 11, fwd: NoIndex, parent: 1},
			},
			c: chain{table: "group", head: 10, tail: 12, parent: 1, system: NoIndex, limit: 100},
		},
		{
			name: "tail mismatch",
			nodes: map[Index]node{
				10: {rev: NoIndex, fwd: 11, parent: 1},
				11: {rev: 10, fwd: NoIndex, parent: 1},
			},
			c: chain{table: "group", head: 10, tail: 12, parent: 1, system: NoIndex, limit: 100},
		},
		{
			name: "foreign parent",
			nodes: map[Index]node{
				10: {rev: NoIndex, fwd: 11, parent: 1},
				11: {rev: 10, fwd: NoIndex, parent: 2},
			},
			c: chain{table: "group", head: 10, tail: 11, parent: 1, system: NoIndex, limit: 100},
		},
		{
			name: "over limit",
			nodes: map[Index]node{
				10: {rev: NoIndex, fwd: 11, parent: 1},
				11: {rev: 10, fwd: 12, parent: 1},
				12: {rev: 11, fwd: NoIndex, parent: 1},
			},
			c: chain{table: "group", head: 10, tail: 12, parent: 1, system: NoIndex, limit: 2},
		},
	}

	for _, tc := range testCases {
		var calls []Index
		_, err := walkChain(tc.c, fetchNodes(tc.nodes, &calls))
		var he *HierarchyError
		if !errors.As(err, &he) {
			t.Errorf("%s: walkChain returned %v, expected a HierarchyError", tc.name, err)
			continue
		}
		if he.Table != "group" {
			t.Errorf("%s: HierarchyError table is %q, expected group", tc.name, he.Table)
		}
	}
}

func TestWalkChainFetchError(t *testing.T) {
	nodes := map[Index]node{
		10: {rev: NoIndex, fwd: 11, parent: 1},
	}
	var calls []Index
	got, err := walkChain(chain{table: "group", head: 10, tail: 11, parent: 1, system: NoIndex, limit: 100},
		fetchNodes(nodes, &calls))
	if !IsCommandError(err) {
		t.Fatalf("walkChain returned %v, expected the CommandError of the failed fetch", err)
	}
	if len(got) != 1 || got[0] != 10 {
		t.Errorf("walkChain kept %v, expected the records read before the failure", got)
	}
}

func TestCollectList(t *testing.T) {
	answers := []string{"GLF,01462500", "GLF,04601250", "GLF,-1"}
	var sent []string
	send := func(cmd string) (string, error) {
		sent = append(sent, cmd)
		res := answers[0]
		if len(answers) > 1 {
			answers = answers[1:]
		}
		return res, nil
	}
	got, err := collectList(send, "GLF", 10)
	if err != nil {
		t.Fatalf("collectList failed: %v", err)
	}
	if !equalStrings(got, []string{"01462500", "04601250"}) {
		t.Errorf("collectList returned %v", got)
	}
	if len(sent) != 3 {
		t.Errorf("collectList sent %d commands, expected 3", len(sent))
	}
}

func TestCollectListRepeat(t *testing.T) {
	send := func(cmd string) (string, error) { return "GLI,1234", nil }
	if _, err := collectList(send, "GLI,1", 10); !IsHierarchyError(err) {
		t.Errorf("collectList of a repeating value returned %v, expected a HierarchyError", err)
	}
}
