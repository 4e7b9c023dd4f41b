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

// Group is a channel group of a conventional system or a talkgroup group
// of a trunked one. Which list is used follows the owning system's type.
type Group struct {
	Record
	Channels   []*Channel
	TalkGroups []*TalkGroup
}

func newGroup() *Group {
	return &Group{Record: newRecord(KindGroup, groupLayout)}
}

// NewGroup returns a local group typed for sys.
func NewGroup(sys *System) *Group {
	g := newGroup()
	if sys.Conventional() {
		g.values["type"] = "C"
	} else {
		g.values["type"] = "T"
	}
	return g
}

func (g *Group) channelAt(idx Index) *Channel {
	for _, c := range g.Channels {
		if c.index == idx {
			return c
		}
	}
	return nil
}

func (g *Group) talkGroupAt(idx Index) *TalkGroup {
	for _, t := range g.TalkGroups {
		if t.index == idx {
			return t
		}
	}
	return nil
}

// FetchGroup reads group idx of sys with its channels or talkgroups.
func (s *Session) FetchGroup(sys *System, idx Index, cached *Group) (*Group, error) {
	if err := sys.checkLive(); err != nil {
		return nil, err
	}
	var g *Group
	err := s.ProgramMode(func() error {
		var err error
		g, err = s.fetchGroup(sys, idx, cached)
		return err
	})
	return g, err
}

// fetchGroup always returns a group, partially filled on error.
func (s *Session) fetchGroup(sys *System, idx Index, cached *Group) (*Group, error) {
	g := cached
	if g == nil {
		g = newGroup()
	}
	if err := g.checkLive(); err != nil {
		return g, err
	}
	res, err := s.Send(groupLayout.query(idx.String()))
	if err != nil {
		return g, err
	}
	links := NewLinks()
	values, err := groupLayout.Decode(res, &links)
	if err != nil {
		return g, err
	}
	g.absorb(values, sys.Protected())
	g.links = links

	if sys.Conventional() {
		channels, err := walkChain(chain{
			table: "channel", head: links.Head, tail: links.Tail,
			parent: idx, system: sys.index, limit: s.limits.Channels,
		}, func(ci Index) (*Channel, Links, error) {
			c := g.channelAt(ci)
			if c == nil {
				c = newChannel()
			}
			err := s.fetchLeaf(&c.Record, channelLayout, ci, sys.Protected())
			return c, c.links, err
		})
		g.Channels = channels
		if err != nil {
			return g, err
		}
	} else {
		tgids, err := walkChain(chain{
			table: "talkgroup", head: links.Head, tail: links.Tail,
			parent: idx, system: sys.index, limit: s.limits.Channels,
		}, func(ti Index) (*TalkGroup, Links, error) {
			t := g.talkGroupAt(ti)
			if t == nil {
				t = newTalkGroup()
			}
			err := s.fetchLeaf(&t.Record, talkGroupLayout, ti, sys.Protected())
			return t, t.links, err
		})
		g.TalkGroups = tgids
		if err != nil {
			return g, err
		}
	}
	g.markFetched(idx, links)
	return g, nil
}

// PushGroup writes g and its children, creating whatever has no index.
func (s *Session) PushGroup(sys *System, g *Group) error {
	if err := sys.checkLive(); err != nil {
		return err
	}
	return s.ProgramMode(func() error {
		return s.pushGroup(sys, g)
	})
}

func (s *Session) pushGroup(sys *System, g *Group) error {
	if err := g.checkLive(); err != nil {
		return err
	}
	if sys.index == NoIndex {
		return ErrNoIndex
	}
	if g.index == NoIndex {
		mnemonic := "AGT"
		if sys.Conventional() {
			mnemonic = "AGC"
		}
		idx, err := s.create(mnemonic, sys.index.String())
		if err != nil {
			return err
		}
		g.index = idx
	}
	idx := g.index.String()
	if _, err := s.Send(groupLayout.Encode(g.values, idx)); err != nil {
		return err
	}
	for _, c := range g.Channels {
		if err := s.pushLeaf(&c.Record, channelLayout, "ACC", idx); err != nil {
			return fmt.Errorf("channel %s: %w", c.values["name"], err)
		}
	}
	for _, t := range g.TalkGroups {
		if err := s.pushLeaf(&t.Record, talkGroupLayout, "ACT", idx); err != nil {
			return fmt.Errorf("talkgroup %s: %w", t.values["name"], err)
		}
	}
	g.markPushed()
	return nil
}

// create issues an append command and returns the index the scanner
// allocated.
func (s *Session) create(mnemonic string, args ...string) (Index, error) {
	cmd := mnemonic
	for _, a := range args {
		cmd += "," + a
	}
	res, err := s.Send(cmd)
	if err != nil {
		return NoIndex, err
	}
	idx, err := parseIndexResponse(mnemonic, res)
	if err != nil {
		return NoIndex, err
	}
	s.logger.Debug().Str("cmd", mnemonic).Int("index", int(idx)).Msg("record created")
	return idx, nil
}
