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

// Channel is a conventional frequency entry.
type Channel struct {
	Record
}

// TalkGroup is a talkgroup ID entry of a trunked system.
type TalkGroup struct {
	Record
}

// TrunkFrequency is a control or voice frequency of a site.
type TrunkFrequency struct {
	Record
}

func newChannel() *Channel {
	return &Channel{Record: newRecord(KindChannel, channelLayout)}
}

func newTalkGroup() *TalkGroup {
	return &TalkGroup{Record: newRecord(KindTalkGroup, talkGroupLayout)}
}

func newTrunkFrequency() *TrunkFrequency {
	return &TrunkFrequency{Record: newRecord(KindTrunkFrequency, trunkFrequencyLayout)}
}

// NewChannel returns a local channel with no index.
func NewChannel() *Channel { return newChannel() }

// NewTalkGroup returns a local talkgroup with no index.
func NewTalkGroup() *TalkGroup { return newTalkGroup() }

// NewTrunkFrequency returns a local trunk frequency with no index.
func NewTrunkFrequency() *TrunkFrequency { return newTrunkFrequency() }

// fetchLeaf reads one leaf record into r.
func (s *Session) fetchLeaf(r *Record, layout *recordLayout, idx Index, protected bool) error {
	if err := r.checkLive(); err != nil {
		return err
	}
	res, err := s.Send(layout.query(idx.String()))
	if err != nil {
		return err
	}
	links := NewLinks()
	values, err := layout.Decode(res, &links)
	if err != nil {
		return err
	}
	r.absorb(values, protected)
	r.markFetched(idx, links)
	return nil
}

// pushLeaf writes one leaf record, appending it under parent first when it
// has no index.
func (s *Session) pushLeaf(r *Record, layout *recordLayout, createCmd, parent string) error {
	if err := r.checkLive(); err != nil {
		return err
	}
	if r.index == NoIndex {
		idx, err := s.create(createCmd, parent)
		if err != nil {
			return err
		}
		r.index = idx
	}
	if _, err := s.Send(layout.Encode(r.values, r.index.String())); err != nil {
		return err
	}
	r.markPushed()
	return nil
}

// FetchChannel reads channel idx. sys decides whether protected values
// are kept.
func (s *Session) FetchChannel(sys *System, idx Index, cached *Channel) (*Channel, error) {
	c := cached
	if c == nil {
		c = newChannel()
	}
	err := s.ProgramMode(func() error {
		return s.fetchLeaf(&c.Record, channelLayout, idx, sys.Protected())
	})
	return c, err
}

// PushChannel writes c, appending it to g when it has no index.
func (s *Session) PushChannel(g *Group, c *Channel) error {
	if g.index == NoIndex {
		return ErrNoIndex
	}
	return s.ProgramMode(func() error {
		return s.pushLeaf(&c.Record, channelLayout, "ACC", g.index.String())
	})
}

func (s *Session) FetchTalkGroup(sys *System, idx Index, cached *TalkGroup) (*TalkGroup, error) {
	t := cached
	if t == nil {
		t = newTalkGroup()
	}
	err := s.ProgramMode(func() error {
		return s.fetchLeaf(&t.Record, talkGroupLayout, idx, sys.Protected())
	})
	return t, err
}

func (s *Session) PushTalkGroup(g *Group, t *TalkGroup) error {
	if g.index == NoIndex {
		return ErrNoIndex
	}
	return s.ProgramMode(func() error {
		return s.pushLeaf(&t.Record, talkGroupLayout, "ACT", g.index.String())
	})
}

func (s *Session) FetchTrunkFrequency(sys *System, idx Index, cached *TrunkFrequency) (*TrunkFrequency, error) {
	f := cached
	if f == nil {
		f = newTrunkFrequency()
	}
	err := s.ProgramMode(func() error {
		return s.fetchLeaf(&f.Record, trunkFrequencyLayout, idx, sys.Protected())
	})
	return f, err
}

func (s *Session) PushTrunkFrequency(site *Site, f *TrunkFrequency) error {
	if site.index == NoIndex {
		return ErrNoIndex
	}
	return s.ProgramMode(func() error {
		return s.pushLeaf(&f.Record, trunkFrequencyLayout, "ACC", site.index.String())
	})
}
