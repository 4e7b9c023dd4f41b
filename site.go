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

// Site is one site of a trunked system. Besides the SIF fields it carries
// the Motorola custom band plan (MCP) and the P25 band plan (ABP).
type Site struct {
	Record
	Frequencies []*TrunkFrequency
}

func newSite() *Site {
	return &Site{Record: newRecord(KindSite, siteLayout, motorolaPlanLayout, p25PlanLayout)}
}

// NewSite returns a local site with no index.
func NewSite() *Site { return newSite() }

func (site *Site) frequencyAt(idx Index) *TrunkFrequency {
	for _, f := range site.Frequencies {
		if f.index == idx {
			return f
		}
	}
	return nil
}

// FetchSite reads site idx of sys, its band plans and trunk frequencies.
func (s *Session) FetchSite(sys *System, idx Index, cached *Site) (*Site, error) {
	if err := sys.checkLive(); err != nil {
		return nil, err
	}
	var site *Site
	err := s.ProgramMode(func() error {
		var err error
		site, err = s.fetchSite(sys, idx, cached)
		return err
	})
	return site, err
}

func (s *Session) fetchSite(sys *System, idx Index, cached *Site) (*Site, error) {
	site := cached
	if site == nil {
		site = newSite()
	}
	if err := site.checkLive(); err != nil {
		return site, err
	}
	links := NewLinks()
	for _, layout := range []*recordLayout{siteLayout, motorolaPlanLayout, p25PlanLayout} {
		res, err := s.Send(layout.query(idx.String()))
		if err != nil {
			return site, err
		}
		target := &links
		if layout != siteLayout {
			target = nil
		}
		values, err := layout.Decode(res, target)
		if err != nil {
			return site, err
		}
		site.absorb(values, sys.Protected())
	}
	site.links = links

	freqs, err := walkChain(chain{
		table: "trunk frequency", head: links.Head, tail: links.Tail,
		parent: idx, system: sys.index, limit: s.limits.Channels,
	}, func(fi Index) (*TrunkFrequency, Links, error) {
		f := site.frequencyAt(fi)
		if f == nil {
			f = newTrunkFrequency()
		}
		err := s.fetchLeaf(&f.Record, trunkFrequencyLayout, fi, sys.Protected())
		return f, f.links, err
	})
	site.Frequencies = freqs
	if err != nil {
		return site, err
	}
	site.markFetched(idx, links)
	return site, nil
}

// PushSite writes site, both band plans and its trunk frequencies.
func (s *Session) PushSite(sys *System, site *Site) error {
	if err := sys.checkLive(); err != nil {
		return err
	}
	return s.ProgramMode(func() error {
		return s.pushSite(sys, site)
	})
}

func (s *Session) pushSite(sys *System, site *Site) error {
	if err := site.checkLive(); err != nil {
		return err
	}
	if sys.Conventional() {
		return fmt.Errorf("site on conventional system %d: %w", sys.index, ErrSystemType)
	}
	if sys.index == NoIndex {
		return ErrNoIndex
	}
	if site.index == NoIndex {
		idx, err := s.create("AST", sys.index.String(), "")
		if err != nil {
			return err
		}
		site.index = idx
	}
	idx := site.index.String()
	for _, layout := range []*recordLayout{siteLayout, motorolaPlanLayout, p25PlanLayout} {
		if _, err := s.Send(layout.Encode(site.values, idx)); err != nil {
			return err
		}
	}
	for _, f := range site.Frequencies {
		if err := s.pushLeaf(&f.Record, trunkFrequencyLayout, "ACC", idx); err != nil {
			return fmt.Errorf("trunk frequency %s: %w", f.values["frequency"], err)
		}
	}
	site.markPushed()
	return nil
}
