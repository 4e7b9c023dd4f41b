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

// System is the top level scan unit. A conventional system holds channel
// groups; a trunked one holds sites and talkgroup groups.
type System struct {
	Record
	Groups []*Group
	Sites  []*Site

	// QuickLockout holds the group quick key states in key order 0-9.
	QuickLockout []string
	// LockedTalkGroups and SearchLockedTalkGroups mirror GLI and SLI.
	LockedTalkGroups       []string
	SearchLockedTalkGroups []string
}

// NewSystem returns a local system of the given type label, for example
// "conventional" or "p25_standard". It has no index until pushed.
func NewSystem(systemType string) (*System, error) {
	sys := &System{Record: newRecord(KindSystem, systemLayout, trunkLayout)}
	if err := sys.Set("type", systemType); err != nil {
		return nil, err
	}
	return sys, nil
}

// Type returns the wire system type, e.g. "CNV" or "P25S".
func (s *System) Type() string { return s.values["type"] }

func (s *System) Conventional() bool { return s.Type() == "CNV" }

func (s *System) Protected() bool { return s.values["protected"] == "1" }

func (s *System) groupAt(idx Index) *Group {
	for _, g := range s.Groups {
		if g.index == idx {
			return g
		}
	}
	return nil
}

func (s *System) siteAt(idx Index) *Site {
	for _, site := range s.Sites {
		if site.index == idx {
			return site
		}
	}
	return nil
}

// parseQuickKeys splits a quick key string into states in key order.
func parseQuickKeys(field, wire string) ([]string, error) {
	states := strings.Split(wire, "")
	for _, st := range states {
		if _, err := QuickKeyTable.Decode(st); err != nil {
			return nil, &CodecError{Field: field, Value: wire, Reason: "quick key state must be 0, 1 or 2"}
		}
	}
	return RotateToHead(states), nil
}

func formatQuickKeys(states []string) string {
	return strings.Join(RotateToTail(states), "")
}

// quickKeyLabels converts states to document labels.
func quickKeyLabels(states []string) []string {
	out := make([]string, len(states))
	for i, st := range states {
		out[i], _ = QuickKeyTable.Decode(st)
	}
	return out
}

func quickKeyStates(field string, labels []string) ([]string, error) {
	if len(labels) == 0 {
		return nil, nil
	}
	if len(labels) != QuickKeyCount {
		return nil, &CodecError{Field: field, Value: strings.Join(labels, ","), Reason: fmt.Sprintf("need %d quick keys", QuickKeyCount)}
	}
	out := make([]string, len(labels))
	for i, label := range labels {
		code, err := QuickKeyTable.Encode(label)
		if err != nil {
			return nil, err
		}
		out[i] = code
	}
	return out, nil
}

// FetchSystem reads system idx and everything below it. A cached system
// is updated in place, keeping values the scanner withholds for
// protected systems.
func (s *Session) FetchSystem(idx Index, cached *System) (*System, error) {
	sys := cached
	if sys == nil {
		sys = &System{Record: newRecord(KindSystem, systemLayout, trunkLayout)}
	}
	if err := sys.checkLive(); err != nil {
		return nil, err
	}
	err := s.ProgramMode(func() error {
		return s.fetchSystem(idx, sys)
	})
	return sys, err
}

func (s *Session) fetchSystem(idx Index, sys *System) error {
	res, err := s.Send(systemLayout.query(idx.String()))
	if err != nil {
		return err
	}
	links := NewLinks()
	values, err := systemLayout.Decode(res, &links)
	if err != nil {
		return err
	}
	// A protected system withholds PROTECT itself along with everything
	// but the type, name and links. Only an explicit "0" means unprotected.
	protected := values["protected"] != "0"
	sys.absorb(values, protected)
	if values["protected"] == "" {
		sys.values["protected"] = "1"
	}
	sys.index = idx
	sys.links = links

	if !sys.Conventional() {
		res, err := s.Send(trunkLayout.query(idx.String()))
		if err != nil {
			return err
		}
		values, err := trunkLayout.Decode(res, &links)
		if err != nil {
			return err
		}
		sys.absorb(values, protected)
		sys.links = links
	}

	if sys.Conventional() {
		groups, err := walkChain(chain{
			table: "group", head: links.Head, tail: links.Tail,
			parent: idx, system: NoIndex, limit: s.limits.Groups,
		}, func(gi Index) (*Group, Links, error) {
			g, err := s.fetchGroup(sys, gi, sys.groupAt(gi))
			return g, g.links, err
		})
		sys.Groups = groups
		if err != nil {
			return err
		}
	} else {
		sites, err := walkChain(chain{
			table: "site", head: links.Head, tail: links.Tail,
			parent: idx, system: NoIndex, limit: s.limits.Groups,
		}, func(si Index) (*Site, Links, error) {
			site, err := s.fetchSite(sys, si, sys.siteAt(si))
			return site, site.links, err
		})
		sys.Sites = sites
		if err != nil {
			return err
		}
		groups, err := walkChain(chain{
			table: "tgid group", head: links.TGIDHead, tail: links.TGIDTail,
			parent: idx, system: NoIndex, limit: s.limits.Groups,
		}, func(gi Index) (*Group, Links, error) {
			g, err := s.fetchGroup(sys, gi, sys.groupAt(gi))
			return g, g.links, err
		})
		sys.Groups = groups
		if err != nil {
			return err
		}
	}

	if err := s.fetchGroupQuickLockout(sys); err != nil {
		return err
	}
	if !sys.Conventional() {
		if err := s.fetchTalkGroupLockouts(sys); err != nil {
			return err
		}
	}
	sys.markFetched(idx, links)
	s.logger.Debug().Int("sys", int(idx)).Int("groups", len(sys.Groups)).Int("sites", len(sys.Sites)).Msg("system fetched")
	return nil
}

func (s *Session) fetchGroupQuickLockout(sys *System) error {
	res, err := s.Send("QGL," + sys.index.String())
	if err != nil {
		return err
	}
	wire, err := parseValueResponse("QGL", res)
	if err != nil {
		return err
	}
	states, err := parseQuickKeys("QGL", wire)
	if err != nil {
		return err
	}
	sys.QuickLockout = states
	return nil
}

func (s *Session) fetchTalkGroupLockouts(sys *System) error {
	locked, err := collectList(s.Send, "GLI,"+sys.index.String(), s.limits.Lockouts)
	if err != nil {
		return err
	}
	searchLocked, err := collectList(s.Send, "SLI,"+sys.index.String(), s.limits.Lockouts)
	if err != nil {
		return err
	}
	sys.LockedTalkGroups = locked
	sys.SearchLockedTalkGroups = searchLocked
	return nil
}

// PushSystem writes sys and everything below it. A system without an
// index is created first.
func (s *Session) PushSystem(sys *System) error {
	if err := sys.checkLive(); err != nil {
		return err
	}
	return s.ProgramMode(func() error {
		return s.pushSystem(sys)
	})
}

func (s *Session) pushSystem(sys *System) error {
	if sys.index == NoIndex {
		protect := sys.values["protected"]
		if protect == "" {
			protect = "0"
		}
		res, err := s.Send(strings.Join([]string{"CSY", sys.Type(), protect}, ","))
		if err != nil {
			return err
		}
		idx, err := parseIndexResponse("CSY", res)
		if err != nil {
			return err
		}
		sys.index = idx
		s.logger.Info().Int("sys", int(idx)).Str("type", sys.Type()).Msg("system created")
	}
	idx := sys.index.String()
	if _, err := s.Send(systemLayout.Encode(sys.values, idx)); err != nil {
		return err
	}
	if !sys.Conventional() {
		if _, err := s.Send(trunkLayout.Encode(sys.values, idx)); err != nil {
			return err
		}
	}
	for _, g := range sys.Groups {
		if err := s.pushGroup(sys, g); err != nil {
			return fmt.Errorf("group %s: %w", g.values["name"], err)
		}
	}
	for _, site := range sys.Sites {
		if err := s.pushSite(sys, site); err != nil {
			return fmt.Errorf("site %s: %w", site.values["name"], err)
		}
	}
	if len(sys.QuickLockout) > 0 {
		if _, err := s.Send("QGL," + idx + "," + formatQuickKeys(sys.QuickLockout)); err != nil {
			return err
		}
	}
	if !sys.Conventional() {
		if err := s.syncTalkGroupLockouts(sys); err != nil {
			return err
		}
	}
	sys.markPushed()
	return nil
}

// syncTalkGroupLockouts makes the scanner's locked TGID list match sys.
func (s *Session) syncTalkGroupLockouts(sys *System) error {
	idx := sys.index.String()
	current, err := collectList(s.Send, "GLI,"+idx, s.limits.Lockouts)
	if err != nil {
		return err
	}
	lock, unlock := diffLists(current, sys.LockedTalkGroups)
	for _, tgid := range unlock {
		if _, err := s.Send("ULI," + idx + "," + tgid); err != nil {
			return err
		}
	}
	for _, tgid := range lock {
		if _, err := s.Send("LOI," + idx + "," + tgid); err != nil {
			return err
		}
	}
	return s.fetchTalkGroupLockouts(sys)
}
