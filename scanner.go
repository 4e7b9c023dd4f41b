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
	"os"
	"slices"
	"strings"

	"github.com/rs/zerolog"
)

// QuickLockoutPages is the number of QSL pages, each QuickKeyCount long.
const QuickLockoutPages = 10

// Scanner owns the cached memory tree of one scanner: the system list,
// the system quick lockout pages, the settings and the search block.
type Scanner struct {
	*Session
	Systems []*System
	// QuickLockout holds the QSL pages, each in key order 0-9.
	QuickLockout [][]string
	Settings     *Settings
	Search       *Search
}

var _ ScannerApi = (*Scanner)(nil)

// NewScanner returns a scanner with an empty tree over t.
func NewScanner(t Transporter, logger zerolog.Logger, limits Limits) *Scanner {
	return &Scanner{
		Session:  NewSession(t, logger, limits),
		Settings: NewSettings(),
		Search:   NewSearch(),
	}
}

// Open connects to the scanner described by cfg.
func Open(cfg Config) (*Scanner, error) {
	t, err := cfg.Open()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(os.Stderr, cfg.LogLevel, "uniden")
	t.SetLogger(logger)
	return NewScanner(t, logger, cfg.Limits), nil
}

func (sc *Scanner) systemAt(idx Index) *System {
	for _, sys := range sc.Systems {
		if sys.index == idx {
			return sys
		}
	}
	return nil
}

// PullAll reads every system with its descendants and the system quick
// lockout pages. On failure the tree keeps whatever was read.
func (sc *Scanner) PullAll() error {
	return sc.ProgramMode(func() error {
		head, err := sc.queryIndex("SIH")
		if err != nil {
			return err
		}
		tail, err := sc.queryIndex("SIT")
		if err != nil {
			return err
		}
		systems, err := walkChain(chain{
			table: "system", head: head, tail: tail,
			parent: NoIndex, system: NoIndex, limit: sc.limits.Systems,
		}, func(idx Index) (*System, Links, error) {
			sys := sc.systemAt(idx)
			if sys == nil {
				sys = &System{Record: newRecord(KindSystem, systemLayout, trunkLayout)}
			}
			err := sc.fetchSystem(idx, sys)
			return sys, sys.links, err
		})
		sc.Systems = systems
		if err != nil {
			return err
		}
		if err := sc.fetchSystemQuickLockout(); err != nil {
			return err
		}
		sc.logger.Info().Int("systems", len(systems)).Msg("memory pulled")
		return nil
	})
}

func (sc *Scanner) queryIndex(mnemonic string) (Index, error) {
	v, err := sc.queryValue(mnemonic)
	if err != nil {
		return NoIndex, err
	}
	return ParseIndex(v)
}

func (sc *Scanner) fetchSystemQuickLockout() error {
	res, err := sc.Send("QSL")
	if err != nil {
		return err
	}
	tokens := strings.Split(res, ",")
	if len(tokens) != QuickLockoutPages+1 || tokens[0] != "QSL" {
		return &CodecError{Field: "QSL", Value: res, Reason: "unexpected response"}
	}
	pages := make([][]string, 0, QuickLockoutPages)
	for i, wire := range tokens[1:] {
		states, err := parseQuickKeys(fmt.Sprintf("QSL.%d", i), wire)
		if err != nil {
			return err
		}
		pages = append(pages, states)
	}
	sc.QuickLockout = pages
	return nil
}

// PushAll writes the system quick lockout pages, then every system with
// its descendants. Systems without an index are created.
func (sc *Scanner) PushAll() error {
	return sc.ProgramMode(func() error {
		if len(sc.QuickLockout) > 0 {
			if len(sc.QuickLockout) != QuickLockoutPages {
				return &CodecError{Field: "QSL", Reason: fmt.Sprintf("need %d pages", QuickLockoutPages)}
			}
			pages := make([]string, 0, QuickLockoutPages)
			for _, page := range sc.QuickLockout {
				pages = append(pages, formatQuickKeys(page))
			}
			if _, err := sc.Send("QSL," + strings.Join(pages, ",")); err != nil {
				return err
			}
		}
		for _, sys := range sc.Systems {
			if err := sc.pushSystem(sys); err != nil {
				return fmt.Errorf("system %s: %w", sys.values["name"], err)
			}
		}
		sc.logger.Info().Int("systems", len(sc.Systems)).Msg("memory pushed")
		return nil
	})
}

func (sc *Scanner) PullSettings() error {
	st, err := sc.FetchSettings(sc.Settings)
	sc.Settings = st
	return err
}

func (sc *Scanner) PushSettings() error {
	return sc.Session.PushSettings(sc.Settings)
}

func (sc *Scanner) PullSearch() error {
	sr, err := sc.FetchSearch(sc.Search)
	sc.Search = sr
	return err
}

func (sc *Scanner) PushSearch() error {
	return sc.Session.PushSearch(sc.Search)
}

// LockGlobalFrequency locks out a frequency (MHz) on every search.
func (sc *Scanner) LockGlobalFrequency(freq string) error {
	return sc.Session.LockGlobalFrequency(sc.Search, freq)
}

func (sc *Scanner) UnlockGlobalFrequency(freq string) error {
	return sc.Session.UnlockGlobalFrequency(sc.Search, freq)
}

// CreateSystem adds an empty system of the given type label and reads it
// back. Program mode must be entered.
func (sc *Scanner) CreateSystem(systemType string, protect bool) (*System, error) {
	if err := sc.requireProgramMode(); err != nil {
		return nil, err
	}
	sys, err := NewSystem(systemType)
	if err != nil {
		return nil, err
	}
	flag := "0"
	if protect {
		flag = "1"
	}
	idx, err := sc.create("CSY", sys.Type(), flag)
	if err != nil {
		return nil, err
	}
	if err := sc.fetchSystem(idx, sys); err != nil {
		return nil, err
	}
	sc.Systems = append(sc.Systems, sys)
	return sys, nil
}

// DeleteSystem removes sys and everything below it.
func (sc *Scanner) DeleteSystem(sys *System) error {
	if err := sc.checkStructural(&sys.Record); err != nil {
		return err
	}
	if _, err := sc.Send("DSY," + sys.index.String()); err != nil {
		return err
	}
	sys.markTreeDeleted()
	sc.Systems = remove(sc.Systems, sys)
	return nil
}

// AppendGroup adds a channel group (conventional) or TGID group (trunked).
func (sc *Scanner) AppendGroup(sys *System) (*Group, error) {
	if err := sc.checkStructural(&sys.Record); err != nil {
		return nil, err
	}
	mnemonic := "AGT"
	if sys.Conventional() {
		mnemonic = "AGC"
	}
	idx, err := sc.create(mnemonic, sys.index.String())
	if err != nil {
		return nil, err
	}
	g, err := sc.fetchGroup(sys, idx, NewGroup(sys))
	if err != nil {
		return nil, err
	}
	sys.Groups = append(sys.Groups, g)
	return g, nil
}

func (sc *Scanner) DeleteGroup(sys *System, g *Group) error {
	if err := sc.checkStructural(&g.Record); err != nil {
		return err
	}
	if _, err := sc.Send("DGR," + g.index.String()); err != nil {
		return err
	}
	g.markTreeDeleted()
	sys.Groups = remove(sys.Groups, g)
	return nil
}

// AppendSite adds a site to a trunked system.
func (sc *Scanner) AppendSite(sys *System) (*Site, error) {
	if err := sc.checkStructural(&sys.Record); err != nil {
		return nil, err
	}
	if sys.Conventional() {
		return nil, fmt.Errorf("site on conventional system %d: %w", sys.index, ErrSystemType)
	}
	idx, err := sc.create("AST", sys.index.String(), "")
	if err != nil {
		return nil, err
	}
	site, err := sc.fetchSite(sys, idx, newSite())
	if err != nil {
		return nil, err
	}
	sys.Sites = append(sys.Sites, site)
	return site, nil
}

func (sc *Scanner) DeleteSite(sys *System, site *Site) error {
	if err := sc.checkStructural(&site.Record); err != nil {
		return err
	}
	if _, err := sc.Send("DGR," + site.index.String()); err != nil {
		return err
	}
	site.markTreeDeleted()
	sys.Sites = remove(sys.Sites, site)
	return nil
}

// AppendChannel adds a channel to a group of a conventional system.
func (sc *Scanner) AppendChannel(sys *System, g *Group) (*Channel, error) {
	if err := sc.checkStructural(&g.Record); err != nil {
		return nil, err
	}
	if !sys.Conventional() {
		return nil, fmt.Errorf("channel on trunked system %d: %w", sys.index, ErrSystemType)
	}
	c := newChannel()
	if err := sc.appendLeaf(&c.Record, channelLayout, "ACC", g.index, sys.Protected()); err != nil {
		return nil, err
	}
	g.Channels = append(g.Channels, c)
	return c, nil
}

// AppendTalkGroup adds a talkgroup to a group of a trunked system.
func (sc *Scanner) AppendTalkGroup(sys *System, g *Group) (*TalkGroup, error) {
	if err := sc.checkStructural(&g.Record); err != nil {
		return nil, err
	}
	if sys.Conventional() {
		return nil, fmt.Errorf("talkgroup on conventional system %d: %w", sys.index, ErrSystemType)
	}
	t := newTalkGroup()
	if err := sc.appendLeaf(&t.Record, talkGroupLayout, "ACT", g.index, sys.Protected()); err != nil {
		return nil, err
	}
	g.TalkGroups = append(g.TalkGroups, t)
	return t, nil
}

// AppendTrunkFrequency adds a frequency to a site.
func (sc *Scanner) AppendTrunkFrequency(sys *System, site *Site) (*TrunkFrequency, error) {
	if err := sc.checkStructural(&site.Record); err != nil {
		return nil, err
	}
	f := newTrunkFrequency()
	if err := sc.appendLeaf(&f.Record, trunkFrequencyLayout, "ACC", site.index, sys.Protected()); err != nil {
		return nil, err
	}
	site.Frequencies = append(site.Frequencies, f)
	return f, nil
}

func (sc *Scanner) appendLeaf(r *Record, layout *recordLayout, mnemonic string, parent Index, protected bool) error {
	idx, err := sc.create(mnemonic, parent.String())
	if err != nil {
		return err
	}
	return sc.fetchLeaf(r, layout, idx, protected)
}

func (sc *Scanner) DeleteChannel(g *Group, c *Channel) error {
	if err := sc.deleteLeaf(&c.Record); err != nil {
		return err
	}
	g.Channels = remove(g.Channels, c)
	return nil
}

func (sc *Scanner) DeleteTalkGroup(g *Group, t *TalkGroup) error {
	if err := sc.deleteLeaf(&t.Record); err != nil {
		return err
	}
	g.TalkGroups = remove(g.TalkGroups, t)
	return nil
}

func (sc *Scanner) DeleteTrunkFrequency(site *Site, f *TrunkFrequency) error {
	if err := sc.deleteLeaf(&f.Record); err != nil {
		return err
	}
	site.Frequencies = remove(site.Frequencies, f)
	return nil
}

func (sc *Scanner) deleteLeaf(r *Record) error {
	if err := sc.checkStructural(r); err != nil {
		return err
	}
	if _, err := sc.Send("DCH," + r.index.String()); err != nil {
		return err
	}
	r.markDeleted()
	return nil
}

// LockoutTalkGroup adds tgid to the locked list of a trunked system.
func (sc *Scanner) LockoutTalkGroup(sys *System, tgid string) error {
	return sc.talkGroupLockout(sys, "LOI", tgid)
}

// UnlockTalkGroup removes tgid from the locked list of a trunked system.
func (sc *Scanner) UnlockTalkGroup(sys *System, tgid string) error {
	return sc.talkGroupLockout(sys, "ULI", tgid)
}

func (sc *Scanner) talkGroupLockout(sys *System, mnemonic, tgid string) error {
	if err := sys.checkLive(); err != nil {
		return err
	}
	if sys.index == NoIndex {
		return ErrNoIndex
	}
	if sys.Conventional() {
		return fmt.Errorf("tgid lockout on conventional system %d: %w", sys.index, ErrSystemType)
	}
	if tgid == "" || strings.ContainsAny(tgid, ",\r") {
		return &CodecError{Field: mnemonic, Value: tgid, Reason: "invalid tgid"}
	}
	return sc.ProgramMode(func() error {
		if _, err := sc.Send(strings.Join([]string{mnemonic, sys.index.String(), tgid}, ",")); err != nil {
			return err
		}
		return sc.fetchTalkGroupLockouts(sys)
	})
}

// checkStructural guards create and delete commands: program mode must
// be held and the record must exist on the scanner.
func (sc *Scanner) checkStructural(r *Record) error {
	if err := sc.requireProgramMode(); err != nil {
		return err
	}
	if err := r.checkLive(); err != nil {
		return err
	}
	if r.index == NoIndex {
		return ErrNoIndex
	}
	return nil
}

func (sys *System) markTreeDeleted() {
	for _, g := range sys.Groups {
		g.markTreeDeleted()
	}
	for _, site := range sys.Sites {
		site.markTreeDeleted()
	}
	sys.markDeleted()
}

func (g *Group) markTreeDeleted() {
	for _, c := range g.Channels {
		c.markDeleted()
	}
	for _, t := range g.TalkGroups {
		t.markDeleted()
	}
	g.markDeleted()
}

func (site *Site) markTreeDeleted() {
	for _, f := range site.Frequencies {
		f.markDeleted()
	}
	site.markDeleted()
}

func remove[T comparable](list []T, item T) []T {
	if i := slices.Index(list, item); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
