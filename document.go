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
	"io"

	"gopkg.in/yaml.v3"
)

// SystemDoc is the document form of a system. Record fields sit inline
// next to the child lists.
type SystemDoc struct {
	Fields                 map[string]string `yaml:",inline"`
	QuickLockout           []string          `yaml:"grp_lockout,omitempty"`
	Groups                 []GroupDoc        `yaml:"groups,omitempty"`
	Sites                  []SiteDoc         `yaml:"sites,omitempty"`
	LockedTalkGroups       []string          `yaml:"tgids_lockout,omitempty"`
	SearchLockedTalkGroups []string          `yaml:"search_lockout,omitempty"`
}

type GroupDoc struct {
	Fields     map[string]string   `yaml:",inline"`
	Channels   []map[string]string `yaml:"channels,omitempty"`
	TalkGroups []map[string]string `yaml:"tgids,omitempty"`
}

type SiteDoc struct {
	Fields      map[string]string   `yaml:",inline"`
	Frequencies []map[string]string `yaml:"trunk_frqs,omitempty"`
}

// SearchDoc is the document form of the search block.
type SearchDoc struct {
	Sections       map[string]map[string]string `yaml:",inline"`
	GlobalLockouts []string                     `yaml:"global_lout_frqs,omitempty"`
}

// ExportSystems converts systems to document form.
func ExportSystems(systems []*System) ([]SystemDoc, error) {
	docs := make([]SystemDoc, 0, len(systems))
	for _, sys := range systems {
		doc, err := exportSystem(sys)
		if err != nil {
			return nil, fmt.Errorf("system %s: %w", sys.index, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func exportSystem(sys *System) (SystemDoc, error) {
	fields, err := sys.Fields()
	if err != nil {
		return SystemDoc{}, err
	}
	doc := SystemDoc{
		Fields:                 fields,
		QuickLockout:           quickKeyLabels(sys.QuickLockout),
		LockedTalkGroups:       sys.LockedTalkGroups,
		SearchLockedTalkGroups: sys.SearchLockedTalkGroups,
	}
	for _, g := range sys.Groups {
		gd, err := exportGroup(g)
		if err != nil {
			return doc, fmt.Errorf("group %s: %w", g.index, err)
		}
		doc.Groups = append(doc.Groups, gd)
	}
	for _, site := range sys.Sites {
		fields, err := site.Fields()
		if err != nil {
			return doc, fmt.Errorf("site %s: %w", site.index, err)
		}
		sd := SiteDoc{Fields: fields}
		for _, f := range site.Frequencies {
			ff, err := f.Fields()
			if err != nil {
				return doc, fmt.Errorf("trunk frequency %s: %w", f.index, err)
			}
			sd.Frequencies = append(sd.Frequencies, ff)
		}
		doc.Sites = append(doc.Sites, sd)
	}
	return doc, nil
}

func exportGroup(g *Group) (GroupDoc, error) {
	fields, err := g.Fields()
	if err != nil {
		return GroupDoc{}, err
	}
	doc := GroupDoc{Fields: fields}
	for _, c := range g.Channels {
		cf, err := c.Fields()
		if err != nil {
			return doc, fmt.Errorf("channel %s: %w", c.index, err)
		}
		doc.Channels = append(doc.Channels, cf)
	}
	for _, t := range g.TalkGroups {
		tf, err := t.Fields()
		if err != nil {
			return doc, fmt.Errorf("tgid %s: %w", t.index, err)
		}
		doc.TalkGroups = append(doc.TalkGroups, tf)
	}
	return doc, nil
}

// ImportSystems builds a local tree from documents. Nothing carries an
// index; pushing creates every record on the scanner.
func ImportSystems(docs []SystemDoc) ([]*System, error) {
	systems := make([]*System, 0, len(docs))
	for i, doc := range docs {
		sys, err := importSystem(doc)
		if err != nil {
			return nil, fmt.Errorf("system #%d: %w", i, err)
		}
		systems = append(systems, sys)
	}
	return systems, nil
}

func importSystem(doc SystemDoc) (*System, error) {
	systemType := doc.Fields["type"]
	if systemType == "" {
		systemType = "conventional"
	}
	sys, err := NewSystem(systemType)
	if err != nil {
		return nil, err
	}
	if err := sys.load(doc.Fields); err != nil {
		return nil, err
	}
	if sys.QuickLockout, err = quickKeyStates("grp_lockout", doc.QuickLockout); err != nil {
		return nil, err
	}
	if sys.Conventional() && (len(doc.Sites) > 0 || len(doc.LockedTalkGroups) > 0) {
		return nil, fmt.Errorf("sites or tgid lockouts on a conventional system: %w", ErrSystemType)
	}
	sys.LockedTalkGroups = doc.LockedTalkGroups
	sys.SearchLockedTalkGroups = doc.SearchLockedTalkGroups
	for i, gd := range doc.Groups {
		g, err := importGroup(sys, gd)
		if err != nil {
			return nil, fmt.Errorf("group #%d: %w", i, err)
		}
		sys.Groups = append(sys.Groups, g)
	}
	for i, sd := range doc.Sites {
		site := newSite()
		if err := site.load(sd.Fields); err != nil {
			return nil, fmt.Errorf("site #%d: %w", i, err)
		}
		for j, ff := range sd.Frequencies {
			f := newTrunkFrequency()
			if err := f.load(ff); err != nil {
				return nil, fmt.Errorf("site #%d trunk frequency #%d: %w", i, j, err)
			}
			site.Frequencies = append(site.Frequencies, f)
		}
		sys.Sites = append(sys.Sites, site)
	}
	return sys, nil
}

func importGroup(sys *System, doc GroupDoc) (*Group, error) {
	g := NewGroup(sys)
	want := g.values["type"]
	if err := g.load(doc.Fields); err != nil {
		return nil, err
	}
	if g.values["type"] != want {
		return nil, &CodecError{Field: "GIN.type", Value: doc.Fields["type"], Reason: "group type does not match the system"}
	}
	if sys.Conventional() && len(doc.TalkGroups) > 0 {
		return nil, fmt.Errorf("tgids in a conventional group: %w", ErrSystemType)
	}
	if !sys.Conventional() && len(doc.Channels) > 0 {
		return nil, fmt.Errorf("channels in a trunked group: %w", ErrSystemType)
	}
	for i, cf := range doc.Channels {
		c := newChannel()
		if err := c.load(cf); err != nil {
			return nil, fmt.Errorf("channel #%d: %w", i, err)
		}
		g.Channels = append(g.Channels, c)
	}
	for i, tf := range doc.TalkGroups {
		t := newTalkGroup()
		if err := t.load(tf); err != nil {
			return nil, fmt.Errorf("tgid #%d: %w", i, err)
		}
		g.TalkGroups = append(g.TalkGroups, t)
	}
	return g, nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// decodeYAML reads one document. An empty stream leaves v untouched.
func decodeYAML(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ExportDocument writes the system tree as a YAML list of systems.
func (sc *Scanner) ExportDocument(w io.Writer) error {
	docs, err := ExportSystems(sc.Systems)
	if err != nil {
		return err
	}
	return encodeYAML(w, docs)
}

// ImportDocument replaces the cached tree with the systems read from r.
// The scanner is not touched until PushAll.
func (sc *Scanner) ImportDocument(r io.Reader) error {
	var docs []SystemDoc
	if err := decodeYAML(r, &docs); err != nil {
		return fmt.Errorf("scan document: %w", err)
	}
	systems, err := ImportSystems(docs)
	if err != nil {
		return err
	}
	sc.Systems = systems
	return nil
}

// ExportSettings writes the settings as section -> field -> value.
func (sc *Scanner) ExportSettings(w io.Writer) error {
	doc, err := blocksDocument(sc.Settings.Blocks)
	if err != nil {
		return err
	}
	return encodeYAML(w, doc)
}

// ImportSettings replaces the cached settings. Missing fields are sent
// empty on push and keep their value on the scanner.
func (sc *Scanner) ImportSettings(r io.Reader) error {
	var doc map[string]map[string]string
	if err := decodeYAML(r, &doc); err != nil {
		return fmt.Errorf("settings document: %w", err)
	}
	st := NewSettings()
	if err := loadBlocks(st.Blocks, doc); err != nil {
		return err
	}
	sc.Settings = st
	return nil
}

func (sc *Scanner) ExportSearch(w io.Writer) error {
	sections, err := blocksDocument(sc.Search.Blocks)
	if err != nil {
		return err
	}
	freqs, err := sc.Search.GlobalLockoutFrequencies()
	if err != nil {
		return err
	}
	return encodeYAML(w, SearchDoc{Sections: sections, GlobalLockouts: freqs})
}

func (sc *Scanner) ImportSearch(r io.Reader) error {
	var doc SearchDoc
	if err := decodeYAML(r, &doc); err != nil {
		return fmt.Errorf("search document: %w", err)
	}
	sr := NewSearch()
	if err := loadBlocks(sr.Blocks, doc.Sections); err != nil {
		return err
	}
	if err := sr.SetGlobalLockoutFrequencies(doc.GlobalLockouts); err != nil {
		return err
	}
	sc.Search = sr
	return nil
}
