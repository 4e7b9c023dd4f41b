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
	"sort"
)

var (
	closeCallPauseCodec = setCodec{values: []string{"3", "5", "10", "15", "30", "45", "60", "INF"}}
	maxStoreCodec       = intCodec{min: 1, max: 256}
	searchKeyCodec      = intCodec{min: 0, max: 9, tokens: []string{".", "CC", "CS", "SS"}}
)

var searchFixedSpecs = []blockSpec{
	{section: "srch_close_call", layout: newLayout("SCO",
		"-,modulation,attenuate,delay,-,code_srch,bscreen,repeater,-,-,max_store,-,agc_analog,agc_digital,p25waiting",
		"-,modulation,attenuate,delay,-,code_srch,bscreen,repeater,-,-,max_store,-,agc_analog,agc_digital,p25waiting",
		map[string]FieldCodec{
			"modulation":  ModulationTable,
			"attenuate":   OnOffTable,
			"delay":       delayCodec,
			"code_srch":   CodeSearchTable,
			"bscreen":     searchGrpCodec,
			"repeater":    OnOffTable,
			"max_store":   maxStoreCodec,
			"agc_analog":  OnOffTable,
			"agc_digital": OnOffTable,
			"p25waiting":  p25WaitingCodec,
		})},
	{section: "search_key", layout: newLayout("SHK", "key_1,key_2,key_3,-,-,-", "key_1,key_2,key_3,-,-,-",
		map[string]FieldCodec{"key_1": searchKeyCodec, "key_2": searchKeyCodec, "key_3": searchKeyCodec})},
	{section: "close_call", layout: newLayout("CLC",
		"mode,override,-,beep,level,pause,band,lockout,hold,quick_key,number_tag,color,pattern",
		"mode,override,-,beep,level,pause,band,lockout,hold,quick_key,number_tag,color,pattern",
		map[string]FieldCodec{
			"mode":       CloseCallTable,
			"override":   OnOffTable,
			"beep":       AlertToneTable,
			"level":      AlertLevelTable,
			"pause":      closeCallPauseCodec,
			"band":       bandMaskCodec,
			"lockout":    LockoutTable,
			"hold":       holdCodec,
			"quick_key":  quickKeyCodec,
			"number_tag": numberTagCodec,
			"color":      ColorTable,
			"pattern":    AlertPatternTable,
		})},
	{section: "custom_search_group", layout: newLayout("CSG", "groups", "groups",
		map[string]FieldCodec{"groups": searchGrpCodec})},
	{section: "band_scope_system", layout: newLayout("BSP", "frequency,step,span,max_hold", "frequency,step,span,max_hold",
		map[string]FieldCodec{
			"frequency": freqValue,
			"step":      stepValue,
			"span":      rawValue,
			"max_hold":  OnOffTable,
		})},
}

var (
	broadcastScreenLayout = newLayout("BBS", "limit_l,limit_h", "limit_l,limit_h",
		map[string]FieldCodec{"limit_l": freqValue, "limit_h": freqValue})
	customBandPlanLayout = bandPlanLayout("CBP", "mot_type", 6)
	customSearchLayout   = newLayout("CSP",
		"name,limit_l,limit_h,step,modulation,attenuation,delay,-,hold,lockout,cch,-,-,"+
			"quick_key,start_key,-,number_tag,agc_analog,agc_digital,p25waiting",
		"name,limit_l,limit_h,step,modulation,attenuation,delay,-,hold,lockout,cch,-,-,"+
			"quick_key,start_key,-,number_tag,agc_analog,agc_digital,p25waiting",
		map[string]FieldCodec{
			"name":        nameCodec,
			"limit_l":     freqValue,
			"limit_h":     freqValue,
			"step":        stepValue,
			"modulation":  ModulationTable,
			"attenuation": OnOffTable,
			"delay":       delayCodec,
			"hold":        holdCodec,
			"lockout":     LockoutTable,
			"cch":         OnOffTable,
			"quick_key":   quickKeyCodec,
			"start_key":   keyCodec,
			"number_tag":  numberTagCodec,
			"agc_analog":  OnOffTable,
			"agc_digital": OnOffTable,
			"p25waiting":  p25WaitingCodec,
		})
	serviceSearchLayout = newLayout("SSP",
		"@arg,delay,attenuation,hold,lockout,quick_key,start_key,-,number_tag,agc_analog,agc_digital,p25waiting",
		"delay,attenuation,hold,lockout,quick_key,start_key,-,number_tag,agc_analog,agc_digital,p25waiting",
		map[string]FieldCodec{
			"delay":       delayCodec,
			"attenuation": OnOffTable,
			"hold":        holdCodec,
			"lockout":     LockoutTable,
			"quick_key":   quickKeyCodec,
			"start_key":   keyCodec,
			"number_tag":  numberTagCodec,
			"agc_analog":  OnOffTable,
			"agc_digital": OnOffTable,
			"p25waiting":  p25WaitingCodec,
		})
)

// Custom search ranges, broadcast screen bands and CBP plans are numbered
// 0-9. Service searches use the scanner's fixed category numbers.
const customSearchCount = 10

var serviceSearchIndexes = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 11, 12, 15}

func searchSpecs() []blockSpec {
	specs := append([]blockSpec(nil), searchFixedSpecs...)
	for i := 0; i < customSearchCount; i++ {
		arg := []string{fmt.Sprint(i)}
		specs = append(specs,
			blockSpec{section: fmt.Sprintf("bcast_screen_band_%d", i), layout: broadcastScreenLayout, args: arg},
			blockSpec{section: fmt.Sprintf("mot_band_plan_%d", i), layout: customBandPlanLayout, args: arg},
			blockSpec{section: fmt.Sprintf("custom_search_%d", i), layout: customSearchLayout, args: arg},
		)
	}
	for _, i := range serviceSearchIndexes {
		specs = append(specs, blockSpec{
			section: fmt.Sprintf("service_search_%d", i),
			layout:  serviceSearchLayout,
			args:    []string{fmt.Sprint(i)},
		})
	}
	return specs
}

// Search holds the search and close call configuration plus the global
// lockout frequency list. Lockouts are kept in wire form.
type Search struct {
	Blocks         []*Block
	GlobalLockouts []string
}

// NewSearch returns an empty search configuration with every block present.
func NewSearch() *Search {
	return &Search{Blocks: newBlocks(searchSpecs())}
}

func (sr *Search) Block(section string) *Block {
	return findBlock(sr.Blocks, section)
}

// GlobalLockoutFrequencies returns the lockout list in MHz form.
func (sr *Search) GlobalLockoutFrequencies() ([]string, error) {
	out := make([]string, 0, len(sr.GlobalLockouts))
	for _, wire := range sr.GlobalLockouts {
		f, err := DecodeFrequency(wire)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// SetGlobalLockoutFrequencies replaces the local lockout list. Duplicates
// are dropped.
func (sr *Search) SetGlobalLockoutFrequencies(freqs []string) error {
	seen := make(map[string]bool, len(freqs))
	out := make([]string, 0, len(freqs))
	for _, f := range freqs {
		wire, err := EncodeFrequency(f)
		if err != nil {
			return err
		}
		if seen[wire] {
			continue
		}
		seen[wire] = true
		out = append(out, wire)
	}
	sr.GlobalLockouts = out
	return nil
}

// FetchSearch reads every search block and the global lockout list.
func (s *Session) FetchSearch(cached *Search) (*Search, error) {
	sr := cached
	if sr == nil {
		sr = NewSearch()
	}
	err := s.ProgramMode(func() error {
		if err := s.fetchBlocks(sr.Blocks); err != nil {
			return err
		}
		return s.fetchGlobalLockouts(sr)
	})
	if err != nil {
		return sr, fmt.Errorf("search: %w", err)
	}
	return sr, nil
}

func (s *Session) fetchGlobalLockouts(sr *Search) error {
	freqs, err := collectList(s.Send, "GLF", s.limits.Lockouts)
	if err != nil {
		return err
	}
	sr.GlobalLockouts = freqs
	return nil
}

// PushSearch writes every search block and brings the scanner's global
// lockout list in line with the local one.
func (s *Session) PushSearch(sr *Search) error {
	err := s.ProgramMode(func() error {
		if err := s.pushBlocks(sr.Blocks, "", 0); err != nil {
			return err
		}
		return s.syncGlobalLockouts(sr)
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return nil
}

func (s *Session) syncGlobalLockouts(sr *Search) error {
	want := append([]string(nil), sr.GlobalLockouts...)
	current, err := collectList(s.Send, "GLF", s.limits.Lockouts)
	if err != nil {
		return err
	}
	lock, unlock := diffLists(current, want)
	for _, f := range unlock {
		if _, err := s.Send("ULF," + f); err != nil {
			return err
		}
	}
	for _, f := range lock {
		if _, err := s.Send("LOF," + f); err != nil {
			return err
		}
	}
	return s.fetchGlobalLockouts(sr)
}

// LockGlobalFrequency adds a frequency (MHz) to the global lockout list.
func (s *Session) LockGlobalFrequency(sr *Search, freq string) error {
	return s.globalLockout(sr, "LOF", freq)
}

// UnlockGlobalFrequency removes a frequency (MHz) from the global lockout list.
func (s *Session) UnlockGlobalFrequency(sr *Search, freq string) error {
	return s.globalLockout(sr, "ULF", freq)
}

func (s *Session) globalLockout(sr *Search, mnemonic, freq string) error {
	wire, err := EncodeFrequency(freq)
	if err != nil {
		return err
	}
	return s.ProgramMode(func() error {
		if _, err := s.Send(mnemonic + "," + wire); err != nil {
			return err
		}
		return s.fetchGlobalLockouts(sr)
	})
}

// diffLists returns the values of want missing from have, and the values
// of have missing from want, both sorted.
func diffLists(have, want []string) (missing, extra []string) {
	inHave := make(map[string]bool, len(have))
	for _, v := range have {
		inHave[v] = true
	}
	inWant := make(map[string]bool, len(want))
	for _, v := range want {
		inWant[v] = true
		if !inHave[v] {
			missing = append(missing, v)
		}
	}
	for _, v := range have {
		if !inWant[v] {
			extra = append(extra, v)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}
