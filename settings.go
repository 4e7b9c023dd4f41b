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

var settingsSpecs = []blockSpec{
	{section: "backlight", layout: newLayout("BLT", "event,color,dimmer", "event,color,dimmer",
		map[string]FieldCodec{"event": BacklightTable, "color": BacklightColorTable, "dimmer": DimmerTable})},
	{section: "battery_info", layout: newLayout("BSV", "bat_save,charge_time", "bat_save,charge_time",
		map[string]FieldCodec{"bat_save": OnOffTable, "charge_time": intCodec{min: 1, max: 16}})},
	{section: "com_port", layout: newLayout("COM", "baudrate,-", "baudrate,-",
		map[string]FieldCodec{"baudrate": baudRateCodec})},
	{section: "key_beep", layout: newLayout("KBP", "level,lock,safe", "level,lock,safe",
		map[string]FieldCodec{
			"level": intCodec{min: 0, max: 15, tokens: []string{"99"}},
			"lock":  OnOffTable,
			"safe":  OnOffTable,
		})},
	{section: "opening_message", layout: newLayout("OMS", "line_1,line_2,line_3,line_4", "line_1,line_2,line_3,line_4",
		map[string]FieldCodec{"line_1": nameCodec, "line_2": nameCodec, "line_3": nameCodec, "line_4": nameCodec})},
	{section: "priority_mode", layout: newLayout("PRI", "pri_mode,max_chan,interval", "pri_mode,max_chan,interval",
		map[string]FieldCodec{
			"pri_mode": PriorityModeTable,
			"max_chan": intCodec{min: 1, max: 100},
			"interval": intCodec{min: 1, max: 10},
		})},
	{section: "auto_gain_control", layout: newLayout("AGV",
		"-,-,a_res,a_ref,a_gain,d_res,d_gain", "-,-,a_res,a_ref,a_gain,d_res,d_gain",
		map[string]FieldCodec{
			"a_res":  intCodec{min: -4, max: 6},
			"a_ref":  intCodec{min: -5, max: 5},
			"a_gain": intCodec{min: 0, max: 15},
			"d_res":  intCodec{min: -8, max: 8},
			"d_gain": intCodec{min: -5, max: 5},
		})},
	{section: "system_count", readOnly: true, layout: newLayout("SCT", "n", "",
		map[string]FieldCodec{"n": intCodec{min: 0, max: 500}})},
	{section: "lcd_contrast", layout: newLayout("CNT", "contrast", "contrast",
		map[string]FieldCodec{"contrast": intCodec{min: 1, max: 15}})},
	{section: "scanner_option", layout: newLayout("SCN",
		"disp_mode,-,ch_log,g_att,-,p25_lpf,disp_uid"+strings.Repeat(",-", 14),
		"disp_mode,-,ch_log,g_att,-,p25_lpf,disp_uid"+strings.Repeat(",-", 14),
		map[string]FieldCodec{
			"disp_mode": intCodec{min: 1, max: 3},
			"ch_log":    ChannelLogTable,
			"g_att":     OnOffTable,
			"p25_lpf":   OnOffTable,
			"disp_uid":  OnOffTable,
		})},
	{section: "apco_data", layout: newLayout("P25", "-,-,err_rate", "-,-,err_rate",
		map[string]FieldCodec{"err_rate": intCodec{min: 0, max: 99}})},
}

// comSection is pushed last; the scanner ignores commands for a while
// after changing its baud rate.
const comSection = "com_port"

// Settings holds the scanner wide settings (backlight, beep, contrast...).
type Settings struct {
	Blocks []*Block
}

// NewSettings returns empty settings with every block present.
func NewSettings() *Settings {
	return &Settings{Blocks: newBlocks(settingsSpecs)}
}

// Block returns the block for a document section, or nil.
func (st *Settings) Block(section string) *Block {
	return findBlock(st.Blocks, section)
}

// FetchSettings reads every settings block.
func (s *Session) FetchSettings(cached *Settings) (*Settings, error) {
	st := cached
	if st == nil {
		st = NewSettings()
	}
	err := s.ProgramMode(func() error {
		return s.fetchBlocks(st.Blocks)
	})
	if err != nil {
		return st, fmt.Errorf("settings: %w", err)
	}
	return st, nil
}

// PushSettings writes every writable settings block, COM last.
func (s *Session) PushSettings(st *Settings) error {
	err := s.ProgramMode(func() error {
		return s.pushBlocks(st.Blocks, comSection, s.comSettle)
	})
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
