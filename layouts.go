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

var systemLayout = newLayout("SIN",
	"type,name,quick_key,hold,lockout,delay,-,-,-,-,-,@rev,@fwd,@head,@tail,@seq,"+
		"start_key,-,-,-,-,-,tag,agc_analog,agc_digital,p25_waiting,protected,-",
	"name,quick_key,hold,lockout,delay,-,-,-,-,-,start_key,-,-,-,-,-,-,"+
		"tag,agc_analog,agc_digital,p25_waiting",
	map[string]FieldCodec{
		"type":        SystemTypeTable,
		"name":        nameCodec,
		"quick_key":   quickKeyCodec,
		"hold":        holdCodec,
		"lockout":     LockoutTable,
		"delay":       delayCodec,
		"start_key":   keyCodec,
		"tag":         numberTagCodec,
		"agc_analog":  OnOffTable,
		"agc_digital": OnOffTable,
		"p25_waiting": p25WaitingCodec,
		"protected":   OnOffTable,
	})

var trunkLayout = newLayout("TRN",
	"id_mode,status,end_code,edacs_format,-,-,alert,alert_lvl,fleet_map,custom_fmap,"+
		"-,-,-,-,-,-,-,-,-,-,@head2,@tail2,@lohead,@lotail,"+
		"id_format,alert_color,pattern,nac,priority",
	"id_mode,status,end_code,edacs_format,-,-,alert,alert_lvl,fleet_map,custom_fmap,"+
		"-,-,-,-,-,-,-,-,-,-,id_format,alert_color,pattern,nac,priority",
	map[string]FieldCodec{
		"id_mode":      IDSearchTable,
		"status":       StatusBitTable,
		"end_code":     EndCodeTable,
		"edacs_format": EdacsFormatTable,
		"alert":        AlertToneTable,
		"alert_lvl":    AlertLevelTable,
		"fleet_map":    fleetMapCodec,
		"custom_fmap":  customMapCodec,
		"id_format":    IDFormatTable,
		"alert_color":  ColorTable,
		"pattern":      AlertPatternTable,
		"nac":          p25NacCodec,
		"priority":     OnOffTable,
	})

var groupLayout = newLayout("GIN",
	"type,name,quick_key,lockout,@rev,@fwd,@parent,@head,@tail,@seq,latitude,longitude,range,gps",
	"name,quick_key,lockout,latitude,longitude,range,gps",
	map[string]FieldCodec{
		"type":      GroupTypeTable,
		"name":      nameCodec,
		"quick_key": keyCodec,
		"lockout":   LockoutTable,
		"latitude":  rawValue,
		"longitude": rawValue,
		"range":     rawValue,
		"gps":       OnOffTable,
	})

var siteLayout = newLayout("SIF",
	"-,name,quick_key,hold,lockout,modulation,attenuation,cch,-,-,@rev,@fwd,@parent,@head,@tail,@seq,"+
		"start_key,latitude,longitude,range,gps,-,band_type,edacs,p25_waiting,-",
	"name,quick_key,hold,lockout,modulation,attenuation,cch,-,-,start_key,latitude,longitude,"+
		"range,gps,-,band_type,edacs,p25_waiting,-",
	map[string]FieldCodec{
		"name":        nameCodec,
		"quick_key":   quickKeyCodec,
		"hold":        holdCodec,
		"lockout":     LockoutTable,
		"modulation":  ModulationTable,
		"attenuation": OnOffTable,
		"cch":         OnOffTable,
		"start_key":   keyCodec,
		"latitude":    rawValue,
		"longitude":   rawValue,
		"range":       rawValue,
		"gps":         OnOffTable,
		"band_type":   rawValue,
		"edacs":       rawValue,
		"p25_waiting": p25WaitingCodec,
	})

// Motorola custom band plan of a site: six lower/upper/step/offset rows.
var motorolaPlanLayout = bandPlanLayout("MCP", "", 6)

// P25 band plan of a site: sixteen base/spacing pairs, 0-F.
var p25PlanLayout = func() *recordLayout {
	var tokens []string
	codecs := make(map[string]FieldCodec)
	for i := 0; i < 16; i++ {
		base := fmt.Sprintf("p25_base_%X", i)
		spacing := fmt.Sprintf("p25_spacing_%X", i)
		tokens = append(tokens, base, spacing)
		codecs[base] = freqValue
		codecs[spacing] = rawValue
	}
	spec := strings.Join(tokens, ",")
	return newLayout("ABP", spec, spec, codecs)
}()

// bandPlanLayout builds MCP/CBP style layouts of n lower/upper/step/offset
// rows, optionally preceded by another field.
func bandPlanLayout(mnemonic, lead string, n int) *recordLayout {
	var tokens []string
	codecs := make(map[string]FieldCodec)
	if lead != "" {
		tokens = append(tokens, lead)
		codecs[lead] = rawValue
	}
	for i := 1; i <= n; i++ {
		lower := fmt.Sprintf("mot_lower_%d", i)
		upper := fmt.Sprintf("mot_upper_%d", i)
		stp := fmt.Sprintf("mot_step_%d", i)
		offset := fmt.Sprintf("mot_offset_%d", i)
		tokens = append(tokens, lower, upper, stp, offset)
		codecs[lower] = freqValue
		codecs[upper] = freqValue
		codecs[stp] = stepValue
		codecs[offset] = rawValue
	}
	spec := strings.Join(tokens, ",")
	return newLayout(mnemonic, spec, spec, codecs)
}

var channelLayout = newLayout("CIN",
	"name,frequency,modulation,dcs,tone_lockout,lockout,priority,attenuate,alert_tone,alert_level,"+
		"@rev,@fwd,@sys,@parent,-,audio_type,p25nac,tag,alert_color,pattern,vol_offset",
	"name,frequency,modulation,dcs,tone_lockout,lockout,priority,attenuate,alert_tone,alert_level,"+
		"-,audio_type,p25nac,tag,alert_color,pattern,vol_offset",
	map[string]FieldCodec{
		"name":         nameCodec,
		"frequency":    freqValue,
		"modulation":   ModulationTable,
		"dcs":          ToneTable,
		"tone_lockout": LockoutTable,
		"lockout":      LockoutTable,
		"priority":     OnOffTable,
		"attenuate":    OnOffTable,
		"alert_tone":   AlertToneTable,
		"alert_level":  AlertLevelTable,
		"audio_type":   AudioTypeTable,
		"p25nac":       p25NacCodec,
		"tag":          numberTagCodec,
		"alert_color":  ColorTable,
		"pattern":      AlertPatternTable,
		"vol_offset":   volOffsetCodec,
	})

var trunkFrequencyLayout = newLayout("TFQ",
	"frequency,lcn,lockout,@rev,@fwd,@sys,@parent,-,tag,vol_offset,-",
	"frequency,lcn,lockout,-,tag,vol_offset,-",
	map[string]FieldCodec{
		"frequency":  freqValue,
		"lcn":        lcnCodec,
		"lockout":    LockoutTable,
		"tag":        numberTagCodec,
		"vol_offset": volOffsetCodec,
	})

var talkGroupLayout = newLayout("TIN",
	"name,tgid,lockout,priority,alert_tone,alert_level,@rev,@fwd,@sys,@parent,-,"+
		"audio_type,tag,alert_color,pattern,vol_offset",
	"name,tgid,lockout,priority,alert_tone,alert_level,-,audio_type,tag,alert_color,pattern,vol_offset",
	map[string]FieldCodec{
		"name":        nameCodec,
		"tgid":        rawValue,
		"lockout":     LockoutTable,
		"priority":    OnOffTable,
		"alert_tone":  AlertToneTable,
		"alert_level": AlertLevelTable,
		"audio_type":  AudioTypeTable,
		"tag":         numberTagCodec,
		"alert_color": ColorTable,
		"pattern":     AlertPatternTable,
		"vol_offset":  volOffsetCodec,
	})

// recordLayouts lists every record layout, for validation.
var recordLayouts = []*recordLayout{
	systemLayout, trunkLayout, groupLayout, siteLayout, motorolaPlanLayout,
	p25PlanLayout, channelLayout, trunkFrequencyLayout, talkGroupLayout,
}
