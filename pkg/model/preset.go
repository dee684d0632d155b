package model

import "fmt"

// PresetEqualizerProfile identifies a factory equalizer curve.
type PresetEqualizerProfile uint16

const (
	PresetSoundcoreSignature PresetEqualizerProfile = 0x0000
	PresetAcoustic           PresetEqualizerProfile = 0x0001
	PresetBassBooster        PresetEqualizerProfile = 0x0002
	PresetBassReducer        PresetEqualizerProfile = 0x0003
	PresetClassical          PresetEqualizerProfile = 0x0004
	PresetPodcast            PresetEqualizerProfile = 0x0005
	PresetDance              PresetEqualizerProfile = 0x0006
	PresetDeep               PresetEqualizerProfile = 0x0007
	PresetElectronic         PresetEqualizerProfile = 0x0008
	PresetFlat               PresetEqualizerProfile = 0x0009
	PresetHipHop             PresetEqualizerProfile = 0x000a
	PresetJazz               PresetEqualizerProfile = 0x000b
	PresetLatin              PresetEqualizerProfile = 0x000c
	PresetLounge             PresetEqualizerProfile = 0x000d
	PresetPiano              PresetEqualizerProfile = 0x000e
	PresetPop                PresetEqualizerProfile = 0x000f
	PresetRnB                PresetEqualizerProfile = 0x0010
	PresetRock               PresetEqualizerProfile = 0x0011
	PresetSmallSpeakers      PresetEqualizerProfile = 0x0012
	PresetSpokenWord         PresetEqualizerProfile = 0x0013
	PresetTrebleBooster      PresetEqualizerProfile = 0x0014
	PresetTrebleReducer      PresetEqualizerProfile = 0x0015
)

type presetEntry struct {
	name    string
	offsets EqualizerBandOffsets
}

// presetTable maps each preset to its name and 8-band curve. Indexed by id.
var presetTable = [...]presetEntry{
	PresetSoundcoreSignature: {"SoundcoreSignature", mustBandOffsets(0, 0, 0, 0, 0, 0, 0, 0)},
	PresetAcoustic:           {"Acoustic", mustBandOffsets(40, 10, 20, 20, 40, 40, 40, 20)},
	PresetBassBooster:        {"BassBooster", mustBandOffsets(40, 30, 10, 0, 0, 0, 0, 0)},
	PresetBassReducer:        {"BassReducer", mustBandOffsets(-40, -30, -10, 0, 0, 0, 0, 0)},
	PresetClassical:          {"Classical", mustBandOffsets(30, 30, -20, -20, 0, 20, 30, 40)},
	PresetPodcast:            {"Podcast", mustBandOffsets(-30, 20, 40, 40, 30, 20, 0, -20)},
	PresetDance:              {"Dance", mustBandOffsets(20, -30, -10, 10, 20, 20, 10, -30)},
	PresetDeep:               {"Deep", mustBandOffsets(20, 10, 30, 30, 20, -20, -40, -50)},
	PresetElectronic:         {"Electronic", mustBandOffsets(30, 20, -20, 20, 10, 20, 30, 30)},
	PresetFlat:               {"Flat", mustBandOffsets(-20, -20, -10, 0, 0, 0, -20, -20)},
	PresetHipHop:             {"HipHop", mustBandOffsets(20, 30, -10, -10, 20, -10, 20, 30)},
	PresetJazz:               {"Jazz", mustBandOffsets(20, 20, -20, -20, 0, 20, 30, 40)},
	PresetLatin:              {"Latin", mustBandOffsets(0, 0, -20, -20, -20, 0, 30, 50)},
	PresetLounge:             {"Lounge", mustBandOffsets(-10, 20, 40, 30, 0, -20, 20, 10)},
	PresetPiano:              {"Piano", mustBandOffsets(0, 30, 30, 20, 40, 50, 30, 40)},
	PresetPop:                {"Pop", mustBandOffsets(-10, 10, 30, 30, 10, -10, -20, -30)},
	PresetRnB:                {"RnB", mustBandOffsets(60, 20, -20, -20, 20, 30, 30, 40)},
	PresetRock:               {"Rock", mustBandOffsets(30, 20, -10, -10, 10, 30, 30, 30)},
	PresetSmallSpeakers:      {"SmallSpeakers", mustBandOffsets(40, 30, 10, 0, -20, -30, -40, -40)},
	PresetSpokenWord:         {"SpokenWord", mustBandOffsets(-30, -20, 10, 20, 20, 10, 0, -30)},
	PresetTrebleBooster:      {"TrebleBooster", mustBandOffsets(-20, -20, -20, -10, 10, 20, 20, 40)},
	PresetTrebleReducer:      {"TrebleReducer", mustBandOffsets(0, 0, 0, -20, -30, -40, -40, -60)},
}

// ParsePresetEqualizerProfile converts a profile id to a preset.
func ParsePresetEqualizerProfile(id uint16) (PresetEqualizerProfile, error) {
	p := PresetEqualizerProfile(id)
	if !p.IsValid() {
		return 0, fmt.Errorf("%w: preset equalizer profile 0x%04x", ErrInvalidEnumValue, id)
	}
	return p, nil
}

// ParsePresetName looks up a preset by name, ignoring case, dashes and underscores.
func ParsePresetName(name string) (PresetEqualizerProfile, error) {
	for i, e := range presetTable {
		if normalizeName(e.name) == normalizeName(name) {
			return PresetEqualizerProfile(i), nil
		}
	}
	return 0, fmt.Errorf("%w: preset equalizer profile %q", ErrInvalidEnumValue, name)
}

// AllPresetEqualizerProfiles returns every preset in id order.
func AllPresetEqualizerProfiles() []PresetEqualizerProfile {
	out := make([]PresetEqualizerProfile, len(presetTable))
	for i := range presetTable {
		out[i] = PresetEqualizerProfile(i)
	}
	return out
}

// ID returns the numeric profile id.
func (p PresetEqualizerProfile) ID() uint16 {
	return uint16(p)
}

// IsValid returns true if p is a known preset.
func (p PresetEqualizerProfile) IsValid() bool {
	return int(p) < len(presetTable)
}

// BandOffsets returns the preset's fixed 8-band curve.
// It returns zero offsets for unknown presets.
func (p PresetEqualizerProfile) BandOffsets() EqualizerBandOffsets {
	if !p.IsValid() {
		return EqualizerBandOffsets{}
	}
	return presetTable[p].offsets
}

// String returns the preset name.
func (p PresetEqualizerProfile) String() string {
	if !p.IsValid() {
		return "UNKNOWN"
	}
	return presetTable[p].name
}
