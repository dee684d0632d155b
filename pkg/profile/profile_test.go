package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/version"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

const tenBandProfile = `
model: a3951
name: Liberty Air 2 Pro
equalizer:
  bands: 10
  min: -60
  max: 60
noiseCanceling:
  max: 5
soundModes:
  ambient: [noise-canceling, normal]
  noiseCanceling: [indoor, outdoor, transport]
checksum: none
minFirmware: "02.61"
layout:
  command: "01 01"
  bodyLength: 40
  profileId: 0
  bands: 2
  ambient: 12
  noiseCanceling: 13
  transparency: 14
`

func TestLoadBuiltins(t *testing.T) {
	models, err := Models()
	require.NoError(t, err)
	assert.Equal(t, []string{"a3027", "a3028"}, models)

	for _, m := range models {
		t.Run(m, func(t *testing.T) {
			p, err := Load(m)
			require.NoError(t, err)
			assert.Equal(t, m, p.Model)
			assert.Equal(t, model.DefaultEqualizerLimits, p.EqualizerLimits())
			assert.Equal(t, model.DefaultNoiseCancelingLimits, p.NoiseCancelingLimits())
			assert.Equal(t, wire.DefaultFraming, p.Framing())
			assert.Equal(t, wire.CommandStateUpdate, p.StateCommand())
			require.NotNil(t, p.Layout.Firmware)
			require.NotNil(t, p.Layout.Serial)
			assert.Equal(t, 39, *p.Layout.Firmware)
			assert.Equal(t, 44, *p.Layout.Serial)
		})
	}
}

func TestLoadIsCached(t *testing.T) {
	a, err := Load("a3028")
	require.NoError(t, err)
	b, err := Load("A3028")
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestLoadUnknownModel(t *testing.T) {
	_, err := Load("a9999")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestParseTenBandProfile(t *testing.T) {
	p, err := Parse([]byte(tenBandProfile))
	require.NoError(t, err)

	assert.Equal(t, model.EqualizerLimits{Bands: 10, Min: -60, Max: 60}, p.EqualizerLimits())
	assert.Equal(t, wire.Framing{Checksum: wire.ChecksumNone}, p.Framing())
	assert.Nil(t, p.Layout.Firmware)
	assert.Equal(t, "a3951 (Liberty Air 2 Pro)", p.String())

	assert.True(t, p.SupportsFirmware(version.FirmwareVersion{Major: 2, Minor: 61}))
	assert.False(t, p.SupportsFirmware(version.FirmwareVersion{Major: 2, Minor: 60}))
}

func TestSupports(t *testing.T) {
	p, err := Parse([]byte(tenBandProfile))
	require.NoError(t, err)

	strength := func(v int) model.CustomNoiseCanceling {
		c, err := model.NewCustomNoiseCanceling(v)
		require.NoError(t, err)
		return c
	}

	ok := model.NewSoundModes(model.AmbientSoundModeNormal, model.NoiseCancelingModeIndoor,
		model.TransparencyModeVocalMode, strength(5))
	assert.NoError(t, p.Supports(ok))

	tests := []struct {
		name  string
		modes model.SoundModes
	}{
		{"ambient", model.NewSoundModes(model.AmbientSoundModeTransparency, model.NoiseCancelingModeIndoor,
			model.TransparencyModeVocalMode, strength(0))},
		{"noise canceling", model.NewSoundModes(model.AmbientSoundModeNormal, model.NoiseCancelingModeCustom,
			model.TransparencyModeVocalMode, strength(0))},
		{"strength", model.NewSoundModes(model.AmbientSoundModeNormal, model.NoiseCancelingModeIndoor,
			model.TransparencyModeVocalMode, strength(6))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, p.Supports(tt.modes), ErrUnsupportedMode)
		})
	}
}

func TestParseRejectsInvalidProfiles(t *testing.T) {
	base := func() *Profile {
		p, err := Parse([]byte(tenBandProfile))
		require.NoError(t, err)
		cp := *p
		return &cp
	}
	offset := func(v int) *int { return &v }

	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"missing model", func(p *Profile) { p.Model = "" }},
		{"too many bands", func(p *Profile) { p.Equalizer.Bands = 11 }},
		{"no bands", func(p *Profile) { p.Equalizer.Bands = 0 }},
		{"min above max", func(p *Profile) { p.Equalizer.Min = 70 }},
		{"range wider than a byte", func(p *Profile) { p.Equalizer.Min = -200; p.Equalizer.Max = 100 }},
		{"overlap", func(p *Profile) { p.Layout.Ambient = 11 }},
		{"outside body", func(p *Profile) { p.Layout.Serial = offset(30) }},
		{"negative offset", func(p *Profile) { p.Layout.Transparency = -1 }},
		{"body longer than a packet", func(p *Profile) { p.Layout.BodyLength = 70000 }},
		{"body one byte over the packet limit", func(p *Profile) { p.Layout.BodyLength = wire.MaxPacketSize - wire.HeaderSize + 1 }},
		{"firmware overlaps serial", func(p *Profile) {
			p.Layout.Firmware = offset(20)
			p.Layout.Serial = offset(24)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base()
			tt.mutate(p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)
		})
	}
}

func TestValidateRejectsUnparsedProfile(t *testing.T) {
	p := &Profile{
		Model:     "literal",
		Equalizer: EqualizerSpec{Bands: 8, Min: -120, Max: 135},
		Layout:    Layout{BodyLength: 16, ProfileID: 0, Bands: 2, Ambient: 10, NoiseCanceling: 11, Transparency: 12},
	}
	assert.ErrorIs(t, p.Validate(), ErrInvalidProfile)

	parsed, err := Parse([]byte(`
model: literal
equalizer: {bands: 8, min: -120, max: 135}
layout: {bodyLength: 16, profileId: 0, bands: 2, ambient: 10, noiseCanceling: 11, transparency: 12}
`))
	require.NoError(t, err)
	assert.Equal(t, wire.CommandStateUpdate, parsed.StateCommand())
}

func TestParseRejectsOversizedBody(t *testing.T) {
	_, err := Parse([]byte(`
model: huge
equalizer: {bands: 8, min: -120, max: 135}
layout: {bodyLength: 70000, profileId: 0, bands: 2, ambient: 10, noiseCanceling: 11, transparency: 12}
`))
	require.ErrorIs(t, err, ErrInvalidProfile)
	assert.Contains(t, err.Error(), "body length 70000")
}

func TestParseRejectsBadFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"syntax", "model: [a3028"},
		{"checksum", "model: x\nchecksum: crc\n"},
		{"command", "model: x\nlayout:\n  command: zz\n"},
		{"firmware", "model: x\nminFirmware: abc\n"},
		{"mode name", "model: x\nsoundModes:\n  ambient: [Loud]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidProfile)
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a3951.yaml")
	require.NoError(t, os.WriteFile(path, []byte(tenBandProfile), 0o600))

	p, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, "a3951", p.Model)

	p, err = Open("a3027")
	require.NoError(t, err)
	assert.Equal(t, 61, p.Layout.BodyLength)

	_, err = Open(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
