package profile

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/version"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// Profile errors.
var (
	ErrUnknownModel    = errors.New("unknown device model")
	ErrInvalidProfile  = errors.New("invalid device profile")
	ErrUnsupportedMode = errors.New("sound mode not supported by device")
)

// Field sizes in the state update body.
const (
	ProfileIDSize = 2
	SerialSize    = 16
)

// Profile describes a device model.
type Profile struct {
	Model          string             `yaml:"model"`
	Name           string             `yaml:"name"`
	Equalizer      EqualizerSpec      `yaml:"equalizer"`
	NoiseCanceling NoiseCancelingSpec `yaml:"noiseCanceling"`
	SoundModes     SoundModesSpec     `yaml:"soundModes"`
	Checksum       string             `yaml:"checksum,omitempty"`
	MinFirmware    string             `yaml:"minFirmware,omitempty"`
	Layout         Layout             `yaml:"layout"`

	// Resolved by Parse.
	framing     wire.Framing
	command     wire.Command
	minFirmware *version.FirmwareVersion
	ambient     []model.AmbientSoundMode
	ncModes     []model.NoiseCancelingMode
	transparent []model.TransparencyMode
}

// EqualizerSpec describes the equalizer.
type EqualizerSpec struct {
	Bands int   `yaml:"bands"`
	Min   int16 `yaml:"min"`
	Max   int16 `yaml:"max"`
}

// NoiseCancelingSpec describes the custom noise canceling range.
type NoiseCancelingSpec struct {
	Max uint8 `yaml:"max"`
}

// SoundModesSpec lists the modes a device accepts by name. An empty list
// accepts every mode of that kind.
type SoundModesSpec struct {
	Ambient        []string `yaml:"ambient,omitempty"`
	NoiseCanceling []string `yaml:"noiseCanceling,omitempty"`
	Transparency   []string `yaml:"transparency,omitempty"`
}

// Layout holds byte offsets into the state update body. Pointer fields are
// optional.
type Layout struct {
	Command              string `yaml:"command"`
	BodyLength           int    `yaml:"bodyLength"`
	ProfileID            int    `yaml:"profileId"`
	Bands                int    `yaml:"bands"`
	Ambient              int    `yaml:"ambient"`
	NoiseCanceling       int    `yaml:"noiseCanceling"`
	Transparency         int    `yaml:"transparency"`
	CustomNoiseCanceling *int   `yaml:"customNoiseCanceling,omitempty"`
	Firmware             *int   `yaml:"firmware,omitempty"`
	Serial               *int   `yaml:"serial,omitempty"`
}

// Parse decodes and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// LoadFile reads a profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Open loads a built-in profile by model, or a YAML file when ref looks like
// a path.
func Open(ref string) (*Profile, error) {
	if strings.HasSuffix(ref, ".yaml") || strings.HasSuffix(ref, ".yml") || strings.ContainsRune(ref, os.PathSeparator) {
		return LoadFile(ref)
	}
	return Load(ref)
}

func (p *Profile) resolve() error {
	checksum, err := wire.ParseChecksum(p.Checksum)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	p.framing = wire.Framing{Checksum: checksum}

	if p.Layout.Command == "" {
		p.command = wire.CommandStateUpdate
	} else if p.command, err = wire.ParseCommand(p.Layout.Command); err != nil {
		return fmt.Errorf("%w: layout: %v", ErrInvalidProfile, err)
	}

	if p.MinFirmware != "" {
		v, err := version.Parse(p.MinFirmware)
		if err != nil {
			return fmt.Errorf("%w: minFirmware: %v", ErrInvalidProfile, err)
		}
		p.minFirmware = &v
	}

	p.ambient, err = parseNames(p.SoundModes.Ambient, model.ParseAmbientSoundModeName)
	if err != nil {
		return fmt.Errorf("%w: soundModes.ambient: %v", ErrInvalidProfile, err)
	}
	p.ncModes, err = parseNames(p.SoundModes.NoiseCanceling, model.ParseNoiseCancelingModeName)
	if err != nil {
		return fmt.Errorf("%w: soundModes.noiseCanceling: %v", ErrInvalidProfile, err)
	}
	p.transparent, err = parseNames(p.SoundModes.Transparency, model.ParseTransparencyModeName)
	if err != nil {
		return fmt.Errorf("%w: soundModes.transparency: %v", ErrInvalidProfile, err)
	}
	return nil
}

func parseNames[T any](names []string, parse func(string) (T, error)) ([]T, error) {
	var out []T
	for _, n := range names {
		v, err := parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

type span struct {
	name       string
	start, end int
}

// Validate checks the equalizer limits and that every layout field lies
// inside the body without overlapping another.
func (p *Profile) Validate() error {
	if p.Model == "" {
		return fmt.Errorf("%w: missing model", ErrInvalidProfile)
	}
	if p.command == (wire.Command{}) {
		return fmt.Errorf("%w: %s: no state command, profiles must be built with Parse", ErrInvalidProfile, p.Model)
	}
	if limit := wire.MaxPacketSize - p.framing.Size(0); p.Layout.BodyLength > limit {
		return fmt.Errorf("%w: %s: body length %d exceeds %d", ErrInvalidProfile, p.Model, p.Layout.BodyLength, limit)
	}
	limits := p.EqualizerLimits()
	if err := limits.Validate(); err != nil {
		return fmt.Errorf("%w: %s: equalizer: %v", ErrInvalidProfile, p.Model, err)
	}
	if int(limits.Max)-int(limits.Min) > 0xff {
		return fmt.Errorf("%w: %s: equalizer range %d..%d does not fit a byte",
			ErrInvalidProfile, p.Model, limits.Min, limits.Max)
	}

	l := p.Layout
	spans := []span{
		{"profileId", l.ProfileID, l.ProfileID + ProfileIDSize},
		{"bands", l.Bands, l.Bands + p.Equalizer.Bands},
		{"ambient", l.Ambient, l.Ambient + 1},
		{"noiseCanceling", l.NoiseCanceling, l.NoiseCanceling + 1},
		{"transparency", l.Transparency, l.Transparency + 1},
	}
	if l.CustomNoiseCanceling != nil {
		spans = append(spans, span{"customNoiseCanceling", *l.CustomNoiseCanceling, *l.CustomNoiseCanceling + 1})
	}
	if l.Firmware != nil {
		spans = append(spans, span{"firmware", *l.Firmware, *l.Firmware + version.WireLength})
	}
	if l.Serial != nil {
		spans = append(spans, span{"serial", *l.Serial, *l.Serial + SerialSize})
	}

	for _, s := range spans {
		if s.start < 0 || s.end > l.BodyLength {
			return fmt.Errorf("%w: %s: layout field %s at %d..%d outside body of %d bytes",
				ErrInvalidProfile, p.Model, s.name, s.start, s.end, l.BodyLength)
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	for i := 1; i < len(spans); i++ {
		if spans[i].start < spans[i-1].end {
			return fmt.Errorf("%w: %s: layout fields %s and %s overlap",
				ErrInvalidProfile, p.Model, spans[i-1].name, spans[i].name)
		}
	}
	return nil
}

// EqualizerLimits returns the band count and offset range.
func (p *Profile) EqualizerLimits() model.EqualizerLimits {
	return model.EqualizerLimits{
		Bands: p.Equalizer.Bands,
		Min:   p.Equalizer.Min,
		Max:   p.Equalizer.Max,
	}
}

// NoiseCancelingLimits returns the custom noise canceling range.
func (p *Profile) NoiseCancelingLimits() model.NoiseCancelingLimits {
	return model.NoiseCancelingLimits{Max: p.NoiseCanceling.Max}
}

// Framing returns the packet framing the device uses.
func (p *Profile) Framing() wire.Framing {
	return p.framing
}

// StateCommand returns the command of state update packets.
func (p *Profile) StateCommand() wire.Command {
	return p.command
}

// Supports reports whether the device accepts every mode in m.
func (p *Profile) Supports(m model.SoundModes) error {
	if !contains(p.ambient, m.AmbientSoundMode) {
		return fmt.Errorf("%w: %s: ambient sound mode %s", ErrUnsupportedMode, p.Model, m.AmbientSoundMode)
	}
	if !contains(p.ncModes, m.NoiseCancelingMode) {
		return fmt.Errorf("%w: %s: noise canceling mode %s", ErrUnsupportedMode, p.Model, m.NoiseCancelingMode)
	}
	if !contains(p.transparent, m.TransparencyMode) {
		return fmt.Errorf("%w: %s: transparency mode %s", ErrUnsupportedMode, p.Model, m.TransparencyMode)
	}
	if !p.NoiseCancelingLimits().Contains(m.CustomNoiseCanceling) {
		return fmt.Errorf("%w: %s: custom noise canceling %s above %d",
			ErrUnsupportedMode, p.Model, m.CustomNoiseCanceling, p.NoiseCanceling.Max)
	}
	return nil
}

// SupportsFirmware returns true if v meets the profile's minimum firmware.
func (p *Profile) SupportsFirmware(v version.FirmwareVersion) bool {
	return p.minFirmware == nil || v.AtLeast(*p.minFirmware)
}

func contains[T comparable](allowed []T, v T) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// String returns the model and name.
func (p *Profile) String() string {
	if p.Name == "" {
		return p.Model
	}
	return fmt.Sprintf("%s (%s)", p.Model, p.Name)
}
