package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/profile"
	"github.com/scq-protocol/scq-go/pkg/version"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// ErrInvalidSerial indicates a serial number that does not fit the layout.
var ErrInvalidSerial = errors.New("invalid serial number")

// State is the decoded content of a state update packet.
type State struct {
	SoundModes model.SoundModes
	Equalizer  model.EqualizerConfiguration

	// Firmware is nil when the layout has no firmware field or the device
	// left it blank.
	Firmware *version.FirmwareVersion

	// Serial is empty when the layout has no serial field or the device
	// left it blank.
	Serial string
}

// Equal compares all fields.
func (s State) Equal(other State) bool {
	if s.SoundModes != other.SoundModes || s.Equalizer != other.Equalizer || s.Serial != other.Serial {
		return false
	}
	if s.Firmware == nil || other.Firmware == nil {
		return s.Firmware == nil && other.Firmware == nil
	}
	return *s.Firmware == *other.Firmware
}

// Codec encodes and decodes packets for one device profile.
type Codec struct {
	profile   *profile.Profile
	framing   wire.Framing
	direction wire.Direction
	eq        model.EqualizerLimits
	nc        model.NoiseCancelingLimits
}

// Option configures a Codec.
type Option func(*Codec)

// WithDirection sets the direction of encoded state update packets.
// The default is wire.DirectionInbound, matching what devices send.
func WithDirection(d wire.Direction) Option {
	return func(c *Codec) {
		c.direction = d
	}
}

// WithChecksum overrides the profile's checksum.
func WithChecksum(cs wire.Checksum) Option {
	return func(c *Codec) {
		c.framing.Checksum = cs
	}
}

// New creates a codec for p.
func New(p *profile.Profile, opts ...Option) (*Codec, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil profile", profile.ErrInvalidProfile)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	c := &Codec{
		profile:   p,
		framing:   p.Framing(),
		direction: wire.DirectionInbound,
		eq:        p.EqualizerLimits(),
		nc:        p.NoiseCancelingLimits(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Profile returns the profile the codec was created with.
func (c *Codec) Profile() *profile.Profile {
	return c.profile
}

// Framing returns the framing used for all packets.
func (c *Codec) Framing() wire.Framing {
	return c.framing
}

// Encode builds a state update packet carrying modes and eq.
func (c *Codec) Encode(modes model.SoundModes, eq model.EqualizerConfiguration) ([]byte, error) {
	return c.EncodeState(State{SoundModes: modes, Equalizer: eq})
}

// EncodeState builds a state update packet. Firmware and serial are written
// only when both the layout and s have them.
func (c *Codec) EncodeState(s State) ([]byte, error) {
	l := c.profile.Layout
	body := make([]byte, l.BodyLength)

	if err := c.putEqualizer(body, s.Equalizer); err != nil {
		return nil, err
	}
	if err := c.putSoundModes(body, s.SoundModes); err != nil {
		return nil, err
	}

	if l.Firmware != nil && s.Firmware != nil {
		if err := s.Firmware.Validate(); err != nil {
			return nil, err
		}
		copy(body[*l.Firmware:], s.Firmware.Bytes())
	}
	if l.Serial != nil && s.Serial != "" {
		if len(s.Serial) > profile.SerialSize {
			return nil, fmt.Errorf("%w: %q longer than %d bytes", ErrInvalidSerial, s.Serial, profile.SerialSize)
		}
		copy(body[*l.Serial:], s.Serial)
	}

	return c.framing.Marshal(wire.Packet{
		Direction: c.direction,
		Command:   c.profile.StateCommand(),
		Body:      body,
	}), nil
}

func (c *Codec) putEqualizer(body []byte, eq model.EqualizerConfiguration) error {
	l := c.profile.Layout

	offsets, err := c.offsetsFor(eq)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint16(body[l.ProfileID:], eq.ProfileID())
	for i, n := 0, offsets.Len(); i < n; i++ {
		body[l.Bands+i] = byte(offsets.At(i) - c.eq.Min)
	}
	return nil
}

// offsetsFor returns the offsets of eq as sent to the device.
func (c *Codec) offsetsFor(eq model.EqualizerConfiguration) (model.EqualizerBandOffsets, error) {
	offsets, err := eq.BandOffsetsFor(c.eq.Bands)
	if err != nil {
		return model.EqualizerBandOffsets{}, err
	}
	if !c.eq.Contains(offsets) {
		return model.EqualizerBandOffsets{}, fmt.Errorf("%w: %s outside %d..%d", model.ErrOffsetOutOfRange, offsets, c.eq.Min, c.eq.Max)
	}
	return offsets, nil
}

func (c *Codec) putSoundModes(body []byte, m model.SoundModes) error {
	l := c.profile.Layout

	if !c.nc.Contains(m.CustomNoiseCanceling) {
		return fmt.Errorf("%w: %s not in 0..%d", model.ErrStrengthOutOfRange, m.CustomNoiseCanceling, c.nc.Max)
	}

	body[l.Ambient] = m.AmbientSoundMode.Code()
	body[l.NoiseCanceling] = m.NoiseCancelingMode.Code()
	body[l.Transparency] = m.TransparencyMode.Code()
	if l.CustomNoiseCanceling != nil {
		body[*l.CustomNoiseCanceling] = m.CustomNoiseCanceling.Strength()
	} else if m.CustomNoiseCanceling.Strength() != 0 {
		return fmt.Errorf("%w: %s, layout has no custom noise canceling field", model.ErrStrengthOutOfRange, m.CustomNoiseCanceling)
	}
	return nil
}

// Decode parses a state update packet of either direction.
func (c *Codec) Decode(data []byte) (State, error) {
	p, err := c.framing.Unmarshal(data)
	if err != nil {
		return State{}, err
	}
	return c.DecodeState(p)
}

// DecodeState parses the body of an already framed state update packet.
// Bodies longer than the layout are accepted; the extra bytes are ignored.
func (c *Codec) DecodeState(p wire.Packet) (State, error) {
	if p.Command != c.profile.StateCommand() {
		return State{}, fmt.Errorf("%w: command %s, want %s", wire.ErrMalformedPacket, p.Command, c.profile.StateCommand())
	}

	l := c.profile.Layout
	body := p.Body
	if len(body) < l.BodyLength {
		return State{}, fmt.Errorf("%w: state body of %d bytes, want %d", wire.ErrMalformedPacket, len(body), l.BodyLength)
	}

	var s State
	var err error

	if s.Equalizer, err = c.equalizer(body, l.ProfileID, l.Bands); err != nil {
		return State{}, err
	}
	if s.SoundModes, err = c.soundModes(body); err != nil {
		return State{}, err
	}

	if l.Firmware != nil {
		raw := body[*l.Firmware : *l.Firmware+version.WireLength]
		if !isBlank(raw) {
			v, err := version.ParseBytes(raw)
			if err != nil {
				return State{}, fmt.Errorf("%w: firmware version at body offset %d: %v", wire.ErrMalformedPacket, *l.Firmware, err)
			}
			s.Firmware = &v
		}
	}
	if l.Serial != nil {
		raw := body[*l.Serial : *l.Serial+profile.SerialSize]
		s.Serial = string(bytes.TrimRight(raw, "\x00"))
	}

	return s, nil
}

// equalizer reads a profile id at idAt and band offsets starting at
// bandsAt. Presets take their curve from the preset table; only the bands
// past the curve are read.
func (c *Codec) equalizer(body []byte, idAt, bandsAt int) (model.EqualizerConfiguration, error) {
	id := binary.LittleEndian.Uint16(body[idAt:])
	if id == model.CustomProfileID {
		offsets, err := c.bandOffsets(body, bandsAt)
		if err != nil {
			return model.EqualizerConfiguration{}, err
		}
		return model.EqualizerConfigurationFromOffsets(offsets), nil
	}

	preset, err := model.ParsePresetEqualizerProfile(id)
	if err != nil {
		return model.EqualizerConfiguration{}, fmt.Errorf("equalizer profile id at body offset %d: %w", idAt, err)
	}
	var extra []int16
	for i := preset.BandOffsets().Len(); i < c.eq.Bands; i++ {
		v := int16(body[bandsAt+i]) + c.eq.Min
		if v > c.eq.Max {
			return model.EqualizerConfiguration{}, fmt.Errorf("%w: band %d offset %d at body offset %d not in %d..%d",
				model.ErrOffsetOutOfRange, i, v, bandsAt+i, c.eq.Min, c.eq.Max)
		}
		extra = append(extra, v)
	}
	return model.EqualizerConfigurationFromPresetWithExtraBands(preset, extra...)
}

func (c *Codec) bandOffsets(body []byte, at int) (model.EqualizerBandOffsets, error) {
	values := make([]int16, c.eq.Bands)
	for i := range values {
		values[i] = int16(body[at+i]) + c.eq.Min
	}
	offsets, err := c.eq.NewBandOffsets(values)
	if err != nil {
		return model.EqualizerBandOffsets{}, fmt.Errorf("band offsets at body offset %d: %w", at, err)
	}
	return offsets, nil
}

func (c *Codec) soundModes(body []byte) (model.SoundModes, error) {
	l := c.profile.Layout
	custom := -1
	if l.CustomNoiseCanceling != nil {
		custom = *l.CustomNoiseCanceling
	}
	return c.decodeSoundModes(body, l.Ambient, l.NoiseCanceling, l.Transparency, custom)
}

// decodeSoundModes reads the four sound mode bytes at the given offsets.
// A negative custom offset leaves the strength at zero.
func (c *Codec) decodeSoundModes(body []byte, ambient, nc, transparency, custom int) (model.SoundModes, error) {
	var m model.SoundModes
	var err error

	if m.AmbientSoundMode, err = model.ParseAmbientSoundMode(body[ambient]); err != nil {
		return model.SoundModes{}, fmt.Errorf("ambient sound mode at body offset %d: %w", ambient, err)
	}
	if m.NoiseCancelingMode, err = model.ParseNoiseCancelingMode(body[nc]); err != nil {
		return model.SoundModes{}, fmt.Errorf("noise canceling mode at body offset %d: %w", nc, err)
	}
	if m.TransparencyMode, err = model.ParseTransparencyMode(body[transparency]); err != nil {
		return model.SoundModes{}, fmt.Errorf("transparency mode at body offset %d: %w", transparency, err)
	}
	if custom >= 0 {
		if m.CustomNoiseCanceling, err = c.nc.NewCustomNoiseCanceling(int(body[custom])); err != nil {
			return model.SoundModes{}, fmt.Errorf("custom noise canceling at body offset %d: %w", custom, err)
		}
	}
	return m, nil
}

func isBlank(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
