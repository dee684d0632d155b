package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/profile"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// soundModesBodySize is the body size of set sound modes and sound modes
// update packets: ambient, noise canceling, transparency, custom strength.
const soundModesBodySize = 4

// StateRequestPacket builds the packet that asks a device for a state update.
func (c *Codec) StateRequestPacket() []byte {
	return c.framing.Marshal(wire.Packet{
		Direction: wire.DirectionOutbound,
		Command:   c.profile.StateCommand(),
	})
}

// SetSoundModesPacket builds a set sound modes packet. It fails with
// profile.ErrUnsupportedMode when the device does not accept modes.
func (c *Codec) SetSoundModesPacket(modes model.SoundModes) ([]byte, error) {
	if err := c.profile.Supports(modes); err != nil {
		return nil, err
	}
	return c.framing.Marshal(wire.Packet{
		Direction: wire.DirectionOutbound,
		Command:   wire.CommandSetSoundModes,
		Body:      soundModesBody(modes),
	}), nil
}

// PlanSoundModesPackets returns the set sound modes packets that move a
// device from current to target, in send order. Each packet should be
// acknowledged before the next is sent.
func (c *Codec) PlanSoundModesPackets(current, target model.SoundModes) ([][]byte, error) {
	if err := c.profile.Supports(target); err != nil {
		return nil, err
	}

	steps := model.PlanSoundModesTransition(current, target)
	packets := make([][]byte, 0, len(steps))
	for _, step := range steps {
		p, err := c.SetSoundModesPacket(step)
		if err != nil {
			return nil, fmt.Errorf("intermediate state %s: %w", step, err)
		}
		packets = append(packets, p)
	}
	return packets, nil
}

// SetEqualizerPacket builds a set equalizer packet. The profile id always
// comes from left; right, when non-nil, adds a second channel of offsets.
func (c *Codec) SetEqualizerPacket(left model.EqualizerConfiguration, right *model.EqualizerConfiguration) ([]byte, error) {
	channels := []model.EqualizerConfiguration{left}
	if right != nil {
		channels = append(channels, *right)
	}

	body := make([]byte, profile.ProfileIDSize, profile.ProfileIDSize+len(channels)*c.eq.Bands)
	for i, eq := range channels {
		offsets, err := c.offsetsFor(eq)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			binary.LittleEndian.PutUint16(body, eq.ProfileID())
		}
		for j, n := 0, offsets.Len(); j < n; j++ {
			body = append(body, byte(offsets.At(j)-c.eq.Min))
		}
	}

	return c.framing.Marshal(wire.Packet{
		Direction: wire.DirectionOutbound,
		Command:   wire.CommandSetEqualizer,
		Body:      body,
	}), nil
}

// DecodeSoundModesUpdate parses the packet a device sends after its sound
// modes change.
func (c *Codec) DecodeSoundModesUpdate(p wire.Packet) (model.SoundModes, error) {
	return c.decodeSoundModesPacket(p, wire.CommandSoundModesUpdate)
}

// DecodeSetSoundModes parses a set sound modes packet, as a device
// receives it.
func (c *Codec) DecodeSetSoundModes(p wire.Packet) (model.SoundModes, error) {
	return c.decodeSoundModesPacket(p, wire.CommandSetSoundModes)
}

func (c *Codec) decodeSoundModesPacket(p wire.Packet, want wire.Command) (model.SoundModes, error) {
	if p.Command != want {
		return model.SoundModes{}, fmt.Errorf("%w: command %s, want %s", wire.ErrMalformedPacket, p.Command, want)
	}
	if len(p.Body) < soundModesBodySize {
		return model.SoundModes{}, fmt.Errorf("%w: sound modes body of %d bytes, want %d",
			wire.ErrMalformedPacket, len(p.Body), soundModesBodySize)
	}
	return c.decodeSoundModes(p.Body, 0, 1, 2, 3)
}

// SoundModesUpdatePacket builds the packet a device sends after its sound
// modes change.
func (c *Codec) SoundModesUpdatePacket(modes model.SoundModes) ([]byte, error) {
	if !c.nc.Contains(modes.CustomNoiseCanceling) {
		return nil, fmt.Errorf("%w: %s not in 0..%d", model.ErrStrengthOutOfRange, modes.CustomNoiseCanceling, c.nc.Max)
	}
	return c.framing.Marshal(wire.Packet{
		Direction: wire.DirectionInbound,
		Command:   wire.CommandSoundModesUpdate,
		Body:      soundModesBody(modes),
	}), nil
}

// DecodeSetEqualizer parses a set equalizer packet. right is nil for
// single channel packets. A second channel carrying the offsets of the
// left preset decodes as that preset.
func (c *Codec) DecodeSetEqualizer(p wire.Packet) (left model.EqualizerConfiguration, right *model.EqualizerConfiguration, err error) {
	if p.Command != wire.CommandSetEqualizer {
		return left, nil, fmt.Errorf("%w: command %s, want %s", wire.ErrMalformedPacket, p.Command, wire.CommandSetEqualizer)
	}

	single := profile.ProfileIDSize + c.eq.Bands
	switch len(p.Body) {
	case single, single + c.eq.Bands:
	default:
		return left, nil, fmt.Errorf("%w: equalizer body of %d bytes, want %d or %d",
			wire.ErrMalformedPacket, len(p.Body), single, single+c.eq.Bands)
	}

	if left, err = c.equalizer(p.Body, 0, profile.ProfileIDSize); err != nil {
		return left, nil, err
	}
	if len(p.Body) == single {
		return left, nil, nil
	}

	offsets, err := c.bandOffsets(p.Body, single)
	if err != nil {
		return left, nil, err
	}
	second := model.EqualizerConfigurationFromOffsets(offsets)
	if sent, err := left.BandOffsetsFor(c.eq.Bands); err == nil && !left.IsCustom() && sent == offsets {
		second = left
	}
	return left, &second, nil
}

// AckPacket builds the empty acknowledgement a device sends for command.
func (c *Codec) AckPacket(command wire.Command) []byte {
	return c.framing.Marshal(wire.Packet{
		Direction: wire.DirectionInbound,
		Command:   command,
	})
}

func soundModesBody(m model.SoundModes) []byte {
	return []byte{
		m.AmbientSoundMode.Code(),
		m.NoiseCancelingMode.Code(),
		m.TransparencyMode.Code(),
		m.CustomNoiseCanceling.Strength(),
	}
}
