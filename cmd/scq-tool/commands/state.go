package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/scq-protocol/scq-go/pkg/codec"
	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/profile"
	"github.com/scq-protocol/scq-go/pkg/version"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// EncodeOptions holds the state fields for the encode command.
type EncodeOptions struct {
	SoundModes string
	Equalizer  string
	Firmware   string
	Serial     string
}

// RunPresets lists the preset equalizer profiles and their curves.
func RunPresets(w io.Writer) error {
	for _, p := range model.AllPresetEqualizerProfiles() {
		fmt.Fprintf(w, "0x%04x  %-16s %s\n", p.ID(), p.String(), p.BandOffsets())
	}
	return nil
}

// RunProfiles lists the built-in device profiles.
func RunProfiles(w io.Writer) error {
	models, err := profile.Models()
	if err != nil {
		return err
	}
	for _, m := range models {
		p, err := profile.Load(m)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-8s %-20s %d bands %d..%d, state %s (%d bytes)\n",
			p.Model, p.Name, p.Equalizer.Bands, p.Equalizer.Min, p.Equalizer.Max,
			p.StateCommand(), p.Layout.BodyLength)
	}
	return nil
}

// BuildState parses encode options into a state for c's profile.
func BuildState(c *codec.Codec, opts EncodeOptions) (codec.State, error) {
	p := c.Profile()
	var s codec.State
	var err error

	if s.SoundModes, err = ParseSoundModes(opts.SoundModes, p.NoiseCancelingLimits()); err != nil {
		return codec.State{}, err
	}
	if s.Equalizer, err = ParseEqualizer(opts.Equalizer, p.EqualizerLimits()); err != nil {
		return codec.State{}, err
	}
	if opts.Firmware != "" {
		v, err := version.Parse(opts.Firmware)
		if err != nil {
			return codec.State{}, err
		}
		s.Firmware = &v
	}
	s.Serial = opts.Serial
	return s, nil
}

// RunEncode writes the state update packet for opts as hex.
func RunEncode(c *codec.Codec, opts EncodeOptions, w io.Writer) error {
	s, err := BuildState(c, opts)
	if err != nil {
		return err
	}
	data, err := c.EncodeState(s)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, FormatHex(data))
	return nil
}

// RunDecode decodes a state update packet given as hex and prints it. When
// logger is non-nil the decoded state is also logged as a codec event.
func RunDecode(c *codec.Codec, input string, w io.Writer, logger log.Logger) error {
	data, err := ParseHex(input)
	if err != nil {
		return err
	}
	p, err := c.Framing().Unmarshal(data)
	if err != nil {
		return err
	}
	s, err := c.DecodeState(p)
	if err != nil {
		return err
	}

	if logger != nil {
		logger.Log(StateLogEvent(p, s))
	}
	FormatState(w, s)
	return nil
}

// RunPlan prints the set sound modes packets that move a device from
// current to target.
func RunPlan(c *codec.Codec, current, target string, w io.Writer) error {
	limits := c.Profile().NoiseCancelingLimits()
	from, err := ParseSoundModes(current, limits)
	if err != nil {
		return fmt.Errorf("current: %w", err)
	}
	to, err := ParseSoundModes(target, limits)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	packets, err := c.PlanSoundModesPackets(from, to)
	if err != nil {
		return err
	}
	if len(packets) == 0 {
		fmt.Fprintln(w, "Already in target state")
		return nil
	}

	steps := model.PlanSoundModesTransition(from, to)
	for i, data := range packets {
		fmt.Fprintf(w, "%d. %s\n   %s\n", i+1, steps[i], FormatHex(data))
	}
	return nil
}

// StateLogEvent describes a decoded state update as a codec layer event.
func StateLogEvent(p wire.Packet, s codec.State) log.Event {
	state := log.NewStateEvent(p.Command, s.SoundModes)
	state.SetEqualizer(s.Equalizer)
	state.SetFirmware(s.Firmware)
	state.Serial = s.Serial

	return log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionOf(p.Direction),
		Layer:     log.LayerCodec,
		Category:  log.CategoryState,
		State:     state,
	}
}

// FormatState writes a human-readable state.
func FormatState(w io.Writer, s codec.State) {
	m := s.SoundModes
	fmt.Fprintf(w, "Ambient:          %s\n", m.AmbientSoundMode)
	fmt.Fprintf(w, "Noise canceling:  %s (custom %s)\n", m.NoiseCancelingMode, m.CustomNoiseCanceling)
	fmt.Fprintf(w, "Transparency:     %s\n", m.TransparencyMode)
	fmt.Fprintf(w, "Equalizer:        %s\n", s.Equalizer)
	if s.Firmware != nil {
		fmt.Fprintf(w, "Firmware:         %s\n", s.Firmware)
	}
	if s.Serial != "" {
		fmt.Fprintf(w, "Serial:           %s\n", s.Serial)
	}
}

// FormatHex formats data as space separated hex bytes.
func FormatHex(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	out := make([]byte, 0, len(data)*3-1)
	for i, b := range data {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, hex.EncodeToString([]byte{b})...)
	}
	return string(out)
}
