package log

import (
	"time"

	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/version"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one capture session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Direction indicates packet flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Model is the device model number, when known.
	Model string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Packet *PacketEvent    `cbor:"10,keyasint,omitempty"` // Transport layer
	State  *StateEvent     `cbor:"11,keyasint,omitempty"` // Codec layer (decoded)
	Error  *ErrorEventData `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of packet flow.
type Direction uint8

const (
	// DirectionIn indicates a packet from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates a packet to the device.
	DirectionOut Direction = 1
)

// DirectionOf maps a wire direction to a log direction.
func DirectionOf(d wire.Direction) Direction {
	if d == wire.DirectionOutbound {
		return DirectionOut
	}
	return DirectionIn
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw packets).
	LayerTransport Layer = 0
	// LayerCodec is the state encoding layer (decoded fields).
	LayerCodec Layer = 1
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerCodec:
		return "CODEC"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPacket indicates a command or state packet.
	CategoryPacket Category = 0
	// CategoryAck indicates an acknowledgement.
	CategoryAck Category = 1
	// CategoryState indicates decoded device state.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPacket:
		return "PACKET"
	case CategoryAck:
		return "ACK"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory looks up a category by name.
func ParseCategory(name string) (Category, bool) {
	for _, c := range []Category{CategoryPacket, CategoryAck, CategoryState, CategoryError} {
		if c.String() == name {
			return c, true
		}
	}
	return 0, false
}

// PacketEvent captures a raw packet at the transport layer.
type PacketEvent struct {
	// Size is the packet size in bytes.
	Size int `cbor:"1,keyasint"`

	// Command is the packet command as hex, e.g. "06 81".
	Command string `cbor:"2,keyasint"`

	// Data is the raw packet bytes (may be truncated for large packets).
	Data []byte `cbor:"3,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"4,keyasint,omitempty"`
}

// StateEvent captures decoded sound modes and equalizer settings.
// Fields the packet did not carry are left empty.
type StateEvent struct {
	// Command is the packet command the state was decoded from.
	Command string `cbor:"1,keyasint"`

	AmbientSoundMode     string `cbor:"2,keyasint,omitempty"`
	NoiseCancelingMode   string `cbor:"3,keyasint,omitempty"`
	TransparencyMode     string `cbor:"4,keyasint,omitempty"`
	CustomNoiseCanceling *uint8 `cbor:"5,keyasint,omitempty"`

	// EqualizerProfile is the preset name or "Custom".
	EqualizerProfile string `cbor:"6,keyasint,omitempty"`

	// BandOffsets in tenths of dB.
	BandOffsets []int16 `cbor:"7,keyasint,omitempty"`

	Firmware string `cbor:"8,keyasint,omitempty"`
	Serial   string `cbor:"9,keyasint,omitempty"`
}

// NewStateEvent describes sound modes decoded from a packet with the given command.
func NewStateEvent(command wire.Command, m model.SoundModes) *StateEvent {
	strength := m.CustomNoiseCanceling.Strength()
	return &StateEvent{
		Command:              command.String(),
		AmbientSoundMode:     m.AmbientSoundMode.String(),
		NoiseCancelingMode:   m.NoiseCancelingMode.String(),
		TransparencyMode:     m.TransparencyMode.String(),
		CustomNoiseCanceling: &strength,
	}
}

// SetEqualizer records an equalizer configuration.
func (s *StateEvent) SetEqualizer(eq model.EqualizerConfiguration) {
	if p, ok := eq.PresetProfile(); ok {
		s.EqualizerProfile = p.String()
	} else {
		s.EqualizerProfile = "Custom"
	}
	s.BandOffsets = eq.BandOffsets().Values()
}

// SetFirmware records a firmware version. A nil version is ignored.
func (s *StateEvent) SetFirmware(v *version.FirmwareVersion) {
	if v != nil {
		s.Firmware = v.String()
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
