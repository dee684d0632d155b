package wire

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Direction identifies who sent a packet.
type Direction uint8

const (
	// DirectionOutbound marks packets sent from the host to the device.
	DirectionOutbound Direction = 0

	// DirectionInbound marks packets sent from the device to the host.
	DirectionInbound Direction = 1
)

var (
	outboundPrefix = [PrefixSize]byte{0x08, 0xee, 0x00, 0x00, 0x00}
	inboundPrefix  = [PrefixSize]byte{0x09, 0xff, 0x00, 0x00, 0x01}
)

// Prefix returns the five byte direction indicator.
func (d Direction) Prefix() [PrefixSize]byte {
	if d == DirectionInbound {
		return inboundPrefix
	}
	return outboundPrefix
}

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionOutbound:
		return "OUTBOUND"
	case DirectionInbound:
		return "INBOUND"
	default:
		return "UNKNOWN"
	}
}

// DirectionFromPrefix identifies the direction of a packet from its first
// PrefixSize bytes.
func DirectionFromPrefix(b []byte) (Direction, bool) {
	switch string(b) {
	case string(inboundPrefix[:]):
		return DirectionInbound, true
	case string(outboundPrefix[:]):
		return DirectionOutbound, true
	default:
		return 0, false
	}
}

// Checksum selects how the packet trailer is computed.
type Checksum uint8

const (
	// ChecksumAdditive appends the sum of all preceding bytes modulo 256.
	ChecksumAdditive Checksum = 0

	// ChecksumNone appends nothing.
	ChecksumNone Checksum = 1
)

// Size returns the number of trailer bytes.
func (c Checksum) Size() int {
	if c == ChecksumNone {
		return 0
	}
	return 1
}

// String returns the checksum name.
func (c Checksum) String() string {
	switch c {
	case ChecksumAdditive:
		return "additive"
	case ChecksumNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseChecksum looks up a checksum by name. The empty string selects
// ChecksumAdditive.
func ParseChecksum(name string) (Checksum, error) {
	switch strings.ToLower(name) {
	case "", "additive", "sum":
		return ChecksumAdditive, nil
	case "none":
		return ChecksumNone, nil
	default:
		return 0, fmt.Errorf("unknown checksum %q", name)
	}
}

// Sum returns the additive checksum of b.
func Sum(b []byte) byte {
	var sum byte
	for _, v := range b {
		sum += v
	}
	return sum
}

// Command identifies the packet type.
type Command [2]byte

// Well-known commands.
var (
	// CommandStateUpdate carries the full device state (inbound), or
	// requests it (outbound, empty body).
	CommandStateUpdate = Command{0x01, 0x01}

	// CommandSoundModesUpdate carries sound modes after they change on the device.
	CommandSoundModesUpdate = Command{0x06, 0x01}

	// CommandSetSoundModes sets ambient, noise canceling and transparency modes.
	CommandSetSoundModes = Command{0x06, 0x81}

	// CommandSetEqualizer sets the equalizer profile and band offsets.
	CommandSetEqualizer = Command{0x02, 0x81}
)

// String returns the command as hex, e.g. "06 81".
func (c Command) String() string {
	return fmt.Sprintf("%02x %02x", c[0], c[1])
}

// ParseCommand parses a command from hex such as "0681", "06 81" or "06:81".
func ParseCommand(s string) (Command, error) {
	clean := strings.NewReplacer(" ", "", ":", "", "0x", "").Replace(strings.ToLower(s))
	var c Command
	b, err := hex.DecodeString(clean)
	if err != nil {
		return c, fmt.Errorf("invalid command %q: %w", s, err)
	}
	if len(b) != len(c) {
		return c, fmt.Errorf("invalid command %q: expected two hex bytes", s)
	}
	copy(c[:], b)
	return c, nil
}
