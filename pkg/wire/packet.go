package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Framing constants.
const (
	// PrefixSize is the size of the direction indicator.
	PrefixSize = 5

	// CommandSize is the size of the command.
	CommandSize = 2

	// LengthSize is the size of the little-endian length field.
	LengthSize = 2

	// HeaderSize is the size of everything before the body.
	HeaderSize = PrefixSize + CommandSize + LengthSize

	// MaxPacketSize is the largest length the u16 length field can describe.
	MaxPacketSize = 0xffff
)

// Framing errors.
var (
	// ErrMalformedPacket indicates a buffer that is not a valid packet.
	ErrMalformedPacket = errors.New("malformed packet")

	// ErrIncompletePacket indicates the buffer ends before the packet does.
	// More bytes may complete it when reading from a stream.
	ErrIncompletePacket = fmt.Errorf("%w: incomplete", ErrMalformedPacket)

	// ErrChecksumMismatch indicates a corrupted packet.
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", ErrMalformedPacket)

	// ErrUnknownDirection indicates an unrecognized direction prefix.
	ErrUnknownDirection = fmt.Errorf("%w: unknown direction prefix", ErrMalformedPacket)
)

// Packet is a single framed message.
type Packet struct {
	Direction Direction
	Command   Command
	Body      []byte
}

// IsAckFor returns true if p acknowledges the outbound packet sent.
func (p Packet) IsAckFor(sent Packet) bool {
	return p.Direction == DirectionInbound &&
		sent.Direction == DirectionOutbound &&
		p.Command == sent.Command &&
		len(p.Body) == 0
}

// String returns a short description for logs.
func (p Packet) String() string {
	return fmt.Sprintf("%s [%s] %d byte body", p.Direction, p.Command, len(p.Body))
}

// Framing marshals and unmarshals packets.
// The zero value uses the additive checksum.
type Framing struct {
	Checksum Checksum
}

// DefaultFraming is the framing used by all known devices.
var DefaultFraming = Framing{Checksum: ChecksumAdditive}

// Size returns the total packet size for a body of bodyLen bytes.
func (f Framing) Size(bodyLen int) int {
	return HeaderSize + bodyLen + f.Checksum.Size()
}

// Marshal encodes p. It panics if the packet exceeds MaxPacketSize, which
// no device command comes close to.
func (f Framing) Marshal(p Packet) []byte {
	size := f.Size(len(p.Body))
	if size > MaxPacketSize {
		panic(fmt.Sprintf("wire: packet of %d bytes exceeds %d", size, MaxPacketSize))
	}

	buf := make([]byte, 0, size)
	prefix := p.Direction.Prefix()
	buf = append(buf, prefix[:]...)
	buf = append(buf, p.Command[:]...)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(size))
	buf = append(buf, p.Body...)
	if f.Checksum == ChecksumAdditive {
		buf = append(buf, Sum(buf))
	}
	return buf
}

// Unmarshal decodes exactly one packet. Trailing bytes are an error.
func (f Framing) Unmarshal(data []byte) (Packet, error) {
	p, rest, err := f.Split(data)
	if err != nil {
		return Packet{}, err
	}
	if len(rest) != 0 {
		return Packet{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPacket, len(rest))
	}
	return p, nil
}

// Split decodes the packet at the start of data and returns the remaining
// bytes. It returns ErrIncompletePacket when data holds only part of a packet.
// The returned body does not alias data.
func (f Framing) Split(data []byte) (Packet, []byte, error) {
	if len(data) < HeaderSize {
		return Packet{}, data, fmt.Errorf("%w: %d bytes, header needs %d", ErrIncompletePacket, len(data), HeaderSize)
	}

	direction, ok := DirectionFromPrefix(data[:PrefixSize])
	if !ok {
		return Packet{}, data, fmt.Errorf("%w: % x", ErrUnknownDirection, data[:PrefixSize])
	}

	var command Command
	copy(command[:], data[PrefixSize:PrefixSize+CommandSize])

	length, err := f.declaredLength(data)
	if err != nil {
		return Packet{}, data, err
	}
	if len(data) < length {
		return Packet{}, data, fmt.Errorf("%w: %d bytes, packet declares %d", ErrIncompletePacket, len(data), length)
	}

	bodyEnd := length - f.Checksum.Size()
	if f.Checksum == ChecksumAdditive {
		if want := Sum(data[:bodyEnd]); data[bodyEnd] != want {
			return Packet{}, data, fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrChecksumMismatch, data[bodyEnd], want)
		}
	}

	body := make([]byte, bodyEnd-HeaderSize)
	copy(body, data[HeaderSize:bodyEnd])

	return Packet{Direction: direction, Command: command, Body: body}, data[length:], nil
}

// DeclaredLength returns the total length a header announces. data must hold
// at least HeaderSize bytes.
func (f Framing) DeclaredLength(header []byte) (int, error) {
	if len(header) < HeaderSize {
		return 0, fmt.Errorf("%w: %d bytes, header needs %d", ErrIncompletePacket, len(header), HeaderSize)
	}
	if _, ok := DirectionFromPrefix(header[:PrefixSize]); !ok {
		return 0, fmt.Errorf("%w: % x", ErrUnknownDirection, header[:PrefixSize])
	}
	return f.declaredLength(header)
}

func (f Framing) declaredLength(data []byte) (int, error) {
	length := int(binary.LittleEndian.Uint16(data[PrefixSize+CommandSize : HeaderSize]))
	if min := f.Size(0); length < min {
		return 0, fmt.Errorf("%w: declared length %d below minimum %d", ErrMalformedPacket, length, min)
	}
	return length, nil
}
