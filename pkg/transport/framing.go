package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// MaxLogPacketDataSize is the maximum packet data size to include in logs.
// Larger packets are truncated in log events.
const MaxLogPacketDataSize = 1024

// Framing errors.
var (
	// ErrPacketTruncated indicates the stream ended inside a packet.
	ErrPacketTruncated = errors.New("packet truncated")
)

// PacketWriter writes framed packets to an underlying writer.
type PacketWriter struct {
	w       io.Writer
	framing wire.Framing
	mu      sync.Mutex

	// Logging support (optional)
	logger    log.Logger
	sessionID string
}

// NewPacketWriter creates a packet writer using f.
func NewPacketWriter(w io.Writer, f wire.Framing) *PacketWriter {
	return &PacketWriter{
		w:       w,
		framing: f,
	}
}

// SetLogger configures logging for this writer. An empty sessionID is
// replaced with a random UUID. Pass nil to disable logging.
func (pw *PacketWriter) SetLogger(logger log.Logger, sessionID string) {
	pw.logger = logger
	pw.sessionID = sessionIDOrNew(sessionID)
}

// WritePacket frames and writes p.
// Thread-safe: can be called from multiple goroutines.
func (pw *PacketWriter) WritePacket(p wire.Packet) error {
	return pw.write(pw.framing.Marshal(p), p)
}

// Write writes an already framed packet, such as one built by the codec.
// The data must hold exactly one valid packet.
func (pw *PacketWriter) Write(data []byte) error {
	p, err := pw.framing.Unmarshal(data)
	if err != nil {
		return err
	}
	return pw.write(data, p)
}

func (pw *PacketWriter) write(data []byte, p wire.Packet) error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	// A single Write keeps packets whole on stream sockets.
	if _, err := pw.w.Write(data); err != nil {
		return fmt.Errorf("failed to write packet: %w", err)
	}

	if pw.logger != nil {
		pw.logger.Log(makePacketEvent(pw.sessionID, data, p))
	}
	return nil
}

// PacketReader reads framed packets from an underlying reader.
type PacketReader struct {
	r       *bufio.Reader
	framing wire.Framing

	// Logging support (optional)
	logger    log.Logger
	sessionID string
}

// NewPacketReader creates a packet reader using f.
func NewPacketReader(r io.Reader, f wire.Framing) *PacketReader {
	return &PacketReader{
		r:       bufio.NewReader(r),
		framing: f,
	}
}

// SetLogger configures logging for this reader. An empty sessionID is
// replaced with a random UUID. Pass nil to disable logging.
func (pr *PacketReader) SetLogger(logger log.Logger, sessionID string) {
	pr.logger = logger
	pr.sessionID = sessionIDOrNew(sessionID)
}

// ReadPacket reads one packet. It returns io.EOF if the stream ends cleanly
// between packets, ErrPacketTruncated if it ends inside one and an error
// wrapping wire.ErrMalformedPacket for invalid framing. After a bad header
// the reader skips ahead to the next direction prefix, so the following
// call starts on a packet boundary again.
func (pr *PacketReader) ReadPacket() (wire.Packet, error) {
	p, err := pr.readPacket()
	if err != nil && err != io.EOF && pr.logger != nil {
		pr.logger.Log(makeErrorEvent(pr.sessionID, err))
	}
	return p, err
}

func (pr *PacketReader) readPacket() (wire.Packet, error) {
	header, err := pr.r.Peek(wire.HeaderSize)
	if err != nil {
		if err == io.EOF {
			if len(header) == 0 {
				return wire.Packet{}, io.EOF
			}
			pr.r.Discard(len(header))
			return wire.Packet{}, ErrPacketTruncated
		}
		return wire.Packet{}, fmt.Errorf("failed to read packet header: %w", err)
	}

	length, err := pr.framing.DeclaredLength(header)
	if err != nil {
		if skipped := pr.resync(); skipped > 1 {
			return wire.Packet{}, fmt.Errorf("%w (skipped %d bytes)", err, skipped)
		}
		return wire.Packet{}, err
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(pr.r, data); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || err == io.EOF {
			return wire.Packet{}, ErrPacketTruncated
		}
		return wire.Packet{}, fmt.Errorf("failed to read packet body: %w", err)
	}

	p, err := pr.framing.Unmarshal(data)
	if err != nil {
		return wire.Packet{}, err
	}

	if pr.logger != nil {
		pr.logger.Log(makePacketEvent(pr.sessionID, data, p))
	}
	return p, nil
}

// resync drops the byte at the head of the stream and everything after it
// up to the next direction prefix or the end of the stream. It returns the
// number of bytes dropped.
func (pr *PacketReader) resync() int {
	skipped, _ := pr.r.Discard(1)
	for {
		b, err := pr.r.Peek(wire.PrefixSize)
		if err != nil {
			n, _ := pr.r.Discard(len(b))
			return skipped + n
		}
		if _, ok := wire.DirectionFromPrefix(b); ok {
			return skipped
		}
		pr.r.Discard(1)
		skipped++
	}
}

// makePacketEvent creates a log event for a packet.
func makePacketEvent(sessionID string, data []byte, p wire.Packet) log.Event {
	logData := data
	truncated := false
	if len(data) > MaxLogPacketDataSize {
		logData = data[:MaxLogPacketDataSize]
		truncated = true
	}

	category := log.CategoryPacket
	if p.Direction == wire.DirectionInbound && len(p.Body) == 0 {
		category = log.CategoryAck
	}

	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: log.DirectionOf(p.Direction),
		Layer:     log.LayerTransport,
		Category:  category,
		Packet: &log.PacketEvent{
			Size:      len(data),
			Command:   p.Command.String(),
			Data:      logData,
			Truncated: truncated,
		},
	}
}

func makeErrorEvent(sessionID string, err error) log.Event {
	return log.Event{
		Timestamp: time.Now(),
		SessionID: sessionID,
		Direction: log.DirectionIn,
		Layer:     log.LayerTransport,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   log.LayerTransport,
			Message: err.Error(),
			Context: "reading packet",
		},
	}
}

func sessionIDOrNew(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

// Conn combines packet reading and writing over one stream.
type Conn struct {
	*PacketReader
	*PacketWriter

	framing wire.Framing
}

// NewConn creates a Conn for bidirectional communication.
func NewConn(rw io.ReadWriter, f wire.Framing) *Conn {
	return &Conn{
		PacketReader: NewPacketReader(rw, f),
		PacketWriter: NewPacketWriter(rw, f),
		framing:      f,
	}
}

// SetLogger configures logging for both reader and writer with one
// session ID, which it returns.
func (c *Conn) SetLogger(logger log.Logger, sessionID string) string {
	sessionID = sessionIDOrNew(sessionID)
	c.PacketReader.SetLogger(logger, sessionID)
	c.PacketWriter.SetLogger(logger, sessionID)
	return sessionID
}
