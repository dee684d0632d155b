package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/scq-protocol/scq-go/pkg/wire"
)

// Session errors.
var (
	// ErrResponseTimeout indicates no response arrived after all retries.
	ErrResponseTimeout = errors.New("response timeout")

	// ErrSessionClosed indicates the read loop has stopped.
	ErrSessionClosed = errors.New("session closed")

	// ErrRequestPending indicates a request with the same command is in flight.
	ErrRequestPending = errors.New("request already pending")
)

// SessionConfig configures a Session.
type SessionConfig struct {
	// Retries is the number of times a request is sent before giving up
	// (default: 3).
	Retries int

	// ResponseTimeout is the wait after the first send. Attempt n waits
	// n times as long (default: 500ms).
	ResponseTimeout time.Duration

	// Backlog is the capacity of the unsolicited packet channel
	// (default: 100). Packets are dropped when it is full.
	Backlog int

	// Logger receives operational messages (default: slog.Default()).
	Logger *slog.Logger
}

// DefaultSessionConfig returns the default session configuration.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Retries:         3,
		ResponseTimeout: 500 * time.Millisecond,
		Backlog:         100,
	}
}

// Session pairs outbound requests with inbound responses over a Conn.
// A response is the next inbound packet with the request's command: an
// acknowledgement for set commands or a state update for state requests.
// Inbound packets nobody waits for are delivered on Packets.
type Session struct {
	conn   *Conn
	config SessionConfig
	logger *slog.Logger

	mu      sync.Mutex
	pending map[wire.Command]chan wire.Packet

	packets chan wire.Packet
	done    chan struct{}
	err     error
}

// NewSession creates a session and starts reading from conn. The read loop
// stops when ctx is cancelled or the stream fails; close the underlying
// stream to unblock a pending read.
func NewSession(ctx context.Context, conn *Conn, config SessionConfig) *Session {
	def := DefaultSessionConfig()
	if config.Retries <= 0 {
		config.Retries = def.Retries
	}
	if config.ResponseTimeout <= 0 {
		config.ResponseTimeout = def.ResponseTimeout
	}
	if config.Backlog <= 0 {
		config.Backlog = def.Backlog
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		conn:    conn,
		config:  config,
		logger:  logger,
		pending: make(map[wire.Command]chan wire.Packet),
		packets: make(chan wire.Packet, config.Backlog),
		done:    make(chan struct{}),
	}
	go s.readLoop(ctx)
	return s
}

// Packets returns the channel of unsolicited inbound packets. It is closed
// when the read loop stops.
func (s *Session) Packets() <-chan wire.Packet {
	return s.packets
}

// Done is closed when the read loop stops.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the error that stopped the read loop, or nil while running
// and after a clean end of stream.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

func (s *Session) readLoop(ctx context.Context) {
	defer close(s.done)
	defer close(s.packets)

	for {
		if ctx.Err() != nil {
			s.err = ctx.Err()
			return
		}

		p, err := s.conn.ReadPacket()
		if err != nil {
			if err == io.EOF {
				return
			}
			if errors.Is(err, wire.ErrMalformedPacket) {
				malformedPacketsTotal.Inc()
				s.logger.Warn("discarding malformed packet", "error", err)
				continue
			}
			s.err = err
			return
		}

		if p.Direction != wire.DirectionInbound {
			s.logger.Debug("ignoring outbound packet", "command", p.Command)
			continue
		}
		if s.deliver(p) {
			continue
		}

		select {
		case s.packets <- p:
			unsolicitedPacketsTotal.Inc()
		default:
			droppedPacketsTotal.Inc()
			s.logger.Warn("unsolicited packet dropped, backlog full", "command", p.Command)
		}
	}
}

// deliver hands p to a pending request and returns true if there was one.
func (s *Session) deliver(p wire.Packet) bool {
	s.mu.Lock()
	ch, ok := s.pending[p.Command]
	if ok {
		delete(s.pending, p.Command)
	}
	s.mu.Unlock()

	if ok {
		ch <- p
	}
	return ok
}

// Request sends an already framed outbound packet and waits for the
// response, resending on timeout.
func (s *Session) Request(ctx context.Context, data []byte) (resp wire.Packet, err error) {
	req, err := s.conn.framing.Unmarshal(data)
	if err != nil {
		return wire.Packet{}, err
	}
	start := time.Now()
	defer func() { observeRequest(req.Command, time.Since(start), err) }()

	// Buffered so deliver never blocks on an abandoned request.
	ch := make(chan wire.Packet, 1)
	s.mu.Lock()
	if _, busy := s.pending[req.Command]; busy {
		s.mu.Unlock()
		return wire.Packet{}, fmt.Errorf("%w: %s", ErrRequestPending, req.Command)
	}
	s.pending[req.Command] = ch
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.pending[req.Command] == ch {
			delete(s.pending, req.Command)
		}
		s.mu.Unlock()
	}()

	for attempt := 1; attempt <= s.config.Retries; attempt++ {
		if err := s.conn.PacketWriter.write(data, req); err != nil {
			return wire.Packet{}, err
		}

		timer := time.NewTimer(time.Duration(attempt) * s.config.ResponseTimeout)
		select {
		case resp := <-ch:
			timer.Stop()
			return resp, nil
		case <-timer.C:
			if attempt < s.config.Retries {
				resendsTotal.WithLabelValues(req.Command.String()).Inc()
			}
			s.logger.Debug("no response", "command", req.Command, "attempt", attempt)
		case <-ctx.Done():
			timer.Stop()
			return wire.Packet{}, ctx.Err()
		case <-s.done:
			timer.Stop()
			// The response may have raced the shutdown.
			select {
			case resp := <-ch:
				return resp, nil
			default:
			}
			return wire.Packet{}, ErrSessionClosed
		}
	}

	return wire.Packet{}, fmt.Errorf("%w: %s after %d attempts", ErrResponseTimeout, req.Command, s.config.Retries)
}

// RequestAck sends a set command and waits for its acknowledgement.
func (s *Session) RequestAck(ctx context.Context, data []byte) error {
	resp, err := s.Request(ctx, data)
	if err != nil {
		return err
	}
	if len(resp.Body) != 0 {
		s.logger.Debug("acknowledgement carries a body", "command", resp.Command, "size", len(resp.Body))
	}
	return nil
}
