// Package interactive provides the interactive shell of scq-tool.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"

	"github.com/scq-protocol/scq-go/cmd/scq-tool/commands"
	"github.com/scq-protocol/scq-go/pkg/codec"
	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/transport"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// ErrNotConnected is returned by commands that need a device.
var ErrNotConnected = errors.New("not connected to a device")

// Shell is an interactive session for one device profile. Without a
// transport session it works offline on a local state and prints the
// packets it would send.
type Shell struct {
	codec   *codec.Codec
	session *transport.Session
	out     io.Writer

	// ProtocolLogger receives decoded state events (optional).
	ProtocolLogger log.Logger

	mu    sync.Mutex
	state codec.State
}

// New creates a shell. session may be nil.
func New(c *codec.Codec, session *transport.Session, initial codec.State, out io.Writer) *Shell {
	return &Shell{
		codec:   c,
		session: session,
		out:     out,
		state:   initial,
	}
}

// State returns the shell's view of the device state.
func (s *Shell) State() codec.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Shell) setState(fn func(*codec.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	// Output coordinates with the prompt from here on.
	s.out = rl.Stdout()
	if s.session != nil {
		go s.Watch(ctx)
	}

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return nil
		}

		if quit := s.Execute(ctx, line); quit {
			cancel()
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	return s.codec.Profile().Model + "> "
}

// Execute runs one command line and reports whether the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()

	case "show", "s":
		commands.FormatState(s.out, s.State())

	case "modes", "m":
		err = s.cmdModes(ctx, args)

	case "eq", "e":
		err = s.cmdEqualizer(ctx, args)

	case "refresh", "r":
		err = s.cmdRefresh(ctx)

	case "encode":
		err = s.cmdEncode()

	case "decode":
		err = s.cmdDecode(args)

	case "presets":
		err = commands.RunPresets(s.out)

	case "profile":
		fmt.Fprintln(s.out, s.codec.Profile())

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Commands:
  State:
    show                    - Show the current state
    modes <a,nc,t[,n]>      - Set sound modes, e.g. modes noise-canceling,custom,vocal-mode,5
    eq <preset|offsets> [right]
                            - Set the equalizer, e.g. eq Jazz or eq -60,60,23,40,22,60,-4,16
    refresh                 - Request a state update from the device

  Packets:
    encode                  - Print the state update packet for the current state
    decode <hex>            - Decode a state update packet into the current state

  General:
    presets                 - List equalizer presets
    profile                 - Show the device profile
    help                    - Show this help
    quit                    - Exit`)
}

func (s *Shell) cmdModes(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: modes <ambient,noiseCanceling,transparency[,strength]>")
	}
	target, err := commands.ParseSoundModes(args[0], s.codec.Profile().NoiseCancelingLimits())
	if err != nil {
		return err
	}

	packets, err := s.codec.PlanSoundModesPackets(s.State().SoundModes, target)
	if err != nil {
		return err
	}
	if len(packets) == 0 {
		fmt.Fprintln(s.out, "Already in target state")
		return nil
	}

	if err := s.send(ctx, packets...); err != nil {
		return err
	}
	s.setState(func(st *codec.State) { st.SoundModes = target })
	fmt.Fprintf(s.out, "Sound modes: %s\n", target)
	return nil
}

func (s *Shell) cmdEqualizer(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: eq <preset|offsets> [right channel preset|offsets]")
	}
	limits := s.codec.Profile().EqualizerLimits()

	left, err := commands.ParseEqualizer(args[0], limits)
	if err != nil {
		return err
	}
	var right *model.EqualizerConfiguration
	if len(args) == 2 {
		r, err := commands.ParseEqualizer(args[1], limits)
		if err != nil {
			return err
		}
		right = &r
	}

	data, err := s.codec.SetEqualizerPacket(left, right)
	if err != nil {
		return err
	}
	if err := s.send(ctx, data); err != nil {
		return err
	}
	s.setState(func(st *codec.State) { st.Equalizer = left })
	fmt.Fprintf(s.out, "Equalizer: %s\n", left)
	return nil
}

// send requests an acknowledgement for each packet in order, or prints
// the packets when offline.
func (s *Shell) send(ctx context.Context, packets ...[]byte) error {
	for i, data := range packets {
		if s.session == nil {
			fmt.Fprintf(s.out, "-> %s\n", commands.FormatHex(data))
			continue
		}
		if err := s.session.RequestAck(ctx, data); err != nil {
			return fmt.Errorf("packet %d of %d: %w", i+1, len(packets), err)
		}
	}
	return nil
}

func (s *Shell) cmdRefresh(ctx context.Context) error {
	if s.session == nil {
		return ErrNotConnected
	}
	resp, err := s.session.Request(ctx, s.codec.StateRequestPacket())
	if err != nil {
		return err
	}
	return s.applyState(resp)
}

func (s *Shell) cmdEncode() error {
	data, err := s.codec.EncodeState(s.State())
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, commands.FormatHex(data))
	return nil
}

func (s *Shell) cmdDecode(args []string) error {
	if len(args) == 0 {
		return errors.New("usage: decode <hex>")
	}
	data, err := commands.ParseHex(strings.Join(args, ""))
	if err != nil {
		return err
	}
	p, err := s.codec.Framing().Unmarshal(data)
	if err != nil {
		return err
	}
	return s.applyState(p)
}

func (s *Shell) applyState(p wire.Packet) error {
	st, err := s.codec.DecodeState(p)
	if err != nil {
		return err
	}
	if s.ProtocolLogger != nil {
		s.ProtocolLogger.Log(commands.StateLogEvent(p, st))
	}
	s.setState(func(cur *codec.State) { *cur = st })
	commands.FormatState(s.out, st)
	return nil
}

// Watch applies unsolicited device packets to the state until the session
// ends or ctx is cancelled.
func (s *Shell) Watch(ctx context.Context) {
	if s.session == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case p, ok := <-s.session.Packets():
			if !ok {
				if err := s.session.Err(); err != nil {
					fmt.Fprintf(s.out, "Connection lost: %v\n", err)
				} else {
					fmt.Fprintln(s.out, "Device disconnected")
				}
				return
			}
			s.handleUnsolicited(p)
		}
	}
}

func (s *Shell) handleUnsolicited(p wire.Packet) {
	switch p.Command {
	case wire.CommandSoundModesUpdate:
		modes, err := s.codec.DecodeSoundModesUpdate(p)
		if err != nil {
			fmt.Fprintf(s.out, "Bad sound modes update: %v\n", err)
			return
		}
		s.setState(func(st *codec.State) { st.SoundModes = modes })
		fmt.Fprintf(s.out, "[device] Sound modes: %s\n", modes)

	case s.codec.Profile().StateCommand():
		fmt.Fprintln(s.out, "[device] State update")
		if err := s.applyState(p); err != nil {
			fmt.Fprintf(s.out, "Bad state update: %v\n", err)
		}

	default:
		fmt.Fprintf(s.out, "[device] %s\n", p)
	}
}
