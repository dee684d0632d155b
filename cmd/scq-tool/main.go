// Command scq-tool encodes, decodes and exchanges device state packets.
//
// Usage:
//
//	scq-tool <command> [flags] [args]
//
// Commands:
//
//	profiles   List built-in device profiles
//	presets    List equalizer presets
//	encode     Build a state update packet
//	decode     Decode a state update packet
//	plan       Show the packets that change sound modes
//	simulate   Run a simulated device on stdin/stdout
//	shell      Interactive shell, offline or connected to a device
//	log        View and analyze protocol log files
//
// Examples:
//
//	# Encode a Life Q30 state
//	scq-tool encode -profile a3028 -modes normal,indoor,vocal-mode -eq Jazz
//
//	# Decode a captured packet using a custom profile
//	scq-tool decode -profile ./a3951.yaml "09 ff 00 00 01 01 01 ..."
//
//	# Simulated device behind a pseudo terminal and a shell talking to it,
//	# with protocol capture
//	socat PTY,link=/tmp/q30,raw,echo=0 EXEC:"scq-tool simulate -profile a3028"
//	scq-tool shell -profile a3028 -device /tmp/q30 -protocol-log q30.scqlog
//
//	# View only acknowledgements
//	scq-tool log view -category ack q30.scqlog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/scq-protocol/scq-go/cmd/scq-tool/commands"
	"github.com/scq-protocol/scq-go/cmd/scq-tool/interactive"
	"github.com/scq-protocol/scq-go/internal/simulator"
	"github.com/scq-protocol/scq-go/pkg/codec"
	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/profile"
	"github.com/scq-protocol/scq-go/pkg/transport"
)

const usage = `scq-tool - device state packet tool

Usage:
  scq-tool <command> [flags] [args]

Commands:
  profiles   List built-in device profiles
  presets    List equalizer presets
  encode     Build a state update packet
  decode     Decode a state update packet
  plan       Show the packets that change sound modes
  simulate   Run a simulated device on stdin/stdout
  shell      Interactive shell, offline or connected to a device
  log        View and analyze protocol log files (view, export, filter, stats)

Use "scq-tool <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "profiles":
		err = commands.RunProfiles(os.Stdout)
	case "presets":
		err = commands.RunPresets(os.Stdout)
	case "encode":
		err = runEncode(args)
	case "decode":
		err = runDecode(args)
	case "plan":
		err = runPlan(args)
	case "simulate":
		err = runSimulate(args)
	case "shell":
		err = runShell(args)
	case "log":
		err = runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the flags shared by commands that work with a device profile.
type options struct {
	profile     string
	logLevel    string
	protocolLog string
}

func (o *options) register(fs *flag.FlagSet) {
	fs.StringVar(&o.profile, "profile", "a3028", "Built-in model number or path to a YAML profile")
	fs.StringVar(&o.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.StringVar(&o.protocolLog, "protocol-log", "", "Write protocol events to this file (CBOR)")
}

// setup configures logging and loads the codec.
func (o *options) setup() (*codec.Codec, error) {
	setupLogging(o.logLevel)

	p, err := profile.Open(o.profile)
	if err != nil {
		return nil, err
	}
	slog.Debug("loaded profile", "profile", p.String())
	return codec.New(p)
}

// openProtocolLog returns the protocol logger selected by the flags, or nil,
// and a function that closes it. Debug logging mirrors events to slog.
func (o *options) openProtocolLog(modelNumber string) (*log.SessionLogger, func(), error) {
	var loggers []log.Logger
	closeFn := func() {}

	if o.protocolLog != "" {
		fl, err := log.NewFileLogger(o.protocolLog)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open protocol log: %w", err)
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			if n := fl.Dropped(); n > 0 {
				slog.Warn("protocol log dropped events", "count", n)
			}
			fl.Close()
		}
	}
	if strings.EqualFold(o.logLevel, "debug") {
		loggers = append(loggers, log.NewSlogAdapter(slog.Default()))
	}

	multi := log.NewMultiLogger(loggers...)
	if multi.Len() == 0 {
		return nil, closeFn, nil
	}
	return log.NewSessionLogger(multi, uuid.NewString(), modelNumber), closeFn, nil
}

func setupLogging(level string) {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `scq-tool encode - Build a state update packet

Usage:
  scq-tool encode [flags]

Flags:
`)
		fs.PrintDefaults()
	}

	var o options
	o.register(fs)
	var opts commands.EncodeOptions
	fs.StringVar(&opts.SoundModes, "modes", "normal,indoor,vocal-mode", "Sound modes: ambient,noiseCanceling,transparency[,strength]")
	fs.StringVar(&opts.Equalizer, "eq", "SoundcoreSignature", "Equalizer preset name or comma separated band offsets")
	fs.StringVar(&opts.Firmware, "firmware", "", "Firmware version, e.g. 02.61")
	fs.StringVar(&opts.Serial, "serial", "", "Serial number")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := o.setup()
	if err != nil {
		return err
	}
	return commands.RunEncode(c, opts, os.Stdout)
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `scq-tool decode - Decode a state update packet

Usage:
  scq-tool decode [flags] <hex>

Flags:
`)
		fs.PrintDefaults()
	}

	var o options
	o.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("packet hex required")
	}

	c, err := o.setup()
	if err != nil {
		return err
	}
	logger, closeLog, err := o.openProtocolLog(c.Profile().Model)
	if err != nil {
		return err
	}
	defer closeLog()

	var l log.Logger
	if logger != nil {
		l = logger
	}
	return commands.RunDecode(c, strings.Join(fs.Args(), " "), os.Stdout, l)
}

func runPlan(args []string) error {
	fs := flag.NewFlagSet("plan", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `scq-tool plan - Show the packets that change sound modes

Usage:
  scq-tool plan [flags] <current> <target>

Both states are ambient,noiseCanceling,transparency[,strength].

Flags:
`)
		fs.PrintDefaults()
	}

	var o options
	o.register(fs)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("current and target states required")
	}

	c, err := o.setup()
	if err != nil {
		return err
	}
	return commands.RunPlan(c, fs.Arg(0), fs.Arg(1), os.Stdout)
}

func runSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `scq-tool simulate - Run a simulated device on stdin/stdout

Usage:
  scq-tool simulate [flags]

Requests are read from stdin and replies written to stdout. Diagnostics go
to stderr. Pair it with a shell through a pseudo terminal, e.g.:

  socat PTY,link=/tmp/q30,raw,echo=0 EXEC:"scq-tool simulate"
  scq-tool shell -device /tmp/q30

Flags:
`)
		fs.PrintDefaults()
	}

	var o options
	o.register(fs)
	var opts commands.EncodeOptions
	fs.StringVar(&opts.SoundModes, "modes", "normal,indoor,vocal-mode", "Initial sound modes")
	fs.StringVar(&opts.Equalizer, "eq", "SoundcoreSignature", "Initial equalizer")
	fs.StringVar(&opts.Firmware, "firmware", "02.61", "Reported firmware version")
	fs.StringVar(&opts.Serial, "serial", "", "Reported serial number")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := o.setup()
	if err != nil {
		return err
	}
	initial, err := commands.BuildState(c, opts)
	if err != nil {
		return err
	}

	device := simulator.New(c, initial, slog.Default())
	logger, closeLog, err := o.openProtocolLog(c.Profile().Model)
	if err != nil {
		return err
	}
	defer closeLog()
	if logger != nil {
		device.ProtocolLogger = logger
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("simulated device ready", "profile", c.Profile().String())

	served := make(chan error, 1)
	go func() {
		served <- device.Serve(ctx, stdio{os.Stdin, os.Stdout})
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		return nil
	case err := <-served:
		if err != nil {
			return err
		}
		slog.Info("input closed")
		return nil
	}
}

// stdio joins stdin and stdout into one stream.
type stdio struct {
	io.Reader
	io.Writer
}

func runShell(args []string) error {
	fs := flag.NewFlagSet("shell", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `scq-tool shell - Interactive shell

Usage:
  scq-tool shell [flags]

Without -device the shell works on a local state and prints packets.

Flags:
`)
		fs.PrintDefaults()
	}

	var o options
	o.register(fs)
	device := fs.String("device", "", "Serial or RFCOMM device to talk to, e.g. /dev/rfcomm0")
	timeout := fs.Duration("timeout", 500*time.Millisecond, "Response timeout of the first attempt")
	retries := fs.Int("retries", 3, "Attempts per request")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c, err := o.setup()
	if err != nil {
		return err
	}
	initial, err := commands.BuildState(c, commands.EncodeOptions{
		SoundModes: "normal,indoor,vocal-mode",
		Equalizer:  "SoundcoreSignature",
	})
	if err != nil {
		return err
	}

	logger, closeLog, err := o.openProtocolLog(c.Profile().Model)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var session *transport.Session
	if *device != "" {
		f, err := os.OpenFile(*device, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("failed to open device: %w", err)
		}
		defer f.Close()

		conn := transport.NewConn(f, c.Framing())
		if logger != nil {
			conn.SetLogger(logger, logger.SessionID())
		}
		session = transport.NewSession(ctx, conn, transport.SessionConfig{
			Retries:         *retries,
			ResponseTimeout: *timeout,
			Logger:          slog.Default(),
		})
		slog.Info("opened device", "path", *device)
	}

	shell := interactive.New(c, session, initial, os.Stdout)
	if logger != nil {
		shell.ProtocolLogger = logger
	}
	if session != nil {
		shell.Execute(ctx, "refresh")
	}
	return shell.Run(ctx, cancel)
}

func runLog(args []string) error {
	const logUsage = `scq-tool log - View and analyze protocol log files

Usage:
  scq-tool log <view|export|filter|stats> [flags] <file.scqlog>
`
	if len(args) < 1 {
		fmt.Fprint(os.Stderr, logUsage)
		return errors.New("log command required")
	}

	sub := args[0]
	fs := flag.NewFlagSet("log "+sub, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, logUsage+"\nFlags:\n")
		fs.PrintDefaults()
	}

	var fo commands.FilterOptions
	if sub != "stats" {
		fs.StringVar(&fo.SessionID, "session", "", "Filter by session ID")
		fs.StringVar(&fo.Model, "model", "", "Filter by model number")
		fs.StringVar(&fo.Command, "command", "", "Filter by packet command, e.g. 06:81")
		fs.StringVar(&fo.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
		fs.StringVar(&fo.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
		fs.StringVar(&fo.Layer, "layer", "", "Filter by layer (transport, codec)")
		fs.StringVar(&fo.Direction, "direction", "", "Filter by direction (in, out)")
		fs.StringVar(&fo.Category, "category", "", "Filter by category (packet, ack, state, error)")
		fs.StringVar(&fo.Ambient, "ambient", "", "Filter state events by ambient sound mode, e.g. transparency")
	}
	format := fs.String("format", "jsonl", "Export format (jsonl, csv)")
	output := fs.String("o", "", "Output file (export: default stdout, filter: required)")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return errors.New("log file path required")
	}
	path := fs.Arg(0)

	filter, err := commands.BuildFilter(fo)
	if err != nil {
		return err
	}

	switch sub {
	case "view":
		return commands.RunView(path, filter, os.Stdout)
	case "export":
		return commands.RunExport(path, *format, *output, filter)
	case "filter":
		if *output == "" {
			return errors.New("output file (-o) required")
		}
		n, err := commands.RunFilter(path, *output, filter)
		if err != nil {
			return err
		}
		fmt.Printf("Filtered %d events to %s\n", n, *output)
		return nil
	case "stats":
		return commands.RunStats(path, os.Stdout)
	default:
		fmt.Fprint(os.Stderr, logUsage)
		return fmt.Errorf("unknown log command: %s", sub)
	}
}
