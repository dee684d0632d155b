// Package log provides structured protocol capture.
//
// This package defines the Logger interface and Event types for capturing
// protocol events at two layers: raw packets at the transport layer and
// decoded device state at the codec layer. It is separate from operational
// logging (slog) - protocol capture provides a complete machine-readable
// trace of a session for debugging and analysis.
//
// # Basic Usage
//
// Applications configure capture by providing a Logger implementation:
//
//	// For development: log to console via slog
//	conn.SetLogger(log.NewSlogAdapter(slog.Default()), sessionID)
//
//	// For analysis: write to binary file
//	fl, _ := log.NewFileLogger("q30.scqlog")
//
//	// Both: use MultiLogger
//	conn.SetLogger(log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), fl), sessionID)
//
// # Event Types
//
//   - Transport: Raw packet bytes and command (PacketEvent)
//   - Codec: Decoded sound modes and equalizer (StateEvent)
//
// Errors at either layer have a dedicated event type.
//
// # File Format
//
// Capture files are a stream of CBOR encoded events with the .scqlog
// extension. The scq-tool "log view" command reads and filters them.
package log
