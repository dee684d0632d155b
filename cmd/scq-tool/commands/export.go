package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/scq-protocol/scq-go/pkg/log"
)

var csvHeader = []string{
	"timestamp", "session_id", "direction", "layer", "category", "model",
	"command", "size", "data",
	"ambient", "noise_canceling", "transparency", "strength", "equalizer", "offsets",
}

// RunExport writes the events of a log selected by filter as jsonl or csv.
// An empty output writes to stdout.
func RunExport(path, format, output string, filter log.Filter) error {
	var export func(*log.Reader, io.Writer) error
	switch format {
	case "jsonl":
		export = exportJSONL
	case "csv":
		export = exportCSV
	default:
		return fmt.Errorf("unknown format %q (supported: jsonl, csv)", format)
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if output == "" {
		return export(reader, os.Stdout)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := export(reader, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	enc := json.NewEncoder(w)
	return reader.Each(func(e log.Event) error {
		return enc.Encode(e)
	})
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	if err := reader.Each(func(e log.Event) error {
		return cw.Write(csvRow(e))
	}); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

// csvRow flattens an event into csvHeader's columns.
func csvRow(e log.Event) []string {
	row := make([]string, len(csvHeader))
	row[0] = e.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	row[1] = e.SessionID
	row[2] = e.Direction.String()
	row[3] = e.Layer.String()
	row[4] = e.Category.String()
	row[5] = e.Model

	switch {
	case e.Packet != nil:
		row[6] = e.Packet.Command
		row[7] = strconv.Itoa(e.Packet.Size)
		row[8] = FormatHex(e.Packet.Data)
	case e.State != nil:
		s := e.State
		row[6] = s.Command
		row[9] = s.AmbientSoundMode
		row[10] = s.NoiseCancelingMode
		row[11] = s.TransparencyMode
		if s.CustomNoiseCanceling != nil {
			row[12] = strconv.Itoa(int(*s.CustomNoiseCanceling))
		}
		row[13] = s.EqualizerProfile
		offsets := make([]string, len(s.BandOffsets))
		for i, v := range s.BandOffsets {
			offsets[i] = strconv.Itoa(int(v))
		}
		row[14] = strings.Join(offsets, " ")
	case e.Error != nil:
		row[8] = e.Error.Message
	}
	return row
}
