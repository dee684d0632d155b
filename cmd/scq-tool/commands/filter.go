package commands

import (
	"fmt"
	"time"

	"github.com/scq-protocol/scq-go/pkg/log"
	"github.com/scq-protocol/scq-go/pkg/model"
	"github.com/scq-protocol/scq-go/pkg/wire"
)

// FilterOptions holds filter flags as given on the command line.
type FilterOptions struct {
	SessionID string
	Model     string
	Command   string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
	Ambient   string
}

// BuildFilter validates command-line options and converts them to a log filter.
func BuildFilter(opts FilterOptions) (log.Filter, error) {
	f := log.Filter{SessionID: opts.SessionID, Model: opts.Model}

	if opts.Command != "" {
		cmd, err := wire.ParseCommand(opts.Command)
		if err != nil {
			return log.Filter{}, err
		}
		f.Command = cmd.String()
	}
	if opts.Ambient != "" {
		m, err := model.ParseAmbientSoundModeName(opts.Ambient)
		if err != nil {
			return log.Filter{}, err
		}
		f.AmbientSoundMode = m.String()
	}

	var err error
	if f.TimeStart, err = parseTimeFlag("time-start", opts.TimeStart); err != nil {
		return log.Filter{}, err
	}
	if f.TimeEnd, err = parseTimeFlag("time-end", opts.TimeEnd); err != nil {
		return log.Filter{}, err
	}

	if opts.Layer != "" {
		l, err := ParseLayerFlag(opts.Layer)
		if err != nil {
			return log.Filter{}, err
		}
		f.Layer = &l
	}
	if opts.Direction != "" {
		d, err := ParseDirectionFlag(opts.Direction)
		if err != nil {
			return log.Filter{}, err
		}
		f.Direction = &d
	}
	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return log.Filter{}, err
		}
		f.Category = &c
	}
	return f, nil
}

func parseTimeFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &t, nil
}

// RunFilter copies the events of path selected by filter into a new log
// file at output and returns how many were copied.
func RunFilter(path, output string, filter log.Filter) (int, error) {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	n := 0
	readErr := reader.Each(func(e log.Event) error {
		logger.Log(e)
		n++
		return nil
	})
	closeErr := logger.Close()

	switch {
	case readErr != nil:
		return n, fmt.Errorf("failed to read event: %w", readErr)
	case closeErr != nil:
		return n, fmt.Errorf("failed to close output: %w", closeErr)
	case logger.Dropped() > 0:
		return n, fmt.Errorf("failed to write %d of %d events", logger.Dropped(), n)
	}
	return n, nil
}
