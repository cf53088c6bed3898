// Package logging builds the hclog logger shared by wallhue commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Name is the root logger name.
const Name = "wallhue"

// Rotation limits for file output.
const (
	maxFileSizeMB  = 10
	maxFileBackups = 3
)

// Options configures New.
type Options struct {
	// Level is one of trace, debug, info, warn, error or off.
	Level string

	// File, when set, receives a rotated copy of every log line.
	File string

	// Verbose forces debug level; Quiet forces error level. Verbose wins.
	Verbose bool
	Quiet   bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// ParseLevel maps a level name to an hclog level. The empty string is info.
func ParseLevel(s string) (hclog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return hclog.Info, nil
	case "off":
		return hclog.Off, nil
	}
	level := hclog.LevelFromString(s)
	if level == hclog.NoLevel {
		return hclog.NoLevel, fmt.Errorf("invalid log level %q: must be one of trace, debug, info, warn, error, off", s)
	}
	return level, nil
}

// New returns a logger and a closer for any file it opened. The closer is
// never nil.
func New(opts Options) (hclog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case opts.Verbose:
		level = hclog.Debug
	case opts.Quiet:
		level = hclog.Error
	}

	output := opts.Output
	if output == nil {
		output = os.Stderr
	}

	// hclog can only colourise *os.File writers.
	color := hclog.ColorOff
	if _, ok := output.(*os.File); ok {
		color = hclog.AutoColor
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxFileSizeMB,
			MaxBackups: maxFileBackups,
		}
		output = io.MultiWriter(output, rotator)
		closer = rotator
		color = hclog.ColorOff
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   Name,
		Level:  level,
		Output: output,
		Color:  color,
	})
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
