package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	cblog "github.com/charmbracelet/log"

	"github.com/alexisbeaulieu97/brandkit/internal/ports"
)

// Output formats understood by New.
const (
	FormatConsole = "console"
	FormatLogfmt  = "logfmt"
	FormatJSON    = "json"
)

// DefaultComponent tags entries from loggers that were never scoped with With.
const DefaultComponent = "cli"

// Options configures the charmbracelet/log adapter.
type Options struct {
	// Writer defaults to stderr so command output on stdout stays clean.
	Writer     io.Writer
	Level      string
	Format     string
	TimeFormat string
	// Command is the brandkit subcommand being run, e.g. "set color".
	Command   string
	Component string
}

// Logger implements ports.Logger using charmbracelet/log. Persistent fields
// are kept deduplicated so a child's component replaces its parent's.
type Logger struct {
	base   *cblog.Logger
	fields []interface{}
}

// New creates a Logger adapter with the supplied options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	formatter, err := parseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		TimeFormat:      opts.TimeFormat,
		ReportTimestamp: opts.TimeFormat != "",
		Formatter:       formatter,
	})

	component := opts.Component
	if component == "" {
		component = DefaultComponent
	}
	fields := []interface{}{"component", component}
	if opts.Command != "" {
		fields = append(fields, "command", opts.Command)
	}
	return &Logger{base: base, fields: fields}, nil
}

// ParseLevel maps a configured level name to a charm level. The empty string
// means info; "warning" is accepted for warn.
func ParseLevel(name string) (cblog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return cblog.InfoLevel, nil
	case "warning":
		return cblog.WarnLevel, nil
	}
	level, err := cblog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return 0, fmt.Errorf("parse log level: %w", err)
	}
	return level, nil
}

func parseFormat(name string) (cblog.Formatter, error) {
	switch strings.ToLower(name) {
	case "", FormatConsole:
		return cblog.TextFormatter, nil
	case FormatLogfmt:
		return cblog.LogfmtFormatter, nil
	case FormatJSON:
		return cblog.JSONFormatter, nil
	default:
		return 0, fmt.Errorf("unknown log format %q", name)
	}
}

// Debug emits a debug log entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.DebugLevel, msg, fields)
}

// Info emits an info log entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.InfoLevel, msg, fields)
}

// Warn emits a warning log entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.WarnLevel, msg, fields)
}

// Error emits an error log entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.ErrorLevel, msg, fields)
}

// With derives a logger carrying fields on every entry.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return Discard
	}
	return &Logger{base: l.base, fields: MergeFields(l.fields, fields)}
}

func (l *Logger) log(ctx context.Context, level cblog.Level, msg string, fields []interface{}) {
	if l == nil || l.base == nil {
		return
	}
	var correlation []interface{}
	if id := ports.GetCorrelationID(ctx); id != "" {
		correlation = []interface{}{"correlation_id", id}
	}
	l.base.Log(level, msg, MergeFields(l.fields, fields, correlation)...)
}

var _ ports.Logger = (*Logger)(nil)
