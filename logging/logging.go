package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tarmac-project/fetchmock/host"
)

const capabilityName = "logging"

// Field is a key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value string
}

// F builds a Field.
func F(key, value string) Field { return Field{Key: key, Value: value} }

// Client exposes leveled logging helpers.
type Client interface {
	Info(message string, fields ...Field)
	Warn(message string, fields ...Field)
	Error(message string, fields ...Field)
	Debug(message string, fields ...Field)
	Trace(message string, fields ...Field)
}

// Config controls how a Client writes entries.
type Config struct {
	// Writer receives JSON log lines. Defaults to os.Stderr.
	Writer io.Writer

	// Level is the minimum level written, as understood by zerolog.ParseLevel.
	// Empty means "info".
	Level string

	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig host.RuntimeConfig

	// HostCall, when set, forwards entries to the host logging capability
	// instead of Writer.
	HostCall host.Call
}

// client implements Client on top of a zerolog.Logger.
type client struct {
	log zerolog.Logger
}

// New creates a Client from cfg.
func New(cfg Config) (Client, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var w io.Writer = os.Stderr
	if cfg.Writer != nil {
		w = cfg.Writer
	}
	if cfg.HostCall != nil {
		w = &hostWriter{runtime: cfg.SDKConfig.WithDefaults(), hostCall: cfg.HostCall}
	}

	return &client{log: zerolog.New(w).Level(level).With().Timestamp().Str("component", "fetchmock").Logger()}, nil
}

// Nop returns a Client that discards everything.
func Nop() Client {
	return &client{log: zerolog.Nop()}
}

func (c *client) Info(message string, fields ...Field) {
	c.write(c.log.Info(), message, fields)
}

func (c *client) Warn(message string, fields ...Field) {
	c.write(c.log.Warn(), message, fields)
}

func (c *client) Error(message string, fields ...Field) {
	c.write(c.log.Error(), message, fields)
}

func (c *client) Debug(message string, fields ...Field) {
	c.write(c.log.Debug(), message, fields)
}

func (c *client) Trace(message string, fields ...Field) {
	c.write(c.log.Trace(), message, fields)
}

func (c *client) write(e *zerolog.Event, message string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range fields {
		e = e.Str(f.Key, f.Value)
	}
	e.Msg(message)
}

// hostWriter forwards each zerolog entry to the host logging capability.
type hostWriter struct {
	runtime  host.RuntimeConfig
	hostCall host.Call
}

// Write implements io.Writer for entries without a level.
func (w *hostWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.NoLevel, p)
}

// WriteLevel implements zerolog.LevelWriter.
func (w *hostWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	_, _ = w.hostCall(w.runtime.Namespace, capabilityName, hostFunction(l), append([]byte(nil), p...))
	return len(p), nil
}

// hostFunction maps a zerolog level onto the host logging function name.
func hostFunction(l zerolog.Level) string {
	switch l {
	case zerolog.TraceLevel:
		return "Trace"
	case zerolog.DebugLevel:
		return "Debug"
	case zerolog.WarnLevel:
		return "Warn"
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return "Error"
	default:
		return "Info"
	}
}
