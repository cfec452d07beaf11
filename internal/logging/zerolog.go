package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures NewZerologLogger.
type Options struct {
	Level       string
	Development bool
	Out         io.Writer
}

type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger builds a logger writing JSON to opts.Out (stdout when nil).
// Development switches to the human-readable console writer.
func NewZerologLogger(opts Options) *ZerologLogger {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	if opts.Development {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(ParseLevel(opts.Level))
	return &ZerologLogger{l: l}
}

// FromZerolog wraps an already configured zerolog.Logger.
func FromZerolog(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	z.write(z.l.Debug(), ctx, "debug", msg, args)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	z.write(z.l.Info(), ctx, "info", msg, args)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	z.write(z.l.Warn(), ctx, "warn", msg, args)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	z.write(z.l.Error(), ctx, "error", msg, args)
}

func (z *ZerologLogger) With(args ...any) Logger {
	args = z.checkFields("with", args)
	return &ZerologLogger{l: z.l.With().Fields(args).Logger()}
}

func (z *ZerologLogger) write(e *zerolog.Event, ctx context.Context, level, msg string, args []any) {
	if e == nil {
		return
	}
	args = z.checkFields(level, args)
	e.Ctx(ctx).Fields(args).Msg(msg)
}

// checkFields drops odd-length key/value lists instead of letting zerolog
// attach a dangling key.
func (z *ZerologLogger) checkFields(level string, args []any) []any {
	if len(args)%2 != 0 {
		z.l.Warn().
			Int("fields_count", len(args)).
			Str("log_level", level).
			Msg("odd number of log fields, fields ignored")
		return nil
	}
	return args
}

type nop struct{}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }

func (nop) Debug(context.Context, string, ...any) {}
func (nop) Info(context.Context, string, ...any)  {}
func (nop) Warn(context.Context, string, ...any)  {}
func (nop) Error(context.Context, string, ...any) {}
func (n nop) With(...any) Logger                  { return n }
