// Package logging is a thin, context-scoped logging layer. The Logger
// interface mirrors zap's SugaredLogger so applications can plug in their own
// zap instance, or anything that looks like one.
package logging

import "context"

type ctxkey struct {
	logger Logger
}

// With attaches a logger to the context. Each inbound request gets its own
// scope so that fields tracked during authentication don't leak between
// requests:
//
//	ctx = logging.With(ctx, logger.Named("ezauth").With("request_id", id))
func With(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, ctxkey{}, &ctxkey{
		logger: logger,
	})
}

// FromContext returns the scoped logger, or a no-op logger if none was
// attached.
func FromContext(ctx context.Context) Logger {
	if l, ok := Scoped(ctx); ok {
		return l
	}
	return NewNopLogger()
}

// Scoped returns the logger attached to the context, if there is one.
func Scoped(ctx context.Context) (Logger, bool) {
	c, ok := ctx.Value(ctxkey{}).(*ctxkey)
	if ok && c.logger != nil {
		return c.logger, true
	}
	return nil, false
}

// Track a field across the lifetime of the context. Tracked values persist
// back up the call-chain to whoever created the scope, which is how the
// authenticated user id ends up on the request log line.
func Track(ctx context.Context, field string, value interface{}) {
	c, ok := ctx.Value(ctxkey{}).(*ctxkey)
	if ok && c.logger != nil {
		c.logger = c.logger.With(field, value)
	}
}

// Logger provides an abstract logging interface designed around uber-go/zap's
// sugared logger.
type Logger interface {
	Debug(args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Debugf(msg string, args ...interface{})
	Info(args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Infof(msg string, args ...interface{})
	Warn(args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Warnf(msg string, args ...interface{})
	Error(args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Errorf(msg string, args ...interface{})

	// Named creates a child logger with the given name.
	Named(name string) Logger

	// With creates a child logger and attaches structured context to it.
	With(field string, value interface{}) Logger
}

func Debugw(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Debugw(msg, fields...)
}

func Infow(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Infow(msg, fields...)
}

func Warnw(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Warnw(msg, fields...)
}

func Errorw(ctx context.Context, msg string, fields ...interface{}) {
	FromContext(ctx).Errorw(msg, fields...)
}
