package logging

import (
	"context"
	"reflect"

	"github.com/gooby/ezauth/errors"
	grpc_middleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
)

const stackSize = 5

// Interceptor returns a GRPC logging interceptor. Each RPC gets its own scope,
// named after the method, so values recorded with Track end up on the RPC's
// log line.
func Interceptor(logger Logger) grpc.UnaryServerInterceptor {
	scope := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		base, ok := Scoped(ctx)
		if !ok {
			base = logger
		}
		return handler(With(ctx, base.Named(info.FullMethod)), req)
	}
	return grpc_middleware.ChainUnaryServer(scope, grpcLoggingInterceptor, errorInterceptor)
}

// Adds extra error fields to the logging context.
func errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		// Recover from panics, wrap them in an error so we can get a clean stack.
		if r := recover(); r != nil {
			Track(ctx, "error.panic", true)
			err = errors.Wrap(r, 3)
			resp = nil
		}

		if err != nil {
			trackError(ctx, err)
		}
	}()

	resp, err = handler(ctx, req)
	return
}

func trackError(ctx context.Context, err error) {
	Track(ctx, "error.type", reflect.TypeOf(err).String())
	Track(ctx, "error.code", errors.Code(err).String())
	Track(ctx, "error.http_status", errors.HTTPStatusCode(err))

	// Add a minimalist stack trace to the log.
	var e *errors.Error
	if errors.As(err, &e) {
		Track(ctx, "error.stack_trace", e.MinimalStack(0, stackSize))
		Track(ctx, "error.original_type", e.TypeName())
	}
}

// Standard interceptor from the GRPC Logging middleware.
var grpcLoggingInterceptor = grpc_logging.UnaryServerInterceptor(grpc_logging.LoggerFunc(func(ctx context.Context, lvl grpc_logging.Level, msg string, fields ...any) {
	logger := FromContext(ctx)

	if z, ok := logger.(*ZapLogger); ok {
		// Only keep zap's stack traces for panics. The interceptor's own stack
		// isn't useful, errors carry theirs as a field.
		logger = &ZapLogger{z: z.z.Desugar().WithOptions(
			zap.AddStacktrace(zapcore.PanicLevel),
		).Sugar()}
	}

	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		logger = logger.With(key, fields[i+1])
	}

	switch lvl {
	case grpc_logging.LevelDebug:
		logger.Debug(msg)
	case grpc_logging.LevelInfo:
		logger.Info(msg)
	case grpc_logging.LevelWarn:
		logger.Warn(msg)
	default:
		logger.Error(msg)
	}
}))
