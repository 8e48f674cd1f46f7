package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

var logger = zap.NewNop()

// Init replaces the process logger. Production uses the JSON encoder unless
// DEBUG=true is set.
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" && os.Getenv("DEBUG") != "true" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// Set swaps the process logger, mainly for tests.
func Set(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

func L() *zap.Logger {
	return logger
}

func Sync() {
	_ = logger.Sync()
}

// WithRequestID stores id on ctx for WithCtx to pick up.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func WithCtx(ctx context.Context) *zap.Logger {
	if id := RequestID(ctx); id != "" {
		return logger.With(zap.String("request_id", id))
	}
	return logger
}

func With(fields ...zap.Field) *zap.Logger {
	return logger.With(fields...)
}
