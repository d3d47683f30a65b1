package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// WithTestEffectHandler installs a log handler writing development-formatted
// lines to stdout at debug level.
func WithTestEffectHandler(
	ctx context.Context,
) (context.Context, func() context.Context) {
	consoleCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zap.DebugLevel,
	)
	return WithZapEffectHandler(
		ctx,
		16,
		zap.New(consoleCore),
	)
}

// WithObservedEffectHandler installs a log handler whose entries can be
// inspected through the returned ObservedLogs.
func WithObservedEffectHandler(
	ctx context.Context,
) (context.Context, func() context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	ctx, end := WithZapEffectHandler(ctx, 16, zap.New(core))
	return ctx, end, logs
}
