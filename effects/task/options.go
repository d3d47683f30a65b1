package task

import (
	"go.uber.org/zap"

	"github.com/on-the-ground/boundrun/shared/metrics"
)

type options struct {
	logger  *zap.Logger
	metrics *metrics.Executor
}

type Option func(*options)

// WithLogger logs one debug line per run. The default logger discards.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics reports admissions and settlements to m.
func WithMetrics(m *metrics.Executor) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
