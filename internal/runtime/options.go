package runtime

import (
	"log/slog"

	"github.com/aretw0/thicket/pkg/domain"
)

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the structured logger. Nil keeps the current one.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) BuilderOption {
	return func(b *Builder) {
		b.hooks = hooks
	}
}

// WithParallelism builds up to n root subtrees concurrently. Values below 2
// select the sequential builder.
func WithParallelism(n int) BuilderOption {
	return func(b *Builder) {
		b.parallelism = n
	}
}
