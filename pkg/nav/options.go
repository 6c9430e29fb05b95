package nav

import "log/slog"

// hubOptions configures Hub construction.
type hubOptions struct {
	initialPath string
	logger      *slog.Logger
}

// Option is a functional option for NewHub.
type Option func(*hubOptions)

// WithInitialPath sets the location the hub starts at. Defaults to "/".
func WithInitialPath(path string) Option {
	return func(o *hubOptions) {
		o.initialPath = path
	}
}

// WithLogger sets the hub's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *hubOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NavigateOptions configures a single navigation.
type NavigateOptions struct {
	// Replace replaces the current history entry instead of pushing.
	Replace bool
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}
