package core

import (
	"go.uber.org/zap"
)

// Option sets options for the store engine
type Option func(*Settings)

// Settings defines various settings for the store engine
type Settings struct {
	l               *zap.Logger
	kind            string
	metricsEnabled  bool
	latestOnSuccess bool
}

const defaultKind = "item"

// WithLogger sets a zap logger for the engine. It defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Settings) {
		if l != nil {
			s.l = l
		}
	}
}

// WithKind sets the item-type label carried by engine errors and logs
// (e.g. "model", "artifact"). It defaults to "item".
func WithKind(kind string) Option {
	return func(s *Settings) {
		if kind != "" {
			s.kind = kind
		}
	}
}

// WithMetrics toggles opencensus metrics collection on engine operations
func WithMetrics(enabled bool) Option {
	return func(s *Settings) {
		s.metricsEnabled = enabled
	}
}

// WithLatestOnSuccess makes registration update the latest pointer only
// when population succeeded.
//
// By default the pointer is updated on every exit path, including failed
// population, reproducing the historical store behavior.
func WithLatestOnSuccess() Option {
	return func(s *Settings) {
		s.latestOnSuccess = true
	}
}

func defaultSettings() Settings {
	return Settings{
		l:    zap.NewNop(),
		kind: defaultKind,
	}
}
