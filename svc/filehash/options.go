package filehash

import (
	"log/slog"

	"github.com/dmitrymomot/filehash/pkg/cache"
)

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEvictor adds the evictor's counters to Stats.
func WithEvictor(ev *cache.Evictor) Option {
	return func(s *Service) {
		s.evictor = ev
	}
}
