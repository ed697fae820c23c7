package workerpool

import (
	"log/slog"
	"time"
)

// Option configures a Pool.
type Option func(*Pool)

// WithAdmissionTimeout bounds how long Acquire waits for a slot.
// Zero or negative means wait until the caller's context is done.
func WithAdmissionTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.admissionTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}
