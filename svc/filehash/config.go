package filehash

import (
	"errors"
	"time"
)

// Config holds the pipeline settings loaded from the environment.
type Config struct {
	CacheCapacity    int           `env:"CACHE_CAPACITY" envDefault:"3"`
	MaxConcurrent    int           `env:"WORKER_MAX_CONCURRENT" envDefault:"10"`
	AdmissionTimeout time.Duration `env:"WORKER_ADMISSION_TIMEOUT" envDefault:"0s"` // 0 waits for a slot indefinitely
}

func (c Config) Validate() error {
	var errs []error
	if c.CacheCapacity <= 0 {
		errs = append(errs, errors.New("CACHE_CAPACITY must be positive"))
	}
	if c.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("WORKER_MAX_CONCURRENT must be positive"))
	}
	if c.AdmissionTimeout < 0 {
		errs = append(errs, errors.New("WORKER_ADMISSION_TIMEOUT must not be negative"))
	}
	return errors.Join(errs...)
}
