package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Validator is implemented by configs with cross-field rules.
type Validator interface {
	Validate() error
}

type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v. The first successful result for
// type T is cached and returned by later calls.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})

	name := typeName[T]()

	if cached, ok := globalCache.get(name); ok {
		*v = cached.(T)
		return nil
	}

	globalCache.mu.Lock()
	once, exists := globalCache.onces[name]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[name] = once
	}
	globalCache.mu.Unlock()

	var err error
	once.Do(func() {
		if err = Parse(v); err != nil {
			// Allow a retry once the environment is fixed.
			globalCache.mu.Lock()
			delete(globalCache.onces, name)
			globalCache.mu.Unlock()
			return
		}
		globalCache.mu.Lock()
		globalCache.values[name] = *v
		globalCache.mu.Unlock()
	})
	if err != nil {
		return err
	}

	if cached, ok := globalCache.get(name); ok {
		*v = cached.(T)
		return nil
	}
	return ErrConfigNotLoaded
}

// Parse fills v from the environment and validates it without touching the
// cache.
func Parse[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	if val, ok := any(v).(Validator); ok {
		if err := val.Validate(); err != nil {
			return errors.Join(ErrInvalidConfig, err)
		}
	}
	return nil
}

// MustLoad works like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the given env files into the process environment without
// overriding variables that are already set.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// ResetCache forgets every cached config. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	globalCache.values = make(map[string]any)
	globalCache.onces = make(map[string]*sync.Once)
}

func (c *configCache) get(name string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[name]
	return v, ok
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
