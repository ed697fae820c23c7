// Package config loads typed configuration structs from environment
// variables using github.com/caarlos0/env/v11 tags. A .env file in the
// working directory is read once through github.com/joho/godotenv before the
// first parse; variables already set in the process win.
//
// Load caches the parsed value per type, so every component asking for the
// same struct sees the same configuration. Types implementing Validator are
// checked after parsing and a failing check is reported as ErrInvalidConfig.
//
//	type CacheConfig struct {
//	    Capacity int `env:"CACHE_CAPACITY" envDefault:"3"`
//	}
//
//	var cfg CacheConfig
//	if err := config.Load(&cfg); err != nil {
//	    return err
//	}
package config
