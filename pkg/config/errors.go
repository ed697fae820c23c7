package config

import "errors"

var (
	ErrParsingConfig   = errors.New("failed to parse environment variables into config")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrConfigNotLoaded = errors.New("configuration has not been loaded")
	ErrNilPointer      = errors.New("nil pointer provided to config loader")
	ErrLoadingEnvFile  = errors.New("failed to load env file")
)
