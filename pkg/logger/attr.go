package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". Nil errors yield an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// RequestID records the request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records a duration under "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Key records a file key under "key".
func Key(key string) slog.Attr {
	return slog.String("key", key)
}

// Hash records a hex digest under "hash".
func Hash(hash string) slog.Attr {
	return slog.String("hash", hash)
}

// Hits records a cache entry's hit count.
func Hits(n int64) slog.Attr {
	return slog.Int64("hits", n)
}

// Size records a byte length.
func Size(n int64) slog.Attr {
	return slog.Int64("size", n)
}

// Cached records whether a result was served from the cache.
func Cached(ok bool) slog.Attr {
	return slog.Bool("cached", ok)
}

// Status records an HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int("status", code)
}
