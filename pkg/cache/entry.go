package cache

import (
	"math"
	"time"
)

// Entry is a cached digest and the bookkeeping used to score it.
type Entry struct {
	Key       string    `json:"key"`
	Hash      string    `json:"hash"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
	Hits      int64     `json:"hits"`
}

// Age returns how long ago the entry was created, relative to now.
func (e Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// Score returns the keep value of e at now: Hits * Size / age in seconds.
// Lower scores are evicted first. A non-positive age yields +Inf.
func Score(e Entry, now time.Time) float64 {
	age := e.Age(now).Seconds()
	if age <= 0 {
		return math.Inf(1)
	}
	return float64(e.Hits) * float64(e.Size) / age
}
