package id

import (
	"sync"
	"time"
)

var (
	mu   sync.Mutex
	last int64
)

// NextOfferID returns the current unix-millisecond timestamp, bumped past the
// previously issued value when two offers land on the same millisecond.
func NextOfferID() int64 {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UnixMilli()
	if now <= last {
		now = last + 1
	}
	last = now
	return now
}
