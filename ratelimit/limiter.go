package ratelimit

import (
	"sync"
	"time"

	"github.com/wireline-dev/wireline/config"
	"github.com/wireline-dev/wireline/wire"
)

// DefaultBucket groups every route not tagged with a named bucket.
const DefaultBucket = "default"

// Limitable is the capability an authenticated principal implements to be
// rate-limited by its own identity instead of its address.
type Limitable interface {
	RateLimitKey() string
}

type record struct {
	stamps       []time.Time
	limitedUntil time.Time
}

// Limiter tracks request timestamps per (bucket, identity) pair and computes
// sliding-window admission decisions. Safe for concurrent use; the
// read-append-evict-compare sequence is atomic per key, so two concurrent
// requests to the same key can never both slip through a one-slot gap.
type Limiter struct {
	mu      sync.Mutex
	records map[key]*record
	cfg     config.RateLimit
	now     func() time.Time
}

type key struct {
	bucket   string
	identity string
}

func New(cfg config.RateLimit) *Limiter {
	return &Limiter{
		records: make(map[key]*record),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Identity resolves the identity key of a request: the rate-limitable
// principal if one is attached, the effective remote address otherwise. The
// resolution is deterministic per request.
func Identity(request *wire.Request) string {
	if limitable, ok := request.Principal.(Limitable); ok {
		return limitable.RateLimitKey()
	}

	return request.Effective.String()
}

// Violates decides whether admitting a request for the identity in the
// bucket would break the bucket's quota, recording the request if not. A key
// under an active lockout is rejected without consuming a timestamp slot.
func (l *Limiter) Violates(bucket, identity string) bool {
	if bucket == "" {
		bucket = DefaultBucket
	}

	quota := l.quota(bucket)
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	k := key{bucket: bucket, identity: identity}
	rec := l.records[k]
	if rec == nil {
		rec = new(record)
		l.records[k] = rec
	}

	if now.Before(rec.limitedUntil) {
		return true
	}

	rec.stamps = append(rec.stamps, now)
	rec.evict(now.Add(-quota.Window))

	if len(rec.stamps) > quota.Max {
		rec.limitedUntil = now.Add(quota.Penalty)
		return true
	}

	return false
}

func (l *Limiter) quota(bucket string) config.Quota {
	if quota, found := l.cfg.Buckets[bucket]; found {
		return quota
	}

	return l.cfg.Default
}

// evict drops timestamps older than the window boundary. Stamps are
// append-ordered, so the survivors are always a suffix.
func (r *record) evict(boundary time.Time) {
	for i, stamp := range r.stamps {
		if stamp.After(boundary) {
			r.stamps = append(r.stamps[:0], r.stamps[i:]...)
			return
		}
	}

	r.stamps = r.stamps[:0]
}
