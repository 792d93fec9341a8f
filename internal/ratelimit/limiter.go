// Package ratelimit throttles repeated attempts per identifier with a
// sliding counting window and a separate lockout penalty.
package ratelimit

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// DefaultLockout is the penalty applied once an identifier exhausts its
// attempts.
const DefaultLockout = 15 * time.Minute

// Result is the outcome of Check.
type Result struct {
	Allowed     bool
	WaitMinutes int
	Message     string
}

type record struct {
	attempts      []time.Time
	lockoutExpiry time.Time
}

// Limiter keeps attempt history in memory only. The counting window is
// passed per call; the lockout duration is fixed per Limiter.
type Limiter struct {
	mu      sync.Mutex
	lockout time.Duration
	records map[string]*record
	now     func() time.Time
}

func New(lockout time.Duration) *Limiter {
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &Limiter{
		lockout: lockout,
		records: make(map[string]*record),
		now:     time.Now,
	}
}

func Default() *Limiter {
	return New(DefaultLockout)
}

// WithClock replaces the time source. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
	return l
}

// Check records an attempt for id unless it is locked out or has already
// made maxAttempts attempts within window.
func (l *Limiter) Check(id string, maxAttempts int, window time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	rec, ok := l.records[id]
	if !ok {
		rec = &record{}
		l.records[id] = rec
	}

	if !rec.lockoutExpiry.IsZero() {
		if now.Before(rec.lockoutExpiry) {
			return denied(rec.lockoutExpiry.Sub(now))
		}
		rec.lockoutExpiry = time.Time{}
	}

	cutoff := now.Add(-window)
	kept := rec.attempts[:0]
	for _, at := range rec.attempts {
		if at.After(cutoff) {
			kept = append(kept, at)
		}
	}
	rec.attempts = kept

	if len(rec.attempts) >= maxAttempts {
		rec.lockoutExpiry = now.Add(l.lockout)
		return denied(l.lockout)
	}

	rec.attempts = append(rec.attempts, now)
	return Result{Allowed: true}
}

// Reset forgets every attempt and lockout for id.
func (l *Limiter) Reset(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, id)
}

func denied(remaining time.Duration) Result {
	minutes := int(math.Ceil(remaining.Minutes()))
	if minutes < 1 {
		minutes = 1
	}
	return Result{
		Allowed:     false,
		WaitMinutes: minutes,
		Message:     fmt.Sprintf("Too many attempts. Please try again in %d minutes.", minutes),
	}
}
