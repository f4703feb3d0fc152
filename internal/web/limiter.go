package web

// limiter.go bounds how many uploads are decoded and normalized at once.
// A request that cannot get a slot within maxWait fails with
// ErrTooManyUploads. Shutdown uses WaitForDrain to let active uploads finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyUploads is returned when every upload slot stays busy for longer
// than the limiter's wait time.
var ErrTooManyUploads = errors.New("too many uploads in progress")

const (
	defaultMaxConcurrentUploads = 4
	defaultMaxWaitTime          = 10 * time.Second
)

// UploadLimiter is a counting semaphore over upload processing.
type UploadLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
}

// NewUploadLimiter allows at most maxConcurrent uploads at a time. Non-positive
// arguments fall back to the defaults.
func NewUploadLimiter(maxConcurrent int, maxWait time.Duration) *UploadLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrentUploads
	}
	if maxWait <= 0 {
		maxWait = defaultMaxWaitTime
	}
	return &UploadLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to the limiter's wait time. The caller
// must Release a slot it acquired.
func (l *UploadLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil
	case <-timer.C:
		return ErrTooManyUploads
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot taken by Acquire.
func (l *UploadLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	<-l.slots
}

// Active returns the number of uploads holding a slot.
func (l *UploadLimiter) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Available returns the number of free slots.
func (l *UploadLimiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// WaitForDrain blocks until no upload holds a slot or ctx is done.
func (l *UploadLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if l.Active() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
