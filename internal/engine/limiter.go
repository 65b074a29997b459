package engine

import "time"

// FrameLimiter caps the frame rate of a render loop.
type FrameLimiter struct {
	FPS  int // 0 disables the limit
	next time.Time
}

// NewFrameLimiter creates a limiter for the given frame rate.
func NewFrameLimiter(fps int) *FrameLimiter {
	return &FrameLimiter{FPS: fps}
}

// Wait blocks until the next frame is due.
// Uses a hybrid sleep/spin approach for better precision on high FPS caps.
func (f *FrameLimiter) Wait() {
	if f.FPS <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(f.FPS)

	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
		if time.Until(f.next) <= 0 {
			break
		}
	}

	// If we're significantly late (e.g., hitch), resync to avoid drift
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
