package services

import "time"

// Clock supplies the current time. Every expiry decision in the engine goes
// through a Clock so tests can advance time deterministically.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }
