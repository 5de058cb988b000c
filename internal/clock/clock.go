package clock

import "time"

// Clock abstracts wall-clock access so status refreshes and report
// defaults are deterministic under test.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
