package clock

import "time"

// Clock abstracts time.Now so invoice numbers and dates are reproducible in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
