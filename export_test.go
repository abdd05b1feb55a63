package ezauth

import "time"

// StubTime replaces the clock used for token validation until the returned
// function is called.
func StubTime(f func() time.Time) func() {
	timeFunc = f
	return func() {
		timeFunc = time.Now
	}
}
