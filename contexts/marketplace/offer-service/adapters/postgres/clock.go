package postgresadapter

import "time"

// SystemClock reports UTC time at millisecond precision, the finest unit BSON
// dates keep, so every storage driver returns the timestamps it was given.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
