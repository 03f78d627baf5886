package zaptec

import "time"

// Clock exists so tests can pin the current time when checking token expiry.
type Clock interface {
	UTCNow() time.Time
}

type RealClock struct{}

func (RealClock) UTCNow() time.Time {
	return time.Now().UTC()
}
