package services

import "time"

// Clock reports the current time in the application zone. Calendar-day
// decisions use that zone.
type Clock struct {
	Loc     *time.Location
	NowFunc func() time.Time
}

func SystemClock(loc *time.Location) Clock {
	return Clock{Loc: loc}
}

func (c Clock) Now() time.Time {
	now := time.Now()
	if c.NowFunc != nil {
		now = c.NowFunc()
	}
	if c.Loc != nil {
		now = now.In(c.Loc)
	}
	return now
}
