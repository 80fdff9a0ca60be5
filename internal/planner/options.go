package planner

import "time"

type settings struct {
	now func() time.Time
	loc *time.Location
}

// Option configures the clock and calendar zone shared by the services.
type Option func(*settings)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		s.now = now
	}
}

// WithLocation sets the zone used for calendar-day boundaries and for due
// dates submitted without a UTC offset.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
