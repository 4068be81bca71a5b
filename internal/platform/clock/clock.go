package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the session loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }

func (s systemTicker) Stop() { s.t.Stop() }

const DateLayout = "2006-01-02"

// DayPair returns the calendar dates of now and the day before, in loc.
func DayPair(now time.Time, loc *time.Location) (today, yesterday string) {
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return local.Format(DateLayout), local.AddDate(0, 0, -1).Format(DateLayout)
}
