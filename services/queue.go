package services

import (
	"sync"
	"time"

	"online-canteen-api/models"
)

// shopLocks serializes order placement per shop inside this process. The
// counter row in the store covers other processes.
type shopLocks struct {
	locks sync.Map // map[uint]*sync.Mutex
}

func (l *shopLocks) lock(shopID uint) (unlock func()) {
	v, _ := l.locks.LoadOrStore(shopID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// DayBounds returns the first and last instant of t's calendar day in loc
func DayBounds(t time.Time, loc *time.Location) (start, end time.Time) {
	t = t.In(loc)
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

// QueueDay is the key a queue number is scoped to
func QueueDay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(models.QueueDayLayout)
}
