package timeutil

import (
	"sync"
	"time"
)

// Warehouse timestamps are shown in a single configured zone. It defaults to
// Indian Standard Time.
var (
	mu   sync.RWMutex
	zone = loadOrFixed("Asia/Kolkata", 5*60*60+30*60)
)

func loadOrFixed(name string, offset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.FixedZone(name, offset)
	}
	return loc
}

// SetZone switches the display zone. An unknown name leaves it unchanged.
func SetZone(name string) error {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	mu.Lock()
	zone = loc
	mu.Unlock()
	return nil
}

func Zone() *time.Location {
	mu.RLock()
	defer mu.RUnlock()
	return zone
}

// Now returns the current time in the display zone.
func Now() time.Time {
	return time.Now().In(Zone())
}

func Format(t time.Time, layout string) string {
	return t.In(Zone()).Format(layout)
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
