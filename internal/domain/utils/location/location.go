package location

import (
	"sync/atomic"
	"time"
)

var current atomic.Pointer[time.Location]

// Load sets the campus time zone (settings.timezone). An empty name keeps UTC.
func Load(name string) error {
	if name == "" {
		current.Store(time.UTC)
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	current.Store(loc)
	return nil
}

// Location returns the campus time zone, UTC until Load is called.
func Location() *time.Location {
	if loc := current.Load(); loc != nil {
		return loc
	}
	return time.UTC
}
