package models

import (
	"time"
)

// VenueConfig holds venue-wide seating limits and operating hours.
// At most one logical row exists; it is created lazily with defaults.
type VenueConfig struct {
	ID          int64     `db:"id"`
	MaxCapacity int       `db:"max_capacity"`
	MaxTables   int       `db:"max_tables"`
	OpenHour    int       `db:"open_hour"`
	CloseHour   int       `db:"close_hour"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// AvailableCapacity returns the seats left given current occupancy, floored at zero.
func (vc *VenueConfig) AvailableCapacity(occupancy int) int {
	remaining := vc.MaxCapacity - occupancy
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CanAccommodate checks whether n additional occupants fit within max capacity.
func (vc *VenueConfig) CanAccommodate(occupancy, n int) bool {
	return occupancy+n <= vc.MaxCapacity
}
