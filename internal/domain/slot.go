package domain

import "time"

// Slot is a discrete bookable interval [StartsAt, EndsAt)
type Slot struct {
	StartsAt time.Time
	EndsAt   time.Time
}

// Duration returns the slot length
func (s Slot) Duration() time.Duration {
	return s.EndsAt.Sub(s.StartsAt)
}

// IsValid returns true if the slot has a positive length
func (s Slot) IsValid() bool {
	return !s.StartsAt.IsZero() && s.StartsAt.Before(s.EndsAt)
}

// Overlaps reports interval intersection; touching intervals do not overlap
func (s Slot) Overlaps(other Slot) bool {
	return s.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(s.EndsAt)
}

// Contains reports whether other lies fully inside s
func (s Slot) Contains(other Slot) bool {
	return !other.StartsAt.Before(s.StartsAt) && !other.EndsAt.After(s.EndsAt)
}

// Equal compares instants, ignoring location
func (s Slot) Equal(other Slot) bool {
	return s.StartsAt.Equal(other.StartsAt) && s.EndsAt.Equal(other.EndsAt)
}

// AvailableSlot represents a slot available for booking with its headroom
type AvailableSlot struct {
	Slot
	AvailableSpots int // TotalSpots minus current occupancy
	TotalSpots     int // maxConcurrentClients of the governing window
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}
