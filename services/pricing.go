package services

import (
	"math"
	"time"
)

// NightCount is the number of calendar-day boundaries between check-in and
// check-out: a stay from the 1st to the 4th is 3 nights.
func NightCount(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

// ToMinorUnits converts a decimal amount into integer minor currency units (paise, cents).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// ComputeTotal prices a stay. The addon is charged per night and only when it
// is both included and offered by the room.
func ComputeTotal(nights int, roomRate float64, addonRate *float64, addonIncluded bool) (float64, error) {
	minor, err := computeTotalMinor(nights, roomRate, addonRate, addonIncluded)
	if err != nil {
		return 0, err
	}
	return FromMinorUnits(minor), nil
}

func computeTotalMinor(nights int, roomRate float64, addonRate *float64, addonIncluded bool) (int64, error) {
	if nights <= 0 {
		return 0, newValidation("error.invalidNightCount", "a booking must cover at least one night")
	}
	if roomRate < 0 || (addonRate != nil && *addonRate < 0) {
		return 0, newValidation("error.invalidRate", "room rates cannot be negative")
	}
	total := int64(nights) * ToMinorUnits(roomRate)
	if addonIncluded && addonRate != nil {
		total += int64(nights) * ToMinorUnits(*addonRate)
	}
	return total, nil
}
