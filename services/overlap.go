package services

import "time"

// DateRange is a booked stay. Only the calendar dates matter: the start is read
// as the beginning of its day and the end as the end of its day, whatever the
// offset the value carries.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// CalendarDate keeps the calendar date of t as written in its own location and
// returns it as midnight UTC. Stored and requested dates share this form.
func CalendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfDay(t time.Time) time.Time {
	return CalendarDate(t)
}

func endOfDay(t time.Time) time.Time {
	return CalendarDate(t).Add(24*time.Hour - time.Nanosecond)
}

// within reports whether t lies in [start, end], both ends inclusive.
func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// ValidateRange rejects inverted and zero-length ranges.
func ValidateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return newValidation("error.datesRequired", "start and end dates are required")
	}
	if !startOfDay(end).After(startOfDay(start)) {
		return newValidation("error.invalidDateRange", "end date must be after start date")
	}
	return nil
}

// HasOverlap reports whether [start, end] shares at least one calendar day with
// any of the existing ranges. It stops at the first conflicting range.
func HasOverlap(start, end time.Time, existing []DateRange) (bool, error) {
	if err := ValidateRange(start, end); err != nil {
		return false, err
	}
	candStart := startOfDay(start)
	candEnd := endOfDay(end)

	for _, r := range existing {
		if err := ValidateRange(r.StartDate, r.EndDate); err != nil {
			return false, err
		}
		rangeStart := startOfDay(r.StartDate)
		rangeEnd := endOfDay(r.EndDate)

		if within(candStart, rangeStart, rangeEnd) ||
			within(candEnd, rangeStart, rangeEnd) ||
			(candStart.Before(rangeStart) && candEnd.After(rangeEnd)) {
			return true, nil
		}
	}
	return false, nil
}
