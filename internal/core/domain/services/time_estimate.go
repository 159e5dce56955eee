package services

import (
	"fmt"
	"math"
	"time"

	"parcelbridge/internal/core/domain/model/journey"
)

const minutesPerDay = 24 * 60

// clockAt returns the minute of day at fraction frac of the way from departure to
// arrival. An arrival earlier than departure is taken as the next day.
func clockAt(departure, arrival string, frac float64) (int, error) {
	dep, err := time.Parse(journey.ClockLayout, departure)
	if err != nil {
		return 0, fmt.Errorf("departure time: %w", err)
	}
	arr, err := time.Parse(journey.ClockLayout, arrival)
	if err != nil {
		return 0, fmt.Errorf("arrival time: %w", err)
	}

	depMin := dep.Hour()*60 + dep.Minute()
	arrMin := arr.Hour()*60 + arr.Minute()
	span := arrMin - depMin
	if span < 0 {
		span += minutesPerDay
	}

	frac = math.Max(0, math.Min(1, frac))
	at := depMin + int(math.Round(frac*float64(span)))
	return at % minutesPerDay, nil
}

// formatWindow renders "Around HH:MM - HH:MM" starting at minute-of-day start.
func formatWindow(start int, window time.Duration) string {
	end := (start + int(window/time.Minute)) % minutesPerDay
	return fmt.Sprintf("Around %s - %s", formatClock(start), formatClock(end))
}

func formatClock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}
