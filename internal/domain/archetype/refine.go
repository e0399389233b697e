package archetype

import (
	"fmt"
	"time"

	"github.com/auxcord/auxcord/internal/domain/window"
)

// Refinement cutoffs. Long windows get day-of-week framing, the day window
// gets time-of-day framing; everything between keeps the plain title.
const (
	dayOfWeekMinWindow = 5 * 24 * time.Hour

	weekdaySkewFraction   = 0.45
	weekendSkewFraction   = 0.6
	timeOfDaySkewFraction = 0.5
	refineMinReactions    = 3
)

// RefineTitle applies the contextual-title refinement. It only rewrites the
// display title; the matched archetype identity is decided before this step
// and never changes here.
func RefineTitle(base string, reactedAts []time.Time, w window.Window) string {
	if len(reactedAts) < refineMinReactions {
		return base
	}

	d := w.Duration()
	long := d == 0 || d > dayOfWeekMinWindow
	switch {
	case long:
		return refineByWeekday(base, reactedAts)
	case d <= 24*time.Hour:
		return refineByHour(base, reactedAts)
	default:
		return base
	}
}

func refineByWeekday(base string, reactedAts []time.Time) string {
	counts := make(map[time.Weekday]int)
	weekend := 0
	for _, t := range reactedAts {
		wd := t.Weekday()
		counts[wd]++
		if wd == time.Saturday || wd == time.Sunday {
			weekend++
		}
	}

	n := float64(len(reactedAts))
	var topDay time.Weekday
	top := 0
	for wd, c := range counts {
		if c > top || (c == top && wd < topDay) {
			top = c
			topDay = wd
		}
	}
	if float64(top)/n >= weekdaySkewFraction {
		return fmt.Sprintf("%s %s", topDay.String(), base)
	}
	if float64(weekend)/n >= weekendSkewFraction {
		return "Weekend " + base
	}
	return base
}

func refineByHour(base string, reactedAts []time.Time) string {
	lateNight, earlyMorning := 0, 0
	for _, t := range reactedAts {
		switch h := t.Hour(); {
		case h >= 22 || h < 4:
			lateNight++
		case h >= 5 && h < 9:
			earlyMorning++
		}
	}

	n := float64(len(reactedAts))
	if float64(lateNight)/n >= timeOfDaySkewFraction {
		return "After Hours " + base
	}
	if float64(earlyMorning)/n >= timeOfDaySkewFraction {
		return "Early Bird " + base
	}
	return base
}
