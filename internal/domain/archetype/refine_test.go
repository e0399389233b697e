package archetype_test

import (
	"testing"
	"time"

	"github.com/auxcord/auxcord/internal/domain/archetype"
	"github.com/auxcord/auxcord/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func timesAt(hours []int, weekday time.Weekday) []time.Time {
	// 2025-06-02 is a Monday.
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for base.Weekday() != weekday {
		base = base.AddDate(0, 0, 1)
	}
	var out []time.Time
	for _, h := range hours {
		out = append(out, base.Add(time.Duration(h)*time.Hour))
	}
	return out
}

func TestRefineTitle(t *testing.T) {
	Convey("Given the contextual title refinement", t, func() {
		Convey("When the window is a day and reactions skew late-night", func() {
			times := timesAt([]int{23, 23, 1, 15}, time.Monday)
			title := archetype.RefineTitle("First Responder", times, window.Day)

			Convey("Then the title should get time-of-day framing", func() {
				So(title, ShouldEqual, "After Hours First Responder")
			})
		})

		Convey("When the window is a day and reactions skew early-morning", func() {
			times := timesAt([]int{6, 7, 8, 20}, time.Monday)
			So(archetype.RefineTitle("Steady Regular", times, window.Day), ShouldEqual, "Early Bird Steady Regular")
		})

		Convey("When the window is long and reactions pile onto one weekday", func() {
			times := append(timesAt([]int{10, 12, 14}, time.Friday), timesAt([]int{11}, time.Monday)...)
			So(archetype.RefineTitle("Binge Batcher", times, window.Month), ShouldEqual, "Friday Binge Batcher")
		})

		Convey("When the window is long and reactions skew to the weekend", func() {
			times := append(timesAt([]int{10, 15}, time.Saturday), timesAt([]int{11, 16}, time.Sunday)...)
			times = append(times, timesAt([]int{9, 9}, time.Wednesday)...)
			So(archetype.RefineTitle("Free Spirit", times, window.All), ShouldEqual, "Weekend Free Spirit")
		})

		Convey("When there is no meaningful skew", func() {
			times := append(timesAt([]int{10}, time.Monday), timesAt([]int{11}, time.Wednesday)...)
			times = append(times, timesAt([]int{12}, time.Friday)...)
			times = append(times, timesAt([]int{13}, time.Sunday)...)
			So(archetype.RefineTitle("Balanced Listener", times, window.Month), ShouldEqual, "Balanced Listener")
		})

		Convey("When the sample is too small", func() {
			times := timesAt([]int{23, 23}, time.Monday)
			So(archetype.RefineTitle("First Responder", times, window.Day), ShouldEqual, "First Responder")
		})

		Convey("When the window is a week, day-of-week framing wins over time of day", func() {
			times := timesAt([]int{23, 23, 23, 23}, time.Friday)
			So(archetype.RefineTitle("First Responder", times, window.Week), ShouldEqual, "Friday First Responder")
		})
	})
}
