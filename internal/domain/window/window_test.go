package window_test

import (
	"errors"
	"testing"
	"time"

	"github.com/auxcord/auxcord/internal/domain/window"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParse(t *testing.T) {
	Convey("Given the window parser", t, func() {
		Convey("Then every canonical value should round-trip", func() {
			for _, w := range []window.Window{window.Day, window.Week, window.Month, window.Quarter, window.All} {
				parsed, err := window.Parse(w.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, w)
			}
		})

		Convey("Then aliases should normalize", func() {
			parsed, err := window.Parse("ALL-TIME")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, window.All)

			parsed, err = window.Parse("1d")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, window.Day)
		})

		Convey("Then the empty string should yield the default window", func() {
			parsed, err := window.Parse("")
			So(err, ShouldBeNil)
			So(parsed, ShouldEqual, window.Default)
		})

		Convey("Then unsupported ranges should fail with ErrInvalidWindow", func() {
			_, err := window.Parse("14d")
			So(errors.Is(err, window.ErrInvalidWindow), ShouldBeTrue)
		})
	})
}

func TestSince(t *testing.T) {
	Convey("Given a reference time", t, func() {
		now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

		Convey("Then bounded windows should subtract their duration", func() {
			So(window.Day.Since(now), ShouldEqual, now.Add(-24*time.Hour))
			So(window.Week.Since(now), ShouldEqual, now.Add(-7*24*time.Hour))
		})

		Convey("Then the all-time window should be unbounded", func() {
			So(window.All.Since(now).IsZero(), ShouldBeTrue)
		})
	})
}

func TestThresholdsFor(t *testing.T) {
	Convey("Given the threshold policy", t, func() {
		day := window.ThresholdsFor(window.Day)
		week := window.ThresholdsFor(window.Week)
		month := window.ThresholdsFor(window.Month)
		all := window.ThresholdsFor(window.All)

		Convey("Then short windows should be judged more strictly", func() {
			So(day.RitualistCutoff, ShouldBeLessThan, week.RitualistCutoff)
			So(day.ErraticCutoff, ShouldBeLessThan, week.ErraticCutoff)
			So(day.VarianceNorm, ShouldBeLessThan, week.VarianceNorm)
		})

		Convey("Then the cluster gap should halve below a day and double past a week", func() {
			So(day.ClusterGap, ShouldEqual, 5*time.Minute)
			So(week.ClusterGap, ShouldEqual, 10*time.Minute)
			So(month.ClusterGap, ShouldEqual, 20*time.Minute)
		})

		Convey("Then all-time should match long windows", func() {
			So(all, ShouldResemble, month)
		})
	})
}

func TestArcSpan(t *testing.T) {
	Convey("Given the arc span projection", t, func() {
		Convey("Then scores should map onto the 20-330 degree range", func() {
			So(window.ArcSpan(0), ShouldEqual, 20.0)
			So(window.ArcSpan(1), ShouldEqual, 330.0)
			So(window.ArcSpan(0.5), ShouldAlmostEqual, 175.0, 0.0001)
		})

		Convey("Then out-of-range scores should clamp", func() {
			So(window.ArcSpan(-2), ShouldEqual, 20.0)
			So(window.ArcSpan(9), ShouldEqual, 330.0)
		})
	})
}
