package stats_test

import (
	"testing"

	"github.com/auxcord/auxcord/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMedian(t *testing.T) {
	Convey("Given the median routine", t, func() {
		Convey("Then the empty set should yield 0", func() {
			So(stats.Median(nil), ShouldEqual, 0)
		})

		Convey("Then a single sample should be its own median", func() {
			So(stats.Median([]float64{42}), ShouldEqual, 42)
		})

		Convey("Then odd counts should take the middle value", func() {
			So(stats.Median([]float64{3, 1, 2}), ShouldEqual, 2)
		})

		Convey("Then even counts should average the two middle values", func() {
			So(stats.Median([]float64{4, 1, 3, 2}), ShouldEqual, 2.5)
		})

		Convey("Then the input slice should be left untouched", func() {
			in := []float64{3, 1, 2}
			_ = stats.Median(in)
			So(in, ShouldResemble, []float64{3, 1, 2})
		})
	})
}

func TestStdDev(t *testing.T) {
	Convey("Given the population standard deviation", t, func() {
		Convey("Then empty and single-sample sets should yield 0", func() {
			So(stats.StdDev(nil), ShouldEqual, 0)
			So(stats.StdDev([]float64{7}), ShouldEqual, 0)
		})

		Convey("Then a constant set should yield 0", func() {
			So(stats.StdDev([]float64{5, 5, 5, 5}), ShouldEqual, 0)
		})

		Convey("Then a known spread should match the population formula", func() {
			So(stats.StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), ShouldAlmostEqual, 2.0, 1e-9)
		})
	})
}

func TestCoefficientOfVariation(t *testing.T) {
	Convey("Given the coefficient of variation", t, func() {
		Convey("Then empty and single-sample sets should yield 0", func() {
			So(stats.CoefficientOfVariation(nil), ShouldEqual, 0)
			So(stats.CoefficientOfVariation([]float64{10}), ShouldEqual, 0)
		})

		Convey("Then a zero-mean set with N>1 should yield 1, not NaN", func() {
			So(stats.CoefficientOfVariation([]float64{0, 0, 0}), ShouldEqual, 1)
			So(stats.CoefficientOfVariation([]float64{-5, 5}), ShouldEqual, 1)
		})

		Convey("Then a regular set should be stddev over mean", func() {
			samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}
			So(stats.CoefficientOfVariation(samples), ShouldAlmostEqual, 2.0/5.0, 1e-9)
		})
	})
}

func TestTrimmedMedian(t *testing.T) {
	Convey("Given the trimmed median", t, func() {
		Convey("Then 10 ascending values should drop the 2 largest", func() {
			samples := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
			// floor(10*0.2)=2 dropped; median of 1..8 is 4.5.
			So(stats.TrimmedMedian(samples), ShouldEqual, 4.5)
		})

		Convey("Then small sets should fall back gracefully", func() {
			So(stats.TrimmedMedian(nil), ShouldEqual, 0)
			So(stats.TrimmedMedian([]float64{30000}), ShouldEqual, 30000)
			// floor(4*0.2)=0 dropped.
			So(stats.TrimmedMedian([]float64{1, 2, 3, 4}), ShouldEqual, 2.5)
		})

		Convey("Then one slow ghost reactor should not move the center", func() {
			samples := []float64{1000, 1100, 1200, 1300, 86_400_000}
			So(stats.TrimmedMedian(samples), ShouldEqual, 1150)
		})
	})
}

func TestPercentile(t *testing.T) {
	Convey("Given the percentile routine", t, func() {
		samples := []float64{10, 20, 30, 40}

		Convey("Then quartiles should interpolate linearly", func() {
			So(stats.Percentile(samples, 25), ShouldAlmostEqual, 17.5, 1e-9)
			So(stats.Percentile(samples, 50), ShouldAlmostEqual, 25, 1e-9)
			So(stats.Percentile(samples, 75), ShouldAlmostEqual, 32.5, 1e-9)
		})

		Convey("Then the bounds should clamp", func() {
			So(stats.Percentile(samples, -5), ShouldEqual, 10)
			So(stats.Percentile(samples, 200), ShouldEqual, 40)
		})

		Convey("Then degenerate sets should degrade to neutral values", func() {
			So(stats.Percentile(nil, 50), ShouldEqual, 0)
			So(stats.Percentile([]float64{9}, 75), ShouldEqual, 9)
		})
	})
}

func TestHasConsensus(t *testing.T) {
	Convey("Given consensus detection", t, func() {
		Convey("Then an instant mass reaction with one straggler should hold", func() {
			So(stats.HasConsensus([]float64{1, 1, 1, 1, 100}), ShouldBeTrue)
		})

		Convey("Then an even spread should not hold", func() {
			So(stats.HasConsensus([]float64{10, 2500, 5000, 7500, 10000}), ShouldBeFalse)
		})

		Convey("Then degenerate sets should be trivially consensual", func() {
			So(stats.HasConsensus([]float64{500}), ShouldBeTrue)
			So(stats.HasConsensus([]float64{7, 7, 7}), ShouldBeTrue)
		})

		Convey("Then the empty set should not claim consensus", func() {
			So(stats.HasConsensus(nil), ShouldBeFalse)
		})
	})
}
