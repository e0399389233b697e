package reflex_test

import (
	"testing"
	"time"

	"github.com/auxcord/auxcord/internal/domain/model"
	"github.com/auxcord/auxcord/internal/domain/reflex"
	. "github.com/smartystreets/goconvey/convey"
)

func reaction(memberID string, latencyMs int64) model.ReactionEvent {
	shared := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return model.ReactionEvent{
		EventID:   memberID + "-ev",
		GroupID:   "g1",
		ShareID:   "s1",
		MemberID:  memberID,
		Kind:      model.KindListen,
		SharedAt:  shared,
		ReactedAt: shared.Add(time.Duration(latencyMs) * time.Millisecond),
		LatencyMs: latencyMs,
	}
}

func TestCategorize(t *testing.T) {
	Convey("Given the absolute bucket cutoffs", t, func() {
		Convey("Then sub-minute medians should be instant", func() {
			So(reflex.Categorize(59_999), ShouldEqual, reflex.CategoryInstant)
		})

		Convey("Then exactly one minute should already be quick", func() {
			So(reflex.Categorize(60_000), ShouldEqual, reflex.CategoryQuick)
		})

		Convey("Then exactly one hour should still be quick", func() {
			So(reflex.Categorize(3_600_000), ShouldEqual, reflex.CategoryQuick)
		})

		Convey("Then twelve hours should be the slow boundary", func() {
			So(reflex.Categorize(43_200_000), ShouldEqual, reflex.CategorySlow)
			So(reflex.Categorize(43_200_001), ShouldEqual, reflex.CategoryLongTail)
		})
	})
}

func TestBuildProfile(t *testing.T) {
	Convey("Given a member with a handful of reactions", t, func() {
		member := model.Member{ID: "alice", DisplayName: "Alice"}

		Convey("When the latencies are present", func() {
			p := reflex.BuildProfile(member, []float64{1000, 2000, 3000})

			Convey("Then the statistics should be populated", func() {
				So(p.ReactionCount, ShouldEqual, 3)
				So(p.MedianMs, ShouldEqual, 2000)
				So(p.TrimmedMedianMs, ShouldEqual, 2000)
				So(p.Category, ShouldEqual, reflex.CategoryInstant)
			})
		})

		Convey("When the member has no reactions", func() {
			p := reflex.BuildProfile(member, nil)

			Convey("Then the profile should be a zeroed no-data profile", func() {
				So(p.ReactionCount, ShouldEqual, 0)
				So(p.MedianMs, ShouldEqual, 0)
				So(p.Category, ShouldEqual, reflex.CategoryNone)
			})
		})
	})
}

func TestReport(t *testing.T) {
	Convey("Given a group with mixed reaction speeds", t, func() {
		members := []model.Member{
			{ID: "alice", DisplayName: "Alice"},
			{ID: "bob", DisplayName: "Bob"},
			{ID: "carol", DisplayName: "Carol"},
		}
		reactions := []model.ReactionEvent{
			reaction("alice", 5_000),
			reaction("alice", 10_000),
			reaction("bob", 7_200_000),
			reaction("bob", 7_300_000),
		}

		report := reflex.Report(members, reactions)

		Convey("Then every member should appear in the profile list", func() {
			So(len(report.Profiles), ShouldEqual, 3)
		})

		Convey("Then zero-reaction members should be excluded from buckets", func() {
			total := 0
			for _, n := range report.BucketCounts {
				total += n
			}
			So(total, ShouldEqual, 2)
			So(report.BucketCounts[reflex.CategoryInstant], ShouldEqual, 1)
			So(report.BucketCounts[reflex.CategorySlow], ShouldEqual, 1)
		})

		Convey("Then the instant reactor count should match the instant bucket", func() {
			So(report.InstantReactors, ShouldEqual, 1)
		})

		Convey("Then the group median should span all reactions", func() {
			So(report.GroupMedianMs, ShouldEqual, (10_000+7_200_000)/2.0)
		})

		Convey("Then profiles should be ordered fastest first with no-data last", func() {
			So(report.Profiles[0].UserID, ShouldEqual, "alice")
			So(report.Profiles[2].UserID, ShouldEqual, "carol")
			So(report.Profiles[2].Category, ShouldEqual, reflex.CategoryNone)
		})
	})
}
