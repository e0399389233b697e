package simulate

import (
	"math/rand"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGenerator(t *testing.T) {
	now := time.Date(2025, 6, 8, 12, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(42))

	Convey("Given a synthetic directory", t, func() {
		members := generateMembers(8)

		Convey("Then every persona should be represented", func() {
			So(len(members), ShouldEqual, 8)
			seen := map[string]bool{}
			for _, m := range members {
				So(m.UserID, ShouldNotBeEmpty)
				seen[m.persona.name] = true
			}
			for _, p := range personas {
				So(seen[p.name], ShouldBeTrue)
			}
		})

		Convey("When generating shares across a week", func() {
			shares := generateShares(rng, members, 40, 7*24*time.Hour, now)

			Convey("Then shares should land inside the span and round-robin sharers", func() {
				So(len(shares), ShouldEqual, 40)
				bySharer := map[string]int{}
				for _, sh := range shares {
					So(sh.sharedAt.After(now.Add(-7*24*time.Hour-time.Second)), ShouldBeTrue)
					So(sh.sharedAt.After(now), ShouldBeFalse)
					bySharer[sh.UserID]++
				}
				So(len(bySharer), ShouldEqual, len(members))
			})

			Convey("And generating events from them", func() {
				events := generateEvents(rng, "g1", members, shares, now)

				Convey("Then no member should react to their own share", func() {
					sharerOf := map[string]string{}
					for _, sh := range shares {
						sharerOf[sh.ShareID] = sh.UserID
					}
					for _, e := range events {
						So(e.UserID, ShouldNotEqual, sharerOf[e.ShareID])
					}
				})

				Convey("Then no reaction should be timestamped in the future", func() {
					So(len(events), ShouldBeGreaterThan, 0)
					for _, e := range events {
						reactedAt, err := time.Parse(time.RFC3339, e.ReactedAt)
						So(err, ShouldBeNil)
						So(reactedAt.After(now), ShouldBeFalse)
					}
				})
			})
		})
	})
}
