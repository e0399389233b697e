package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/auxcord/auxcord/internal/adapters/repository"
	"github.com/auxcord/auxcord/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newStore(t *testing.T) *repository.SQLiteStore {
	t.Helper()
	s, err := repository.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	sharedAt := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	Convey("Given an empty store", t, func() {
		s := newStore(t)

		Convey("When a group does not exist", func() {
			exists, err := s.GroupExists(ctx, "nope")

			Convey("Then existence checks and loads should agree", func() {
				So(err, ShouldBeNil)
				So(exists, ShouldBeFalse)
				_, err := s.Group(ctx, "nope")
				So(err, ShouldEqual, repository.ErrGroupNotFound)
			})
		})

		Convey("When a group is created with members and shares", func() {
			So(s.CreateGroup(ctx, model.Group{ID: "g1", Name: "Crate Club"}), ShouldBeNil)
			So(s.AddMember(ctx, "g1", model.Member{ID: "alice", DisplayName: "Alice"}), ShouldBeNil)
			So(s.AddMember(ctx, "g1", model.Member{ID: "bob", DisplayName: "Bob"}), ShouldBeNil)
			So(s.AddShare(ctx, model.Share{
				ID: "s1", GroupID: "g1", MemberID: "alice",
				Title: "Idioteque", Artist: "Radiohead", CreatedAt: sharedAt,
			}), ShouldBeNil)

			Convey("Then the group should round-trip", func() {
				g, err := s.Group(ctx, "g1")
				So(err, ShouldBeNil)
				So(g.Name, ShouldEqual, "Crate Club")
			})

			Convey("Then members should come back ordered by id", func() {
				members, err := s.Members(ctx, "g1")
				So(err, ShouldBeNil)
				So(len(members), ShouldEqual, 2)
				So(members[0].ID, ShouldEqual, "alice")
			})

			Convey("Then creating the same group again should be a no-op", func() {
				So(s.CreateGroup(ctx, model.Group{ID: "g1", Name: "Other"}), ShouldBeNil)
				g, err := s.Group(ctx, "g1")
				So(err, ShouldBeNil)
				So(g.Name, ShouldEqual, "Crate Club")
			})

			Convey("Then the share should resolve by id", func() {
				sh, err := s.ShareByID(ctx, "s1")
				So(err, ShouldBeNil)
				So(sh.Artist, ShouldEqual, "Radiohead")
				So(sh.CreatedAt.Equal(sharedAt), ShouldBeTrue)
			})

			Convey("And an unknown share should return the sentinel", func() {
				_, err := s.ShareByID(ctx, "missing")
				So(err, ShouldEqual, repository.ErrShareNotFound)
			})
		})
	})

	Convey("Given a store with reactions", t, func() {
		s := newStore(t)
		So(s.CreateGroup(ctx, model.Group{ID: "g1", Name: "Crate Club"}), ShouldBeNil)
		So(s.AddShare(ctx, model.Share{
			ID: "s1", GroupID: "g1", MemberID: "alice",
			Title: "t", Artist: "a", CreatedAt: sharedAt,
		}), ShouldBeNil)

		event := model.ReactionEvent{
			EventID:   "e1",
			GroupID:   "g1",
			ShareID:   "s1",
			MemberID:  "bob",
			Kind:      model.KindListen,
			SharedAt:  sharedAt,
			ReactedAt: sharedAt.Add(30 * time.Second),
			LatencyMs: 30_000,
		}

		Convey("When recording the same event twice", func() {
			first, err1 := s.RecordReaction(ctx, event)
			second, err2 := s.RecordReaction(ctx, event)

			Convey("Then only the first write should land", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldBeTrue)
				So(second, ShouldBeFalse)

				events, err := s.Reactions(ctx, "g1", time.Time{})
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].LatencyMs, ShouldEqual, int64(30_000))
				So(events[0].Kind, ShouldEqual, model.KindListen)
			})
		})

		Convey("When querying with a since bound", func() {
			_, err := s.RecordReaction(ctx, event)
			So(err, ShouldBeNil)
			late := event
			late.EventID = "e2"
			late.Kind = model.KindLike
			late.ReactedAt = sharedAt.Add(2 * time.Hour)
			late.LatencyMs = 2 * 60 * 60 * 1000
			_, err = s.RecordReaction(ctx, late)
			So(err, ShouldBeNil)

			Convey("Then only newer reactions should be returned", func() {
				events, err := s.Reactions(ctx, "g1", sharedAt.Add(time.Hour))
				So(err, ShouldBeNil)
				So(len(events), ShouldEqual, 1)
				So(events[0].EventID, ShouldEqual, "e2")
			})
		})

		Convey("When loading shares with reaction counts", func() {
			_, err := s.RecordReaction(ctx, event)
			So(err, ShouldBeNil)
			like := event
			like.EventID = "e3"
			like.Kind = model.KindLike
			_, err = s.RecordReaction(ctx, like)
			So(err, ShouldBeNil)

			Convey("Then counts should be folded into the share rows", func() {
				shares, err := s.Shares(ctx, "g1", time.Time{})
				So(err, ShouldBeNil)
				So(len(shares), ShouldEqual, 1)
				So(shares[0].ListenCount, ShouldEqual, 1)
				So(shares[0].LikeCount, ShouldEqual, 1)
			})
		})

		Convey("When asking for totals", func() {
			_, err := s.RecordReaction(ctx, event)
			So(err, ShouldBeNil)

			counts, err := s.Counts(ctx)

			Convey("Then every table should be counted", func() {
				So(err, ShouldBeNil)
				So(counts.Groups, ShouldEqual, 1)
				So(counts.Shares, ShouldEqual, 1)
				So(counts.Reactions, ShouldEqual, 1)
			})
		})
	})
}
