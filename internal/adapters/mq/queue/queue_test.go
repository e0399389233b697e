package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/auxcord/auxcord/internal/adapters/mq/queue"
	"github.com/auxcord/auxcord/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func submission(id string) model.Submission {
	return model.Submission{
		EventID:   id,
		GroupID:   "g1",
		ShareID:   "s1",
		MemberID:  "alice",
		Kind:      model.KindListen,
		ReactedAt: time.Now(),
	}
}

func TestInMemoryQueue(t *testing.T) {
	ctx := context.Background()

	Convey("Given a queue with small capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))

		Convey("When enqueuing within capacity", func() {
			ok1 := q.Enqueue(ctx, submission("e1"))
			ok2 := q.Enqueue(ctx, submission("e2"))

			Convey("Then both should be accepted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third should be rejected without blocking", func() {
				So(q.Enqueue(ctx, submission("e3")), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			q.Enqueue(ctx, submission("e1"))
			ch := q.Dequeue(ctx)

			Convey("Then submissions should arrive in order", func() {
				select {
				case s := <-ch:
					So(s.EventID, ShouldEqual, "e1")
				case <-time.After(time.Second):
					So("timeout", ShouldBeEmpty)
				}
			})
		})

		Convey("When the queue is closed", func() {
			q.Enqueue(ctx, submission("e1"))
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueue should be rejected", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, submission("e2")), ShouldBeFalse)
			})

			Convey("Then queued submissions should drain before the channel closes", func() {
				ch := q.Dequeue(ctx)
				s, ok := <-ch
				So(ok, ShouldBeTrue)
				So(s.EventID, ShouldEqual, "e1")
				_, ok = <-ch
				So(ok, ShouldBeFalse)
			})

			Convey("And closing twice should be harmless", func() {
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}
