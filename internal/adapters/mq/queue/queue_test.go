package queue_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/ringside/internal/adapters/mq/queue"
	"github.com/okian/ringside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func bout(id string) model.BoutResult {
	return model.BoutResult{BoutID: id, WinnerID: 1, LoserID: 2, Probability: 0.5}
}

func TestInMemoryQueueEnqueue(t *testing.T) {
	Convey("Given a new in-memory queue", t, func() {
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			q := queue.NewInMemoryQueue()
			defer q.Close()

			ok := q.Enqueue(ctx, bout("a"))

			Convey("Then the enqueue succeeds", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			q := queue.NewInMemoryQueue(
				queue.WithCapacity(2),
				queue.WithBufferSize(2),
			)
			defer q.Close()

			So(q.Enqueue(ctx, bout("a")), ShouldBeTrue)
			So(q.Enqueue(ctx, bout("b")), ShouldBeTrue)
			ok := q.Enqueue(ctx, bout("c"))

			Convey("Then the enqueue is rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})

		Convey("When the queue is closed", func() {
			q := queue.NewInMemoryQueue()
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues are rejected and close is idempotent", func() {
				So(q.Enqueue(ctx, bout("a")), ShouldBeFalse)
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Close(), ShouldBeNil)
			})
		})
	})
}

func TestInMemoryQueueDequeue(t *testing.T) {
	Convey("Given a queue with buffered events", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue()

		for i := 0; i < 3; i++ {
			So(q.Enqueue(ctx, bout(fmt.Sprintf("bout-%d", i))), ShouldBeTrue)
		}

		Convey("When consuming from the dequeue channel", func() {
			ch := q.Dequeue(ctx)

			var got []string
			for i := 0; i < 3; i++ {
				select {
				case e := <-ch:
					got = append(got, e.BoutID)
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for event")
				}
			}

			Convey("Then events arrive in enqueue order", func() {
				So(got, ShouldResemble, []string{"bout-0", "bout-1", "bout-2"})
			})
		})

		Convey("When the queue closes after draining", func() {
			ch := q.Dequeue(ctx)
			for i := 0; i < 3; i++ {
				<-ch
			}
			So(q.Close(), ShouldBeNil)

			Convey("Then the dequeue channel closes", func() {
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})
}
