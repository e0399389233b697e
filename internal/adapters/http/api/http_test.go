package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/auxcord/auxcord/internal/adapters/http/api"
	service "github.com/auxcord/auxcord/internal/app"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()

	svc := service.New(
		service.WithDBPath(":memory:"),
		service.WithWorkerCount(2),
		service.WithQueueSize(128),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	router := chi.NewRouter()
	api.NewServer(svc, svc).Register(router)

	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func seedGroup(t *testing.T, ts *httptest.Server, sharedAt time.Time) {
	t.Helper()
	resp := postJSON(t, ts.URL+"/groups", map[string]any{
		"groupId": "g1",
		"name":    "Crate Club",
		"members": []map[string]string{
			{"userId": "alice", "displayName": "Alice"},
			{"userId": "bob", "displayName": "Bob"},
		},
		"shares": []map[string]string{
			{
				"shareId":  "s1",
				"userId":   "alice",
				"title":    "Idioteque",
				"artist":   "Radiohead",
				"sharedAt": sharedAt.Format(time.RFC3339),
			},
		},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed group: status %d", resp.StatusCode)
	}
}

// waitForReactions polls the profiles view until the group's bucket counts
// show n processed reactions.
func waitForReactions(t *testing.T, ts *httptest.Server, n int) bool {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/groups/g1/analytics/profiles?window=all")
		if err != nil {
			t.Fatalf("get profiles: %v", err)
		}
		var report struct {
			Profiles []struct {
				ReactionCount int `json:"reactionCount"`
			} `json:"profiles"`
		}
		err = json.NewDecoder(resp.Body).Decode(&report)
		resp.Body.Close()
		if err == nil {
			total := 0
			for _, p := range report.Profiles {
				total += p.ReactionCount
			}
			if total >= n {
				return true
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func TestEventIngestion(t *testing.T) {
	sharedAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	Convey("Given a running server with a seeded group", t, func() {
		ts, _ := newTestServer(t)
		seedGroup(t, ts, sharedAt)

		event := map[string]string{
			"eventId":   "e1",
			"groupId":   "g1",
			"shareId":   "s1",
			"userId":    "bob",
			"kind":      "listen",
			"reactedAt": sharedAt.Add(30 * time.Second).Format(time.RFC3339),
		}

		Convey("When posting a valid event", func() {
			resp := postJSON(t, ts.URL+"/events", event)
			defer resp.Body.Close()

			Convey("Then it should be accepted and eventually persisted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				So(waitForReactions(t, ts, 1), ShouldBeTrue)
			})
		})

		Convey("When posting the same event twice", func() {
			first := postJSON(t, ts.URL+"/events", event)
			first.Body.Close()
			second := postJSON(t, ts.URL+"/events", event)
			defer second.Body.Close()

			Convey("Then the redelivery should be flagged as duplicate", func() {
				So(second.StatusCode, ShouldEqual, http.StatusOK)
				var ack struct {
					Duplicate bool `json:"duplicate"`
				}
				So(json.NewDecoder(second.Body).Decode(&ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
			})
		})

		Convey("When posting an event with an unknown kind", func() {
			bad := map[string]string{
				"eventId":   "e9",
				"shareId":   "s1",
				"userId":    "bob",
				"kind":      "skip",
				"reactedAt": sharedAt.Format(time.RFC3339),
			}
			resp := postJSON(t, ts.URL+"/events", bad)
			defer resp.Body.Close()

			Convey("Then it should be rejected", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting a share to an unknown group", func() {
			resp := postJSON(t, ts.URL+"/groups/nope/shares", map[string]string{
				"shareId":  "s9",
				"userId":   "alice",
				"title":    "t",
				"artist":   "a",
				"sharedAt": sharedAt.Format(time.RFC3339),
			})
			defer resp.Body.Close()

			Convey("Then it should 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	sharedAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	Convey("Given a server with processed reactions", t, func() {
		ts, _ := newTestServer(t)
		seedGroup(t, ts, sharedAt)

		for i, userID := range []string{"bob", "bob", "alice"} {
			resp := postJSON(t, ts.URL+"/events", map[string]string{
				"eventId":   fmt.Sprintf("e%d", i),
				"groupId":   "g1",
				"shareId":   "s1",
				"userId":    userID,
				"kind":      map[bool]string{true: "like", false: "listen"}[i == 1],
				"reactedAt": sharedAt.Add(time.Duration(i+1) * time.Minute).Format(time.RFC3339),
			})
			resp.Body.Close()
		}
		So(waitForReactions(t, ts, 3), ShouldBeTrue)

		get := func(path string) (*http.Response, map[string]json.RawMessage) {
			resp, err := http.Get(ts.URL + path)
			So(err, ShouldBeNil)
			var body map[string]json.RawMessage
			if resp.StatusCode == http.StatusOK {
				So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			}
			resp.Body.Close()
			return resp, body
		}

		Convey("When querying each analytics view", func() {
			for _, view := range []string{"profiles", "radar", "archetypes", "superlatives", "timeline", "engagement", "gravity", "overview"} {
				resp, err := http.Get(ts.URL + "/groups/g1/analytics/" + view + "?window=7d")
				So(err, ShouldBeNil)
				resp.Body.Close()

				Convey("Then "+view+" should respond 200", func() {
					So(resp.StatusCode, ShouldEqual, http.StatusOK)
				})
			}
		})

		Convey("When querying the overview", func() {
			resp, body := get("/groups/g1/analytics/overview?window=all")

			Convey("Then every view should be present", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				for _, key := range []string{"profiles", "radar", "archetypes", "superlatives", "timeline", "engagement", "gravity"} {
					So(body, ShouldContainKey, key)
				}
			})
		})

		Convey("When querying with an invalid window", func() {
			resp, _ := get("/groups/g1/analytics/profiles?window=14d")

			Convey("Then it should 400 before computing anything", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When querying an unknown group", func() {
			resp, _ := get("/groups/ghost/analytics/profiles?window=7d")

			Convey("Then it should 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When omitting the window parameter", func() {
			resp, _ := get("/groups/g1/analytics/profiles")

			Convey("Then the default window should apply", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given a running server", t, func() {
		ts, _ := newTestServer(t)

		Convey("When hitting /healthz", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then metrics should be served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When hitting /stats", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			var stats map[string]any
			So(json.NewDecoder(resp.Body).Decode(&stats), ShouldBeNil)

			Convey("Then service state should be reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(stats["started"], ShouldEqual, true)
			})
		})
	})
}

func TestIngestRateLimit(t *testing.T) {
	Convey("Given a server with a tight ingest rate limit", t, func() {
		svc := service.New(service.WithDBPath(":memory:"), service.WithWorkerCount(1))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		router := chi.NewRouter()
		api.NewServer(svc, svc, api.WithIngestRateLimit(1, 1)).Register(router)
		ts := httptest.NewServer(router)
		defer ts.Close()

		event := func(id string) map[string]string {
			return map[string]string{
				"eventId":   id,
				"shareId":   "s1",
				"userId":    "bob",
				"kind":      "listen",
				"reactedAt": time.Now().UTC().Format(time.RFC3339),
			}
		}

		Convey("When posting faster than the limit", func() {
			statuses := make([]int, 0, 3)
			for i := 0; i < 3; i++ {
				resp := postJSON(t, ts.URL+"/events", event(fmt.Sprintf("rl-%d", i)))
				statuses = append(statuses, resp.StatusCode)
				resp.Body.Close()
			}

			Convey("Then at least one request should be throttled", func() {
				throttled := 0
				for _, code := range statuses {
					if code == http.StatusTooManyRequests {
						throttled++
					}
				}
				So(throttled, ShouldBeGreaterThan, 0)
			})
		})
	})
}
