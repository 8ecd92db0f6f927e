package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/anigrab-cli/anigrab/config"
	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
	retryBackoff = 10 * time.Millisecond
}

func TestFetch(t *testing.T) {
	session := NewSession(map[string]string{"cf_clearance": "token"}, "test-agent")

	Convey("Fetch", t, func() {
		Convey("Applies the session identity to requests", func() {
			var gotAgent, gotCookie string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAgent = r.Header.Get("User-Agent")
				if c, err := r.Cookie("cf_clearance"); err == nil {
					gotCookie = c.Value
				}
				_, _ = w.Write([]byte("ok"))
			}))
			defer server.Close()

			resp, err := session.Fetch(context.Background(), server.URL, Options{})
			So(err, ShouldBeNil)
			So(resp.Status, ShouldEqual, http.StatusOK)
			So(resp.Body, ShouldEqual, "ok")
			So(gotAgent, ShouldEqual, "test-agent")
			So(gotCookie, ShouldEqual, "token")
		})

		Convey("Returns completed responses regardless of status", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			}))
			defer server.Close()

			resp, err := session.Fetch(context.Background(), server.URL, Options{})
			So(err, ShouldBeNil)
			So(resp.Status, ShouldEqual, http.StatusNotFound)
		})

		Convey("Surfaces redirects instead of following them by default", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/elsewhere", http.StatusFound)
			}))
			defer server.Close()

			resp, err := session.Fetch(context.Background(), server.URL, Options{})
			So(err, ShouldBeNil)
			So(resp.Status, ShouldEqual, http.StatusFound)
			So(resp.Redirected(), ShouldBeTrue)
			So(resp.Location(), ShouldEqual, "/elsewhere")
		})

		Convey("Follows redirects when asked to", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/" {
					http.Redirect(w, r, "/elsewhere", http.StatusFound)
					return
				}
				_, _ = w.Write([]byte("landed"))
			}))
			defer server.Close()

			resp, err := session.Fetch(context.Background(), server.URL, Options{FollowRedirects: true})
			So(err, ShouldBeNil)
			So(resp.Status, ShouldEqual, http.StatusOK)
			So(resp.Body, ShouldEqual, "landed")
		})

		Convey("Retries timed-out attempts until one completes", func() {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&attempts, 1) < 3 {
					time.Sleep(300 * time.Millisecond)
					return
				}
				_, _ = w.Write([]byte("finally"))
			}))
			defer server.Close()

			resp, err := session.Fetch(context.Background(), server.URL, Options{
				Timeout:  50 * time.Millisecond,
				Attempts: 5,
			})
			So(err, ShouldBeNil)
			So(resp.Body, ShouldEqual, "finally")
			So(atomic.LoadInt32(&attempts), ShouldEqual, 3)
		})

		Convey("Spends the whole attempt budget before giving up", func() {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				time.Sleep(300 * time.Millisecond)
			}))
			defer server.Close()

			_, err := session.Fetch(context.Background(), server.URL, Options{
				Timeout:  50 * time.Millisecond,
				Attempts: 3,
			})
			So(err, ShouldNotBeNil)
			So(atomic.LoadInt32(&attempts), ShouldEqual, 3)
		})

		Convey("Does not retry non-timeout transport failures", func() {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				conn, _, err := w.(http.Hijacker).Hijack()
				So(err, ShouldBeNil)
				_ = conn.Close()
			}))
			defer server.Close()

			_, err := session.Fetch(context.Background(), server.URL, Options{
				Timeout:  time.Second,
				Attempts: 5,
			})
			So(err, ShouldNotBeNil)
			So(atomic.LoadInt32(&attempts), ShouldEqual, 1)
		})

		Convey("Sends POST payloads with the configured content type", func() {
			var gotMethod, gotType, gotBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotType = r.Header.Get("Content-Type")
				payload, _ := io.ReadAll(r.Body)
				gotBody = string(payload)
				_, _ = w.Write([]byte(`{}`))
			}))
			defer server.Close()

			_, err := session.Fetch(context.Background(), server.URL, Options{
				Method:      http.MethodPost,
				Body:        `{"key":"value"}`,
				ContentType: "application/json",
			})
			So(err, ShouldBeNil)
			So(gotMethod, ShouldEqual, http.MethodPost)
			So(gotType, ShouldEqual, "application/json")
			So(gotBody, ShouldEqual, `{"key":"value"}`)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("Session", t, func() {
		session := NewSession(map[string]string{"a": "1"}, "agent")

		Convey("Copies cookies on construction and access", func() {
			cookies := session.Cookies()
			cookies["a"] = "tampered"
			So(session.Cookies()["a"], ShouldEqual, "1")
		})

		Convey("UserAgent is preserved", func() {
			So(session.UserAgent(), ShouldEqual, "agent")
		})
	})
}
