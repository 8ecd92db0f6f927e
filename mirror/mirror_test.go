package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anigrab-cli/anigrab/config"
	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/network"
	"github.com/anigrab-cli/anigrab/source"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func testSession() *network.Session {
	return network.NewSession(map[string]string{"cf_clearance": "token"}, "test-agent")
}

func TestRegistry(t *testing.T) {
	Convey("Registry", t, func() {
		Convey("Lists mirrors in preference order", func() {
			So(Names(), ShouldResemble, []string{"nova", "rapidvideo", "mp4upload"})
		})

		Convey("Finds a mirror by name", func() {
			mirror, ok := Get(testSession(), "rapidvideo")
			So(ok, ShouldBeTrue)
			So(mirror.Name(), ShouldEqual, "rapidvideo")
		})

		Convey("Reports unknown names", func() {
			_, ok := Get(testSession(), "trustworthy")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestRapidVideo(t *testing.T) {
	page := `<html><body>
		<div class="video">
			<a href="https://files.example/360">360p (24.3 MB)</a>
			<a href="https://files.example/720">720p (91.2 MB)</a>
			<a href="https://files.example/1080">1080p (170.4 MB)</a>
		</div>
	</body></html>`

	Convey("RapidVideo", t, func() {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(page))
		}))
		defer server.Close()

		resolver := NewRapidVideo(testSession())
		embed := server.URL + "/e/abc123"

		Convey("Fetches the download page instead of the player", func() {
			_, err := resolver.Resolve(context.Background(), embed, source.QualityHighest)
			So(err, ShouldBeNil)
			So(gotPath, ShouldEqual, "/d/abc123")
		})

		Convey("Picks the last advertised stream for highest", func() {
			url, err := resolver.Resolve(context.Background(), embed, source.QualityHighest)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://files.example/1080")
		})

		Convey("Picks the first advertised stream for lowest", func() {
			url, err := resolver.Resolve(context.Background(), embed, source.QualityLowest)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://files.example/360")
		})

		Convey("Matches a concrete quality by its label", func() {
			url, err := resolver.Resolve(context.Background(), embed, source.Quality720)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://files.example/720")
		})

		Convey("Reports a missing quality", func() {
			_, err := resolver.Resolve(context.Background(), embed, source.Quality480)
			So(errors.Is(err, ErrQualityNotFound), ShouldBeTrue)
		})

		Convey("Reports a page without streams", func() {
			empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html><body><div class="video"></div></body></html>`))
			}))
			defer empty.Close()

			_, err := resolver.Resolve(context.Background(), empty.URL+"/e/abc123", source.QualityHighest)
			So(errors.Is(err, ErrQualityNotFound), ShouldBeTrue)
		})
	})
}

func TestNova(t *testing.T) {
	Convey("Nova", t, func() {
		var gotMethod, gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"data":[
				{"label":"360p","file":"https://files.example/360"},
				{"label":"720p","file":"https://files.example/720"},
				{"label":"1080p","file":"https://files.example/1080"}
			]}`))
		}))
		defer server.Close()

		resolver := NewNova(testSession())
		resolver.api = server.URL + "/api/source/%s"
		embed := "https://www.novelplanet.me/v/abc123"

		Convey("Posts the video id to the source api", func() {
			_, err := resolver.Resolve(context.Background(), embed, source.QualityHighest)
			So(err, ShouldBeNil)
			So(gotMethod, ShouldEqual, http.MethodPost)
			So(gotPath, ShouldEqual, "/api/source/abc123")
		})

		Convey("Picks the last advertised stream for highest", func() {
			url, err := resolver.Resolve(context.Background(), embed, source.QualityHighest)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://files.example/1080")
		})

		Convey("Picks the first advertised stream for lowest", func() {
			url, err := resolver.Resolve(context.Background(), embed, source.QualityLowest)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://files.example/360")
		})

		Convey("Matches a concrete quality by its label", func() {
			url, err := resolver.Resolve(context.Background(), embed, source.Quality720)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://files.example/720")
		})

		Convey("Reports a missing quality", func() {
			_, err := resolver.Resolve(context.Background(), embed, source.Quality480)
			So(errors.Is(err, ErrQualityNotFound), ShouldBeTrue)
		})

		Convey("Reports an empty stream list", func() {
			empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"data":[]}`))
			}))
			defer empty.Close()

			drained := NewNova(testSession())
			drained.api = empty.URL + "/api/source/%s"

			_, err := drained.Resolve(context.Background(), embed, source.QualityHighest)
			So(errors.Is(err, ErrQualityNotFound), ShouldBeTrue)
		})
	})
}

func TestMP4Upload(t *testing.T) {
	Convey("MP4Upload", t, func() {
		resolver := NewMP4Upload(testSession())

		Convey("Derives the download url without a fetch for sentinel qualities", func() {
			// The host is unreachable on purpose; a network round trip would fail.
			url, err := resolver.Resolve(context.Background(), "https://www.mp4upload.com/embed-xyz9.html", source.QualityHighest)
			So(err, ShouldBeNil)
			So(url, ShouldEqual, "https://www.mp4upload.com/xyz9")
		})

		Convey("Rejects an unrecognized embed url", func() {
			_, err := resolver.Resolve(context.Background(), "https://www.mp4upload.com/watch/xyz9", source.QualityHighest)
			So(err, ShouldNotBeNil)
		})

		Convey("With a download page advertising 1280 x 720", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = fmt.Fprint(w, `<html><body>
					<div class="info"><span>Resolution</span> 1280 x 720</div>
				</body></html>`)
			}))
			defer server.Close()

			embed := server.URL + "/embed-abc.html"

			Convey("Confirms a matching concrete quality", func() {
				url, err := resolver.Resolve(context.Background(), embed, source.Quality720)
				So(err, ShouldBeNil)
				So(url, ShouldEqual, server.URL+"/abc")
			})

			Convey("Rejects a mismatched concrete quality", func() {
				_, err := resolver.Resolve(context.Background(), embed, source.Quality1080)
				So(errors.Is(err, ErrQualityNotFound), ShouldBeTrue)
			})
		})

		Convey("Reports a page without a resolution label", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html><body><div class="info">bare</div></body></html>`))
			}))
			defer server.Close()

			_, err := resolver.Resolve(context.Background(), server.URL+"/embed-abc.html", source.Quality720)
			So(errors.Is(err, ErrQualityNotFound), ShouldBeTrue)
		})
	})
}
