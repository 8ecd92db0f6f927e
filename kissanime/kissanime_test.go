package kissanime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anigrab-cli/anigrab/config"
	"github.com/anigrab-cli/anigrab/filesystem"
	"github.com/anigrab-cli/anigrab/mirror"
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

// showPage renders a listing of total episodes, newest first, preceded in
// reversed order by a preview entry the way the site pads its listings.
func showPage(total int) string {
	var anchors strings.Builder
	for i := total; i >= 1; i-- {
		fmt.Fprintf(&anchors, `<a href="/Anime/Test-Show/Episode-%03d?id=%d">Episode %03d</a>`, i, i, i)
	}
	anchors.WriteString(`<a href="/Anime/Test-Show/Preview?id=0">Preview</a>`)

	return fmt.Sprintf(`<html><body>
		<a class="bigChar" href="/Anime/Test-Show">Test Show</a>
		<table class="listing">%s</table>
	</body></html>`, anchors.String())
}

func TestValidate(t *testing.T) {
	Convey("Validate", t, func() {
		Convey("Accepts show pages on the site", func() {
			So(Validate("https://kissanime.ru/Anime/Test-Show"), ShouldBeNil)
			So(Validate("http://kissanime.ru/Anime/Test-Show"), ShouldBeNil)
		})

		Convey("Rejects anything else", func() {
			for _, url := range []string{
				"https://kissanime.ru/Anime/Test-Show/Episode-001",
				"https://kissanime.ru/Anime/",
				"https://example.com/Anime/Test-Show",
				"kissanime.ru/Anime/Test-Show",
				"https://kissanime.ru/Anime/Test Show",
			} {
				So(Validate(url), ShouldNotBeNil)
			}
		})
	})
}

func TestListing(t *testing.T) {
	Convey("Listing", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(showPage(15)))
		}))
		defer server.Close()

		site := New(testSession())

		Convey("Slices the requested window oldest first", func() {
			title, episodes, err := site.Listing(context.Background(), server.URL+"/Anime/Test-Show", 1, 12)
			So(err, ShouldBeNil)
			So(title, ShouldEqual, "Test_Show")
			So(len(episodes), ShouldEqual, 12)
			So(episodes[0].Name, ShouldEqual, "Episode_001")
			So(episodes[0].Index, ShouldEqual, 1)
			So(episodes[0].URL, ShouldEqual, server.URL+"/Anime/Test-Show/Episode-001?id=1")
			So(episodes[11].Name, ShouldEqual, "Episode_012")
			So(episodes[11].Index, ShouldEqual, 12)
		})

		Convey("Zero count takes everything from the start episode on", func() {
			_, episodes, err := site.Listing(context.Background(), server.URL+"/Anime/Test-Show", 4, 0)
			So(err, ShouldBeNil)
			So(len(episodes), ShouldEqual, 12)
			So(episodes[0].Name, ShouldEqual, "Episode_004")
			So(episodes[11].Name, ShouldEqual, "Episode_015")
		})

		Convey("Clamps a window reaching past the newest episode", func() {
			_, episodes, err := site.Listing(context.Background(), server.URL+"/Anime/Test-Show", 14, 5)
			So(err, ShouldBeNil)
			So(len(episodes), ShouldEqual, 2)
		})

		Convey("Reports a start episode missing from the listing", func() {
			_, _, err := site.Listing(context.Background(), server.URL+"/Anime/Test-Show", 99, 1)
			So(err, ShouldNotBeNil)
		})

		Convey("Reports a page without a listing", func() {
			bare := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html><body><a class="bigChar" href="/">Test Show</a></body></html>`))
			}))
			defer bare.Close()

			_, _, err := site.Listing(context.Background(), bare.URL+"/Anime/Test-Show", 1, 1)
			So(err, ShouldNotBeNil)
		})

		Convey("Reports a non-200 show page", func() {
			gone := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "gone", http.StatusNotFound)
			}))
			defer gone.Close()

			_, _, err := site.Listing(context.Background(), gone.URL+"/Anime/Test-Show", 1, 1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestResolveEpisode(t *testing.T) {
	streams := `<div class="video">
		<a href="https://files.example/360">360p (24.3 MB)</a>
		<a href="https://files.example/1080">1080p (170.4 MB)</a>
	</div>`

	Convey("ResolveEpisode", t, func() {
		var offered []string
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasPrefix(r.URL.Path, "/Anime/"):
				mirrorName := r.URL.Query().Get("s")
				offered = append(offered, mirrorName)
				if mirrorName != "rapidvideo" {
					http.Redirect(w, r, "/Anime/Test-Show", http.StatusFound)
					return
				}
				fmt.Fprintf(w, `<html><body><script>
					$('#divMyVideo').html('<iframe width="100%%" src="%s/e/xyz" frameborder="0"></iframe>');
				</script></body></html>`, server.URL)
			case strings.HasPrefix(r.URL.Path, "/d/"):
				_, _ = w.Write([]byte(streams))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		site := New(testSession())
		episode := &source.Episode{
			Name:  "Episode_001",
			URL:   server.URL + "/Anime/Test-Show/Episode-001?id=1",
			Index: 1,
		}

		var announced []string
		progress := func(msg string) { announced = append(announced, msg) }

		Convey("Walks mirrors in preference order past redirects", func() {
			link, err := site.ResolveEpisode(context.Background(), episode, source.QualityHighest, progress)
			So(err, ShouldBeNil)
			So(offered, ShouldResemble, []string{"nova", "rapidvideo"})
			So(link.URL, ShouldEqual, "https://files.example/1080")
			So(link.Method, ShouldEqual, http.MethodGet)
			So(link.Mirror, ShouldEqual, "rapidvideo")
			So(link.Name, ShouldEqual, "Episode_001")
			So(len(announced), ShouldEqual, 1)
		})

		Convey("Announces progress even when the quality is missing", func() {
			_, err := site.ResolveEpisode(context.Background(), episode, source.Quality720, progress)
			So(errors.Is(err, mirror.ErrQualityNotFound), ShouldBeTrue)
			So(len(announced), ShouldEqual, 1)
		})

		Convey("Reports an episode no mirror hosts", func() {
			bounced := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/Anime/Test-Show", http.StatusFound)
			}))
			defer bounced.Close()

			_, err := site.ResolveEpisode(context.Background(), &source.Episode{
				Name: "Episode_002",
				URL:  bounced.URL + "/Anime/Test-Show/Episode-002?id=2",
			}, source.QualityHighest, progress)
			So(errors.Is(err, ErrNoServerFound), ShouldBeTrue)
			So(announced, ShouldBeEmpty)
		})

		Convey("Reports a served page without an embed link", func() {
			blank := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html><body>nothing here</body></html>`))
			}))
			defer blank.Close()

			_, err := site.ResolveEpisode(context.Background(), &source.Episode{
				Name: "Episode_003",
				URL:  blank.URL + "/Anime/Test-Show/Episode-003?id=3",
			}, source.QualityHighest, progress)
			So(err, ShouldNotBeNil)
			So(announced, ShouldBeEmpty)
		})
	})
}
