package source

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestQuality(t *testing.T) {
	Convey("Quality", t, func() {
		Convey("Sentinels delegate the pick to the mirror", func() {
			So(QualityHighest.Sentinel(), ShouldBeTrue)
			So(QualityLowest.Sentinel(), ShouldBeTrue)
			So(Quality720.Sentinel(), ShouldBeFalse)
		})

		Convey("ParseQuality accepts every registered selector", func() {
			for _, name := range QualityNames() {
				q, err := ParseQuality(name)
				So(err, ShouldBeNil)
				So(q.String(), ShouldEqual, name)
			}
		})

		Convey("ParseQuality rejects unknown labels with a suggestion", func() {
			_, err := ParseQuality("720")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "720p")
		})

		Convey("ParseQuality rejects labels with no close match", func() {
			_, err := ParseQuality("zzz")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDownloadLink(t *testing.T) {
	Convey("DownloadLink", t, func() {
		link := &DownloadLink{
			Name:   "Episode 001",
			URL:    "https://cdn.example.com/v.mp4",
			Method: "GET",
			Mirror: "rapidvideo",
		}

		Convey("Filename sanitizes the episode name and appends the container", func() {
			So(link.Filename(), ShouldEqual, "Episode_001.mp4")
		})

		Convey("String identifies the episode", func() {
			So(link.String(), ShouldEqual, "Episode 001")
		})
	})
}
