package progress

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPlain(t *testing.T) {
	Convey("Plain display", t, func() {
		var buf bytes.Buffer
		p := NewPlain(&buf)

		Convey("Prints stage, status and log lines in order", func() {
			p.Stage("Downloading episodes", 3)
			p.SetStatus("Found Episode_001 on nova")
			p.Write("+ Episode_001 (1.0 MB)")
			p.Advance(1)

			So(p.Close(), ShouldBeNil)

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			So(lines, ShouldResemble, []string{
				"Downloading episodes",
				"Found Episode_001 on nova",
				"+ Episode_001 (1.0 MB)",
			})
		})

		Convey("Byte sinks swallow the stream silently", func() {
			sink := p.Bytes("Episode_001", 100)

			n, err := sink.Write(make([]byte, 10))
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 10)

			sink.Finish()
			So(buf.String(), ShouldBeEmpty)
		})
	})
}
