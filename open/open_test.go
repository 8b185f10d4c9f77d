package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ythdp/ythdp/constant"
)

func TestCommand(t *testing.T) {
	Convey("Given a release page", t, func() {
		url := constant.DownloadURL

		Convey("Each supported platform has a handler", func() {
			for goos, name := range map[string]string{
				constant.Darwin:  "open",
				constant.Linux:   "xdg-open",
				constant.Android: "termux-open",
			} {
				cmd, ok := command(goos, url)
				So(ok, ShouldBeTrue)
				So(cmd.Args, ShouldResemble, []string{name, url})
			}

			cmd, ok := command(constant.Windows, url)
			So(ok, ShouldBeTrue)
			So(cmd.Args[1:], ShouldResemble, []string{"url.dll,FileProtocolHandler", url})
		})

		Convey("Other platforms are not supported", func() {
			_, ok := command("plan9", url)
			So(ok, ShouldBeFalse)
		})
	})
}
