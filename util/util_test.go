package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ythdp/ythdp/filesystem"
)

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "tier", "tiers"), ShouldEqual, "1 tier")
		So(Quantify(3, "tier", "tiers"), ShouldEqual, "3 tiers")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("up to date"), ShouldEqual, "Up to date")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestDelete(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()

		Convey("Files are removed", func() {
			So(fs.WriteFile("cache/version", []byte("3.2.0"), 0o600), ShouldBeNil)
			So(Delete("cache/version"), ShouldBeNil)

			exists, err := fs.Exists("cache/version")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Directories are removed with their contents", func() {
			So(fs.WriteFile("cache/a/b", nil, 0o600), ShouldBeNil)
			So(Delete("cache"), ShouldBeNil)

			exists, err := fs.DirExists("cache")
			So(err, ShouldBeNil)
			So(exists, ShouldBeFalse)
		})

		Convey("Missing paths are an error", func() {
			So(Delete("missing"), ShouldNotBeNil)
		})
	})
}

func TestIgnore(t *testing.T) {
	Convey("Ignore calls the function", t, func() {
		called := false
		Ignore(func() error {
			called = true
			return nil
		})
		So(called, ShouldBeTrue)
	})
}
