package quality

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog(t *testing.T) {
	Convey("Catalog", t, func() {
		Convey("Every tier except auto has a strictly positive rank", func() {
			for _, id := range IDs() {
				rank, ok := RankOf(id)
				So(ok, ShouldBeTrue)
				if id == Auto {
					So(rank, ShouldEqual, 0)
				} else {
					So(rank, ShouldBeGreaterThan, 0)
				}
			}
		})

		Convey("Ranks are strictly decreasing in catalog order", func() {
			ids := IDs()
			for i := 1; i < len(ids); i++ {
				prev, _ := RankOf(ids[i-1])
				cur, _ := RankOf(ids[i])
				So(prev, ShouldBeGreaterThan, cur)
			}
		})

		Convey("Unknown tiers have no rank", func() {
			_, ok := RankOf("hd720")
			So(ok, ShouldBeFalse)
			So(Known("bogus"), ShouldBeFalse)
			So(IsHD("hd720"), ShouldBeFalse)
		})

		Convey("Describe renders the rank", func() {
			So(Describe(HD1440), ShouldEqual, "hd1440 (1440p)")
			So(Describe(Auto), ShouldEqual, "auto (Optimized Auto)")
			So(Describe("large"), ShouldEqual, "large")
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Resolve", t, func() {
		Convey("Returns the exact tier when offered", func() {
			got := Resolve(HD1440, []ID{HD2160, HD1440, HD1080, Auto})
			So(got.MustGet(), ShouldEqual, HD1440)
		})

		Convey("Returns the highest tier not exceeding the target", func() {
			got := Resolve(HD2160, []ID{HD1080, Highres, HD1440})
			So(got.MustGet(), ShouldEqual, HD1440)
		})

		Convey("Never returns a tier above the target", func() {
			got := Resolve(HD1080, []ID{Highres, HD2160, HD1440})
			So(got.IsPresent(), ShouldBeFalse)
		})

		Convey("Ignores tiers unknown to the catalog", func() {
			got := Resolve(HD1080, []ID{"hd720", "large", "medium"})
			So(got.IsPresent(), ShouldBeFalse)
		})

		Convey("With only 720 and 1440 offered a 1080 target has no match", func() {
			got := Resolve(HD1080, []ID{"hd720", HD1440})
			So(got.IsPresent(), ShouldBeFalse)
		})

		Convey("Unknown target has no match", func() {
			got := Resolve("bogus", []ID{HD1080})
			So(got.IsPresent(), ShouldBeFalse)
		})

		Convey("Auto only matches auto", func() {
			got := Resolve(Auto, []ID{HD1080, Auto})
			So(got.MustGet(), ShouldEqual, Auto)
		})

		Convey("Equal ranks keep first-seen order", func() {
			got := Resolve(HD2160, []ID{HD1080, HD1440, HD1440})
			So(got.MustGet(), ShouldEqual, HD1440)
		})

		Convey("Result is the maximum rank not exceeding the target for every target", func() {
			available := []ID{HD1080, Highres, "hd720", Auto}
			for _, target := range IDs() {
				limit, _ := RankOf(target)
				best := -1
				for _, id := range available {
					if r, ok := RankOf(id); ok && r <= limit && r > best {
						best = r
					}
				}

				got := Resolve(target, available)
				if best < 0 {
					So(got.IsPresent(), ShouldBeFalse)
					continue
				}
				rank, _ := RankOf(got.MustGet())
				So(rank, ShouldEqual, best)
			}
		})
	})
}

func TestForceHDHelpers(t *testing.T) {
	Convey("Force HD helpers", t, func() {
		Convey("HasHD detects catalog HD tiers only", func() {
			So(HasHD([]ID{"hd720", "large"}), ShouldBeFalse)
			So(HasHD([]ID{"hd720", HD1080}), ShouldBeTrue)
			So(HasHD([]ID{Auto}), ShouldBeFalse)
		})

		Convey("LowestHD picks 1080 over 2160", func() {
			got := LowestHD([]ID{HD2160, HD1080, "hd720", Auto})
			So(got.MustGet(), ShouldEqual, HD1080)
		})

		Convey("LowestHD picks the lowest HD tier regardless of order", func() {
			got := LowestHD([]ID{HD1440, Highres, HD2160})
			So(got.MustGet(), ShouldEqual, HD1440)
		})

		Convey("LowestHD is empty without HD tiers", func() {
			So(LowestHD([]ID{"hd720"}).IsPresent(), ShouldBeFalse)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Parse", t, func() {
		cases := map[string]ID{
			"hd1440":  HD1440,
			"HD2160":  HD2160,
			" 4k ":    HD2160,
			"8K":      Highres,
			"1080p":   HD1080,
			"auto":    Auto,
			"1440p":   HD1440,
			"highres": Highres,
		}

		for input, want := range cases {
			got, err := Parse(input)
			So(err, ShouldBeNil)
			So(got, ShouldEqual, want)
		}

		Convey("Misspellings are matched fuzzily", func() {
			got, err := Parse("hd144")
			So(err, ShouldBeNil)
			So(got, ShouldEqual, HD1440)
		})

		Convey("Garbage is rejected", func() {
			_, err := Parse("zzzz")
			So(err, ShouldNotBeNil)
			_, err = Parse("  ")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLadder(t *testing.T) {
	Convey("ForSize", t, func() {
		So(ForSize(1920, 1080), ShouldEqual, HD1080)
		So(ForSize(1920, 1072), ShouldEqual, HD1080)
		So(ForSize(1920, 800), ShouldEqual, HD1080)
		So(ForSize(1080, 1920), ShouldEqual, HD1080)
		So(ForSize(2560, 1440), ShouldEqual, HD1440)
		So(ForSize(3840, 2160), ShouldEqual, HD2160)
		So(ForSize(7680, 4320), ShouldEqual, Highres)
		So(ForSize(1280, 720), ShouldEqual, HD720)
		So(ForSize(256, 144), ShouldEqual, Tiny)
	})

	Convey("Height", t, func() {
		h, ok := Height(HD1440)
		So(ok, ShouldBeTrue)
		So(h, ShouldEqual, 1440)

		h, ok = Height(Large)
		So(ok, ShouldBeTrue)
		So(h, ShouldEqual, 480)

		_, ok = Height(Auto)
		So(ok, ShouldBeFalse)
	})

	Convey("Highest", t, func() {
		Convey("Ignores the order tiers are listed in", func() {
			So(Highest([]ID{HD720, HD1080, Auto, HD1440}).MustGet(), ShouldEqual, HD1440)
			So(Highest([]ID{Auto, Large, HD720}).MustGet(), ShouldEqual, HD720)
		})

		Convey("Falls back to auto when nothing else is listed", func() {
			So(Highest([]ID{"bogus", Auto}).MustGet(), ShouldEqual, Auto)
		})

		Convey("Is None when nothing usable is listed", func() {
			So(Highest(nil).IsAbsent(), ShouldBeTrue)
			So(Highest([]ID{"bogus"}).IsAbsent(), ShouldBeTrue)
		})
	})
}
