package menu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/ythdp/ythdp/quality"
	"github.com/ythdp/ythdp/settings"
)

type harness struct {
	prefs    settings.Preferences
	triggers int
	checks   int
	updates  []string
}

func (h *harness) presenter() *Presenter {
	return New(
		func() settings.Preferences { return h.prefs },
		Actions{
			Update: func(_ context.Context, field string, value any) error {
				h.updates = append(h.updates, field)
				switch field {
				case settings.FieldTargetQuality:
					h.prefs.TargetQuality = value.(quality.ID)
				case settings.FieldForceMinimumHD:
					h.prefs.ForceMinimumHD = value.(bool)
				case settings.FieldMenuExpanded:
					h.prefs.MenuExpanded = value.(bool)
				case settings.FieldDebugLogging:
					h.prefs.DebugLogging = value.(bool)
				}
				return nil
			},
			Trigger:      func() { h.triggers++ },
			CheckUpdates: func(context.Context) { h.checks++ },
		},
	)
}

func ids(items []Item) []string {
	return lo.Map(items, func(item Item, _ int) string { return item.ID })
}

func labelOf(items []Item, id string) string {
	item, _ := lo.Find(items, func(item Item) bool { return item.ID == id })
	return item.Label
}

func TestItems(t *testing.T) {
	Convey("Given default preferences", t, func() {
		h := &harness{prefs: settings.Defaults()}
		p := h.presenter()
		check := checkMark()

		Convey("Every entry is listed in order", func() {
			So(ids(p.Items()), ShouldResemble, []string{
				ExpandID,
				QualityID(quality.Highres),
				QualityID(quality.HD2160),
				QualityID(quality.HD1440),
				QualityID(quality.HD1080),
				QualityID(quality.Auto),
				OptionsID,
				ForceHDID,
				DebugID,
				UpdatesID,
				CheckUpdatesID,
			})
		})

		Convey("The target and enabled options carry a check mark", func() {
			items := p.Items()
			So(labelOf(items, QualityID(quality.HD1080)), ShouldEqual, "1080p "+check)
			So(labelOf(items, QualityID(quality.Highres)), ShouldEqual, "4320p")
			So(labelOf(items, QualityID(quality.Auto)), ShouldEqual, "Optimized Auto")
			So(labelOf(items, ForceHDID), ShouldEqual, "Force HD (min 1080p) "+check)
			So(labelOf(items, DebugID), ShouldEqual, "DEBUG")
		})

		Convey("A collapsed menu only shows the always visible entries", func() {
			So(ids(p.Visible()), ShouldResemble, []string{ExpandID, OptionsID, UpdatesID, CheckUpdatesID})
			So(labelOf(p.Visible(), ExpandID), ShouldEndWith, "▾")
		})

		Convey("An expanded menu shows everything", func() {
			h.prefs.MenuExpanded = true
			So(p.Visible(), ShouldResemble, p.Items())
			So(labelOf(p.Visible(), ExpandID), ShouldEndWith, "▴")
		})
	})
}

func TestSelect(t *testing.T) {
	Convey("Given a presenter", t, func() {
		h := &harness{prefs: settings.Defaults()}
		p := h.presenter()
		ctx := context.Background()

		Convey("Picking a new tier updates the target and re-evaluates", func() {
			So(p.Select(ctx, QualityID(quality.HD1440)), ShouldBeNil)
			So(h.prefs.TargetQuality, ShouldEqual, quality.HD1440)
			So(h.triggers, ShouldEqual, 1)
		})

		Convey("Picking the current target does nothing", func() {
			So(p.Select(ctx, QualityID(quality.HD1080)), ShouldBeNil)
			So(h.updates, ShouldBeEmpty)
			So(h.triggers, ShouldEqual, 0)
		})

		Convey("Toggling force HD re-evaluates", func() {
			So(p.Select(ctx, ForceHDID), ShouldBeNil)
			So(h.prefs.ForceMinimumHD, ShouldBeFalse)
			So(h.triggers, ShouldEqual, 1)
		})

		Convey("Toggling debug or expanding does not re-evaluate", func() {
			So(p.Select(ctx, DebugID), ShouldBeNil)
			So(p.Select(ctx, ExpandID), ShouldBeNil)
			So(h.prefs.DebugLogging, ShouldBeTrue)
			So(h.prefs.MenuExpanded, ShouldBeTrue)
			So(h.triggers, ShouldEqual, 0)
		})

		Convey("Separators do nothing", func() {
			So(p.Select(ctx, OptionsID), ShouldBeNil)
			So(p.Select(ctx, UpdatesID), ShouldBeNil)
			So(h.updates, ShouldBeEmpty)
		})

		Convey("Checking for updates calls the checker", func() {
			So(p.Select(ctx, CheckUpdatesID), ShouldBeNil)
			So(h.checks, ShouldEqual, 1)
		})

		Convey("Unknown items are rejected", func() {
			So(p.Select(ctx, QualityID("hd720")), ShouldNotBeNil)
			So(p.Select(ctx, "bogus"), ShouldNotBeNil)
		})

		Convey("Failed updates are returned without re-evaluating", func() {
			p.actions.Update = func(context.Context, string, any) error { return errors.New("disk full") }
			So(p.Select(ctx, QualityID(quality.HD2160)), ShouldNotBeNil)
			So(h.triggers, ShouldEqual, 0)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a presenter answering from a script", t, func() {
		h := &harness{prefs: settings.Defaults()}
		p := h.presenter()

		var prompts [][]string
		answers := []string{"Quality Menu", "1440p", "Check"}
		p.ask = func(_ string, options []string) (int, error) {
			prompts = append(prompts, options)
			if len(answers) == 0 {
				return 0, terminal.InterruptErr
			}

			answer := answers[0]
			answers = answers[1:]
			_, index, _ := lo.FindIndexOf(options, func(option string) bool {
				return strings.HasPrefix(option, answer)
			})
			return index, nil
		}

		Convey("Selections are applied until interrupted", func() {
			So(p.Run(context.Background()), ShouldBeNil)
			So(h.prefs.MenuExpanded, ShouldBeTrue)
			So(h.prefs.TargetQuality, ShouldEqual, quality.HD1440)
			So(h.checks, ShouldEqual, 1)
			So(prompts, ShouldHaveLength, 4)
			So(prompts[0], ShouldHaveLength, 4)
			So(prompts[1], ShouldHaveLength, 11)
		})

		Convey("A cancelled context stops the menu", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(p.Run(ctx), ShouldEqual, context.Canceled)
			So(prompts, ShouldBeEmpty)
		})
	})
}
