package controller

import (
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/ythdp/ythdp/player"
	"github.com/ythdp/ythdp/quality"
	"github.com/ythdp/ythdp/settings"
)

type commit struct {
	min, max quality.ID
	handle   string
}

type fakePlayer struct {
	id      string
	offers  []player.QualityOffer
	ids     []quality.ID
	current quality.ID
	label   string

	listErr  error
	setErr   error
	panicMsg string

	commits []commit
}

func (p *fakePlayer) ID() string { return p.id }

func (p *fakePlayer) ListQualityOffers() ([]player.QualityOffer, error) {
	return p.offers, p.listErr
}

func (p *fakePlayer) ListQualityIDs() ([]quality.ID, error) {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	return p.ids, p.listErr
}

func (p *fakePlayer) CurrentQualityID() (quality.ID, error) { return p.current, nil }

func (p *fakePlayer) CurrentQualityLabel() (string, error) { return p.label, nil }

func (p *fakePlayer) PlaybackState() (player.State, error) { return player.Playing, nil }

func (p *fakePlayer) SetQualityRange(min, max quality.ID, handle string) error {
	if p.setErr != nil {
		return p.setErr
	}
	p.commits = append(p.commits, commit{min, max, handle})
	return nil
}

type scheduled struct {
	delay time.Duration
	fn    func()
}

type fakeScheduler struct {
	pending []scheduled
}

func (s *fakeScheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, scheduled{d, fn})
}

// next runs the oldest pending callback and returns its delay.
func (s *fakeScheduler) next() time.Duration {
	call := s.pending[0]
	s.pending = s.pending[1:]
	call.fn()
	return call.delay
}

type fakeRecorder struct {
	outcomes []string
}

func (r *fakeRecorder) Observe(_, outcome string) {
	r.outcomes = append(r.outcomes, outcome)
}

func offer(id quality.ID, label, handle string) player.QualityOffer {
	return player.NewQualityOffer(id, label, true, handle)
}

func forced(target quality.ID) settings.Preferences {
	prefs := settings.Defaults()
	prefs.TargetQuality = target
	return prefs
}

func TestForcedMode(t *testing.T) {
	Convey("Given a controller and a player offering 4K, 1440p and 1080p", t, func() {
		sched := &fakeScheduler{}
		rec := &fakeRecorder{}
		c := New(DefaultOptions, sched, rec)
		p := &fakePlayer{
			id:  "mpv#1",
			ids: []quality.ID{quality.HD2160, quality.HD1440, quality.HD1080, quality.Auto},
			offers: []player.QualityOffer{
				offer(quality.HD2160, "2160p", "1"),
				offer(quality.HD1440, "1440p", "2"),
				offer(quality.HD1440, "1440p Premium", "3"),
				offer(quality.HD1080, "1080p", "4"),
			},
		}

		Convey("The target is committed with its premium variant", func() {
			c.Evaluate(p, forced(quality.HD1440))
			So(p.commits, ShouldResemble, []commit{{quality.HD1440, quality.HD1440, "3"}})
			So(c.State(), ShouldResemble, Committed{Tier: quality.HD1440})
			So(sched.pending, ShouldBeEmpty)
			So(rec.outcomes, ShouldResemble, []string{OutcomeCommitted})
		})

		Convey("A target without a premium variant commits with no handle", func() {
			c.Evaluate(p, forced(quality.HD1080))
			So(p.commits, ShouldResemble, []commit{{quality.HD1080, quality.HD1080, ""}})
		})

		Convey("A premium variant that is not playable is ignored", func() {
			p.offers[2].Playable = false
			c.Evaluate(p, forced(quality.HD1440))
			So(p.commits[0].handle, ShouldEqual, "")
		})

		Convey("A target above everything offered resolves to the best tier below it", func() {
			c.Evaluate(p, forced(quality.Highres))
			So(p.commits[0].max, ShouldEqual, quality.HD2160)
		})

		Convey("Evaluating twice commits the same tier", func() {
			c.Evaluate(p, forced(quality.HD1440))
			first := c.State()
			c.Evaluate(p, forced(quality.HD1440))
			So(c.State(), ShouldResemble, first)
			So(p.commits[1], ShouldResemble, p.commits[0])
			So(sched.pending, ShouldBeEmpty)
		})
	})
}

func TestNotFoundRetries(t *testing.T) {
	Convey("Given a player offering only 1440p and 720p", t, func() {
		sched := &fakeScheduler{}
		rec := &fakeRecorder{}
		c := New(DefaultOptions, sched, rec)
		p := &fakePlayer{
			id:  "mpv#1",
			ids: []quality.ID{quality.HD1440, "hd720"},
			offers: []player.QualityOffer{
				offer(quality.HD1440, "1440p Premium", "9"),
				offer("hd720", "720p", "2"),
			},
		}

		Convey("A 1080p target retries exactly three times before falling back", func() {
			c.Evaluate(p, forced(quality.HD1080))
			So(p.commits, ShouldBeEmpty)
			So(c.State(), ShouldResemble, Retrying{Count: 1})

			So(sched.next(), ShouldEqual, time.Second)
			So(c.State(), ShouldResemble, Retrying{Count: 2})

			So(sched.next(), ShouldEqual, time.Second)
			So(c.State(), ShouldResemble, Retrying{Count: 3})
			So(p.commits, ShouldBeEmpty)

			So(sched.next(), ShouldEqual, time.Second)
			So(sched.pending, ShouldBeEmpty)
			So(p.commits, ShouldResemble, []commit{{quality.HD1440, quality.HD1440, "9"}})
			So(c.State(), ShouldResemble, Committed{Tier: quality.HD1440})
			So(rec.outcomes, ShouldResemble, []string{OutcomeRetry, OutcomeRetry, OutcomeRetry, OutcomeFallback})
		})

		Convey("The fallback is the tallest tier even when listed out of order", func() {
			p.ids = []quality.ID{"hd720", quality.HD1440}
			c.Evaluate(p, forced(quality.HD1080))
			sched.next()
			sched.next()
			sched.next()
			So(p.commits, ShouldResemble, []commit{{quality.HD1440, quality.HD1440, "9"}})
			So(rec.outcomes[len(rec.outcomes)-1], ShouldEqual, OutcomeFallback)
		})

		Convey("A player offering only tiers below the catalog falls back to the tallest", func() {
			p.ids = []quality.ID{"large", "hd720"}
			c.Evaluate(p, forced(quality.HD1080))
			sched.next()
			sched.next()
			sched.next()
			So(p.commits, ShouldResemble, []commit{{"hd720", "hd720", ""}})
		})

		Convey("The target showing up during a retry is committed", func() {
			c.Evaluate(p, forced(quality.HD1080))
			p.ids = append(p.ids, quality.HD1080)
			sched.next()
			So(p.commits, ShouldResemble, []commit{{quality.HD1080, quality.HD1080, ""}})
			So(c.State(), ShouldResemble, Committed{Tier: quality.HD1080})
			So(sched.pending, ShouldBeEmpty)
		})

		Convey("A replaced player starts a fresh attempt", func() {
			c.Evaluate(p, forced(quality.HD1080))
			sched.next()
			So(c.State(), ShouldResemble, Retrying{Count: 2})

			replacement := *p
			replacement.id = "mpv#2"
			c.Evaluate(&replacement, forced(quality.HD1080))
			So(c.State(), ShouldResemble, Retrying{Count: 1})
		})

		Convey("Retries run against the latest player", func() {
			c.Evaluate(p, forced(quality.HD1080))

			replacement := &fakePlayer{id: "mpv#2", ids: []quality.ID{quality.HD2160, quality.HD1080}}
			c.Evaluate(replacement, forced(quality.HD1080))
			So(replacement.commits, ShouldHaveLength, 1)

			sched.next()
			So(p.commits, ShouldBeEmpty)
			So(replacement.commits, ShouldHaveLength, 2)
		})
	})

	Convey("A player offering only auto has its pin released", t, func() {
		sched := &fakeScheduler{}
		c := New(DefaultOptions, sched, nil)
		p := &fakePlayer{id: "mpv#1", ids: []quality.ID{quality.Auto}}

		c.Evaluate(p, forced(quality.HD1080))
		So(p.commits, ShouldResemble, []commit{{quality.Auto, quality.Auto, ""}})
		So(c.State(), ShouldResemble, Committed{Tier: quality.Auto})
	})
}

func TestFailures(t *testing.T) {
	Convey("Given a player whose commands fail", t, func() {
		sched := &fakeScheduler{}
		rec := &fakeRecorder{}
		c := New(DefaultOptions, sched, rec)
		p := &fakePlayer{
			id:     "mpv#1",
			ids:    []quality.ID{quality.HD1080},
			setErr: errors.New("connection reset"),
		}

		Convey("Retries back off linearly and then give up", func() {
			So(func() { c.Evaluate(p, forced(quality.HD1080)) }, ShouldNotPanic)

			So(sched.next(), ShouldEqual, 1500*time.Millisecond)
			So(sched.next(), ShouldEqual, 2000*time.Millisecond)
			So(sched.next(), ShouldEqual, 2500*time.Millisecond)

			So(sched.pending, ShouldBeEmpty)
			So(c.State(), ShouldResemble, Idle{})
			So(rec.outcomes, ShouldResemble, []string{OutcomeError, OutcomeError, OutcomeError, OutcomeAbandoned})
		})

		Convey("A recovered player commits on the next retry", func() {
			c.Evaluate(p, forced(quality.HD1080))
			p.setErr = nil
			sched.next()
			So(p.commits, ShouldHaveLength, 1)
			So(sched.pending, ShouldBeEmpty)
		})
	})

	Convey("A panicking player is treated as a transient error", t, func() {
		sched := &fakeScheduler{}
		c := New(DefaultOptions, sched, nil)
		p := &fakePlayer{id: "mpv#1", panicMsg: "boom"}

		So(func() { c.Evaluate(p, forced(quality.HD1080)) }, ShouldNotPanic)
		So(sched.pending, ShouldHaveLength, 1)
		So(sched.pending[0].delay, ShouldEqual, 1500*time.Millisecond)
		So(c.State(), ShouldResemble, Retrying{Count: 1})
	})

	Convey("A player that is not ready is left alone", t, func() {
		sched := &fakeScheduler{}
		rec := &fakeRecorder{}
		c := New(DefaultOptions, sched, rec)

		Convey("when it reports so", func() {
			p := &fakePlayer{id: "mpv#1", listErr: player.ErrNotReady}
			c.Evaluate(p, forced(quality.HD1080))
			So(p.commits, ShouldBeEmpty)
		})

		Convey("when it offers nothing", func() {
			p := &fakePlayer{id: "mpv#1"}
			c.Evaluate(p, forced(quality.HD1080))
			So(p.commits, ShouldBeEmpty)
		})

		Convey("when there is no player", func() {
			c.Evaluate(nil, forced(quality.HD1080))
		})

		So(sched.pending, ShouldBeEmpty)
		So(c.State(), ShouldResemble, Idle{})
		So(rec.outcomes, ShouldResemble, []string{OutcomeNotReady})
	})
}

func TestAutomaticMode(t *testing.T) {
	Convey("Given auto mode on a player playing 720p", t, func() {
		sched := &fakeScheduler{}
		rec := &fakeRecorder{}
		c := New(DefaultOptions, sched, rec)
		p := &fakePlayer{
			id:      "mpv#1",
			current: "hd720",
			label:   "720p",
			ids:     []quality.ID{quality.HD2160, quality.HD1080, "hd720", quality.Auto},
			offers: []player.QualityOffer{
				offer(quality.HD2160, "2160p", "1"),
				offer(quality.HD1080, "1080p", "2"),
				offer(quality.HD1080, "1080p Premium", "3"),
				offer("hd720", "720p", "4"),
			},
		}
		prefs := forced(quality.Auto)

		Convey("Force HD picks the lowest HD tier, preferring premium", func() {
			c.Evaluate(p, prefs)
			So(p.commits, ShouldResemble, []commit{{quality.HD1080, quality.HD1080, "3"}})
			So(c.State(), ShouldResemble, Committed{Tier: quality.HD1080})
			So(sched.pending, ShouldBeEmpty)
		})

		Convey("Without force HD nothing is committed", func() {
			prefs.ForceMinimumHD = false
			c.Evaluate(p, prefs)
			So(p.commits, ShouldBeEmpty)
			So(rec.outcomes, ShouldResemble, []string{OutcomeNoop})
		})

		Convey("Playback already in HD is left alone", func() {
			p.current = quality.HD1440
			c.Evaluate(p, prefs)
			So(p.commits, ShouldBeEmpty)
		})

		Convey("Without any HD tier on offer nothing is committed", func() {
			p.ids = []quality.ID{"hd720", "large", quality.Auto}
			p.offers = []player.QualityOffer{offer("hd720", "720p", "4"), offer("large", "480p", "5")}
			c.Evaluate(p, prefs)
			So(p.commits, ShouldBeEmpty)
			So(c.State(), ShouldResemble, Idle{})
		})

		Convey("An HD variant the player cannot play is not forced", func() {
			p.ids = []quality.ID{"hd720"}
			p.offers = []player.QualityOffer{
				player.NewQualityOffer(quality.HD1080, "1080p", false, "2"),
				offer("hd720", "720p", "4"),
			}
			c.Evaluate(p, prefs)
			So(p.commits, ShouldBeEmpty)
			So(c.State(), ShouldResemble, Idle{})
			So(sched.pending, ShouldBeEmpty)
			So(rec.outcomes, ShouldResemble, []string{OutcomeNoop})
		})

		Convey("An unknown current quality means the player is not ready", func() {
			p.current = ""
			c.Evaluate(p, prefs)
			So(p.commits, ShouldBeEmpty)
			So(rec.outcomes, ShouldResemble, []string{OutcomeNotReady})
		})

		Convey("A no-op clears a pending attempt", func() {
			c.Evaluate(p, forced(quality.Highres))
			c.Evaluate(&fakePlayer{id: "mpv#1", ids: []quality.ID{"hd720"}}, forced(quality.HD1080))
			So(c.State(), ShouldResemble, Retrying{Count: 1})

			prefs.ForceMinimumHD = false
			c.Evaluate(p, prefs)
			So(c.State(), ShouldResemble, Idle{})
		})
	})
}
