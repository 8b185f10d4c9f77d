// Package controller decides which quality to request from the player and commits it,
// retrying when the target is not offered yet or the player misbehaves.
package controller

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/player"
	"github.com/ythdp/ythdp/quality"
	"github.com/ythdp/ythdp/settings"
)

// Scheduler runs fn after d on the same goroutine that calls Evaluate.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// Recorder receives the outcome of every evaluation.
type Recorder interface {
	Observe(mode, outcome string)
}

// Outcomes reported to the Recorder.
const (
	OutcomeCommitted = "committed"
	OutcomeFallback  = "fallback"
	OutcomeRetry     = "retry"
	OutcomeError     = "error"
	OutcomeNotReady  = "not_ready"
	OutcomeNoop      = "noop"
	OutcomeAbandoned = "abandoned"
)

const (
	modeAutomatic = "automatic"
	modeForced    = "forced"
)

// Options tune the retry policy.
type Options struct {
	MaxRetries int

	// RetryDelay is the fixed wait before looking for a missing target again.
	RetryDelay time.Duration

	// ErrorBackoffBase and ErrorBackoffStep give the wait after a failure:
	// base + step * attempt.
	ErrorBackoffBase time.Duration
	ErrorBackoffStep time.Duration
}

// DefaultOptions is the policy used when none is configured.
var DefaultOptions = Options{
	MaxRetries:       3,
	RetryDelay:       time.Second,
	ErrorBackoffBase: time.Second,
	ErrorBackoffStep: 500 * time.Millisecond,
}

// Controller is not safe for concurrent use. Evaluate and the callbacks it hands to
// the Scheduler must run on a single goroutine.
type Controller struct {
	options   Options
	scheduler Scheduler
	recorder  Recorder

	state State

	// player and prefs are the latest seen by Evaluate. Retries run against them.
	player   player.Player
	playerID string
	prefs    settings.Preferences
}

// New creates a controller. recorder may be nil.
func New(options Options, scheduler Scheduler, recorder Recorder) *Controller {
	if options.MaxRetries < 0 {
		options.MaxRetries = 0
	}

	return &Controller{
		options:   options,
		scheduler: scheduler,
		recorder:  recorder,
		state:     Idle{},
	}
}

// State returns the current attempt state.
func (c *Controller) State() State {
	return c.state
}

// Evaluate decides and commits the quality for p. It never panics and never fails:
// problems are retried with backoff or logged and dropped.
func (c *Controller) Evaluate(p player.Player, prefs settings.Preferences) {
	mode := lo.Ternary(prefs.TargetQuality == quality.Auto, modeAutomatic, modeForced)

	defer func() {
		if r := recover(); r != nil {
			c.fail(mode, fmt.Errorf("panic: %v", r))
		}
	}()

	c.prefs = prefs
	if p == nil {
		log.Debugf("no player to evaluate")
		c.observe(mode, OutcomeNotReady)
		return
	}
	c.bind(p)

	var err error
	if mode == modeAutomatic {
		err = c.automatic(p, prefs)
	} else {
		err = c.forced(p, prefs)
	}

	switch {
	case err == nil:
	case errors.Is(err, player.ErrNotReady):
		log.Debugf("player not ready: %v", err)
		c.observe(mode, OutcomeNotReady)
	default:
		c.fail(mode, err)
	}
}

// bind switches the attempt over to p. A replaced player starts from scratch.
func (c *Controller) bind(p player.Player) {
	c.player = p

	id := p.ID()
	if id == c.playerID {
		return
	}

	if c.playerID != "" {
		log.Debugf("player changed from %s to %s, resetting attempt", c.playerID, id)
	}
	c.playerID = id
	c.state = Idle{}
}

// automatic leaves the player's own choice alone unless it is below HD and HD is
// offered while ForceMinimumHD is on.
func (c *Controller) automatic(p player.Player, prefs settings.Preferences) error {
	current, err := p.CurrentQualityID()
	if err != nil {
		return err
	}
	if current == "" {
		return fmt.Errorf("%w: no current quality", player.ErrNotReady)
	}

	label, err := p.CurrentQualityLabel()
	if err != nil {
		return err
	}
	log.Debugf("auto mode, current quality %s (%s)", current, label)

	if !prefs.ForceMinimumHD {
		return c.noop("force HD disabled")
	}

	// Offers can include variants the player cannot play; only listed tiers count.
	available, err := p.ListQualityIDs()
	if err != nil {
		return err
	}

	if !quality.HasHD(available) {
		return c.noop("no HD tier offered")
	}
	if rank, ok := quality.RankOf(current); ok && rank >= quality.HDRank {
		return c.noop("already HD")
	}

	tier, ok := quality.LowestHD(available).Get()
	if !ok {
		return c.noop("no HD tier offered")
	}

	log.Debugf("forcing minimum HD: %s -> %s", current, tier)
	if err := c.commit(p, tier); err != nil {
		return err
	}
	c.observe(modeAutomatic, OutcomeCommitted)
	return nil
}

func (c *Controller) noop(reason string) error {
	log.Debugf("auto mode, nothing to do: %s", reason)
	c.state = Idle{}
	c.observe(modeAutomatic, OutcomeNoop)
	return nil
}

// forced pins the best offered tier not above the target, waiting for the target
// to show up before settling for less.
func (c *Controller) forced(p player.Player, prefs settings.Preferences) error {
	available, err := p.ListQualityIDs()
	if err != nil {
		return err
	}
	if len(available) == 0 {
		return fmt.Errorf("%w: no qualities offered", player.ErrNotReady)
	}

	if tier, ok := quality.Resolve(prefs.TargetQuality, available).Get(); ok {
		if err := c.commit(p, tier); err != nil {
			return err
		}
		log.Infof("quality set to %s", quality.Describe(tier))
		c.observe(modeForced, OutcomeCommitted)
		return nil
	}

	if count := c.state.attempts(); count < c.options.MaxRetries {
		count++
		c.state = Retrying{Count: count}
		log.Debugf("target %s not found in %v, retrying (%d/%d)", prefs.TargetQuality, available, count, c.options.MaxRetries)
		c.observe(modeForced, OutcomeRetry)
		c.schedule(c.options.RetryDelay)
		return nil
	}

	fallback := quality.Highest(available).OrElse(quality.Auto)
	log.Warnf("target %s not found after %d retries, falling back to %s", prefs.TargetQuality, c.options.MaxRetries, fallback)
	c.state = Idle{}
	if err := c.commit(p, fallback); err != nil {
		return err
	}
	c.observe(modeForced, OutcomeFallback)
	return nil
}

// commit pins tier on p, preferring the premium variant. Auto releases the pin.
func (c *Controller) commit(p player.Player, tier quality.ID) error {
	if tier == quality.Auto {
		if err := p.SetQualityRange(quality.Auto, quality.Auto, ""); err != nil {
			return err
		}
		c.state = Committed{Tier: tier}
		return nil
	}

	offers, err := p.ListQualityOffers()
	if err != nil {
		return err
	}

	handle := premiumHandle(offers, tier)
	if handle != "" {
		log.Debugf("using premium variant %s of %s", handle, tier)
	}

	if err := p.SetQualityRange(tier, tier, handle); err != nil {
		return err
	}

	c.state = Committed{Tier: tier}
	return nil
}

// fail schedules a retry with linear backoff, or gives up once retries are exhausted.
func (c *Controller) fail(mode string, err error) {
	count := c.state.attempts()
	if count >= c.options.MaxRetries {
		log.Errorf("giving up on quality after %d retries: %v", count, err)
		c.state = Idle{}
		c.observe(mode, OutcomeAbandoned)
		return
	}

	count++
	c.state = Retrying{Count: count}
	delay := c.options.ErrorBackoffBase + time.Duration(count)*c.options.ErrorBackoffStep

	log.Warnf("evaluating quality failed, retrying in %s (%d/%d): %v", delay, count, c.options.MaxRetries, err)
	c.observe(mode, OutcomeError)
	c.schedule(delay)
}

func (c *Controller) schedule(d time.Duration) {
	if c.scheduler == nil {
		return
	}

	c.scheduler.After(d, func() {
		c.Evaluate(c.player, c.prefs)
	})
}

func (c *Controller) observe(mode, outcome string) {
	if c.recorder != nil {
		c.recorder.Observe(mode, outcome)
	}
}

// premiumHandle returns the format handle of the playable premium variant of tier.
func premiumHandle(offers []player.QualityOffer, tier quality.ID) string {
	offer, ok := lo.Find(offers, func(o player.QualityOffer) bool {
		return o.ID == tier && o.Premium && o.Playable
	})
	if !ok {
		return ""
	}
	return offer.FormatHandle
}
