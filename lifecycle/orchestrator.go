// Package lifecycle watches the player and decides when the quality should be evaluated.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/player"
	"github.com/ythdp/ythdp/settings"
)

// Evaluator decides and commits the quality for a player.
type Evaluator interface {
	Evaluate(p player.Player, prefs settings.Preferences)
}

// Recorder receives lifecycle observations.
type Recorder interface {
	Signal(name string)
	PlayerChanged()
}

// Options tune the timing of re-evaluation.
type Options struct {
	// Debounce coalesces bursts of signals into one evaluation.
	Debounce time.Duration

	// ReadyDelay gives a located player time to finish initializing.
	ReadyDelay time.Duration
}

// DefaultOptions are the delays used when none are configured.
var DefaultOptions = Options{
	Debounce:   300 * time.Millisecond,
	ReadyDelay: 500 * time.Millisecond,
}

// Orchestrator owns the player handle and triggers evaluations on lifecycle signals.
// All of its state is confined to the loop goroutine.
type Orchestrator struct {
	loop      *Loop
	clock     clockwork.Clock
	locator   player.Locator
	evaluator Evaluator
	prefs     func() settings.Preferences
	options   Options
	recorder  Recorder

	ctx       context.Context
	current   player.Player
	stopWatch func()

	debounce   clockwork.Timer
	generation uint64
}

// New creates an orchestrator running on loop. recorder may be nil.
func New(
	loop *Loop,
	locator player.Locator,
	evaluator Evaluator,
	prefs func() settings.Preferences,
	options Options,
	recorder Recorder,
) *Orchestrator {
	return &Orchestrator{
		loop:      loop,
		clock:     loop.Clock(),
		locator:   locator,
		evaluator: evaluator,
		prefs:     prefs,
		options:   options,
		recorder:  recorder,
		ctx:       context.Background(),
	}
}

// Run processes the current player once and then handles signals until ctx is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.loop.Post(func() {
		o.ctx = ctx
		o.processPage()
	})

	o.loop.Run(ctx)

	if o.debounce != nil {
		o.debounce.Stop()
	}
	o.release()

	return ctx.Err()
}

// Signal reports a lifecycle signal. It is safe to call from any goroutine.
func (o *Orchestrator) Signal(s Signal) {
	o.loop.Post(func() {
		o.handle(s)
	})
}

// Trigger evaluates right away, without debouncing or the readiness wait.
// It is safe to call from any goroutine.
func (o *Orchestrator) Trigger() {
	o.loop.Post(func() {
		if o.current == nil {
			p, err := o.locate()
			if err != nil {
				return
			}
			o.acquire(p)
		}
		o.evaluate()
	})
}

func (o *Orchestrator) handle(s Signal) {
	if o.recorder != nil {
		o.recorder.Signal(s.Kind.String())
	}

	switch s.Kind {
	case Navigation, PlayerUpdated, PlayerAppeared:
		log.Debugf("%s, scheduling evaluation", s.Kind)
		o.schedule()
	case StateChanged:
		if s.State != player.Playing {
			return
		}
		log.Debugf("player state changed to playing, scheduling evaluation")
		o.schedule()
	}
}

// schedule (re)starts the debounce timer. Only the last timer started does any work.
func (o *Orchestrator) schedule() {
	if o.debounce != nil {
		o.debounce.Stop()
	}

	o.generation++
	generation := o.generation

	o.debounce = o.clock.AfterFunc(o.options.Debounce, func() {
		o.loop.Post(func() {
			if generation != o.generation {
				return
			}
			o.debounce = nil
			o.processPage()
		})
	})
}

// processPage locates the player and evaluates once it had time to settle.
func (o *Orchestrator) processPage() {
	p, err := o.locate()
	if err != nil {
		if errors.Is(err, player.ErrNotReady) && o.current != nil {
			log.Infof("player %s is gone", o.current.ID())
			o.release()
		}
		return
	}

	if o.current == nil || o.current.ID() != p.ID() {
		o.acquire(p)
	}

	o.loop.After(o.options.ReadyDelay, func() {
		if o.current == nil {
			return
		}

		state, err := o.current.PlaybackState()
		if err == nil && state == player.Ended {
			log.Debugf("player ended, deferring quality until playback starts")
			return
		}

		o.evaluate()
	})
}

func (o *Orchestrator) locate() (player.Player, error) {
	p, err := o.locator.Locate(o.ctx)
	if err != nil {
		if errors.Is(err, player.ErrNotReady) {
			log.Debugf("player not found: %v", err)
		} else {
			log.Warnf("locating player: %v", err)
		}
		return nil, err
	}
	return p, nil
}

// release drops the current player and its event subscription.
func (o *Orchestrator) release() {
	if o.stopWatch != nil {
		o.stopWatch()
		o.stopWatch = nil
	}
	o.current = nil
}

// acquire switches to p and subscribes to its events.
func (o *Orchestrator) acquire(p player.Player) {
	o.release()

	o.current = p
	log.Infof("attached to player %s", p.ID())
	if o.recorder != nil {
		o.recorder.PlayerChanged()
	}

	observable, ok := p.(player.Observable)
	if !ok {
		return
	}

	stop, err := observable.Watch(o.onEvent)
	if err != nil {
		log.Warnf("watching player events: %v", err)
		return
	}
	o.stopWatch = stop
}

// onEvent runs on the player's event goroutine.
func (o *Orchestrator) onEvent(ev player.Event) {
	if s, ok := FromEvent(ev); ok {
		o.Signal(s)
	}
}

func (o *Orchestrator) evaluate() {
	o.evaluator.Evaluate(o.current, o.prefs())
}
