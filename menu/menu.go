// Package menu implements the interactive command menu used to pick the target quality
// and toggle options while the daemon runs.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/samber/lo"
	"github.com/ythdp/ythdp/icon"
	"github.com/ythdp/ythdp/log"
	"github.com/ythdp/ythdp/quality"
	"github.com/ythdp/ythdp/settings"
)

const (
	title = "Quality Menu"

	optionsSeparator = "─ Options ─"
	updatesSeparator = "─ Updates ─"

	forceHDLabel = "Force HD (min 1080p)"
	debugLabel   = "DEBUG"
	updatesLabel = "Check for Updates"
)

// Item identifiers.
const (
	ExpandID       = "expand"
	OptionsID      = "separator_options"
	ForceHDID      = "force_hd"
	DebugID        = "debug"
	UpdatesID      = "separator_updates"
	CheckUpdatesID = "check_updates"
	qualityPrefix  = "quality_"
)

// Item is a single menu entry.
type Item struct {
	ID         string
	Label      string
	AlwaysShow bool
}

// Actions are the side effects a menu can cause.
type Actions struct {
	// Update persists a single preference field.
	Update func(ctx context.Context, field string, value any) error

	// Trigger re-evaluates the quality right away.
	Trigger func()

	// CheckUpdates looks for a newer release and reports the result.
	CheckUpdates func(ctx context.Context)
}

// Presenter builds the menu from the current preferences and runs the selected actions.
type Presenter struct {
	prefs   func() settings.Preferences
	actions Actions

	// ask shows the options and returns the chosen index.
	ask func(message string, options []string) (int, error)
}

// New creates a presenter. Nil actions are skipped.
func New(prefs func() settings.Preferences, actions Actions) *Presenter {
	return &Presenter{
		prefs:   prefs,
		actions: actions,
		ask:     askSurvey,
	}
}

// QualityID returns the item identifier of a tier.
func QualityID(id quality.ID) string {
	return qualityPrefix + string(id)
}

// Items returns every entry, visible or not, in display order.
func (p *Presenter) Items() []Item {
	prefs := p.prefs()
	check := checkMark()

	mark := func(label string, on bool) string {
		if on {
			return label + " " + check
		}
		return label
	}

	arrow := "▾"
	if prefs.MenuExpanded {
		arrow = "▴"
	}

	items := []Item{{ID: ExpandID, Label: title + " " + arrow, AlwaysShow: true}}

	for _, id := range quality.IDs() {
		items = append(items, Item{
			ID:    QualityID(id),
			Label: mark(tierLabel(id), id == prefs.TargetQuality),
		})
	}

	return append(items,
		Item{ID: OptionsID, Label: optionsSeparator, AlwaysShow: true},
		Item{ID: ForceHDID, Label: mark(forceHDLabel, prefs.ForceMinimumHD)},
		Item{ID: DebugID, Label: mark(debugLabel, prefs.DebugLogging)},
		Item{ID: UpdatesID, Label: updatesSeparator, AlwaysShow: true},
		Item{ID: CheckUpdatesID, Label: updatesLabel, AlwaysShow: true},
	)
}

// Visible returns the entries shown for the current expand state.
func (p *Presenter) Visible() []Item {
	expanded := p.prefs().MenuExpanded
	return lo.Filter(p.Items(), func(item Item, _ int) bool {
		return item.AlwaysShow || expanded
	})
}

// checkMark falls back to a bare tick when no icon variant is configured.
func checkMark() string {
	if mark := icon.Get(icon.Check); mark != "" {
		return mark
	}
	return "✓"
}

func tierLabel(id quality.ID) string {
	rank, _ := quality.RankOf(id)
	if rank == 0 {
		return quality.Label(id)
	}
	return fmt.Sprintf("%dp", rank)
}

// Select runs the action of the item with the given identifier.
func (p *Presenter) Select(ctx context.Context, id string) error {
	prefs := p.prefs()

	switch id {
	case ExpandID:
		return p.update(ctx, settings.FieldMenuExpanded, !prefs.MenuExpanded)
	case ForceHDID:
		if err := p.update(ctx, settings.FieldForceMinimumHD, !prefs.ForceMinimumHD); err != nil {
			return err
		}
		p.trigger()
		return nil
	case DebugID:
		return p.update(ctx, settings.FieldDebugLogging, !prefs.DebugLogging)
	case CheckUpdatesID:
		if p.actions.CheckUpdates != nil {
			p.actions.CheckUpdates(ctx)
		}
		return nil
	case OptionsID, UpdatesID:
		return nil
	}

	name, ok := strings.CutPrefix(id, qualityPrefix)
	target := quality.ID(name)
	if !ok || !quality.Known(target) {
		return fmt.Errorf("unknown menu item %q", id)
	}

	if target == prefs.TargetQuality {
		log.Debugf("%s is already the target", target)
		return nil
	}

	if err := p.update(ctx, settings.FieldTargetQuality, target); err != nil {
		return err
	}
	p.trigger()
	return nil
}

func (p *Presenter) update(ctx context.Context, field string, value any) error {
	if p.actions.Update == nil {
		return nil
	}
	return p.actions.Update(ctx, field, value)
}

func (p *Presenter) trigger() {
	if p.actions.Trigger != nil {
		p.actions.Trigger()
	}
}

// Run shows the menu until the user interrupts it or ctx is cancelled.
// Cancellation is noticed between prompts.
func (p *Presenter) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		items := p.Visible()
		labels := lo.Map(items, func(item Item, _ int) string {
			return item.Label
		})

		index, err := p.ask(title, labels)
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				return nil
			}
			return err
		}

		if index < 0 || index >= len(items) {
			continue
		}

		if err := p.Select(ctx, items[index].ID); err != nil {
			log.Warnf("menu: %v", err)
		}
	}

	return ctx.Err()
}

func askSurvey(message string, options []string) (int, error) {
	var index int
	prompt := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: len(options),
	}
	err := survey.AskOne(prompt, &index)
	return index, err
}
