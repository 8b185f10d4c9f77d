// Package player defines the playback-engine abstraction the quality pin drives, with the
// primary implementation targeting mpv via its JSON-IPC interface.
package player

import (
	"context"
	"errors"
	"strings"

	"github.com/ythdp/ythdp/constant"
	"github.com/ythdp/ythdp/quality"
)

// ErrNotReady reports that the player is missing or cannot answer quality queries yet.
// It is not a failure: the next lifecycle signal will try again.
var ErrNotReady = errors.New("player not ready")

// State is a playback state using YouTube's numbering.
type State int

const (
	Unstarted State = -1
	Ended     State = 0
	Playing   State = 1
	Paused    State = 2
	Buffering State = 3
	Cued      State = 5
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Ended:
		return "ended"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Cued:
		return "cued"
	default:
		return "unknown"
	}
}

// QualityOffer describes one quality currently offered by the player.
type QualityOffer struct {
	ID       quality.ID
	Label    string
	Premium  bool
	Playable bool

	// FormatHandle is opaque to callers; it is handed back to SetQualityRange
	// to commit this exact variant.
	FormatHandle string
}

// NewQualityOffer builds an offer, deriving Premium from the label.
func NewQualityOffer(id quality.ID, label string, playable bool, handle string) QualityOffer {
	return QualityOffer{
		ID:           id,
		Label:        label,
		Premium:      IsPremiumLabel(label),
		Playable:     playable,
		FormatHandle: handle,
	}
}

// IsPremiumLabel reports whether a quality label marks the enhanced-bitrate variant.
func IsPremiumLabel(label string) bool {
	return strings.HasSuffix(strings.TrimSpace(label), constant.PremiumMarker)
}

// Player is the narrow surface of the video player the resolution controller needs.
type Player interface {
	// ID identifies this player instance. A different ID means the player was replaced.
	ID() string

	// ListQualityOffers returns every quality variant currently offered, playable or not.
	ListQualityOffers() ([]QualityOffer, error)

	// ListQualityIDs returns the tiers the player can switch to. Callers must not rely
	// on their order.
	ListQualityIDs() ([]quality.ID, error)

	// CurrentQualityID returns the tier currently playing.
	CurrentQualityID() (quality.ID, error)

	// CurrentQualityLabel returns the label of the variant currently playing.
	CurrentQualityLabel() (string, error)

	// PlaybackState returns the current playback state.
	PlaybackState() (State, error)

	// SetQualityRange restricts playback to [min, max]. A non-empty formatHandle selects
	// a specific variant of max.
	SetQualityRange(min, max quality.ID, formatHandle string) error
}

// Observable is implemented by players that push lifecycle events.
type Observable interface {
	Watch(callback EventCallback) (stop func(), err error)
}

// Locator finds the current player instance. It returns ErrNotReady when there is none.
type Locator interface {
	Locate(ctx context.Context) (Player, error)
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Player, error)

// Locate implements Locator.
func (f LocatorFunc) Locate(ctx context.Context) (Player, error) {
	return f(ctx)
}
