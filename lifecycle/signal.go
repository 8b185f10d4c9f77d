package lifecycle

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/ythdp/ythdp/player"
)

// Kind is the kind of a lifecycle signal.
type Kind int

const (
	// Navigation means a new file or playlist entry finished loading.
	Navigation Kind = iota + 1
	// PlayerUpdated means the player reconfigured its video output or track list.
	PlayerUpdated
	// StateChanged carries a playback state transition.
	StateChanged
	// PlayerAppeared means a player socket was created, possibly by a new instance.
	PlayerAppeared
)

func (k Kind) String() string {
	switch k {
	case Navigation:
		return "navigation"
	case PlayerUpdated:
		return "player_updated"
	case StateChanged:
		return "state_changed"
	case PlayerAppeared:
		return "player_appeared"
	default:
		return "unknown"
	}
}

// Signal is something that happened to the player.
type Signal struct {
	Kind Kind

	// State is set for StateChanged.
	State player.State
}

// StateChangeMessage is the client-message name scripts use to report a state change.
const StateChangeMessage = "player-state-change"

// DetailState is the nested shape of a state change: {"newState": N}.
type DetailState struct {
	NewState *float64 `json:"newState"`
}

// NormalizeState extracts the playback state from either shape a state change can
// arrive in: a bare number (as a number or numeric string) or a detail object with
// newState (as a DetailState, a decoded map, or its JSON text).
func NormalizeState(payload any) (player.State, bool) {
	switch v := payload.(type) {
	case player.State:
		return v, true
	case int:
		return player.State(v), true
	case int64:
		return player.State(v), true
	case float64:
		return player.State(int(v)), v == float64(int(v))
	case json.Number:
		n, err := v.Int64()
		return player.State(n), err == nil
	case DetailState:
		if v.NewState == nil {
			return 0, false
		}
		return NormalizeState(*v.NewState)
	case map[string]any:
		state, ok := v["newState"]
		if !ok {
			return 0, false
		}
		switch state.(type) {
		case float64, int, int64, json.Number:
			return NormalizeState(state)
		default:
			return 0, false
		}
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return player.State(n), true
		}

		var detail DetailState
		if err := json.Unmarshal([]byte(s), &detail); err != nil {
			return 0, false
		}
		return NormalizeState(detail)
	default:
		return 0, false
	}
}

// FromEvent maps an mpv event onto a lifecycle signal.
func FromEvent(ev player.Event) (Signal, bool) {
	if ev.Property {
		return fromProperty(ev)
	}

	switch ev.Name {
	case "file-loaded":
		return Signal{Kind: Navigation}, true
	case "video-reconfig":
		return Signal{Kind: PlayerUpdated}, true
	case "client-message":
		if len(ev.Args) < 2 || ev.Args[0] != StateChangeMessage {
			return Signal{}, false
		}
		state, ok := NormalizeState(ev.Args[1])
		if !ok {
			return Signal{}, false
		}
		return Signal{Kind: StateChanged, State: state}, true
	default:
		return Signal{}, false
	}
}

// fromProperty turns observed property changes into bare state numbers.
func fromProperty(ev player.Event) (Signal, bool) {
	if ev.Name == "track-list" {
		return Signal{Kind: PlayerUpdated}, true
	}

	flag, ok := ev.Data.(bool)
	if !ok {
		return Signal{}, false
	}

	var state player.State
	switch {
	case ev.Name == "pause" && !flag:
		state = player.Playing
	case ev.Name == "pause":
		state = player.Paused
	case ev.Name == "eof-reached" && flag:
		state = player.Ended
	case ev.Name == "idle-active" && flag:
		state = player.Unstarted
	default:
		return Signal{}, false
	}

	return Signal{Kind: StateChanged, State: state}, true
}
