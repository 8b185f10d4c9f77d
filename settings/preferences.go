// Package settings persists the user's quality preferences and run bookkeeping.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ythdp/ythdp/quality"
)

// Stored field names.
const (
	FieldTargetQuality  = "targetResolution"
	FieldForceMinimumHD = "forceHD"
	FieldMenuExpanded   = "expandMenu"
	FieldDebugLogging   = "debug"
)

// Fields lists the stored field names in display order.
var Fields = []string{
	FieldTargetQuality,
	FieldForceMinimumHD,
	FieldMenuExpanded,
	FieldDebugLogging,
}

// Preferences are the user's choices.
type Preferences struct {
	TargetQuality  quality.ID `json:"targetResolution" jsonschema:"title=Target quality,description=Highest tier to pin or auto to let the player choose,enum=highres,enum=hd2160,enum=hd1440,enum=hd1080,enum=auto,default=hd1080"`
	ForceMinimumHD bool       `json:"forceHD" jsonschema:"title=Force HD,description=In auto mode switch to the lowest HD tier when playback is below HD,default=true"`
	MenuExpanded   bool       `json:"expandMenu" jsonschema:"title=Expand menu,description=Show every menu item,default=false"`
	DebugLogging   bool       `json:"debug" jsonschema:"title=Debug,description=Print diagnostics,default=false"`
}

// Defaults returns the preferences used when nothing valid is stored.
func Defaults() Preferences {
	return Preferences{
		TargetQuality:  quality.Default,
		ForceMinimumHD: true,
		MenuExpanded:   false,
		DebugLogging:   false,
	}
}

// Value returns the value of a stored field.
func (p Preferences) Value(field string) (any, bool) {
	switch field {
	case FieldTargetQuality:
		return p.TargetQuality, true
	case FieldForceMinimumHD:
		return p.ForceMinimumHD, true
	case FieldMenuExpanded:
		return p.MenuExpanded, true
	case FieldDebugLogging:
		return p.DebugLogging, true
	default:
		return nil, false
	}
}

// with returns a copy of p with field set to value.
func (p Preferences) with(field string, value any) (Preferences, error) {
	switch field {
	case FieldTargetQuality:
		var id quality.ID
		switch v := value.(type) {
		case quality.ID:
			id = v
		case string:
			id = quality.ID(v)
		default:
			return p, fmt.Errorf("%s: expected a quality, got %T", field, value)
		}
		if !quality.Known(id) {
			return p, fmt.Errorf("%s: unknown quality %q", field, id)
		}
		p.TargetQuality = id
	case FieldForceMinimumHD, FieldMenuExpanded, FieldDebugLogging:
		b, ok := value.(bool)
		if !ok {
			return p, fmt.Errorf("%s: expected a boolean, got %T", field, value)
		}
		switch field {
		case FieldForceMinimumHD:
			p.ForceMinimumHD = b
		case FieldMenuExpanded:
			p.MenuExpanded = b
		case FieldDebugLogging:
			p.DebugLogging = b
		}
	default:
		return p, fmt.Errorf("unknown setting %q", field)
	}

	return p, nil
}

// ParseValue converts command line input into a value for field.
func ParseValue(field, input string) (any, error) {
	switch field {
	case FieldTargetQuality:
		return quality.Parse(input)
	case FieldForceMinimumHD, FieldMenuExpanded, FieldDebugLogging:
		b, err := strconv.ParseBool(strings.TrimSpace(input))
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", field, input)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown setting %q", field)
	}
}
