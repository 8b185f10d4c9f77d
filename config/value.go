package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/ythdp/ythdp/key"
)

// choices restricts string fields to a fixed set of values.
var choices = map[string][]string{
	key.IconsVariant: {"emoji", "kaomoji", "plain", "squares", "nerd"},
	key.LogsLevel:    {"panic", "fatal", "error", "warn", "info", "debug", "trace"},
}

// Parse converts raw command-line arguments into a value of the field's type.
// Counts and delays must not be negative.
func (f *Field) Parse(raw []string) (any, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: missing value", f.Key)
	}
	first := strings.TrimSpace(raw[0])

	switch f.Value.(type) {
	case string:
		if allowed, ok := choices[f.Key]; ok && !lo.Contains(allowed, first) {
			return nil, fmt.Errorf("%s: %q is not one of %s", f.Key, first, strings.Join(allowed, ", "))
		}
		return first, nil
	case int:
		n, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not an integer", f.Key, first)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: must not be negative", f.Key)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(first)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a boolean", f.Key, first)
		}
		return b, nil
	case time.Duration:
		d, err := time.ParseDuration(first)
		if err != nil {
			return nil, fmt.Errorf("%s: %q is not a duration (e.g. 300ms, 1s)", f.Key, first)
		}
		if d < 0 {
			return nil, fmt.Errorf("%s: must not be negative", f.Key)
		}
		return d, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
	}
}
