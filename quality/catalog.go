// Package quality holds the catalog of playback tiers the pin can target and the resolver
// that maps a requested tier onto what the player currently offers.
package quality

import "fmt"

// ID names a playback quality tier using the player's own identifiers.
type ID string

// Tiers known to the catalog. Player identifiers outside this set (hd720, large, ...)
// are valid on the wire but carry no rank.
const (
	Highres ID = "highres"
	HD2160  ID = "hd2160"
	HD1440  ID = "hd1440"
	HD1080  ID = "hd1080"
	Auto    ID = "auto"
)

// HDRank is the lowest rank considered HD by the force-HD policy.
const HDRank = 1080

// Default is the target used on first run and whenever a stored target is invalid.
const Default = HD1080

type entry struct {
	id    ID
	rank  int
	label string
	alias []string
}

// catalog is ordered from the highest rank down; ranks must stay strictly decreasing.
var catalog = []entry{
	{Highres, 4320, "8K", []string{"4320p", "8k", "uhd8k"}},
	{HD2160, 2160, "4K", []string{"2160p", "4k", "uhd"}},
	{HD1440, 1440, "2K", []string{"1440p", "2k", "qhd"}},
	{HD1080, 1080, "1080p", []string{"1080", "fhd", "fullhd", "hd"}},
	{Auto, 0, "Optimized Auto", []string{"automatic", "optimized"}},
}

var byID = func() map[ID]entry {
	m := make(map[ID]entry, len(catalog))
	for _, e := range catalog {
		m[e.id] = e
	}
	return m
}()

// RankOf returns the resolution rank of id and whether the catalog knows it.
func RankOf(id ID) (int, bool) {
	e, ok := byID[id]
	return e.rank, ok
}

// Known reports whether id is a catalog key.
func Known(id ID) bool {
	_, ok := byID[id]
	return ok
}

// IsHD reports whether id is a catalog tier at or above HDRank.
func IsHD(id ID) bool {
	rank, ok := RankOf(id)
	return ok && rank >= HDRank
}

// IDs returns the catalog keys, highest rank first.
func IDs() []ID {
	ids := make([]ID, len(catalog))
	for i, e := range catalog {
		ids[i] = e.id
	}
	return ids
}

// Label returns the human readable name of id.
func Label(id ID) string {
	if e, ok := byID[id]; ok {
		return e.label
	}
	return string(id)
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return string(id)
}

// Describe renders id together with its rank, e.g. "hd1440 (1440p)".
func Describe(id ID) string {
	rank, ok := RankOf(id)
	switch {
	case !ok:
		return string(id)
	case rank == 0:
		return fmt.Sprintf("%s (%s)", id, Label(id))
	default:
		return fmt.Sprintf("%s (%dp)", id, rank)
	}
}
