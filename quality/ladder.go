package quality

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Player tiers below the catalog. They can be offered and played, but never targeted.
const (
	HD720  ID = "hd720"
	Large  ID = "large"
	Medium ID = "medium"
	Small  ID = "small"
	Tiny   ID = "tiny"
)

type step struct {
	id     ID
	height int
}

// ladder maps every tier a player can name to its nominal height, highest first.
var ladder = []step{
	{Highres, 4320},
	{HD2160, 2160},
	{HD1440, 1440},
	{HD1080, 1080},
	{HD720, 720},
	{Large, 480},
	{Medium, 360},
	{Small, 240},
	{Tiny, 144},
}

// Height returns the nominal height of a player tier. Auto has none.
func Height(id ID) (int, bool) {
	for _, s := range ladder {
		if s.id == id {
			return s.height, true
		}
	}
	return 0, false
}

// ForSize names the tier of a video stream. The short side decides, unless the long
// side implies a larger 16:9 frame (letterboxed and vertical formats).
func ForSize(width, height int) ID {
	short, long := height, width
	if short > long {
		short, long = long, short
	}

	effective := short
	if l := long * 9 / 16; l > effective {
		effective = l
	}

	// Encoders trim a few lines (e.g. 1072 for 1080); allow 5% slack.
	for _, s := range ladder {
		if effective >= s.height*95/100 {
			return s.id
		}
	}
	return ladder[len(ladder)-1].id
}

// Highest returns the tallest tier in available, whatever order it is listed in.
// Auto is returned only when nothing with a height is listed.
func Highest(available []ID) mo.Option[ID] {
	var (
		best  ID
		top   int
		found bool
	)

	for _, id := range available {
		height, ok := Height(id)
		if ok && (!found || height > top) {
			best, top, found = id, height, true
		}
	}

	switch {
	case found:
		return mo.Some(best)
	case lo.Contains(available, Auto):
		return mo.Some(Auto)
	default:
		return mo.None[ID]()
	}
}
