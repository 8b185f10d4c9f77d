package quality

import (
	"sort"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

type ranked struct {
	id   ID
	rank int
}

// rankedDescending drops ids unknown to the catalog and orders the rest from the highest
// rank down. Equal ranks keep the order the player reported them in.
func rankedDescending(available []ID) []ranked {
	known := lo.FilterMap(available, func(id ID, _ int) (ranked, bool) {
		rank, ok := RankOf(id)
		return ranked{id: id, rank: rank}, ok
	})

	sort.SliceStable(known, func(i, j int) bool {
		return known[i].rank > known[j].rank
	})

	return known
}

// Resolve returns the best tier in available whose rank does not exceed the rank of target.
// It returns None when nothing qualifies, including when target itself is unknown; the
// caller decides the fallback.
func Resolve(target ID, available []ID) mo.Option[ID] {
	limit, ok := RankOf(target)
	if !ok {
		return mo.None[ID]()
	}

	for _, candidate := range rankedDescending(available) {
		if candidate.rank <= limit {
			return mo.Some(candidate.id)
		}
	}

	return mo.None[ID]()
}

// HasHD reports whether any tier in available is HD.
func HasHD(available []ID) bool {
	return lo.SomeBy(available, IsHD)
}

// LowestHD returns the lowest-ranked HD tier in available.
func LowestHD(available []ID) mo.Option[ID] {
	var (
		best  ID
		found bool
		low   int
	)

	for _, candidate := range rankedDescending(available) {
		if candidate.rank < HDRank {
			continue
		}
		if !found || candidate.rank < low {
			best, low, found = candidate.id, candidate.rank, true
		}
	}

	if !found {
		return mo.None[ID]()
	}
	return mo.Some(best)
}
