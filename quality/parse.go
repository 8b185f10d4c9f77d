package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// names maps every accepted spelling to its tier.
var names = func() map[string]ID {
	m := make(map[string]ID)
	for _, e := range catalog {
		m[strings.ToLower(string(e.id))] = e.id
		m[strings.ToLower(e.label)] = e.id
		for _, a := range e.alias {
			m[a] = e.id
		}
	}
	return m
}()

// Parse turns user input such as "hd1440", "4k", "1080p" or "auto" into a catalog tier.
// Misspellings are matched fuzzily against the known spellings.
func Parse(input string) (ID, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", fmt.Errorf("empty quality")
	}

	if id, ok := names[normalized]; ok {
		return id, nil
	}

	spellings := make([]string, 0, len(names))
	for s := range names {
		spellings = append(spellings, s)
	}

	ranks := fuzzy.RankFindFold(normalized, spellings)
	if len(ranks) == 0 {
		return "", fmt.Errorf("unknown quality %q, expected one of %s", input, strings.Join(idStrings(), ", "))
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].Target < ranks[j].Target
	})
	return names[ranks[0].Target], nil
}

func idStrings() []string {
	ids := IDs()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
