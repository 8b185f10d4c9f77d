// Package version reports the running version and checks the release manifest for updates.
package version

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Compare compares two dotted version strings of any length.
// Returns 1 if a > b, -1 if a < b, and 0 if equal. Missing or non-numeric parts count
// as 0 and a leading "v" is ignored, so "1.2" equals "v1.2.0".
func Compare(a, b string) int {
	as, bs := parts(a), parts(b)

	for i := 0; i < max(len(as), len(bs)); i++ {
		x, y := at(as, i), at(bs, i)
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		}
	}

	return 0
}

func at(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// parts splits a version into its numeric components. "0-beta" reads as 0.
func parts(v string) []int {
	v = strings.TrimPrefix(strings.TrimSpace(v), "v")
	if v == "" {
		return nil
	}

	return lo.Map(strings.Split(v, "."), func(p string, _ int) int {
		if i := strings.IndexFunc(p, func(r rune) bool { return !unicode.IsDigit(r) }); i >= 0 {
			p = p[:i]
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		return n
	})
}
