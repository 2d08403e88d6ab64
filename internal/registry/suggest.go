package registry

import (
	"fmt"

	"github.com/agext/levenshtein"
)

// suggest returns a "did you mean" hint for the closest registered name, or
// an empty string when nothing is close enough.
func suggest(name string, candidates []string, sigil string) string {
	best := ""
	bestDist := 3
	for _, c := range candidates {
		if d := levenshtein.Distance(name, c, nil); d < bestDist {
			best, bestDist = c, d
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("; did you mean %q?", sigil+best)
}
