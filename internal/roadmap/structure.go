package roadmap

import (
	"regexp"
	"strings"
)

// Size tiers, smallest first.
var (
	TierSmall  = Structure{Sections: 1, Subtopics: 1}
	TierMedium = Structure{Sections: 3, Subtopics: 2}
	TierLarge  = Structure{Sections: 5, Subtopics: 3}
)

// DetermineStructure picks a tier from the page count and the main text length in characters.
// The first band satisfied wins, so a short text keeps a long document in a smaller tier.
func DetermineStructure(pages, textLength int) Structure {
	switch {
	case pages <= 2 || textLength < 1000:
		return TierSmall
	case pages <= 5 || textLength < 3000:
		return TierMedium
	default:
		return TierLarge
	}
}

var checkpointSplit = regexp.MustCompile(`\d+\.\s*`)

// SplitCheckpoints splits a numbered objectives paragraph ("1. foo 2. bar") into its items.
// The result never contains blank entries.
func SplitCheckpoints(objectives string) []string {
	checkpoints := make([]string, 0)
	for _, part := range checkpointSplit.Split(objectives, -1) {
		if part = strings.TrimSpace(part); part != "" {
			checkpoints = append(checkpoints, part)
		}
	}
	return checkpoints
}
