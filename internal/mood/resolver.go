package mood

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/moodfm/internal/shared"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Resolve maps user input to a [Label].
//
// A valid explicit selection always wins over free text. Otherwise non-empty
// free text is scored with [Score] and the first maximal label in enumeration
// order is returned; an all-zero score resolves to [Happy]. With neither input
// Resolve returns [shared.ErrNoMoodInput] (wrapped).
func Resolve(selection, freeText string) (Label, error) {
	if selection != "" {
		if label, err := Parse(selection); err == nil {
			return label, nil
		}
	}

	if strings.TrimSpace(freeText) != "" {
		return classify(freeText), nil
	}

	return "", fmt.Errorf("%w: provide a mood or mood text", shared.ErrNoMoodInput)
}

// Score computes the per-label keyword score for the given free text.
// Exposed for the CLI's resolve command and for tests.
func Score(freeText string) map[Label]int {
	lowered := strings.ToLower(freeText)
	tokens := tokenPattern.FindAllString(lowered, -1)

	scores := make(map[Label]int, len(keywords))
	for label, words := range keywords {
		set := make(map[string]struct{}, len(words))
		for _, w := range words {
			set[w] = struct{}{}
		}
		for _, tok := range tokens {
			if _, ok := set[tok]; ok {
				scores[label] += 2
			}
		}
	}

	for phrase, label := range phraseBoosts {
		if strings.Contains(lowered, phrase) {
			scores[label]++
		}
	}

	return scores
}

func classify(freeText string) Label {
	scores := Score(freeText)

	best := Happy
	bestScore := 0
	for _, label := range Labels() {
		if scores[label] > bestScore {
			best = label
			bestScore = scores[label]
		}
	}

	return best
}
