package assistant

import (
	"regexp"
	"strings"
)

// Match is the router's verdict for one utterance.
type Match struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   map[string]string `json:"entities,omitempty"`
}

var (
	periodPattern = regexp.MustCompile(`\b(\d{4}-(?:0[1-9]|1[0-2]))\b`)
	amountPattern = regexp.MustCompile(`\b(\d[\d,]*(?:\.\d+)?)\b`)
	batchPattern  = regexp.MustCompile(`\bbatch\s+([0-9a-f-]{8,})\b`)
	issuePattern  = regexp.MustCompile(`\bissue\s+([0-9a-f-]{8,})\b`)
)

// MatchIntent scans the fixed intent table. A full pattern hit returns the
// intent's confidence; otherwise the best token-overlap score is reported,
// which typically lands below the dispatch threshold.
func MatchIntent(utterance string) Match {
	normalized := normalize(utterance)
	if normalized == "" {
		return Match{}
	}

	for _, intent := range Intents {
		for _, pattern := range intent.Patterns {
			if strings.Contains(normalized, pattern) {
				return Match{
					Intent:     intent.Name,
					Confidence: intent.Confidence,
					Entities:   extractEntities(normalized),
				}
			}
		}
	}

	best := Match{}
	tokens := strings.Fields(normalized)
	for _, intent := range Intents {
		for _, pattern := range intent.Patterns {
			score := overlap(tokens, strings.Fields(pattern)) * intent.Confidence
			if score > best.Confidence {
				best = Match{Intent: intent.Name, Confidence: score, Entities: extractEntities(normalized)}
			}
		}
	}
	return best
}

func normalize(utterance string) string {
	cleaned := strings.ToLower(strings.TrimSpace(utterance))
	var b strings.Builder
	for _, r := range cleaned {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ', r == '-', r == '.', r == ',':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func overlap(utteranceTokens, patternTokens []string) float64 {
	if len(patternTokens) == 0 {
		return 0
	}
	hits := 0
	for _, want := range patternTokens {
		for _, got := range utteranceTokens {
			if want == got {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(patternTokens))
}

func extractEntities(normalized string) map[string]string {
	entities := map[string]string{}
	remainder := normalized
	if m := periodPattern.FindStringSubmatch(remainder); m != nil {
		entities["period"] = m[1]
		remainder = strings.Replace(remainder, m[1], "", 1)
	}
	if m := batchPattern.FindStringSubmatch(remainder); m != nil {
		entities["batchId"] = m[1]
		remainder = strings.Replace(remainder, m[0], "", 1)
	}
	if m := issuePattern.FindStringSubmatch(remainder); m != nil {
		entities["issueId"] = m[1]
		remainder = strings.Replace(remainder, m[0], "", 1)
	}
	if m := amountPattern.FindStringSubmatch(remainder); m != nil {
		entities["amount"] = strings.ReplaceAll(m[1], ",", "")
	}
	if len(entities) == 0 {
		return nil
	}
	return entities
}
