package lint

import "strings"

const (
	errorPenalty   = 15
	warningPenalty = 5
	tagBonus       = 2
	maxTagBonus    = 10
)

// completeness scores a template from 0 to 100. Blank text scores 0.
func completeness(text string, errors, warnings, tagCount int) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	score := 100.0 - float64(errorPenalty*errors) - float64(warningPenalty*warnings)
	score += float64(min(tagBonus*tagCount, maxTagBonus))
	return max(0, min(100, score))
}
