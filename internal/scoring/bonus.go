package scoring

import (
	"math"
	"strings"
	"time"
)

// keywordWeights maps lowercased title substrings to their bonus.
// Fixed per deployment; there is no write path.
var keywordWeights = map[string]float64{
	"urgent":    0.35,
	"asap":      0.30,
	"important": 0.25,
	"today":     0.20,
	"tomorrow":  0.15,
	"email":     0.05,
	"call":      0.05,
}

// tagWeights maps known tags to their bonus. Unknown tags contribute
// defaultTagWeight.
var tagWeights = map[string]float64{
	"work":    0.10,
	"home":    0.05,
	"bug":     0.20,
	"feature": 0.15,
}

const (
	baseScore         = 0.35
	completionPenalty = 0.60

	keywordBonusCap = 0.45
	longTitleBonus  = 0.05
	longTitleWords  = 8

	tagBonusCap      = 0.25
	defaultTagWeight = 0.03
)

// KeywordBonus scans the lowercased title for weighted keyword
// substrings. Matches are not mutually exclusive and not anchored to
// word boundaries ("call" matches inside "recall"). Titles of eight or
// more words earn a flat long-title bonus. Capped at keywordBonusCap.
func KeywordBonus(title string) float64 {
	lc := strings.ToLower(title)
	var bonus float64
	for keyword, weight := range keywordWeights {
		if strings.Contains(lc, keyword) {
			bonus += weight
		}
	}
	if len(strings.Fields(lc)) >= longTitleWords {
		bonus += longTitleBonus
	}
	return math.Min(bonus, keywordBonusCap)
}

// TagBonus sums per-tag weights after lowercasing and trimming each
// tag. Duplicates count each time. Capped at tagBonusCap.
func TagBonus(tags []string) float64 {
	if len(tags) == 0 {
		return 0.0
	}
	var bonus float64
	for _, raw := range tags {
		tag := strings.TrimSpace(strings.ToLower(raw))
		if weight, ok := tagWeights[tag]; ok {
			bonus += weight
		} else {
			bonus += defaultTagWeight
		}
	}
	return math.Min(bonus, tagBonusCap)
}

// AgeBonus is a step function of hours elapsed since creation. Older
// unaddressed items rank higher. Each threshold is inclusive; the
// first match wins. nil means no creation timestamp and contributes
// nothing.
func AgeBonus(createdAt *time.Time, now time.Time) float64 {
	if createdAt == nil {
		return 0.0
	}
	ageHours := now.Sub(*createdAt).Hours()
	switch {
	case ageHours <= 24:
		return 0.05
	case ageHours <= 24*3:
		return 0.10
	case ageHours <= 24*7:
		return 0.15
	default:
		return 0.20
	}
}

// DueDateBonus is a step function of hours remaining until the due
// date; zero or negative means due now or overdue. Inclusive
// thresholds, first match wins. nil contributes nothing.
func DueDateBonus(dueDate *time.Time, now time.Time) float64 {
	if dueDate == nil {
		return 0.0
	}
	deltaHours := dueDate.Sub(now).Hours()
	switch {
	case deltaHours <= 0:
		return 0.30
	case deltaHours <= 24:
		return 0.25
	case deltaHours <= 24*3:
		return 0.20
	case deltaHours <= 24*7:
		return 0.10
	default:
		return 0.05
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
