package release

import (
	"regexp"

	"github.com/hbollon/go-edlib"
)

// numberRegex extracts numbers from normalized titles ("24", "9 1 1").
var numberRegex = regexp.MustCompile(`\b(\d+)\b`)

// MatchConfidence grades how closely a folder name matches a provider title.
type MatchConfidence int

const (
	ConfidenceNone   MatchConfidence = iota // Score < 0.70
	ConfidenceLow                           // Score >= 0.70
	ConfidenceMedium                        // Score >= 0.85
	ConfidenceHigh                          // Score >= 0.95
)

func (c MatchConfidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// MatchResult is the best candidate found by MatchTitle.
type MatchResult struct {
	Title      string          // The matched candidate title, empty below ConfidenceLow
	Score      float64         // Jaro-Winkler similarity (0.0-1.0) after number adjustment
	Confidence MatchConfidence
}

// MatchTitle scores name against each candidate using Jaro-Winkler similarity
// on normalized titles and returns the highest scoring one. Earlier candidates
// win ties, so provider ranking is preserved.
func MatchTitle(name string, candidates []string) MatchResult {
	if len(candidates) == 0 {
		return MatchResult{Confidence: ConfidenceNone}
	}

	normalizedName := NormalizeTitle(name)
	nameNumbers := numberRegex.FindAllString(normalizedName, -1)

	var best MatchResult
	for _, candidate := range candidates {
		normalizedCandidate := NormalizeTitle(candidate)

		score := float64(edlib.JaroWinklerSimilarity(normalizedName, normalizedCandidate))
		score = adjustScoreForNumbers(score, nameNumbers, numberRegex.FindAllString(normalizedCandidate, -1))

		if score > best.Score {
			best.Title = candidate
			best.Score = score
		}
	}

	best.Confidence = confidenceFor(best.Score)
	if best.Confidence == ConfidenceNone {
		best.Title = ""
	}
	return best
}

func confidenceFor(score float64) MatchConfidence {
	switch {
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.85:
		return ConfidenceMedium
	case score >= 0.70:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// adjustScoreForNumbers rewards a shared number and penalizes a missing or
// different one, so "Doctor Who 2005" prefers the 2005 revival.
func adjustScoreForNumbers(score float64, nameNums, candidateNums []string) float64 {
	if len(nameNums) == 0 {
		return score
	}
	if len(candidateNums) == 0 {
		return score * 0.85
	}

	candidateSet := make(map[string]bool, len(candidateNums))
	for _, n := range candidateNums {
		candidateSet[n] = true
	}
	for _, n := range nameNums {
		if candidateSet[n] {
			return min(score*1.05, 1.0)
		}
	}
	return score * 0.90
}
