package engine

import (
	"regexp"
	"sort"
	"strings"

	"github.com/kutbudev/aha-mcp/internal/models"
)

// suggestionThreshold is the minimum confidence for a "did you mean" hint.
const suggestionThreshold = 0.6

var nonWord = regexp.MustCompile(`[^a-z0-9\s]`)

// tokenize splits text into lowercase words, removing punctuation
func tokenize(text string) map[string]struct{} {
	text = nonWord.ReplaceAllString(strings.ToLower(text), " ")

	wordSet := make(map[string]struct{})
	for _, word := range strings.Fields(text) {
		if len(word) > 1 {
			wordSet[word] = struct{}{}
		}
	}
	return wordSet
}

// JaccardSimilarity calculates the Jaccard similarity coefficient between two texts
// Returns a value between 0 (no overlap) and 1 (identical)
func JaccardSimilarity(a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// normalizeForMatch removes spaces, hyphens, underscores, dots for fuzzy matching.
// "Ready to ship" -> "readytoship"
// "in-development" -> "indevelopment"
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}

type statusMatch struct {
	Status     models.WorkflowStatus
	Confidence float64 // 0.0-1.0
}

// fuzzyMatchStatuses ranks statuses that loosely match input, best first.
// Inputs shorter than 4 characters never match.
func fuzzyMatchStatuses(statuses []models.WorkflowStatus, input string) []statusMatch {
	input = strings.TrimSpace(input)
	if len(input) < 4 {
		return nil
	}
	inputNorm := normalizeForMatch(input)

	var matches []statusMatch
	for _, s := range statuses {
		nameNorm := normalizeForMatch(s.Name)
		if nameNorm == "" {
			continue
		}

		var score float64
		switch {
		case inputNorm == nameNorm:
			score = 0.95
		case strings.Contains(nameNorm, inputNorm):
			score = 0.70 + float64(len(inputNorm))/float64(len(nameNorm))*0.20
		case strings.Contains(inputNorm, nameNorm):
			score = 0.70 + float64(len(nameNorm))/float64(len(inputNorm))*0.20
		default:
			score = JaccardSimilarity(input, s.Name)
		}
		if score > 0 {
			matches = append(matches, statusMatch{Status: s, Confidence: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// suggestStatus returns the closest status name to input, if any is close
// enough to be worth mentioning.
func suggestStatus(statuses []models.WorkflowStatus, input string) (string, bool) {
	matches := fuzzyMatchStatuses(statuses, input)
	if len(matches) == 0 || matches[0].Confidence < suggestionThreshold {
		return "", false
	}
	return matches[0].Status.Name, true
}
