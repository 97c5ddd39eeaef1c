package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Similarity scores two strings in [0,1], 1 meaning identical.
type Similarity func(a, b string) float64

const (
	SimilarityDice        = "dice"
	SimilarityLevenshtein = "levenshtein"
)

// SimilarityByName resolves a configured similarity algorithm.
func SimilarityByName(name string) (Similarity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SimilarityDice:
		return DiceCoefficient, nil
	case SimilarityLevenshtein:
		return LevenshteinSimilarity, nil
	}
	return nil, fmt.Errorf("unknown similarity algorithm %q", name)
}

// DiceCoefficient compares the character bigrams of both strings, ignoring case and whitespace.
func DiceCoefficient(a, b string) float64 {
	ra := []rune(stripSpaces(a))
	rb := []rune(stripSpaces(b))
	if string(ra) == string(rb) {
		return 1
	}
	if len(ra) < 2 || len(rb) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(ra)-1)
	for i := 0; i < len(ra)-1; i++ {
		bigrams[string(ra[i:i+2])]++
	}

	intersection := 0
	for i := 0; i < len(rb)-1; i++ {
		bg := string(rb[i : i+2])
		if bigrams[bg] > 0 {
			bigrams[bg]--
			intersection++
		}
	}

	return 2 * float64(intersection) / float64(len(ra)+len(rb)-2)
}

// LevenshteinSimilarity is 1 - editDistance/maxLen over case-folded, whitespace-collapsed input.
func LevenshteinSimilarity(a, b string) float64 {
	ra := []rune(CollapseSpaces(strings.ToLower(a)))
	rb := []rune(CollapseSpaces(strings.ToLower(b)))
	if string(ra) == string(rb) {
		return 1
	}

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}

	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptionsWithSub)
	return Clamp01(1 - float64(distance)/float64(maxLen))
}

// Signal is one weighted input of a composite score. Absent signals are ignored.
type Signal struct {
	Weight  float64
	Value   float64
	Present bool
}

// WeightedScore re-normalizes the weights of the present signals and returns sum(w*v)/sum(w).
func WeightedScore(signals ...Signal) float64 {
	var totalWeight, weightedSum float64
	for _, s := range signals {
		if !s.Present {
			continue
		}
		weightedSum += s.Weight * Clamp01(s.Value)
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return 0
	}
	return Clamp01(weightedSum / totalWeight)
}

func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func stripSpaces(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
