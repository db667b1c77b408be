// Package lexicon implements the shared word-list sentiment scorer and
// keyword extraction. The scoring is deliberately simple and deterministic;
// the exact word-list behavior is part of the observable contract and must
// not be replaced with a heavier model.
package lexicon

import (
	"sort"
	"strings"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
)

var positiveWords = map[string]struct{}{}
var negativeWords = map[string]struct{}{}
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"good", "great", "excellent", "amazing", "awesome", "love", "loved",
		"best", "fantastic", "wonderful", "happy", "recommend", "recommended",
		"positive", "growth", "growing", "success", "successful", "profitable",
		"popular", "booming", "thriving", "innovative", "quality", "favorite",
		"win", "winning", "opportunity", "promising", "strong", "demand",
		"gem", "delicious", "friendly", "helpful", "reliable", "affordable",
		"impressive", "satisfied", "enjoy", "enjoyed", "perfect", "solid",
	} {
		positiveWords[w] = struct{}{}
	}

	for _, w := range []string{
		"bad", "terrible", "awful", "horrible", "hate", "hated", "worst",
		"poor", "negative", "decline", "declining", "failing", "failure",
		"struggling", "overpriced", "expensive", "disappointing", "disappointed",
		"scam", "avoid", "closed", "closing", "bankrupt", "bankruptcy",
		"lawsuit", "risky", "saturated", "dying", "weak", "loss", "losses",
		"rude", "dirty", "slow", "broken", "complaint", "complaints", "problem",
		"problems", "crisis", "recession", "layoff", "layoffs",
	} {
		negativeWords[w] = struct{}{}
	}

	for _, w := range []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "of",
		"in", "on", "at", "to", "for", "with", "about", "from", "by", "as",
		"is", "are", "was", "were", "be", "been", "being", "it", "its",
		"this", "that", "these", "those", "i", "you", "he", "she", "we",
		"they", "my", "your", "his", "her", "our", "their", "me", "him",
		"them", "what", "which", "who", "how", "when", "where", "why",
		"not", "no", "so", "just", "very", "can", "will", "would", "has",
		"have", "had", "do", "does", "did", "there", "here", "up", "down",
		"out", "all", "some", "more", "most", "other", "into", "than", "too",
	} {
		stopWords[w] = struct{}{}
	}
}

// Tokenize lowercases text and splits it into alphanumeric word tokens.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		isAlnum := r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		return !isAlnum
	})
}

// Score rates text against the fixed word lists.
//
// With zero sentiment words matched the result is score 0, confidence 0.5.
// Otherwise score = (pos−neg)/(pos+neg) and confidence = min((pos+neg)/10, 1).
func Score(text string) (score, confidence float64) {
	var pos, neg int
	for _, tok := range Tokenize(text) {
		if _, ok := positiveWords[tok]; ok {
			pos++
			continue
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0, 0.5
	}

	score = float64(pos-neg) / float64(total)
	confidence = float64(total) / 10
	if confidence > 1 {
		confidence = 1
	}
	return score, confidence
}

// Label classifies a score. The exact ±0.10 boundary is NEUTRAL.
func Label(score float64) models.SentimentLabel {
	switch {
	case score > 0.10:
		return models.SentimentPositive
	case score < -0.10:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

// Keywords returns the top-n most frequent non-stop-word tokens across texts,
// ties broken alphabetically for determinism. Tokens shorter than three
// characters are skipped.
func Keywords(texts []string, n int) []string {
	freq := make(map[string]int)
	for _, text := range texts {
		for _, tok := range Tokenize(text) {
			if len(tok) < 3 {
				continue
			}
			if _, ok := stopWords[tok]; ok {
				continue
			}
			freq[tok]++
		}
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > n {
		words = words[:n]
	}
	return words
}
