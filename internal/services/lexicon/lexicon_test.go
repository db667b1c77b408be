package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
)

func TestScoreNoSentimentWords(t *testing.T) {
	score, conf := Score("the quarterly report was published on tuesday")
	assert.Equal(t, 0.0, score)
	assert.Equal(t, 0.5, conf)
}

func TestScoreAllPositive(t *testing.T) {
	score, conf := Score("great food, excellent service, highly recommend")
	assert.Equal(t, 1.0, score)
	assert.InDelta(t, 0.3, conf, 1e-9)
}

func TestScoreMixed(t *testing.T) {
	// 3 positive, 1 negative: (3-1)/4 = 0.5
	score, conf := Score("good location, great staff, friendly but slow")
	assert.InDelta(t, 0.5, score, 1e-9)
	assert.InDelta(t, 0.4, conf, 1e-9)
}

func TestScoreConfidenceCapped(t *testing.T) {
	_, conf := Score("good good good good good good bad bad bad bad bad bad")
	assert.Equal(t, 1.0, conf)
}

func TestLabelBoundaries(t *testing.T) {
	assert.Equal(t, models.SentimentPositive, Label(0.11))
	assert.Equal(t, models.SentimentNeutral, Label(0.10))
	assert.Equal(t, models.SentimentNeutral, Label(0))
	assert.Equal(t, models.SentimentNeutral, Label(-0.10))
	assert.Equal(t, models.SentimentNegative, Label(-0.11))
}

func TestTokenizeStripsPunctuation(t *testing.T) {
	toks := Tokenize("Great, food! isn't it?")
	assert.Equal(t, []string{"great", "food", "isn", "t", "it"}, toks)
}

func TestKeywordsFrequencyAndTies(t *testing.T) {
	texts := []string{
		"coffee shop downtown",
		"coffee prices rising downtown",
		"the best coffee roaster",
	}
	kw := Keywords(texts, 3)
	assert.Equal(t, []string{"coffee", "downtown", "best"}, kw)
}

func TestKeywordsSkipsStopAndShortWords(t *testing.T) {
	kw := Keywords([]string{"it is an ok ad for the app"}, 5)
	assert.Equal(t, []string{"app"}, kw)
}
