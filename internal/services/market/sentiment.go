package market

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/internal/domain/service"
	"github.com/mikey22333/startup-sub001/internal/services/lexicon"
	"github.com/mikey22333/startup-sub001/pkg/logger"
	"github.com/mikey22333/startup-sub001/pkg/util"
)

const trendingTopicCount = 5

// noDataRecommendations is the fixed advice attached to the deterministic
// no-data fallback.
var noDataRecommendations = []string{
	"Insufficient public sentiment data; run direct customer interviews",
	"Monitor social channels for emerging discussion of this market",
	"Treat sentiment-derived conclusions as low-confidence until volume grows",
}

func recommendationsForLabel(label models.SentimentLabel) []string {
	switch label {
	case models.SentimentPositive:
		return []string{
			"Capitalize on positive sentiment with testimonial-driven marketing",
			"Move quickly: favorable perception windows close as markets mature",
		}
	case models.SentimentNegative:
		return []string{
			"Address the drivers of negative sentiment in positioning and messaging",
			"Differentiate explicitly from the incumbents drawing criticism",
			"Re-validate demand before heavy spend",
		}
	default:
		return []string{
			"Sentiment is neutral; brand positioning can still shape perception",
			"Track sentiment over time for directional shifts",
		}
	}
}

// SentimentAdapter fans out to every configured mention source, scores the
// returned texts with the shared lexicon and aggregates per platform.
type SentimentAdapter struct {
	sources []service.MentionSource
	archive repository.SignalArchive
	metrics repository.Metrics
	log     *logger.Logger
}

func NewSentimentAdapter(sources []service.MentionSource, archive repository.SignalArchive, metrics repository.Metrics, log *logger.Logger) *SentimentAdapter {
	return &SentimentAdapter{sources: sources, archive: archive, metrics: metrics, log: log}
}

// ConsumerSentiment never fails with an error. Each source catches its own
// failure and contributes nothing; zero mentions overall yields the
// deterministic no-data fallback.
func (a *SentimentAdapter) ConsumerSentiment(ctx context.Context, industry, location, timeframe string) *models.SentimentAnalysis {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("sentiment", time.Since(start).Seconds())
	}()

	if len(a.sources) == 0 {
		a.log.Debug("sentiment adapter has no sources, skipping")
		a.metrics.RecordAdapterCall("sentiment", "unavailable")
		return nil
	}

	query := fmt.Sprintf("%s %s", industry, location)
	perSource := make([][]models.RawMention, len(a.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range a.sources {
		i, src := i, src
		g.Go(func() error {
			mentions, err := src.Mentions(gctx, query, timeframe)
			if err != nil {
				a.log.Warn("mention source failed",
					logger.String("source", src.Name()), logger.Error(err))
				a.metrics.RecordError("mention_source")
				return nil
			}
			perSource[i] = mentions
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors; isolation by contract

	var signals []models.MarketSignal
	var texts []string
	for i, mentions := range perSource {
		platform := a.sources[i].Name()
		for _, m := range mentions {
			score, conf := lexicon.Score(m.Text)
			signals = append(signals, models.MarketSignal{
				Keyword:    query,
				Platform:   platform,
				Label:      lexicon.Label(score),
				Score:      score,
				Confidence: conf,
				Volume:     1,
				Text:       m.Text,
				Timestamp:  m.Timestamp,
				Engagement: m.Engagement,
			})
			texts = append(texts, m.Text)
		}
	}

	if len(signals) == 0 {
		a.metrics.RecordAdapterCall("sentiment", "synthetic")
		return &models.SentimentAnalysis{
			Industry:  industry,
			Location:  location,
			Timeframe: timeframe,
			Overall: models.SentimentSummary{
				Label:      models.SentimentNeutral,
				Score:      0.1,
				Confidence: 0.5,
			},
			Platforms:       map[string]models.SentimentSummary{},
			Recommendations: noDataRecommendations,
			Origin:          models.SyntheticOrigin("no mentions returned by any source"),
		}
	}

	platforms := summarizeByPlatform(signals)
	overall := summarize(signals)
	a.archiveSignals(signals)
	a.metrics.RecordAdapterCall("sentiment", "success")

	return &models.SentimentAnalysis{
		Industry:        industry,
		Location:        location,
		Timeframe:       timeframe,
		Overall:         overall,
		Platforms:       platforms,
		TrendingTopics:  lexicon.Keywords(texts, trendingTopicCount),
		Signals:         signals,
		Recommendations: recommendationsForLabel(overall.Label),
		Origin:          models.RealOrigin(),
	}
}

// summarize folds signals into one volume-weighted aggregate: score weighted
// by per-signal volume, confidence as the plain mean.
func summarize(signals []models.MarketSignal) models.SentimentSummary {
	var scoreSum, confSum float64
	volume := 0
	for _, s := range signals {
		scoreSum += s.Score * float64(s.Volume)
		confSum += s.Confidence
		volume += s.Volume
	}

	score := 0.0
	if volume > 0 {
		score = scoreSum / float64(volume)
	}
	return models.SentimentSummary{
		Label:      lexicon.Label(score),
		Score:      util.Round2(score),
		Confidence: util.Round2(confSum / float64(len(signals))),
		Volume:     volume,
	}
}

func summarizeByPlatform(signals []models.MarketSignal) map[string]models.SentimentSummary {
	grouped := make(map[string][]models.MarketSignal)
	for _, s := range signals {
		grouped[s.Platform] = append(grouped[s.Platform], s)
	}

	out := make(map[string]models.SentimentSummary, len(grouped))
	for platform, group := range grouped {
		out[platform] = summarize(group)
	}
	return out
}

// archiveSignals ships scored signals to the optional archive without
// blocking the caller. Failures are logged and dropped.
func (a *SentimentAdapter) archiveSignals(signals []models.MarketSignal) {
	if a.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.archive.Archive(ctx, signals); err != nil {
			a.log.Warn("signal archive failed", logger.Error(err))
			a.metrics.RecordError("signal_archive")
		}
	}()
}
