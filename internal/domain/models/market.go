package models

import "time"

// Reliability tiers and opportunity levels.
const (
	ReliabilityHigh   = "HIGH"
	ReliabilityMedium = "MEDIUM"
	ReliabilityLow    = "LOW"

	OpportunityHigh   = "HIGH"
	OpportunityMedium = "MEDIUM"
	OpportunityLow    = "LOW"
)

// Competitor density tiers.
const (
	DensityLow    = "Low"
	DensityMedium = "Medium"
	DensityHigh   = "High"
)

// SentimentLabel classifies a signal or an aggregate.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "POSITIVE"
	SentimentNegative SentimentLabel = "NEGATIVE"
	SentimentNeutral  SentimentLabel = "NEUTRAL"
)

// Origin tags a best-effort result so consumers can tell genuine provider
// data from fallback output.
type Origin struct {
	Synthetic bool   `json:"synthetic"`
	Reason    string `json:"reason,omitempty"`
}

// RealOrigin marks data observed from a live provider.
func RealOrigin() Origin {
	return Origin{}
}

// SyntheticOrigin marks fallback data and records why it was synthesized.
func SyntheticOrigin(reason string) Origin {
	return Origin{Synthetic: true, Reason: reason}
}

// RawMention is one unscored text item pulled from a social/news source
// before lexicon scoring.
type RawMention struct {
	Platform   string    `json:"platform"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Engagement int       `json:"engagement"`
}

// MarketSignal is one observed mention, scored. Immutable once created.
type MarketSignal struct {
	Keyword    string         `json:"keyword"`
	Platform   string         `json:"platform"`
	Label      SentimentLabel `json:"label"`
	Score      float64        `json:"score"`      // [-1, 1]
	Confidence float64        `json:"confidence"` // [0, 1]
	Volume     int            `json:"volume"`
	Text       string         `json:"text"`
	Timestamp  time.Time      `json:"timestamp"`
	Engagement int            `json:"engagement,omitempty"`
}

// CompetitorRecord is one competitor found near a reference point. Produced
// per query; not persisted individually.
type CompetitorRecord struct {
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	DistanceMeters float64 `json:"distanceMeters"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
}

// PointOfInterest is a raw spatial-provider result before distance
// computation.
type PointOfInterest struct {
	Name    string
	Address string
	Lat     float64
	Lon     float64
}

// EconomicIndicators holds macro figures for a location's country.
// Percentages, not fractions.
type EconomicIndicators struct {
	GDPGrowth          *float64 `json:"gdpGrowth,omitempty"`
	Inflation          *float64 `json:"inflation,omitempty"`
	Unemployment       *float64 `json:"unemployment,omitempty"`
	ConsumerConfidence *float64 `json:"consumerConfidence,omitempty"`
}

// Merge fills fields missing from e with values from other. Earlier sources
// win; later sources only supply gaps.
func (e *EconomicIndicators) Merge(other EconomicIndicators) {
	if e.GDPGrowth == nil {
		e.GDPGrowth = other.GDPGrowth
	}
	if e.Inflation == nil {
		e.Inflation = other.Inflation
	}
	if e.Unemployment == nil {
		e.Unemployment = other.Unemployment
	}
	if e.ConsumerConfidence == nil {
		e.ConsumerConfidence = other.ConsumerConfidence
	}
}

// IndustryMetrics holds per-industry heuristics.
type IndustryMetrics struct {
	MarketSize  string   `json:"marketSize"`
	GrowthRate  float64  `json:"growthRate"` // percent per year
	Seasonality []string `json:"seasonality"`
	KeyDrivers  []string `json:"keyDrivers"`
}

// CountryMeta is location/country metadata.
type CountryMeta struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Region     string `json:"region"`
	Population int64  `json:"population"`
}

// MarketTrends is the trends adapter output.
type MarketTrends struct {
	Industry string             `json:"industry"`
	Location string             `json:"location"`
	Economy  EconomicIndicators `json:"economy"`
	Country  *CountryMeta       `json:"country,omitempty"`
	Metrics  IndustryMetrics    `json:"metrics"`
	Origin   Origin             `json:"origin"`
}

// CompetitorAnalysis is the competitor adapter output.
type CompetitorAnalysis struct {
	BusinessType    string             `json:"businessType"`
	Location        string             `json:"location"`
	RadiusMeters    int                `json:"radiusMeters"`
	Competitors     []CompetitorRecord `json:"competitors"`
	Count           int                `json:"count"`
	Density         string             `json:"density"` // Low / Medium / High
	MarketScore     float64            `json:"marketScore"`
	AverageDistance float64            `json:"averageDistance"`
	Recommendations []string           `json:"recommendations"`
	Opportunities   []string           `json:"opportunities"`
	Threats         []string           `json:"threats"`
	Origin          Origin             `json:"origin"`
}

// SentimentSummary aggregates signal scores for one platform or overall.
type SentimentSummary struct {
	Label      SentimentLabel `json:"label"`
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
	Volume     int            `json:"volume"`
}

// SentimentAnalysis is the sentiment adapter output.
type SentimentAnalysis struct {
	Industry        string                      `json:"industry"`
	Location        string                      `json:"location"`
	Timeframe       string                      `json:"timeframe"`
	Overall         SentimentSummary            `json:"overall"`
	Platforms       map[string]SentimentSummary `json:"platforms"`
	TrendingTopics  []string                    `json:"trendingTopics"`
	Signals         []MarketSignal              `json:"signals,omitempty"`
	Recommendations []string                    `json:"recommendations"`
	Origin          Origin                      `json:"origin"`
}

// DataQuality reports which adapters contributed to a composite result.
type DataQuality struct {
	TrendsAvailable      bool   `json:"trendsAvailable"`
	CompetitorsAvailable bool   `json:"competitorsAvailable"`
	SentimentAvailable   bool   `json:"sentimentAvailable"`
	OverallReliability   string `json:"overallReliability"`
}

// Sources counts contributing adapters.
func (q DataQuality) Sources() int {
	n := 0
	if q.TrendsAvailable {
		n++
	}
	if q.CompetitorsAvailable {
		n++
	}
	if q.SentimentAvailable {
		n++
	}
	return n
}

// ComprehensiveMarketData is the aggregator's composite assessment.
type ComprehensiveMarketData struct {
	Industry         string              `json:"industry"`
	Location         string              `json:"location"`
	Trends           *MarketTrends       `json:"trends,omitempty"`
	Competitors      *CompetitorAnalysis `json:"competitors,omitempty"`
	Sentiment        *SentimentAnalysis  `json:"sentiment,omitempty"`
	MarketScore      float64             `json:"marketScore"`
	OpportunityLevel string              `json:"opportunityLevel"`
	KeyFindings      []string            `json:"keyFindings"`
	RiskFactors      []string            `json:"riskFactors"`
	Recommendations  []string            `json:"recommendations"`
	DataQuality      DataQuality         `json:"dataQuality"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}

// MarketDataOptions selects adapters for one aggregation call.
type MarketDataOptions struct {
	IncludeTrends      bool
	IncludeCompetitors bool
	IncludeSentiment   bool
	CompetitorRadius   int
}

// DefaultMarketDataOptions enables every adapter with a 5km radius.
func DefaultMarketDataOptions() MarketDataOptions {
	return MarketDataOptions{
		IncludeTrends:      true,
		IncludeCompetitors: true,
		IncludeSentiment:   true,
		CompetitorRadius:   5000,
	}
}

// MarketSnapshot is the unit of caching and persistence. One logical snapshot
// per (industry, geographic scope); replaced, never mutated, on refresh.
type MarketSnapshot struct {
	Industry        string             `json:"industry"`
	Location        string             `json:"location"`
	Economy         EconomicIndicators `json:"economy"`
	IndustryMetrics IndustryMetrics    `json:"industryMetrics"`
	Competitors     []CompetitorRecord `json:"competitors"`
	Sentiment       SentimentSummary   `json:"sentiment"`
	Trends          []string           `json:"trends"`
	Opportunities   []string           `json:"opportunities"`
	Risks           []string           `json:"risks"`
	CompositeScore  float64            `json:"compositeScore"`
	Reliability     string             `json:"reliability"`
	LastUpdated     time.Time          `json:"lastUpdated"`
}

// Refresh audit statuses.
const (
	RefreshSuccess = "SUCCESS"
	RefreshFailed  = "FAILED"
)

// RefreshAudit is one scheduler job outcome.
type RefreshAudit struct {
	ID         string    `json:"id"`
	Industry   string    `json:"industry"`
	Location   string    `json:"location"`
	Status     string    `json:"status"`
	RetryCount int       `json:"retryCount"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// RefreshEvent is published to the optional events topic after each refresh.
type RefreshEvent struct {
	Industry    string    `json:"industry"`
	Location    string    `json:"location"`
	Status      string    `json:"status"`
	Reliability string    `json:"reliability,omitempty"`
	Score       float64   `json:"score,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
