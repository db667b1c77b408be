package models

// MarketDataRequest is the query DTO for GET /api/v1/market-data.
type MarketDataRequest struct {
	Industry           string `query:"industry" validate:"required,min=2"`
	Location           string `query:"location" validate:"required,min=2"`
	IncludeTrends      *bool  `query:"include_trends"`
	IncludeCompetitors *bool  `query:"include_competitors"`
	IncludeSentiment   *bool  `query:"include_sentiment"`
	CompetitorRadius   int    `query:"competitor_radius" default:"5000" validate:"gte=100,lte=50000"`
}

// Options resolves the request into aggregation options. Omitted include
// flags default to true.
func (r *MarketDataRequest) Options() MarketDataOptions {
	opts := DefaultMarketDataOptions()
	if r.IncludeTrends != nil {
		opts.IncludeTrends = *r.IncludeTrends
	}
	if r.IncludeCompetitors != nil {
		opts.IncludeCompetitors = *r.IncludeCompetitors
	}
	if r.IncludeSentiment != nil {
		opts.IncludeSentiment = *r.IncludeSentiment
	}
	if r.CompetitorRadius > 0 {
		opts.CompetitorRadius = r.CompetitorRadius
	}
	return opts
}

// InsightsRequest is the query DTO for GET /api/v1/market-insights.
type InsightsRequest struct {
	Industry string `query:"industry" validate:"required,min=2"`
	Location string `query:"location" validate:"required,min=2"`
}

// RefreshRequest is the body DTO for POST /api/v1/market-data/refresh.
type RefreshRequest struct {
	Industry string `json:"industry" validate:"required,min=2"`
	Location string `json:"location" validate:"required,min=2"`
}

// FinancialModelRequest is the body DTO for POST /api/v1/financial-model.
type FinancialModelRequest struct {
	BusinessType string             `json:"businessType" validate:"required,min=2"`
	BusinessIdea string             `json:"businessIdea"`
	Projections  InitialProjections `json:"projections" validate:"required"`
	Industry     string             `json:"industry,omitempty"`
	Location     string             `json:"location,omitempty"`
}
