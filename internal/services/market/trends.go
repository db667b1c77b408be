package market

import (
	"context"
	"time"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/internal/domain/repository"
	"github.com/mikey22333/startup-sub001/internal/service/countries"
	"github.com/mikey22333/startup-sub001/internal/service/econdata"
	"github.com/mikey22333/startup-sub001/internal/services/classify"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

// industryMetrics is the fixed heuristic table keyed by classified category.
// Values are deliberately coarse; they anchor the trends record when no
// richer industry data source exists.
var industryMetrics = map[classify.Category]models.IndustryMetrics{
	classify.CategorySaaS: {
		MarketSize:  "Large and expanding",
		GrowthRate:  12.0,
		Seasonality: []string{"Q4 budget cycles", "January renewals"},
		KeyDrivers:  []string{"Digital transformation", "Remote work adoption", "API ecosystems"},
	},
	classify.CategoryEcommerce: {
		MarketSize:  "Very large",
		GrowthRate:  9.0,
		Seasonality: []string{"Holiday season peak", "Back-to-school"},
		KeyDrivers:  []string{"Mobile commerce", "Same-day delivery expectations", "Social shopping"},
	},
	classify.CategoryFood: {
		MarketSize:  "Large, locally fragmented",
		GrowthRate:  5.0,
		Seasonality: []string{"Summer peak", "Holiday catering", "Weekday lunch cycles"},
		KeyDrivers:  []string{"Delivery platforms", "Health-conscious menus", "Experience dining"},
	},
	classify.CategoryRetail: {
		MarketSize:  "Large, mature",
		GrowthRate:  3.5,
		Seasonality: []string{"Holiday season peak", "Seasonal clearance cycles"},
		KeyDrivers:  []string{"Omnichannel presence", "Inventory efficiency", "Loyalty programs"},
	},
	classify.CategoryFitness: {
		MarketSize:  "Growing mid-size",
		GrowthRate:  7.0,
		Seasonality: []string{"January resolutions spike", "Pre-summer demand"},
		KeyDrivers:  []string{"Wellness trends", "Boutique class formats", "Wearable integration"},
	},
	classify.CategoryHealth: {
		MarketSize:  "Large, regulated",
		GrowthRate:  6.0,
		Seasonality: []string{"Flu season", "Year-end benefits usage"},
		KeyDrivers:  []string{"Aging population", "Telehealth adoption", "Preventive care demand"},
	},
	classify.CategoryEducation: {
		MarketSize:  "Mid-size, steady",
		GrowthRate:  4.5,
		Seasonality: []string{"Academic year start", "Exam season"},
		KeyDrivers:  []string{"Online learning", "Credential demand", "Corporate upskilling"},
	},
	classify.CategoryService: {
		MarketSize:  "Fragmented local markets",
		GrowthRate:  4.0,
		Seasonality: []string{"Fiscal year-end demand"},
		KeyDrivers:  []string{"Specialization", "Referral networks", "Productized offerings"},
	},
}

var genericMetrics = models.IndustryMetrics{
	MarketSize:  "Moderate",
	GrowthRate:  3.0,
	Seasonality: []string{"General economic cycles"},
	KeyDrivers:  []string{"Consumer confidence", "Local economic growth"},
}

// TrendsAdapter combines economic indicators, country metadata and the
// industry heuristic table into one best-effort trends record.
type TrendsAdapter struct {
	econ      *econdata.Client
	countries *countries.Client
	metrics   repository.Metrics
	log       *logger.Logger
}

func NewTrendsAdapter(econ *econdata.Client, countries *countries.Client, metrics repository.Metrics, log *logger.Logger) *TrendsAdapter {
	return &TrendsAdapter{econ: econ, countries: countries, metrics: metrics, log: log}
}

// MarketTrends never fails with an error. It returns nil only when no
// economic provider is configured at all; a configured-but-failing provider
// chain degrades to the static table with a synthetic origin tag.
func (a *TrendsAdapter) MarketTrends(ctx context.Context, industry, location string) *models.MarketTrends {
	start := time.Now()
	defer func() {
		a.metrics.RecordLatency("trends", time.Since(start).Seconds())
	}()

	if !a.econ.Available() {
		a.log.Debug("trends adapter unconfigured, skipping",
			logger.String("industry", industry))
		a.metrics.RecordAdapterCall("trends", "unavailable")
		return nil
	}

	country, iso3 := a.countries.Resolve(ctx, location)
	iso2 := ""
	if country != nil {
		iso2 = country.Code
	}

	economy, live := a.econ.Indicators(ctx, iso2, iso3)

	origin := models.RealOrigin()
	outcome := "success"
	if !live {
		origin = models.SyntheticOrigin("economic providers unreachable, static indicator table used")
		outcome = "synthetic"
		a.log.Warn("trends providers unreachable, using static indicators",
			logger.String("industry", industry), logger.String("location", location))
	}
	a.metrics.RecordAdapterCall("trends", outcome)

	return &models.MarketTrends{
		Industry: industry,
		Location: location,
		Economy:  economy,
		Country:  country,
		Metrics:  MetricsForIndustry(industry),
		Origin:   origin,
	}
}

// MetricsForIndustry resolves the heuristic table entry for an industry
// description. Unmatched industries get generic growth-economy defaults.
func MetricsForIndustry(industry string) models.IndustryMetrics {
	if m, ok := industryMetrics[classify.Classify(industry)]; ok {
		return m
	}
	return genericMetrics
}
