// Package finmodel builds, validates and corrects twelve-month financial
// projections. The pipeline is deterministic: same inputs, same model, no
// external calls.
package finmodel

import (
	"fmt"
	"math"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/pkg/logger"
	"github.com/mikey22333/startup-sub001/pkg/util"
)

// Cost breakdown shares of the base monthly cost.
const (
	sharePersonnel  = 0.40
	shareMarketing  = 0.20
	shareOperations = 0.15
	shareOverhead   = 0.15
	shareTechnology = 0.10
)

// Revenue phase multipliers.
const (
	launchFactor     = 0.3  // month 1 discount on the stated revenue
	earlyGrowth      = 0.15 // months 2-3
	midGrowth        = 0.10 // months 4-6
	fixedCostShare   = 0.7  // share of base monthly cost treated as fixed
	ltvHorizonMonths = 24
	ltvRetention     = 0.95
)

// Validation scoring.
const (
	realisticThreshold = 70.0
	minLTVCACRatio     = 2.0
	maxBreakEvenMonth  = 24
	minGrossMargin     = 0.20
	minRunwayMonths    = 6
)

// Enhancer runs the build → validate → correct pipeline.
type Enhancer struct {
	log *logger.Logger
}

func NewEnhancer(log *logger.Logger) *Enhancer {
	return &Enhancer{log: log}
}

// Enhance builds a model from the initial projections, validates it against
// the industry benchmark, and derives a corrected variant. Both the original
// model and the report (whose Improvements field holds the corrected model)
// are returned; issues are data, never errors.
func (e *Enhancer) Enhance(businessType, businessIdea string, p models.InitialProjections, marketData *models.MarketSnapshot) (*models.FinancialModel, *models.ValidationReport) {
	bench := BenchmarkFor(businessType)

	model := build(businessType, p, bench)
	report := validate(model, bench, marketData)
	report.Improvements = correct(model, p, bench)

	e.log.Info("financial model enhanced",
		logger.String("businessType", businessType),
		logger.Float64("consistencyScore", report.ConsistencyScore),
		logger.Bool("realistic", report.IsRealistic),
		logger.Int("issues", len(report.Issues)))

	return model, report
}

func build(businessType string, p models.InitialProjections, bench Benchmark) *models.FinancialModel {
	model := &models.FinancialModel{BusinessType: businessType}

	// Revenue ramps in three phases: a discounted launch month, steep early
	// growth, then settling onto the benchmark rate.
	rev := &model.Revenue
	rev.Monthly[0] = p.MonthlyRevenue * launchFactor
	for m := 1; m < models.MonthsPerModel; m++ {
		growth := bench.MonthlyGrowth
		switch {
		case m <= 2:
			growth = earlyGrowth
		case m <= 5:
			growth = midGrowth
		}
		rev.Monthly[m] = rev.Monthly[m-1] * (1 + growth)
	}
	for _, v := range rev.Monthly {
		rev.AnnualTotal += v
	}
	rev.AnnualTotal = util.Round2(rev.AnnualTotal)
	rev.GrowthRate = bench.MonthlyGrowth
	rev.Streams = p.RevenueStreams

	costs := &model.Costs
	costs.Fixed = util.Round2(fixedCostShare * p.MonthlyCost)
	for m := 0; m < models.MonthsPerModel; m++ {
		costs.Monthly[m] = util.Round2(rev.Monthly[m]*(1-bench.GrossMargin) + costs.Fixed)
		costs.Variable += rev.Monthly[m] * (1 - bench.GrossMargin)
	}
	costs.Variable = util.Round2(costs.Variable)
	costs.Breakdown = models.CostBreakdown{
		Personnel:  util.Round2(sharePersonnel * p.MonthlyCost),
		Marketing:  util.Round2(shareMarketing * p.MonthlyCost),
		Operations: util.Round2(shareOperations * p.MonthlyCost),
		Overhead:   util.Round2(shareOverhead * p.MonthlyCost),
		Technology: util.Round2(shareTechnology * p.MonthlyCost),
	}

	metrics := &model.Metrics
	if p.CustomerCount > 0 {
		metrics.ARPU = util.Round2(rev.Monthly[models.MonthsPerModel-1] / float64(p.CustomerCount))
	}
	metrics.CAC = p.CAC
	if metrics.CAC == 0 {
		metrics.CAC = util.Round2(0.3 * metrics.ARPU)
	}
	metrics.LTV = util.Round2(metrics.ARPU * ltvHorizonMonths * ltvRetention)
	metrics.ChurnRate = bench.ChurnRate
	metrics.GrossMargin = bench.GrossMargin

	cf := &model.CashFlow
	cumulative := -p.InitialInvestment
	cf.BreakEvenMonth = models.MonthsPerModel
	for m := 0; m < models.MonthsPerModel; m++ {
		cf.MonthlyNet[m] = util.Round2(rev.Monthly[m] - costs.Monthly[m])
		cumulative += cf.MonthlyNet[m]
		cf.Cumulative[m] = util.Round2(cumulative)
		if cf.Cumulative[m] > 0 && cf.BreakEvenMonth == models.MonthsPerModel {
			cf.BreakEvenMonth = m + 1
		}
	}
	if costs.Monthly[0] > 0 {
		cf.RunwayMonths = int(math.Ceil(p.InitialInvestment / costs.Monthly[0]))
	}

	minCumulative := 0.0
	for _, v := range cf.Cumulative {
		if v < minCumulative {
			minCumulative = v
		}
	}
	model.Funding = models.FundingRequirement{
		Initial:        util.Round2(-minCumulative),
		WorkingCapital: util.Round2(2 * costs.Monthly[0]),
		GrowthCapital:  p.GrowthCapital,
	}
	model.Funding.Total = util.Round2(model.Funding.Initial + model.Funding.WorkingCapital + model.Funding.GrowthCapital)

	return model
}

func validate(model *models.FinancialModel, bench Benchmark, marketData *models.MarketSnapshot) *models.ValidationReport {
	report := &models.ValidationReport{ConsistencyScore: 100}

	if ratio := model.Metrics.LTVCACRatio(); ratio < minLTVCACRatio {
		report.ConsistencyScore -= 20
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:       models.SeverityError,
			Category:       "unit-economics",
			Message:        fmt.Sprintf("LTV:CAC ratio %.2f is below the %.1f viability floor", ratio, minLTVCACRatio),
			Impact:         "Customer acquisition destroys value at this ratio",
			Recommendation: fmt.Sprintf("Reduce CAC or raise retention; the industry target is %.1f", bench.TargetLTVCAC),
		})
	}

	if model.CashFlow.BreakEvenMonth > maxBreakEvenMonth {
		report.ConsistencyScore -= 15
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:       models.SeverityWarning,
			Category:       "cash-flow",
			Message:        fmt.Sprintf("Break-even at month %d exceeds the 24-month ceiling", model.CashFlow.BreakEvenMonth),
			Impact:         "Extended losses require more patient capital",
			Recommendation: "Cut fixed costs or accelerate the revenue ramp",
		})
	}

	if model.Metrics.GrossMargin < minGrossMargin {
		report.ConsistencyScore -= 10
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:       models.SeverityWarning,
			Category:       "margins",
			Message:        fmt.Sprintf("Gross margin %.0f%% is below the 20%% floor", model.Metrics.GrossMargin*100),
			Impact:         "Thin margins leave no room for pricing pressure",
			Recommendation: "Reprice or restructure the cost of delivery",
		})
	}

	if model.CashFlow.RunwayMonths < minRunwayMonths {
		report.ConsistencyScore -= 25
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:       models.SeverityError,
			Category:       "runway",
			Message:        fmt.Sprintf("Runway of %d months is below the 6-month minimum", model.CashFlow.RunwayMonths),
			Impact:         "The business may fail before reaching sustainability",
			Recommendation: "Raise more initial capital or reduce the monthly burn",
		})
	}

	// Market context adds advisory color only; it never moves the score.
	if marketData != nil && marketData.CompositeScore > 0 && marketData.CompositeScore < 40 {
		report.Issues = append(report.Issues, models.ValidationIssue{
			Severity:       models.SeveritySuggestion,
			Category:       "market",
			Message:        fmt.Sprintf("Market assessment for this pair scored %.0f/100", marketData.CompositeScore),
			Impact:         "A weak market makes the revenue ramp harder to achieve",
			Recommendation: "Re-validate demand assumptions against the market snapshot",
		})
	}

	report.ConsistencyScore = util.Clamp(report.ConsistencyScore, 0, 100)
	report.IsRealistic = report.ConsistencyScore >= realisticThreshold
	return report
}

// correct derives a repaired variant of the model without mutating the
// original.
func correct(model *models.FinancialModel, p models.InitialProjections, bench Benchmark) *models.FinancialModel {
	fixed := *model

	// With zero LTV (no customers) there is nothing to anchor a CAC on, so
	// the ratio correction is skipped; validate already flags the economics.
	if fixed.Metrics.LTV > 0 && fixed.Metrics.LTVCACRatio() < minLTVCACRatio {
		fixed.Metrics.CAC = util.Round2(fixed.Metrics.LTV / 3)
	}

	if fixed.CashFlow.BreakEvenMonth < 1 {
		month := models.MonthsPerModel
		if fixed.Revenue.Monthly[0] > 0 {
			month = int(math.Ceil(p.InitialInvestment / fixed.Revenue.Monthly[0]))
		}
		if month < 3 {
			month = 3
		}
		fixed.CashFlow.BreakEvenMonth = month
	}

	if fixed.Metrics.GrossMargin < minGrossMargin {
		fixed.Metrics.GrossMargin = 0.25
	}

	return &fixed
}
