package finmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey22333/startup-sub001/internal/domain/models"
	"github.com/mikey22333/startup-sub001/pkg/logger"
)

func testProjections() models.InitialProjections {
	return models.InitialProjections{
		MonthlyRevenue:    10000,
		MonthlyCost:       8000,
		InitialInvestment: 50000,
		CustomerCount:     100,
		GrowthCapital:     20000,
		RevenueStreams:    []string{"subscriptions"},
	}
}

func TestEnhanceDeterministic(t *testing.T) {
	e := NewEnhancer(logger.Nop())

	m1, r1 := e.Enhance("saas platform", "analytics tool", testProjections(), nil)
	m2, r2 := e.Enhance("saas platform", "analytics tool", testProjections(), nil)

	assert.Equal(t, m1, m2)
	assert.Equal(t, r1.ConsistencyScore, r2.ConsistencyScore)
	assert.Equal(t, r1.Improvements, r2.Improvements)
}

func TestBuildRevenuePhases(t *testing.T) {
	e := NewEnhancer(logger.Nop())
	m, _ := e.Enhance("saas platform", "", testProjections(), nil)

	rev := m.Revenue.Monthly
	assert.InDelta(t, 3000, rev[0], 0.01) // 10000 * 0.3
	assert.InDelta(t, rev[0]*1.15, rev[1], 0.01)
	assert.InDelta(t, rev[1]*1.15, rev[2], 0.01)
	assert.InDelta(t, rev[2]*1.10, rev[3], 0.01)
	assert.InDelta(t, rev[5]*1.15, rev[6], 0.01) // saas benchmark growth
	assert.Greater(t, m.Revenue.AnnualTotal, 0.0)
}

func TestBuildCostsAndBreakdown(t *testing.T) {
	e := NewEnhancer(logger.Nop())
	m, _ := e.Enhance("saas platform", "", testProjections(), nil)

	// fixed share: 0.7 * 8000
	assert.InDelta(t, 5600, m.Costs.Fixed, 0.01)
	// month 1 cost: 3000 * 0.25 + 5600
	assert.InDelta(t, 6350, m.Costs.Monthly[0], 0.01)

	b := m.Costs.Breakdown
	assert.InDelta(t, 3200, b.Personnel, 0.01)
	assert.InDelta(t, 1600, b.Marketing, 0.01)
	assert.InDelta(t, 1200, b.Operations, 0.01)
	assert.InDelta(t, 1200, b.Overhead, 0.01)
	assert.InDelta(t, 800, b.Technology, 0.01)
	assert.InDelta(t, 8000, b.Personnel+b.Marketing+b.Operations+b.Overhead+b.Technology, 0.01)
}

func TestDerivedCACGivesFixedRatio(t *testing.T) {
	e := NewEnhancer(logger.Nop())
	m, _ := e.Enhance("saas platform", "", testProjections(), nil)

	// With CAC derived as 0.3*ARPU and LTV = ARPU*24*0.95 the ratio is
	// always 22.8/0.3 = 76 regardless of ARPU.
	assert.InDelta(t, 0.3*m.Metrics.ARPU, m.Metrics.CAC, 0.01)
	assert.InDelta(t, m.Metrics.ARPU*22.8, m.Metrics.LTV, 0.01)
	assert.InDelta(t, 76, m.Metrics.LTVCACRatio(), 0.05)
}

func TestExplicitCACRespected(t *testing.T) {
	p := testProjections()
	p.CAC = 500

	e := NewEnhancer(logger.Nop())
	m, _ := e.Enhance("saas platform", "", p, nil)
	assert.Equal(t, 500.0, m.Metrics.CAC)
}

func TestCashFlowAndFunding(t *testing.T) {
	e := NewEnhancer(logger.Nop())
	m, _ := e.Enhance("saas platform", "", testProjections(), nil)

	cf := m.CashFlow
	assert.InDelta(t, -50000+cf.MonthlyNet[0], cf.Cumulative[0], 0.01)
	assert.Equal(t, 8, cf.RunwayMonths) // ceil(50000 / 6350)

	var minCum float64
	for _, v := range cf.Cumulative {
		if v < minCum {
			minCum = v
		}
	}
	assert.InDelta(t, -minCum, m.Funding.Initial, 0.01)
	assert.InDelta(t, 2*m.Costs.Monthly[0], m.Funding.WorkingCapital, 0.01)
	assert.Equal(t, 20000.0, m.Funding.GrowthCapital)
	assert.InDelta(t, m.Funding.Initial+m.Funding.WorkingCapital+m.Funding.GrowthCapital, m.Funding.Total, 0.01)
}

func TestValidateHealthyModel(t *testing.T) {
	e := NewEnhancer(logger.Nop())
	_, report := e.Enhance("saas platform", "", testProjections(), nil)

	assert.Equal(t, 100.0, report.ConsistencyScore)
	assert.True(t, report.IsRealistic)
	assert.Empty(t, report.Issues)
}

func TestValidatePenalties(t *testing.T) {
	p := testProjections()
	p.CAC = 50000               // ratio far below 2
	p.InitialInvestment = 10000 // runway below 6 months

	e := NewEnhancer(logger.Nop())
	_, report := e.Enhance("saas platform", "", p, nil)

	// 100 - 20 (ratio) - 25 (runway) = 55
	assert.Equal(t, 55.0, report.ConsistencyScore)
	assert.False(t, report.IsRealistic)
	require.Len(t, report.Issues, 2)
	assert.Equal(t, models.SeverityError, report.Issues[0].Severity)
}

func TestCorrectionRestoresRatio(t *testing.T) {
	p := testProjections()
	p.CAC = 50000

	e := NewEnhancer(logger.Nop())
	m, report := e.Enhance("saas platform", "", p, nil)
	require.NotNil(t, report.Improvements)

	// original untouched, corrected CAC = LTV/3 → ratio exactly 3
	assert.Equal(t, 50000.0, m.Metrics.CAC)
	assert.InDelta(t, 3.0, report.Improvements.Metrics.LTVCACRatio(), 0.01)
}

func TestCorrectSkipsRatioWithZeroCustomers(t *testing.T) {
	p := testProjections()
	p.CustomerCount = 0 // ARPU, LTV and CAC all collapse to zero

	e := NewEnhancer(logger.Nop())
	m, report := e.Enhance("saas platform", "", p, nil)
	require.NotNil(t, report.Improvements)

	assert.Equal(t, 0.0, m.Metrics.LTV)
	// no LTV to anchor on: the corrected CAC stays zero instead of 0/3
	assert.Equal(t, 0.0, report.Improvements.Metrics.CAC)
	assert.Equal(t, 0.0, report.Improvements.Metrics.LTVCACRatio())

	// the degenerate economics still show up as a unit-economics error
	var flagged bool
	for _, issue := range report.Issues {
		if issue.Category == "unit-economics" {
			flagged = true
		}
	}
	assert.True(t, flagged)
}

func TestCorrectMarginAndBreakEvenFloors(t *testing.T) {
	model := &models.FinancialModel{
		Metrics: models.UnitMetrics{CAC: 100, LTV: 1000, GrossMargin: 0.10},
	}
	model.Revenue.Monthly[0] = 5000
	model.CashFlow.BreakEvenMonth = 0

	fixed := correct(model, models.InitialProjections{InitialInvestment: 8000}, defaultBenchmark)

	assert.Equal(t, 0.25, fixed.Metrics.GrossMargin)
	// ceil(8000/5000)=2, floored at 3
	assert.Equal(t, 3, fixed.CashFlow.BreakEvenMonth)
	// source model not mutated
	assert.Equal(t, 0.10, model.Metrics.GrossMargin)
	assert.Equal(t, 0, model.CashFlow.BreakEvenMonth)
}

func TestMarketContextSuggestionDoesNotMoveScore(t *testing.T) {
	weak := &models.MarketSnapshot{CompositeScore: 25}

	e := NewEnhancer(logger.Nop())
	_, report := e.Enhance("saas platform", "", testProjections(), weak)

	assert.Equal(t, 100.0, report.ConsistencyScore)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, models.SeveritySuggestion, report.Issues[0].Severity)
}

func TestBenchmarkLookup(t *testing.T) {
	assert.Equal(t, 0.75, BenchmarkFor("saas analytics platform").GrossMargin)
	assert.Equal(t, 0.30, BenchmarkFor("coffee delivery service").GrossMargin)
	assert.Equal(t, defaultBenchmark, BenchmarkFor("zeppelin manufacturing"))
}
