package finmodel

import "github.com/mikey22333/startup-sub001/internal/services/classify"

// Benchmark fixes the industry assumptions the builder and validator share.
// Margins and churn are fractions, growth is the month-over-month rate
// applied in the late phase.
type Benchmark struct {
	GrossMargin   float64
	ChurnRate     float64
	TargetLTVCAC  float64
	MonthlyGrowth float64
}

var benchmarks = map[classify.Category]Benchmark{
	classify.CategorySaaS:      {GrossMargin: 0.75, ChurnRate: 0.05, TargetLTVCAC: 3.0, MonthlyGrowth: 0.15},
	classify.CategoryEcommerce: {GrossMargin: 0.40, ChurnRate: 0.10, TargetLTVCAC: 2.5, MonthlyGrowth: 0.10},
	classify.CategoryRetail:    {GrossMargin: 0.40, ChurnRate: 0.10, TargetLTVCAC: 2.5, MonthlyGrowth: 0.10},
	classify.CategoryService:   {GrossMargin: 0.55, ChurnRate: 0.08, TargetLTVCAC: 3.0, MonthlyGrowth: 0.08},
	classify.CategoryFood:      {GrossMargin: 0.30, ChurnRate: 0.15, TargetLTVCAC: 2.0, MonthlyGrowth: 0.06},
}

var defaultBenchmark = Benchmark{GrossMargin: 0.50, ChurnRate: 0.10, TargetLTVCAC: 2.5, MonthlyGrowth: 0.08}

// BenchmarkFor resolves the benchmark for a business description.
func BenchmarkFor(businessType string) Benchmark {
	if b, ok := benchmarks[classify.Classify(businessType)]; ok {
		return b
	}
	return defaultBenchmark
}
