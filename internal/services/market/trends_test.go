package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsForIndustryKnownCategories(t *testing.T) {
	saas := MetricsForIndustry("B2B SaaS analytics platform")
	assert.Equal(t, 12.0, saas.GrowthRate)
	assert.NotEmpty(t, saas.KeyDrivers)

	food := MetricsForIndustry("specialty coffee roastery")
	assert.Equal(t, 5.0, food.GrowthRate)
}

func TestMetricsForIndustryUnmatchedGetsGenericDefaults(t *testing.T) {
	got := MetricsForIndustry("industrial zeppelin manufacturing")
	assert.Equal(t, genericMetrics, got)
	assert.Equal(t, 3.0, got.GrowthRate)
}
