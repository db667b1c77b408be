package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		desc string
		want Category
	}{
		{"coffee shop", CategoryFood},
		{"Artisan Bakery and Catering", CategoryFood},
		{"B2B SaaS analytics platform", CategorySaaS},
		{"online store for sneakers", CategoryEcommerce},
		{"neighborhood yoga studio", CategoryFitness},
		{"dental clinic", CategoryHealth},
		{"management consulting firm", CategoryService},
		{"llama grooming", CategoryGeneral},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.desc), "description %q", tc.desc)
	}
}

func TestPlaceCategoriesAlwaysNonEmpty(t *testing.T) {
	for _, c := range []Category{CategorySaaS, CategoryFood, CategoryGeneral, Category("unknown")} {
		assert.NotEmpty(t, PlaceCategories(c))
	}
}

func TestRefreshPriorityDefaultsLow(t *testing.T) {
	assert.Equal(t, PriorityHigh, RefreshPriority(CategoryFood))
	assert.Equal(t, PriorityMedium, RefreshPriority(CategorySaaS))
	assert.Equal(t, PriorityLow, RefreshPriority(Category("unknown")))
}
