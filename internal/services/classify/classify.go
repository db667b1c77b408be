// Package classify maps free-text business descriptions to a tagged industry
// category. Classification happens once per request and the tag is passed
// down: the amenity mapping, the trends heuristics, the financial benchmarks,
// and the scheduler priorities all key off the same Category instead of
// re-deriving it from keywords.
package classify

import "strings"

// Category is a tagged industry classification.
type Category string

const (
	CategorySaaS      Category = "saas"
	CategoryEcommerce Category = "ecommerce"
	CategoryFood      Category = "food"
	CategoryRetail    Category = "retail"
	CategoryFitness   Category = "fitness"
	CategoryHealth    Category = "health"
	CategoryEducation Category = "education"
	CategoryService   Category = "service"
	CategoryGeneral   Category = "general"
)

// categoryKeywords is matched in order; the first category with a keyword
// contained in the description wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategorySaaS, []string{"saas", "software", "app", "digital", "platform", "tech"}},
	{CategoryEcommerce, []string{"ecommerce", "e-commerce", "online store", "marketplace", "dropship"}},
	{CategoryFood, []string{"restaurant", "coffee", "cafe", "food", "bakery", "catering", "delivery", "bar"}},
	{CategoryFitness, []string{"gym", "fitness", "yoga", "wellness", "sport"}},
	{CategoryHealth, []string{"health", "clinic", "medical", "pharmacy", "dental"}},
	{CategoryEducation, []string{"education", "school", "tutoring", "course", "training"}},
	{CategoryRetail, []string{"retail", "shop", "store", "boutique", "grocery"}},
	{CategoryService, []string{"consulting", "service", "agency", "salon", "cleaning", "repair", "legal", "accounting"}},
}

// Classify returns the category for a business description. Unmatched
// descriptions fall back to CategoryGeneral.
func Classify(description string) Category {
	desc := strings.ToLower(description)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(desc, kw) {
				return entry.category
			}
		}
	}
	return CategoryGeneral
}

// placeCategories maps a category to the spatial-provider amenity/shop tags
// used when searching for competitors.
var placeCategories = map[Category][]string{
	CategorySaaS:      {"coworking_space", "office"},
	CategoryEcommerce: {"mall", "department_store"},
	CategoryFood:      {"restaurant", "cafe", "fast_food", "bar"},
	CategoryFitness:   {"gym", "fitness_centre", "sports_centre"},
	CategoryHealth:    {"clinic", "pharmacy", "doctors", "dentist"},
	CategoryEducation: {"school", "college", "language_school"},
	CategoryRetail:    {"supermarket", "convenience", "clothes", "marketplace"},
	CategoryService:   {"office", "hairdresser", "beauty"},
	CategoryGeneral:   {"commercial", "retail"},
}

// PlaceCategories returns amenity tags for competitor search.
func PlaceCategories(c Category) []string {
	if tags, ok := placeCategories[c]; ok {
		return tags
	}
	return placeCategories[CategoryGeneral]
}

// Priority is the refresh priority tier for the background scheduler.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// refreshPriorities is the fixed industry→tier list. Fast-moving consumer
// categories refresh more often than slow B2B ones.
var refreshPriorities = map[Category]Priority{
	CategoryFood:      PriorityHigh,
	CategoryRetail:    PriorityHigh,
	CategoryEcommerce: PriorityHigh,
	CategorySaaS:      PriorityMedium,
	CategoryFitness:   PriorityMedium,
	CategoryHealth:    PriorityMedium,
	CategoryEducation: PriorityLow,
	CategoryService:   PriorityLow,
	CategoryGeneral:   PriorityLow,
}

// RefreshPriority returns the scheduler tier for a category.
func RefreshPriority(c Category) Priority {
	if p, ok := refreshPriorities[c]; ok {
		return p
	}
	return PriorityLow
}
