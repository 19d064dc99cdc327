package models

// Categories is the fixed set of post categories, in display order.
var Categories = []string{
	"technology",
	"science",
	"gaming",
	"music",
	"movies",
	"sports",
	"food",
	"travel",
	"fashion",
	"news",
}

var categoryNames = map[string]string{
	"technology": "Technology",
	"science":    "Science",
	"gaming":     "Gaming",
	"music":      "Music",
	"movies":     "Movies & TV",
	"sports":     "Sports",
	"food":       "Food & Cooking",
	"travel":     "Travel",
	"fashion":    "Fashion",
	"news":       "News & Politics",
}

// ValidCategory reports whether slug names one of the fixed categories.
func ValidCategory(slug string) bool {
	_, ok := categoryNames[slug]
	return ok
}

// CategoryDisplayName returns the human-readable name for a category slug.
// Unknown slugs fall back to the slug itself.
func CategoryDisplayName(slug string) string {
	if name, ok := categoryNames[slug]; ok {
		return name
	}
	return slug
}
