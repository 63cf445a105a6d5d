package model

// Category represents one entry in the fixed expense taxonomy.
type Category struct {
	ID       string
	Name     string
	Color    string
	Icon     string
	Keywords []string
}

// FallbackCategoryID is the id of the universal fallback category.
// Exactly one category in the taxonomy carries this id.
const FallbackCategoryID = "others"
