// Package taxonomy holds the fixed expense category set.
//
// Declaration order matters: the classifier scans categories in the order
// they appear here, so an earlier category wins when keywords from two
// categories both match. Changing the order changes classification output.
package taxonomy

import "github.com/pennylog/pennylog/internal/model"

var categories = []model.Category{
	{
		ID:    "food",
		Name:  "Food & Dining",
		Color: "#FF6B6B",
		Icon:  "restaurant",
		Keywords: []string{
			"restaurant", "cafe", "coffee", "pizza", "burger", "dinner",
			"lunch", "breakfast", "swiggy", "zomato", "dominos", "mcdonald",
			"kfc", "starbucks", "food", "snack", "bakery", "biryani",
		},
	},
	{
		ID:    "transport",
		Name:  "Transport",
		Color: "#4ECDC4",
		Icon:  "directions-car",
		Keywords: []string{
			"uber", "ola", "rapido", "taxi", "cab", "metro", "bus", "train",
			"fuel", "petrol", "diesel", "parking", "toll", "auto",
		},
	},
	{
		ID:    "shopping",
		Name:  "Shopping",
		Color: "#FFE66D",
		Icon:  "shopping-bag",
		Keywords: []string{
			"amazon", "flipkart", "myntra", "ajio", "mall", "store", "shop",
			"clothes", "shoes", "electronics", "gadget",
		},
	},
	{
		ID:    "entertainment",
		Name:  "Entertainment",
		Color: "#95E1D3",
		Icon:  "movie",
		Keywords: []string{
			"movie", "cinema", "netflix", "spotify", "prime video", "hotstar",
			"game", "concert", "bookmyshow", "theatre",
		},
	},
	{
		ID:    "bills",
		Name:  "Bills & Utilities",
		Color: "#F38181",
		Icon:  "receipt",
		Keywords: []string{
			"electricity", "water bill", "gas bill", "internet", "broadband",
			"wifi", "mobile recharge", "postpaid", "prepaid", "rent",
			"maintenance", "dth",
		},
	},
	{
		ID:    "health",
		Name:  "Health & Fitness",
		Color: "#A8E6CF",
		Icon:  "local-hospital",
		Keywords: []string{
			"pharmacy", "medicine", "doctor", "hospital", "clinic", "gym",
			"fitness", "yoga", "apollo", "medplus", "lab test",
		},
	},
	{
		ID:    "education",
		Name:  "Education",
		Color: "#DCEDC1",
		Icon:  "school",
		Keywords: []string{
			"course", "udemy", "coursera", "book", "tuition", "exam",
			"college", "school fee", "stationery",
		},
	},
	{
		ID:    "travel",
		Name:  "Travel",
		Color: "#FFD3B6",
		Icon:  "flight",
		Keywords: []string{
			"flight", "hotel", "airbnb", "makemytrip", "goibibo", "irctc",
			"booking.com", "resort", "trip", "vacation", "visa",
		},
	},
	{
		ID:    "groceries",
		Name:  "Groceries",
		Color: "#FFAAA5",
		Icon:  "local-grocery-store",
		Keywords: []string{
			"grocery", "supermarket", "bigbasket", "blinkit", "zepto",
			"dmart", "vegetables", "fruits", "milk", "kirana",
		},
	},
	{
		ID:    "personal",
		Name:  "Personal Care",
		Color: "#D4A5A5",
		Icon:  "face",
		Keywords: []string{
			"salon", "haircut", "spa", "cosmetics", "skincare", "barber",
			"grooming",
		},
	},
	{
		ID:       model.FallbackCategoryID,
		Name:     "Other",
		Color:    "#C7CEEA",
		Icon:     "category",
		Keywords: []string{},
	},
}

// Categories returns the taxonomy in declaration order. The returned slice
// is a copy; the taxonomy itself is immutable at runtime.
func Categories() []model.Category {
	out := make([]model.Category, len(categories))
	copy(out, categories)
	return out
}

// ByID returns the category with the given id, or nil if unknown.
func ByID(id string) *model.Category {
	for i := range categories {
		if categories[i].ID == id {
			c := categories[i]
			return &c
		}
	}
	return nil
}

// Fallback returns the universal fallback category.
func Fallback() model.Category {
	return *ByID(model.FallbackCategoryID)
}

// ValidID reports whether id names a category in the taxonomy.
func ValidID(id string) bool {
	return ByID(id) != nil
}
