package finance

// Category labels a transaction. The known set below is what the dashboard
// offers; any other non-empty string is accepted as a user extension.
type Category string

const (
	CategoryFood          Category = "Food & Dining"
	CategoryShopping      Category = "Shopping"
	CategoryTransport     Category = "Transportation"
	CategoryBills         Category = "Bills & Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealthcare    Category = "Healthcare"
	CategoryEducation     Category = "Education"
	CategoryTravel        Category = "Travel"
	CategoryHousing       Category = "Housing"
	CategorySalary        Category = "Salary"
	CategoryFreelance     Category = "Freelance"
	CategoryInvestment    Category = "Investment"
	CategoryOther         Category = "Other"
)

// CategoryInfo is the display metadata for a known category.
type CategoryInfo struct {
	Name  Category        `json:"name"`
	Type  TransactionType `json:"type"`
	Color string          `json:"color"`
}

var knownCategories = []CategoryInfo{
	{CategoryFood, Expense, "#e74c3c"},
	{CategoryShopping, Expense, "#e67e22"},
	{CategoryTransport, Expense, "#3498db"},
	{CategoryBills, Expense, "#f39c12"},
	{CategoryEntertainment, Expense, "#9b59b6"},
	{CategoryHealthcare, Expense, "#1abc9c"},
	{CategoryEducation, Expense, "#2980b9"},
	{CategoryTravel, Expense, "#d35400"},
	{CategoryHousing, Expense, "#c0392b"},
	{CategorySalary, Income, "#27ae60"},
	{CategoryFreelance, Income, "#16a085"},
	{CategoryInvestment, Income, "#2ecc71"},
	{CategoryOther, Expense, "#7f8c8d"},
}

// Categories returns the known categories in display order.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// IsKnown reports whether c is part of the built-in set.
func (c Category) IsKnown() bool {
	for _, k := range knownCategories {
		if k.Name == c {
			return true
		}
	}
	return false
}
