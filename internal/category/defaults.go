package category

import "github.com/pocketledger/pocketledger/internal/model"

// Fallback category ids used when nothing better matches.
const (
	OtherIncome  = "other-income"
	OtherExpense = "other-expense"
)

// DefaultCategories returns the built-in ordered category list.
func DefaultCategories() []Category {
	return []Category{
		{ID: "salary", Name: "Salary", Type: model.TransactionIncome},
		{ID: "freelance", Name: "Freelance", Type: model.TransactionIncome},
		{ID: "investments", Name: "Investments", Type: model.TransactionIncome},
		{ID: "business", Name: "Business", Type: model.TransactionIncome},
		{ID: "rental", Name: "Rental", Type: model.TransactionIncome},
		{ID: OtherIncome, Name: "Other Income", Type: model.TransactionIncome},
		{ID: "housing", Name: "Housing", Type: model.TransactionExpense},
		{ID: "transportation", Name: "Transportation", Type: model.TransactionExpense},
		{ID: "groceries", Name: "Groceries", Type: model.TransactionExpense},
		{ID: "utilities", Name: "Utilities", Type: model.TransactionExpense},
		{ID: "entertainment", Name: "Entertainment", Type: model.TransactionExpense},
		{ID: "food", Name: "Food", Type: model.TransactionExpense},
		{ID: "shopping", Name: "Shopping", Type: model.TransactionExpense},
		{ID: "healthcare", Name: "Healthcare", Type: model.TransactionExpense},
		{ID: "education", Name: "Education", Type: model.TransactionExpense},
		{ID: "personal", Name: "Personal Care", Type: model.TransactionExpense},
		{ID: "travel", Name: "Travel", Type: model.TransactionExpense},
		{ID: "insurance", Name: "Insurance", Type: model.TransactionExpense},
		{ID: "gifts", Name: "Gifts & Donations", Type: model.TransactionExpense},
		{ID: "bills", Name: "Bills & Fees", Type: model.TransactionExpense},
		{ID: OtherExpense, Name: "Other Expenses", Type: model.TransactionExpense},
	}
}
