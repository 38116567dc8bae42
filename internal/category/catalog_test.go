package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pocketledger/pocketledger/internal/model"
)

func TestNewCatalog(t *testing.T) {
	cats := DefaultCategories()
	c := NewCatalog(cats)

	assert.Len(t, c.All(), len(cats))
}

func TestGetExists(t *testing.T) {
	c := Default()

	cat, ok := c.Get("groceries")
	assert.True(t, ok)
	assert.Equal(t, "Groceries", cat.Name)
	assert.Equal(t, model.TransactionExpense, cat.Type)

	_, ok = c.Get("yachts")
	assert.False(t, ok)

	assert.True(t, c.Exists(OtherIncome))
	assert.False(t, c.Exists("yachts"))
}

func TestByType(t *testing.T) {
	c := Default()

	income := c.ByType(model.TransactionIncome)
	assert.Len(t, income, 6)
	for _, cat := range income {
		assert.Equal(t, model.TransactionIncome, cat.Type)
	}
	assert.Len(t, c.ByType(model.TransactionExpense), 15)
}

func TestMatch(t *testing.T) {
	c := Default()

	tests := []struct {
		text string
		typ  model.TransactionType
		want string
	}{
		{"groceries", model.TransactionExpense, "groceries"},
		{"GROCERIES", model.TransactionExpense, "groceries"},
		{"Personal Care", model.TransactionExpense, "personal"},
		{"  salary ", model.TransactionIncome, "salary"},
		{"Monthly Salary Payment", model.TransactionIncome, "salary"},
		{"health", model.TransactionExpense, "healthcare"},
		{"Gifts", model.TransactionExpense, "gifts"},
		{"crypto mining", model.TransactionIncome, OtherIncome},
		{"crypto mining", model.TransactionExpense, OtherExpense},
		{"", model.TransactionExpense, OtherExpense},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Match(tt.text, tt.typ), "Match(%q, %s)", tt.text, tt.typ)
	}
}

func TestMatch_ExactBeatsSubstring(t *testing.T) {
	c := NewCatalog([]Category{
		{ID: "food-delivery", Name: "Food Delivery", Type: model.TransactionExpense},
		{ID: "food", Name: "Food", Type: model.TransactionExpense},
	})
	assert.Equal(t, "food", c.Match("food", model.TransactionExpense))
	assert.Equal(t, "food-delivery", c.Match("food delivery", model.TransactionExpense))
}

func TestFallback(t *testing.T) {
	c := Default()
	assert.Equal(t, OtherIncome, c.Fallback(model.TransactionIncome))
	assert.Equal(t, OtherExpense, c.Fallback(model.TransactionExpense))
}
