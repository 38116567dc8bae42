package category

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketledger/pocketledger/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cats := []Category{
		{ID: "salary", Name: "Salary", Type: model.TransactionIncome},
		{ID: "coffee", Name: "Coffee & Snacks", Type: model.TransactionExpense},
	}

	var buf bytes.Buffer
	err := WriteCategories(&buf, cats)
	require.NoError(t, err)

	got, err := ReadCategories(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, cats, got)
}

func TestReadCategories_InvalidType(t *testing.T) {
	data := "id,name,type\nrent,Rent,OUTGOING\n"
	_, err := ReadCategories(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "OUTGOING")
}

func TestReadCategories_Empty(t *testing.T) {
	got, err := ReadCategories(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "categories.csv")
	require.NoError(t, Default().Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories(), got.All())
}

func TestLoad_RequiresFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.csv")
	cats := NewCatalog([]Category{
		{ID: "salary", Name: "Salary", Type: model.TransactionIncome},
		{ID: OtherExpense, Name: "Other Expense", Type: model.TransactionExpense},
	})
	require.NoError(t, cats.Save(path))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), OtherIncome)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	got, err := Load("")
	require.NoError(t, err)
	assert.Len(t, got.All(), len(DefaultCategories()))
}
