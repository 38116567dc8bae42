package category

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pocketledger/pocketledger/internal/model"
)

const (
	numFields = 3
	colID     = 0
	colName   = 1
	colType   = 2
)

// ReadCategories reads a categories CSV (id,name,type with a header row).
func ReadCategories(r io.Reader) ([]Category, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading categories CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var cats []Category
	for i, rec := range records[1:] {
		cat, err := UnmarshalCategory(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		cats = append(cats, cat)
	}
	return cats, nil
}

// WriteCategories writes a categories CSV including the header.
func WriteCategories(w io.Writer, cats []Category) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"id", "name", "type"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, cat := range cats {
		if err := cw.Write(MarshalCategory(cat)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Save writes the catalog to path, creating the parent directory.
func (c *Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating categories dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating categories file: %w", err)
	}
	defer f.Close()

	if err := WriteCategories(f, c.categories); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}

// MarshalCategory converts a Category to a CSV row.
func MarshalCategory(cat Category) []string {
	row := make([]string, numFields)
	row[colID] = cat.ID
	row[colName] = cat.Name
	row[colType] = string(cat.Type)
	return row
}

// UnmarshalCategory converts a CSV row to a Category.
func UnmarshalCategory(record []string) (Category, error) {
	if len(record) != numFields {
		return Category{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colID] == "" {
		return Category{}, fmt.Errorf("empty category id")
	}

	typ := model.TransactionType(record[colType])
	if !typ.Valid() {
		return Category{}, fmt.Errorf("invalid category type %q", record[colType])
	}

	return Category{
		ID:   record[colID],
		Name: record[colName],
		Type: typ,
	}, nil
}
