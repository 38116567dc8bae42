package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pocketledger/pocketledger/internal/model"
)

// Header is the first line written by WriteCSV.
const Header = "date,description,amount,type,category"

// DefaultMapping matches the layout written by WriteCSV.
func DefaultMapping() ColumnMapping {
	return ColumnMapping{
		Date:        0,
		Description: 1,
		Amount:      2,
		Type:        intPtr(3),
		Category:    intPtr(4),
	}
}

// ReadCSV reads every record of r. Rows may have differing lengths.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	return records, nil
}

// WriteCSV writes txns with a header in the layout DefaultMapping reads.
func WriteCSV(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, t := range txns {
		if err := cw.Write(marshalTransaction(t)); err != nil {
			return fmt.Errorf("writing transaction %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func marshalTransaction(t model.Transaction) []string {
	return []string{
		t.Date.Format("2006-01-02"),
		t.Description,
		t.Amount.StringFixed(2),
		string(t.Type),
		t.Category,
	}
}
