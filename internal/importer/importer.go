// Package importer turns column-mapped CSV rows into transactions and
// applies them to an account as one batch.
package importer

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/model"
)

// ColumnMapping gives the zero-based column index of each field. Type and
// Category are optional; when Type is nil the sign of the amount decides.
type ColumnMapping struct {
	Date        int  `json:"date"`
	Description int  `json:"description"`
	Amount      int  `json:"amount"`
	Type        *int `json:"type,omitempty"`
	Category    *int `json:"category,omitempty"`
}

// Options control how a table is read.
type Options struct {
	HasHeader  bool   `json:"hasHeader"`
	FileName   string `json:"fileName"`
	MonthFirst bool   `json:"monthFirst"` // try MM/DD/YYYY before DD/MM/YYYY
}

// RowError records why a row could not be imported. Row is the one-based
// line number in the source, header included.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Batch is the outcome of parsing a table, before anything is stored.
type Batch struct {
	Pending       []model.Transaction
	TotalRows     int
	Skipped       int
	Errors        []RowError
	BalanceChange decimal.Decimal
}

// Format is a named column layout for a known CSV source.
type Format struct {
	Name       string
	Mapping    ColumnMapping
	HasHeader  bool
	MonthFirst bool
}

// Options returns the read options for this format.
func (f Format) Options(fileName string) Options {
	return Options{HasHeader: f.HasHeader, FileName: fileName, MonthFirst: f.MonthFirst}
}

// Registry holds named formats.
type Registry struct {
	formats map[string]Format
}

// NewRegistry creates an empty format registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Format)}
}

// Register adds a format. Panics on duplicate name.
func (r *Registry) Register(f Format) {
	key := strings.ToLower(f.Name)
	if _, ok := r.formats[key]; ok {
		panic("duplicate import format: " + key)
	}
	r.formats[key] = f
}

// Get returns the format registered under name.
func (r *Registry) Get(name string) (Format, bool) {
	f, ok := r.formats[strings.ToLower(name)]
	return f, ok
}

// Names returns the registered format names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.formats))
	for _, f := range r.formats {
		names = append(names, f.Name)
	}
	return names
}

// DefaultRegistry returns a registry with the built-in formats: the layout
// written by WriteCSV and Chase checking exports.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Format{Name: "pocketledger", Mapping: DefaultMapping(), HasHeader: true})
	r.Register(Format{Name: "chase", Mapping: chaseMapping(), HasHeader: true, MonthFirst: true})
	return r
}

// Chase checking columns: Details, Posting Date, Description, Amount, Type,
// Balance, Check or Slip #. Amounts are signed and dates are MM/DD/YYYY.
func chaseMapping() ColumnMapping {
	return ColumnMapping{Date: 1, Description: 2, Amount: 3}
}

func intPtr(i int) *int { return &i }
