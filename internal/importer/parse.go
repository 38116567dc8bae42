package importer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/pocketledger/pocketledger/internal/category"
	"github.com/pocketledger/pocketledger/internal/model"
)

var (
	errBadDate   = errors.New("unparseable date")
	errBadAmount = errors.New("unparseable amount")
	errZero      = errors.New("amount is zero")
	errTooLarge  = errors.New("amount exceeds maximum")
)

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const (
	dayFirst   = "2/1/2006"
	monthFirst = "1/2/2006"
)

// ParseRows converts raw rows into pending transactions. Rows with a bad
// date or amount are errors; rows with a blank description are skipped.
// Neither aborts the batch.
func ParseRows(rows [][]string, m ColumnMapping, opts Options, catalog *category.Catalog) Batch {
	if catalog == nil {
		catalog = category.Default()
	}
	b := Batch{BalanceChange: decimal.Zero}

	start := 0
	if opts.HasHeader && len(rows) > 0 {
		start = 1
	}
	for i := start; i < len(rows); i++ {
		rec := rows[i]
		line := i + 1
		b.TotalRows++

		date, err := parseDate(cell(rec, m.Date), opts.MonthFirst)
		if err != nil {
			b.Errors = append(b.Errors, RowError{Row: line, Reason: err.Error()})
			continue
		}
		raw, err := parseAmount(cell(rec, m.Amount))
		if err != nil {
			b.Errors = append(b.Errors, RowError{Row: line, Reason: err.Error()})
			continue
		}

		typ := model.TransactionIncome
		if m.Type != nil {
			typ = parseType(cell(rec, *m.Type))
		} else if raw.IsNegative() {
			typ = model.TransactionExpense
		}

		cat := catalog.Fallback(typ)
		if m.Category != nil {
			cat = catalog.Match(cell(rec, *m.Category), typ)
		}

		desc := strings.TrimSpace(cell(rec, m.Description))
		if desc == "" {
			b.Skipped++
			continue
		}

		t := model.Transaction{
			Type:        typ,
			Amount:      raw.Abs(),
			Description: desc,
			Category:    cat,
			Date:        date,
		}
		b.Pending = append(b.Pending, t)
		b.BalanceChange = b.BalanceChange.Add(t.SignedEffect())
	}
	return b
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

// parseDate accepts ISO dates first, then DD/MM/YYYY and MM/DD/YYYY with
// either / or - separators. Day-first wins unless monthFirstOrder is set.
func parseDate(s string, monthFirstOrder bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", errBadDate)
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	slashed := strings.ReplaceAll(s, "-", "/")
	layouts := []string{dayFirst, monthFirst}
	if monthFirstOrder {
		layouts = []string{monthFirst, dayFirst}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, slashed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", errBadDate, s)
}

// parseAmount strips currency symbols, thousands separators and spaces and
// rounds to cents. The sign is kept.
func parseAmount(s string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '₹', '$', '€', '£', '¥', ',':
			return -1
		}
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", errBadAmount)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q", errBadAmount, s)
	}
	d = d.Round(2)
	if d.IsZero() {
		return decimal.Zero, errZero
	}
	if !model.InRange(d) {
		return decimal.Zero, fmt.Errorf("%w %s", errTooLarge, model.MaxAmount)
	}
	return d, nil
}

func parseType(s string) model.TransactionType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "credit", "cr":
		return model.TransactionIncome
	}
	return model.TransactionExpense
}

// importKey fingerprints a row so re-importing the same file inserts nothing.
func importKey(accountID string, t model.Transaction) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s",
		accountID,
		t.Date.Format("2006-01-02"),
		t.Type,
		t.Amount.StringFixed(2),
		strings.ToLower(t.Description))
	return hex.EncodeToString(h.Sum(nil))
}
