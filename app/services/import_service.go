// Package services holds the batch import/export engines that sit between
// the boundary (HTTP handlers, CLI) and the product repository.
package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shashiranjanraj/pdm/app/models"
	"github.com/shashiranjanraj/pdm/app/repositories"
	"github.com/shashiranjanraj/pdm/pkg/metrics"
	"github.com/shopspring/decimal"
)

// ErrMalformedFile is returned when an import file cannot be read at all:
// unparsable CSV, empty content, or a header missing a required column.
// It is fatal for the whole batch; row-level problems never produce it.
var ErrMalformedFile = errors.New("malformed import file")

// Row is one loosely-typed import record, keyed by lower-cased column name.
type Row map[string]string

// RowFailure describes one rejected row. Index is the 0-based position in
// the input (header excluded for CSV input).
type RowFailure struct {
	Index  int    `json:"index"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason"`
}

// Report aggregates the per-row outcomes of one batch. A batch never rolls
// back: partial success is the designed result and is surfaced here.
type Report struct {
	Inserted int          `json:"inserted"`
	Updated  int          `json:"updated"`
	Failed   []RowFailure `json:"failed"`
}

// ImportOptions tunes the engine.
type ImportOptions struct {
	// StrictNumbers fails a row whose price or cost cell does not parse as a
	// non-negative number. When false (the default, IMPORT_STRICT_NUMBERS),
	// such cells are coerced to 0 and the row goes through. Spreadsheets in
	// the wild carry blanks, "N/A" and stray text in money columns, and
	// rejecting those rows was judged worse than zeroing them.
	StrictNumbers bool
}

// ImportService upserts batches of loosely-typed rows keyed by product code.
type ImportService struct {
	repo *repositories.ProductRepository
	opts ImportOptions
}

func NewImportService(repo *repositories.ProductRepository, opts ImportOptions) *ImportService {
	return &ImportService{repo: repo, opts: opts}
}

// recognized maps accepted column names to the canonical field name.
// Unrecognized columns are ignored. "sku" is the legacy alias for "code".
var recognized = map[string]string{
	"code":        "code",
	"sku":         "code",
	"name":        "name",
	"category":    "category",
	"spec":        "spec",
	"price":       "price",
	"cost":        "cost",
	"description": "description",
	"image_path":  "image_path",
}

// NormalizeRow turns one raw row into a product, or reports why it can't be.
// It is a pure function: no lookups, no writes, so the coercion rules are
// testable on their own.
func NormalizeRow(row Row, strictNumbers bool) (models.Product, error) {
	code := strings.TrimSpace(row["code"])
	if code == "" {
		code = strings.TrimSpace(row["sku"])
	}
	name := strings.TrimSpace(row["name"])

	if code == "" {
		return models.Product{}, errors.New("missing required field: code")
	}
	if name == "" {
		return models.Product{}, errors.New("missing required field: name")
	}

	price, err := parseAmount("price", row["price"], strictNumbers)
	if err != nil {
		return models.Product{}, err
	}
	cost, err := parseAmount("cost", row["cost"], strictNumbers)
	if err != nil {
		return models.Product{}, err
	}

	return models.Product{
		Code:        code,
		Name:        name,
		Category:    strings.TrimSpace(row["category"]),
		Spec:        row["spec"],
		Price:       price,
		Cost:        cost,
		Description: row["description"],
		ImagePath:   strings.TrimSpace(row["image_path"]),
	}, nil
}

// parseAmount coerces a money cell to a non-negative decimal.
// Absent, unparsable and negative values become 0 unless strict is set.
func parseAmount(field, raw string, strict bool) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		if strict {
			return decimal.Zero, fmt.Errorf("invalid %s value %q", field, raw)
		}
		return decimal.Zero, nil
	}
	return d, nil
}

// ImportBatch processes rows in input order and returns the aggregated
// report. Each row is independent: a bad row is recorded against its index
// and processing continues, and earlier rows are never rolled back.
func (s *ImportService) ImportBatch(rows []Row) Report {
	var report Report

	for i, row := range rows {
		code := firstNonEmpty(row["code"], row["sku"])

		p, err := NormalizeRow(row, s.opts.StrictNumbers)
		if err != nil {
			report.fail(i, code, err.Error())
			continue
		}

		existing, err := s.repo.FindByCode(p.Code)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			if err := s.repo.Create(&p); err != nil {
				report.fail(i, p.Code, err.Error())
				continue
			}
			report.Inserted++
			metrics.ImportRows.WithLabelValues("inserted").Inc()

		case err != nil:
			report.fail(i, p.Code, err.Error())

		default:
			// Full-record overwrite; the repository keeps the stored
			// image_path when the row doesn't carry one.
			if err := s.repo.Update(existing.ID, p); err != nil {
				report.fail(i, p.Code, err.Error())
				continue
			}
			report.Updated++
			metrics.ImportRows.WithLabelValues("updated").Inc()
		}
	}

	return report
}

// ImportCSV reads a whole CSV file (header row first) and runs ImportBatch
// on its rows. File-level problems are fatal and return ErrMalformedFile
// before any row is processed.
func (s *ImportService) ImportCSV(r io.Reader) (Report, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrMalformedFile, err)
	}
	if len(records) == 0 {
		return Report{}, fmt.Errorf("%w: file is empty", ErrMalformedFile)
	}

	header := make([]string, len(records[0]))
	seen := map[string]bool{}
	for i, col := range records[0] {
		canonical := recognized[strings.ToLower(strings.TrimSpace(col))]
		header[i] = canonical // "" for unrecognized columns
		if canonical != "" {
			seen[canonical] = true
		}
	}
	for _, required := range []string{"code", "name"} {
		if !seen[required] {
			return Report{}, fmt.Errorf("%w: missing required column %q", ErrMalformedFile, required)
		}
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := Row{}
		for i, cell := range record {
			if i < len(header) && header[i] != "" {
				row[header[i]] = cell
			}
		}
		rows = append(rows, row)
	}

	return s.ImportBatch(rows), nil
}

func (r *Report) fail(index int, code, reason string) {
	r.Failed = append(r.Failed, RowFailure{Index: index, Code: code, Reason: reason})
	metrics.ImportRows.WithLabelValues("failed").Inc()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
