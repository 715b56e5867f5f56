package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shashiranjanraj/pdm/app/repositories"
)

// exportHeader lists every exported column. The surrogate id is omitted on
// purpose: exports are meant for round-trip editing, and re-import keys on
// code. created_at is informational; the importer ignores it.
var exportHeader = []string{
	"code", "name", "category", "spec",
	"price", "cost", "description", "image_path", "created_at",
}

// ExportService serialises the full record set for download or CLI export.
type ExportService struct {
	repo *repositories.ProductRepository
}

func NewExportService(repo *repositories.ProductRepository) *ExportService {
	return &ExportService{repo: repo}
}

// ExportCSV writes a header row plus one row per product, in the same
// newest-first order the list endpoint uses. Exporting and re-importing the
// result is idempotent: every row matches an existing code and updates to
// identical values.
func (s *ExportService) ExportCSV(w io.Writer) error {
	products, err := s.repo.All(repositories.Filters{})
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, p := range products {
		record := []string{
			p.Code,
			p.Name,
			p.Category,
			p.Spec,
			p.Price.String(),
			p.Cost.String(),
			p.Description,
			p.ImagePath,
			p.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write row for %q: %w", p.Code, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
