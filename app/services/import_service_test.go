package services_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/shashiranjanraj/pdm/app/models"
	"github.com/shashiranjanraj/pdm/app/repositories"
	"github.com/shashiranjanraj/pdm/app/services"
	"github.com/shashiranjanraj/pdm/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *repositories.ProductRepository {
	t.Helper()

	db, err := database.OpenDriver("sqlite", filepath.Join(t.TempDir(), "pdm_test.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}))
	return repositories.NewProductRepository(db)
}

func newImporter(t *testing.T, repo *repositories.ProductRepository) *services.ImportService {
	t.Helper()
	return services.NewImportService(repo, services.ImportOptions{})
}

func TestNormalizeRow(t *testing.T) {
	p, err := services.NormalizeRow(services.Row{
		"code":  " SKU-1 ",
		"name":  "Widget",
		"price": "9.99",
		"cost":  "4.20",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "SKU-1", p.Code)
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(9.99)))
	assert.True(t, p.Cost.Equal(decimal.NewFromFloat(4.20)))
}

func TestNormalizeRowSkuAlias(t *testing.T) {
	p, err := services.NormalizeRow(services.Row{"sku": "LEG-9", "name": "Legacy"}, false)
	require.NoError(t, err)
	assert.Equal(t, "LEG-9", p.Code)
}

func TestNormalizeRowMissingRequired(t *testing.T) {
	_, err := services.NormalizeRow(services.Row{"name": "No code"}, false)
	require.EqualError(t, err, "missing required field: code")

	_, err = services.NormalizeRow(services.Row{"code": "SKU-1"}, false)
	require.EqualError(t, err, "missing required field: name")
}

func TestNormalizeRowCoercesBadAmountsToZero(t *testing.T) {
	for _, raw := range []string{"", "N/A", "abc", "-5"} {
		p, err := services.NormalizeRow(services.Row{
			"code": "SKU-1", "name": "Widget", "price": raw, "cost": raw,
		}, false)
		require.NoError(t, err, "raw=%q", raw)
		assert.True(t, p.Price.IsZero(), "price for raw=%q: got %s", raw, p.Price)
		assert.True(t, p.Cost.IsZero(), "cost for raw=%q: got %s", raw, p.Cost)
	}
}

func TestNormalizeRowStrictNumbers(t *testing.T) {
	_, err := services.NormalizeRow(services.Row{
		"code": "SKU-1", "name": "Widget", "price": "N/A",
	}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid price value "N/A"`)

	// Blank cells are still fine under strict mode.
	p, err := services.NormalizeRow(services.Row{
		"code": "SKU-1", "name": "Widget", "price": "",
	}, true)
	require.NoError(t, err)
	assert.True(t, p.Price.IsZero())
}

func TestImportBatchInsertsAndUpdates(t *testing.T) {
	repo := newTestRepo(t)
	importer := newImporter(t, repo)

	report := importer.ImportBatch([]services.Row{
		{"code": "SKU-1", "name": "Widget", "price": "9.99"},
		{"code": "SKU-2", "name": "Gadget", "price": "19.99"},
	})
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, report.Failed)

	// Second pass with the same codes updates in place.
	report = importer.ImportBatch([]services.Row{
		{"code": "SKU-1", "name": "Widget v2", "price": "11.50"},
	})
	assert.Equal(t, 0, report.Inserted)
	assert.Equal(t, 1, report.Updated)
	assert.Empty(t, report.Failed)

	got, err := repo.FindByCode("SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "Widget v2", got.Name)
	assert.True(t, got.Price.Equal(decimal.NewFromFloat(11.50)))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestImportBatchPartialFailure(t *testing.T) {
	repo := newTestRepo(t)
	importer := newImporter(t, repo)

	report := importer.ImportBatch([]services.Row{
		{"code": "SKU-1", "name": "Widget"},
		{"code": "SKU-2"}, // no name
		{"code": "SKU-3", "name": "Gizmo"},
	})

	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Updated)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, 1, report.Failed[0].Index)
	assert.Equal(t, "SKU-2", report.Failed[0].Code)
	assert.Equal(t, "missing required field: name", report.Failed[0].Reason)

	// The rows around the bad one must have landed.
	_, err := repo.FindByCode("SKU-1")
	assert.NoError(t, err)
	_, err = repo.FindByCode("SKU-3")
	assert.NoError(t, err)
}

func TestImportBatchPreservesImagePath(t *testing.T) {
	repo := newTestRepo(t)
	importer := newImporter(t, repo)

	seed := models.Product{Code: "SKU-1", Name: "Widget", ImagePath: "products/1.jpg"}
	require.NoError(t, repo.Create(&seed))

	report := importer.ImportBatch([]services.Row{
		{"code": "SKU-1", "name": "Widget v2"},
	})
	assert.Equal(t, 1, report.Updated)

	got, err := repo.FindByCode("SKU-1")
	require.NoError(t, err)
	assert.Equal(t, "products/1.jpg", got.ImagePath)
}

func TestImportCSV(t *testing.T) {
	repo := newTestRepo(t)
	importer := newImporter(t, repo)

	// Mixed-case headers, a legacy "sku" column and an unknown column.
	input := strings.Join([]string{
		"SKU,Name,Category,Price,Warehouse",
		"SKU-1,Widget,Electronics,9.99,A3",
		"SKU-2,Gadget,,not-a-number,B1",
	}, "\n")

	report, err := importer.ImportCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	assert.Empty(t, report.Failed)

	got, err := repo.FindByCode("SKU-2")
	require.NoError(t, err)
	assert.Equal(t, "Gadget", got.Name)
	assert.True(t, got.Price.IsZero(), "bad price cell must coerce to 0")
}

func TestImportCSVMalformed(t *testing.T) {
	repo := newTestRepo(t)
	importer := newImporter(t, repo)

	_, err := importer.ImportCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, services.ErrMalformedFile)

	// Header without the required name column.
	_, err = importer.ImportCSV(strings.NewReader("code,price\nSKU-1,9.99\n"))
	require.ErrorIs(t, err, services.ErrMalformedFile)
	assert.Contains(t, err.Error(), `missing required column "name"`)

	// Ragged quoting the csv reader cannot parse.
	_, err = importer.ImportCSV(strings.NewReader("code,name\n\"SKU-1,Widget\n"))
	assert.ErrorIs(t, err, services.ErrMalformedFile)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count, "a malformed file must not write anything")
}

func TestImportCSVHeaderOnly(t *testing.T) {
	importer := newImporter(t, newTestRepo(t))

	report, err := importer.ImportCSV(strings.NewReader("code,name\n"))
	require.NoError(t, err)
	assert.Zero(t, report.Inserted)
	assert.Zero(t, report.Updated)
	assert.Empty(t, report.Failed)
}
