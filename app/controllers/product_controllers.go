package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/pdm/app/models"
	"github.com/shashiranjanraj/pdm/app/repositories"
	"github.com/shashiranjanraj/pdm/app/services"
	"github.com/shashiranjanraj/pdm/config"
	"github.com/shashiranjanraj/pdm/pkg/bind"
	"github.com/shashiranjanraj/pdm/pkg/logger"
	"github.com/shashiranjanraj/pdm/pkg/response"
	"github.com/shashiranjanraj/pdm/pkg/storage"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductController exposes the product store, the batch import engine and
// the export service over HTTP. All external lookups key on the product
// code; the surrogate id never appears in a URL.
type ProductController struct {
	repo     *repositories.ProductRepository
	importer *services.ImportService
	exporter *services.ExportService
	disk     storage.Disk
}

func NewProductController(db *gorm.DB, disk storage.Disk) *ProductController {
	repo := repositories.NewProductRepository(db)
	return &ProductController{
		repo: repo,
		importer: services.NewImportService(repo, services.ImportOptions{
			StrictNumbers: config.ImportStrictNumbers(),
		}),
		exporter: services.NewExportService(repo),
		disk:     disk,
	}
}

type productInput struct {
	Code        string          `json:"code" validate:"required,max=100"`
	Name        string          `json:"name" validate:"required,max=255"`
	Category    string          `json:"category" validate:"nullable,max=100"`
	Spec        string          `json:"spec"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Description string          `json:"description"`
	ImagePath   string          `json:"image_path"`
}

func (in *productInput) toModel() models.Product {
	return models.Product{
		Code:        strings.TrimSpace(in.Code),
		Name:        strings.TrimSpace(in.Name),
		Category:    strings.TrimSpace(in.Category),
		Spec:        in.Spec,
		Price:       in.Price,
		Cost:        in.Cost,
		Description: in.Description,
		ImagePath:   strings.TrimSpace(in.ImagePath),
	}
}

// amountErrors rejects negative money fields; everything else about them is
// free-form (0 is the documented default).
func (in *productInput) amountErrors() map[string]string {
	errs := map[string]string{}
	if in.Price.IsNegative() {
		errs["price"] = "The price must be greater than or equal to 0."
	}
	if in.Cost.IsNegative() {
		errs["cost"] = "The cost must be greater than or equal to 0."
	}
	return errs
}

// List handles GET /api/products?q=&category=.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	products, err := c.repo.All(repositories.Filters{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		logger.WithCtx(r.Context()).Error("list products", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not list products")
		return
	}
	response.Success(w, products)
}

// Show handles GET /api/products/{code}.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	p, err := c.repo.FindByCode(code)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("show product", "code", code, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	response.Success(w, p)
}

// Create handles POST /api/products.
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	if amountErrs := in.amountErrors(); len(amountErrs) > 0 {
		response.ValidationError(w, amountErrs)
		return
	}

	p := in.toModel()
	if err := c.repo.Create(&p); err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "code", p.Code, "id", p.ID)
	response.Created(w, p)
}

// Update handles PUT /api/products/{code}. The code in the body may differ
// from the one in the URL: that renames the product, subject to the
// uniqueness constraint.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	existing, err := c.repo.FindByCode(code)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("update product", "code", code, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}

	var in productInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}
	if amountErrs := in.amountErrors(); len(amountErrs) > 0 {
		response.ValidationError(w, amountErrs)
		return
	}

	if err := c.repo.Update(existing.ID, in.toModel()); err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	updated, err := c.repo.FindByID(existing.ID)
	if err != nil {
		logger.WithCtx(r.Context()).Error("reload product", "id", existing.ID, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not reload product")
		return
	}
	response.Success(w, updated)
}

// Delete handles DELETE /api/products/{code}. Deleting an unknown code is a
// no-op, matching the idempotent repository contract.
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	existing, err := c.repo.FindByCode(code)
	if errors.Is(err, repositories.ErrNotFound) {
		response.Success(w, map[string]bool{"deleted": false})
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("delete product", "code", code, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}

	if err := c.repo.Delete(existing.ID); err != nil {
		logger.WithCtx(r.Context()).Error("delete product", "code", code, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not delete product")
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "code", code, "id", existing.ID)
	response.Success(w, map[string]bool{"deleted": true})
}

// Import handles POST /api/products/import with a multipart "file" part.
func (c *ProductController) Import(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing upload file")
		return
	}
	defer file.Close()

	report, err := c.importer.ImportCSV(file)
	if errors.Is(err, services.ErrMalformedFile) {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("import batch", "file", header.Filename, "error", err)
		response.Error(w, http.StatusInternalServerError, "import failed")
		return
	}

	logger.WithCtx(r.Context()).Info("import batch finished",
		"file", header.Filename,
		"inserted", report.Inserted,
		"updated", report.Updated,
		"failed", len(report.Failed),
	)
	response.Success(w, report)
}

// Export handles GET /api/products/export and streams the CSV download.
func (c *ProductController) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="pdm_products.csv"`)

	if err := c.exporter.ExportCSV(w); err != nil {
		// Headers are gone by now; all we can do is log.
		logger.WithCtx(r.Context()).Error("export products", "error", err)
	}
}

// Overview handles GET /api/overview with the home-page summary numbers.
func (c *ProductController) Overview(w http.ResponseWriter, r *http.Request) {
	products, err := c.repo.All(repositories.Filters{})
	if err != nil {
		logger.WithCtx(r.Context()).Error("overview", "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load overview")
		return
	}

	totalCost := decimal.Zero
	for _, p := range products {
		totalCost = totalCost.Add(p.Cost)
	}

	overview := map[string]interface{}{
		"count":      len(products),
		"total_cost": totalCost,
	}
	if len(products) > 0 {
		overview["latest"] = products[0] // All() is newest-first
	}
	response.Success(w, overview)
}

// allowed image extensions, matching the upload form.
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// UploadImage handles POST /api/products/{code}/image with a multipart
// "image" part. The file lands on the storage disk and the stored relative
// path replaces the product's image_path.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	p, err := c.repo.FindByCode(code)
	if errors.Is(err, repositories.ErrNotFound) {
		response.NotFound(w)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("upload image", "code", code, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		response.Error(w, http.StatusBadRequest, fmt.Sprintf("unsupported image type %q", ext))
		return
	}

	path := fmt.Sprintf("products/%d%s", p.ID, ext)
	if err := c.disk.PutStream(path, file); err != nil {
		logger.WithCtx(r.Context()).Error("store image", "code", code, "error", err)
		response.Error(w, http.StatusInternalServerError, "could not store image")
		return
	}

	p.ImagePath = path
	if err := c.repo.Update(p.ID, p); err != nil {
		c.writeStoreError(w, r, err)
		return
	}

	response.Success(w, map[string]string{
		"image_path": path,
		"url":        c.disk.URL(path),
	})
}

// writeStoreError maps repository errors onto HTTP statuses.
func (c *ProductController) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrDuplicateCode):
		response.Conflict(w, err.Error())
	case errors.Is(err, repositories.ErrValidation):
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		response.NotFound(w)
	default:
		logger.WithCtx(r.Context()).Error("store operation failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "storage error")
	}
}
