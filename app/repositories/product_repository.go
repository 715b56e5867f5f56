package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/pdm/app/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a product lookup misses. Absence is an
// expected outcome, so callers match with errors.Is rather than treating it
// as fatal.
var ErrNotFound = errors.New("product not found")

// ErrDuplicateCode is returned when an insert or a code change collides with
// another product's code. The wrapping message always names the code.
var ErrDuplicateCode = errors.New("duplicate product code")

// ErrValidation is returned when a required field is empty.
var ErrValidation = errors.New("validation failed")

// ProductRepository handles database operations for Product.
// It holds the handle explicitly; there is no ambient connection.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Filters narrows All. Zero values mean "no filter".
type Filters struct {
	Query    string // case-insensitive substring match on name or code
	Category string // exact category match
}

// Create inserts a new product and fills in the assigned ID and CreatedAt.
// The uniqueness of Code is enforced by the storage constraint, not by a
// pre-read, so two racing inserts resolve to one winner and one
// ErrDuplicateCode.
func (r *ProductRepository) Create(p *models.Product) error {
	if err := requireFields(p); err != nil {
		return err
	}

	if err := r.db.Create(p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product code %q already exists: %w", p.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("repository: create product %q: %w", p.Code, err)
	}
	return nil
}

// FindByID looks up a product by its surrogate ID.
func (r *ProductRepository) FindByID(id uint) (models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("repository: find product id=%d: %w", id, err)
	}
	return p, nil
}

// FindByCode looks up a product by its business code.
func (r *ProductRepository) FindByCode(code string) (models.Product, error) {
	var p models.Product
	err := r.db.Where("code = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Product{}, ErrNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("repository: find product code=%q: %w", code, err)
	}
	return p, nil
}

// Update replaces every mutable field of the product with the given values.
// ImagePath is the one merge-not-overwrite field: an empty ImagePath in the
// payload keeps the stored path, so callers that don't resupply the image
// never clear an existing asset reference. CreatedAt is never touched.
func (r *ProductRepository) Update(id uint, p models.Product) error {
	if err := requireFields(&p); err != nil {
		return err
	}

	if _, err := r.FindByID(id); err != nil {
		return err
	}

	fields := map[string]interface{}{
		"code":        p.Code,
		"name":        p.Name,
		"category":    p.Category,
		"spec":        p.Spec,
		"price":       p.Price,
		"cost":        p.Cost,
		"description": p.Description,
	}
	if p.ImagePath != "" {
		fields["image_path"] = p.ImagePath
	}

	err := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product code %q already exists: %w", p.Code, ErrDuplicateCode)
		}
		return fmt.Errorf("repository: update product id=%d: %w", id, err)
	}
	return nil
}

// Delete removes the product with the given ID. Deleting an absent ID is a
// no-op, so the operation is idempotent.
func (r *ProductRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Product{}, id).Error; err != nil {
		return fmt.Errorf("repository: delete product id=%d: %w", id, err)
	}
	return nil
}

// All returns every product, newest first. The ordering backs the list UI
// and the export, so it must be deterministic: ties on created_at break on
// id descending.
func (r *ProductRepository) All(filters Filters) ([]models.Product, error) {
	query := r.db.Model(&models.Product{})

	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", like, like)
	}
	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	var products []models.Product
	if err := query.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("repository: list products: %w", err)
	}
	return products, nil
}

// Count returns the total number of products.
func (r *ProductRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("repository: count products: %w", err)
	}
	return n, nil
}

func requireFields(p *models.Product) error {
	if strings.TrimSpace(p.Code) == "" {
		return fmt.Errorf("product code must not be empty: %w", ErrValidation)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product name must not be empty: %w", ErrValidation)
	}
	return nil
}
