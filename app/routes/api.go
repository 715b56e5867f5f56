package routes

import (
	"github.com/shashiranjanraj/pdm/app/controllers"
	"github.com/shashiranjanraj/pdm/pkg/router"
	"github.com/shashiranjanraj/pdm/pkg/storage"
	"gorm.io/gorm"
)

// RegisterAPI mounts the product API. Lookups key on the business code;
// the surrogate id stays internal.
func RegisterAPI(r *router.Router, db *gorm.DB, disk storage.Disk) {
	products := controllers.NewProductController(db, disk)

	api := r.Group("/api")

	api.Get("/overview", "overview", products.Overview)

	api.Get("/products", "products.index", products.List)
	api.Post("/products", "products.store", products.Create)
	api.Get("/products/export", "products.export", products.Export)
	api.Post("/products/import", "products.import", products.Import)
	api.Get("/products/{code}", "products.show", products.Show)
	api.Put("/products/{code}", "products.update", products.Update)
	api.Delete("/products/{code}", "products.destroy", products.Delete)
	api.Post("/products/{code}/image", "products.image", products.UploadImage)
}
