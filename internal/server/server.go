package server

import (
	"net/http"

	"github.com/shashiranjanraj/pdm/app/routes"
	"github.com/shashiranjanraj/pdm/config"
	"github.com/shashiranjanraj/pdm/pkg/database"
	"github.com/shashiranjanraj/pdm/pkg/logger"
	"github.com/shashiranjanraj/pdm/pkg/metrics"
	"github.com/shashiranjanraj/pdm/pkg/middleware"
	"github.com/shashiranjanraj/pdm/pkg/migration"
	"github.com/shashiranjanraj/pdm/pkg/reqid"
	"github.com/shashiranjanraj/pdm/pkg/router"
	"github.com/shashiranjanraj/pdm/pkg/storage"
)

// Start boots the HTTP server: config, database, pending migrations, the
// upload disk, then the router. A migration failure is a startup error.
// Serving against a half-migrated schema corrupts imports.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Open()
	if err != nil {
		return err
	}

	if err := migration.New(db).Run(); err != nil {
		return err
	}

	disk := storage.NewLocal(config.StorageLocalRoot(), config.StorageURL())

	r := router.New()
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	r.Get("/metrics", "metrics", metrics.Handler())
	routes.RegisterAPI(r, db, disk)

	addr := ":" + config.AppPort()
	logger.Info("pdm listening", "addr", addr)
	return http.ListenAndServe(addr, r.Handler())
}

// RouteList builds the full route table without serving, for `pdm route:list`.
func RouteList() ([]router.RouteInfo, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	db, err := database.Open()
	if err != nil {
		return nil, err
	}
	disk := storage.NewLocal(config.StorageLocalRoot(), config.StorageURL())

	r := router.New()
	r.Get("/metrics", "metrics", metrics.Handler())
	routes.RegisterAPI(r, db, disk)
	return r.Routes(), nil
}
