package migrations

import (
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/pdm/app/models"
	"github.com/shashiranjanraj/pdm/pkg/database"
	"github.com/shashiranjanraj/pdm/pkg/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenDriver("sqlite", filepath.Join(t.TempDir(), "pdm_test.db"))
	require.NoError(t, err)
	return db
}

func TestFreshStoreMigration(t *testing.T) {
	db := openTestDB(t)
	runner := migration.New(db)

	require.NoError(t, runner.Run())

	migrator := db.Migrator()
	assert.True(t, migrator.HasTable("products"))
	assert.True(t, migrator.HasColumn(&models.Product{}, "image_path"))

	// The store is usable straight away.
	p := models.Product{Code: "SKU-1", Name: "Widget", ImagePath: "products/1.jpg"}
	require.NoError(t, db.Create(&p).Error)

	// A second run finds nothing pending and changes nothing.
	require.NoError(t, runner.Run())

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// A store created before image uploads existed gains the image_path column
// without losing any rows.
func TestLegacyStoreGainsImagePath(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.AutoMigrate(&productV1{}))
	legacy := productV1{Code: "SKU-OLD", Name: "Pre-image product"}
	require.NoError(t, db.Create(&legacy).Error)
	require.False(t, db.Migrator().HasColumn(&models.Product{}, "image_path"))

	up := &AddImagePathToProducts{}
	require.NoError(t, up.Up(db))
	assert.True(t, db.Migrator().HasColumn(&models.Product{}, "image_path"))

	// Applying again is a no-op, not an error.
	require.NoError(t, up.Up(db))

	var got models.Product
	require.NoError(t, db.Where("code = ?", "SKU-OLD").First(&got).Error)
	assert.Equal(t, "Pre-image product", got.Name)
	assert.Empty(t, got.ImagePath)
}

func TestRollbackLastBatch(t *testing.T) {
	db := openTestDB(t)
	runner := migration.New(db)

	require.NoError(t, runner.Run())
	require.True(t, db.Migrator().HasTable("products"))

	require.NoError(t, runner.Rollback())
	assert.False(t, db.Migrator().HasTable("products"))

	// Rolled-back migrations are pending again.
	require.NoError(t, runner.Run())
	assert.True(t, db.Migrator().HasTable("products"))
}
