package bootstrap

import (
	"errors"
	"fmt"

	"datacatalogapi/config"
	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/repository"

	"gorm.io/gorm"
)

// LoadData migrates the schema and reports the catalog's publication state at
// startup.
func LoadData() error {
	logger.Infof("Starting bootstrap...")

	if err := Migrate(config.DB); err != nil {
		return err
	}

	versionRepo := repository.NewVersionRepository()

	total, err := versionRepo.Count(nil)
	if err != nil {
		return fmt.Errorf("failed to count versions: %v", err)
	}

	published, err := versionRepo.GetPublished(nil)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load published version: %v", err)
	}

	if published != nil {
		logger.Infof("Bootstrap complete: %d versions, version %d published", total, published.ID)
	} else {
		logger.Warnf("Bootstrap complete: %d versions, no published version yet", total)
	}
	return nil
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Version{},
		&models.VersionAuditLog{},
		&models.Database{},
		&models.Schema{},
		&models.Table{},
		&models.DataElement{},
		&models.Grouping{},
		&models.Column{},
	)
	if err != nil {
		return fmt.Errorf("schema migration failed: %v", err)
	}
	return nil
}
