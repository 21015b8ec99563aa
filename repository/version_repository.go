package repository

import (
	"time"

	"datacatalogapi/config"
	"datacatalogapi/models"

	"gorm.io/gorm"
)

// VersionRepository provides data access operations for catalog Versions.
type VersionRepository interface {
	Create(tx *gorm.DB, version *models.Version) error
	GetByID(tx *gorm.DB, id uint) (*models.Version, error)
	GetByFilesHash(tx *gorm.DB, hash string) (*models.Version, error)
	GetPublished(tx *gorm.DB) (*models.Version, error)
	GetLatest(tx *gorm.DB) (*models.Version, error)
	CountPublished(tx *gorm.DB) (int64, error)
	UnpublishAll(tx *gorm.DB) error
	SetPublished(tx *gorm.DB, id uint, published bool) error
	SetLastProcessedAt(tx *gorm.DB, id uint, processedAt time.Time) error
	List(tx *gorm.DB, offset, limit int) ([]models.Version, error)
	Count(tx *gorm.DB) (int64, error)
}

type versionRepository struct {
	db *gorm.DB
}

// NewVersionRepository creates a new version repository instance.
func NewVersionRepository() VersionRepository {
	return &versionRepository{
		db: config.DB,
	}
}

// NewVersionRepositoryWithDB creates a version repository bound to the given
// database handle.
func NewVersionRepositoryWithDB(db *gorm.DB) VersionRepository {
	return &versionRepository{db: db}
}

func (r *versionRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *versionRepository) Create(tx *gorm.DB, version *models.Version) error {
	return r.conn(tx).Create(version).Error
}

func (r *versionRepository) GetByID(tx *gorm.DB, id uint) (*models.Version, error) {
	var version models.Version
	if err := r.conn(tx).Where("id = ?", id).First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) GetByFilesHash(tx *gorm.DB, hash string) (*models.Version, error) {
	var version models.Version
	if err := r.conn(tx).Where("files_hash = ?", hash).First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) GetPublished(tx *gorm.DB) (*models.Version, error) {
	var version models.Version
	if err := r.conn(tx).Where("is_published = ?", true).First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) GetLatest(tx *gorm.DB) (*models.Version, error) {
	var version models.Version
	if err := r.conn(tx).Order("id DESC").First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *versionRepository) CountPublished(tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.conn(tx).Model(&models.Version{}).Where("is_published = ?", true).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *versionRepository) UnpublishAll(tx *gorm.DB) error {
	return r.conn(tx).Model(&models.Version{}).
		Where("is_published = ?", true).
		Update("is_published", false).Error
}

func (r *versionRepository) SetPublished(tx *gorm.DB, id uint, published bool) error {
	return r.conn(tx).Model(&models.Version{}).
		Where("id = ?", id).
		Update("is_published", published).Error
}

func (r *versionRepository) SetLastProcessedAt(tx *gorm.DB, id uint, processedAt time.Time) error {
	return r.conn(tx).Model(&models.Version{}).
		Where("id = ?", id).
		Update("last_processed_at", processedAt).Error
}

func (r *versionRepository) List(tx *gorm.DB, offset, limit int) ([]models.Version, error) {
	var versions []models.Version
	if err := r.conn(tx).Order("id DESC").Offset(offset).Limit(limit).Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *versionRepository) Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.conn(tx).Model(&models.Version{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
