package repository

import (
	"datacatalogapi/config"
	"datacatalogapi/models"

	"gorm.io/gorm"
)

// AuditLogRepository provides append and read access to the Version audit log.
// The log is append-only; there are deliberately no update or delete methods.
type AuditLogRepository interface {
	Create(tx *gorm.DB, entry *models.VersionAuditLog) error
	List(tx *gorm.DB, offset, limit int) ([]models.VersionAuditLog, error)
	ListByVersion(tx *gorm.DB, versionID uint) ([]models.VersionAuditLog, error)
	Count(tx *gorm.DB) (int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository instance.
func NewAuditLogRepository() AuditLogRepository {
	return &auditLogRepository{
		db: config.DB,
	}
}

// NewAuditLogRepositoryWithDB creates an audit log repository bound to the
// given database handle.
func NewAuditLogRepositoryWithDB(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *auditLogRepository) Create(tx *gorm.DB, entry *models.VersionAuditLog) error {
	return r.conn(tx).Create(entry).Error
}

func (r *auditLogRepository) List(tx *gorm.DB, offset, limit int) ([]models.VersionAuditLog, error) {
	var entries []models.VersionAuditLog
	if err := r.conn(tx).Order("id DESC").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditLogRepository) ListByVersion(tx *gorm.DB, versionID uint) ([]models.VersionAuditLog, error) {
	var entries []models.VersionAuditLog
	if err := r.conn(tx).Where("version_id = ?", versionID).Order("id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *auditLogRepository) Count(tx *gorm.DB) (int64, error) {
	var count int64
	if err := r.conn(tx).Model(&models.VersionAuditLog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
