package repository

import (
	"datacatalogapi/config"
	"datacatalogapi/models"

	"gorm.io/gorm"
)

// UserRepository provides the user operations the pipeline needs: Version
// pinning and audit attribution lookups.
type UserRepository interface {
	GetByID(tx *gorm.DB, id uint) (*models.User, error)
	SetPinnedVersion(tx *gorm.DB, userID uint, versionID *uint) error
	ClearAllPinnedVersions(tx *gorm.DB) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance.
func NewUserRepository() UserRepository {
	return &userRepository{
		db: config.DB,
	}
}

// NewUserRepositoryWithDB creates a user repository bound to the given
// database handle.
func NewUserRepositoryWithDB(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *userRepository) GetByID(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := r.conn(tx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) SetPinnedVersion(tx *gorm.DB, userID uint, versionID *uint) error {
	return r.conn(tx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("current_version_id", versionID).Error
}

// ClearAllPinnedVersions resets every pinned user so they transparently see
// the newly published snapshot.
func (r *userRepository) ClearAllPinnedVersions(tx *gorm.DB) error {
	return r.conn(tx).Model(&models.User{}).
		Where("current_version_id IS NOT NULL").
		Update("current_version_id", nil).Error
}
