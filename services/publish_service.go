package services

import (
	"errors"

	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/repository"

	"gorm.io/gorm"
)

// ErrLastPublishedVersion is returned when unpublishing would leave the
// catalog with no published Version at all.
var ErrLastPublishedVersion = errors.New("can't unpublish the last published version")

// ErrVersionNotProcessed is returned when publishing a Version whose import
// has not completed.
var ErrVersionNotProcessed = errors.New("version has not finished processing")

// PublishService switches which Version the catalog serves. Every transition
// runs in one transaction and appends a VersionAuditLog row, so the publish
// history can always be reconstructed.
type PublishService struct {
	baseRepo    repository.BaseRepository
	versionRepo repository.VersionRepository
	auditRepo   repository.AuditLogRepository
	userRepo    repository.UserRepository
}

// NewPublishService creates a publish service on the global database connection.
func NewPublishService() *PublishService {
	return &PublishService{
		baseRepo:    repository.NewBaseRepository(),
		versionRepo: repository.NewVersionRepository(),
		auditRepo:   repository.NewAuditLogRepository(),
		userRepo:    repository.NewUserRepository(),
	}
}

// NewPublishServiceWithDB creates a publish service bound to the given
// database handle. Tests use it with an in-memory database.
func NewPublishServiceWithDB(db *gorm.DB) *PublishService {
	return &PublishService{
		baseRepo:    repository.NewBaseRepositoryWithDB(db),
		versionRepo: repository.NewVersionRepositoryWithDB(db),
		auditRepo:   repository.NewAuditLogRepositoryWithDB(db),
		userRepo:    repository.NewUserRepositoryWithDB(db),
	}
}

// Publish makes the given Version the one published Version, replacing any
// currently published one. Publishing clears every user's pinned Version so
// all readers move to the new snapshot together.
func (s *PublishService) Publish(versionID uint, userID *uint) (*models.Version, error) {
	tx := s.baseRepo.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	version, err := s.versionRepo.GetByID(tx, versionID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if !version.Processed() {
		tx.Rollback()
		return nil, ErrVersionNotProcessed
	}

	previous, err := s.versionRepo.GetPublished(tx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		tx.Rollback()
		return nil, err
	}

	var previousID *uint
	if previous != nil {
		previousID = &previous.ID
	}

	if err := s.versionRepo.UnpublishAll(tx); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := s.versionRepo.SetPublished(tx, version.ID, true); err != nil {
		tx.Rollback()
		return nil, err
	}

	entry := &models.VersionAuditLog{
		VersionID:           version.ID,
		PreviousPublishedID: previousID,
		NowPublishedID:      &version.ID,
		UserID:              userID,
		Action:              models.AuditActionPublish,
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := s.userRepo.ClearAllPinnedVersions(tx); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	version.IsPublished = true
	logger.Infof("Published version %d", version.ID)
	return version, nil
}

// Unpublish withdraws a published Version. The last remaining published
// Version cannot be withdrawn, so the catalog is never left empty.
func (s *PublishService) Unpublish(versionID uint, userID *uint) (*models.Version, error) {
	tx := s.baseRepo.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	version, err := s.versionRepo.GetByID(tx, versionID)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if version.IsPublished {
		count, err := s.versionRepo.CountPublished(tx)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if count < 2 {
			tx.Rollback()
			return nil, ErrLastPublishedVersion
		}
	}

	if err := s.versionRepo.SetPublished(tx, version.ID, false); err != nil {
		tx.Rollback()
		return nil, err
	}

	entry := &models.VersionAuditLog{
		VersionID:           version.ID,
		PreviousPublishedID: &version.ID,
		NowPublishedID:      nil,
		UserID:              userID,
		Action:              models.AuditActionUnpublish,
	}
	if err := s.auditRepo.Create(tx, entry); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	version.IsPublished = false
	logger.Infof("Unpublished version %d", version.ID)
	return version, nil
}

// AuditLog returns the audit trail newest first with the total count.
func (s *PublishService) AuditLog(offset, limit int) ([]models.VersionAuditLog, int64, error) {
	entries, err := s.auditRepo.List(nil, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.auditRepo.Count(nil)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// PinVersion pins a user to one processed Version so they browse that
// snapshot instead of the published one.
func (s *PublishService) PinVersion(userID, versionID uint) error {
	version, err := s.versionRepo.GetByID(nil, versionID)
	if err != nil {
		return err
	}
	if !version.Processed() {
		return ErrVersionNotProcessed
	}
	if _, err := s.userRepo.GetByID(nil, userID); err != nil {
		return err
	}
	return s.userRepo.SetPinnedVersion(nil, userID, &version.ID)
}

// UnpinVersion clears a user's pinned Version so they follow the published
// snapshot again.
func (s *PublishService) UnpinVersion(userID uint) error {
	if _, err := s.userRepo.GetByID(nil, userID); err != nil {
		return err
	}
	return s.userRepo.SetPinnedVersion(nil, userID, nil)
}
