package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"datacatalogapi/config"
	"datacatalogapi/models"
	"datacatalogapi/pkg/logger"
	"datacatalogapi/repository"
	"datacatalogapi/services/importer"
	"datacatalogapi/utils"

	"gorm.io/gorm"
)

// ErrVersionExists is returned when an uploaded extract triple is
// byte-identical to a Version that has already completed processing. The
// caller informs the operator instead of reprocessing.
type ErrVersionExists struct {
	ExistingID uint
}

func (e *ErrVersionExists) Error() string {
	return fmt.Sprintf("these files already exist in version %d", e.ExistingID)
}

// Required header fields per extract. Alternatives separated by "|" cover
// the format generations.
var (
	structureHeaders   = []string{"Database", "Schema|SchemaID", "Table or View"}
	definitionsHeaders = []string{"Data_Element", "Present_In", "Item_Name"}
	groupingHeaders    = []string{"Grouping", "Data Element"}
)

// VersionService owns the Version lifecycle: dedup and creation of uploaded
// extract triples, and the single-transaction import that populates a
// Version's catalog subtree.
type VersionService struct {
	baseRepo    repository.BaseRepository
	versionRepo repository.VersionRepository
	catalogRepo repository.CatalogRepository
	elementRepo repository.ElementRepository
}

// NewVersionService creates a version service on the global database connection.
func NewVersionService() *VersionService {
	return &VersionService{
		baseRepo:    repository.NewBaseRepository(),
		versionRepo: repository.NewVersionRepository(),
		catalogRepo: repository.NewCatalogRepository(),
		elementRepo: repository.NewElementRepository(),
	}
}

// NewVersionServiceWithDB creates a version service bound to the given
// database handle. Tests use it with an in-memory database.
func NewVersionServiceWithDB(db *gorm.DB) *VersionService {
	return &VersionService{
		baseRepo:    repository.NewBaseRepositoryWithDB(db),
		versionRepo: repository.NewVersionRepositoryWithDB(db),
		catalogRepo: repository.NewCatalogRepositoryWithDB(db),
		elementRepo: repository.NewElementRepositoryWithDB(db),
	}
}

// Create stores the three uploaded extract files and persists a new pending
// Version for them.
//
// The MD5 hash over the concatenated file bytes dedups re-uploads: a hash
// match against a Version that has completed processing fails with
// ErrVersionExists carrying the existing id. A match against a still-pending
// Version returns that Version so the caller can re-queue its import instead
// of creating a duplicate row. The unique files_hash column backstops the
// narrow race between the hash check and the insert.
func (s *VersionService) Create(req models.VersionUploadRequest) (*models.Version, error) {
	hash, err := hashUploads(req.Structure, req.Definitions, req.GroupingMapping)
	if err != nil {
		return nil, err
	}

	existing, err := s.versionRepo.GetByFilesHash(nil, hash)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Processed() {
			return nil, &ErrVersionExists{ExistingID: existing.ID}
		}
		logger.Infof("Re-upload of pending version %d, re-using it", existing.ID)
		return existing, nil
	}

	dir := filepath.Join(config.Cfg.ExtractDir, hash)
	structurePath, err := saveUpload(req.Structure, dir, "structure")
	if err != nil {
		return nil, err
	}
	definitionsPath, err := saveUpload(req.Definitions, dir, "definitions")
	if err != nil {
		return nil, err
	}
	groupingPath, err := saveUpload(req.GroupingMapping, dir, "grouping_mapping")
	if err != nil {
		return nil, err
	}

	version := &models.Version{
		CreatedByID:         req.CreatedByID,
		Legacy:              req.Legacy,
		StructureFile:       structurePath,
		DefinitionsFile:     definitionsPath,
		GroupingMappingFile: groupingPath,
		FilesHash:           hash,
	}
	if err := s.versionRepo.Create(nil, version); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent upload of the same triple won the insert.
			winner, lookupErr := s.versionRepo.GetByFilesHash(nil, hash)
			if lookupErr == nil {
				return nil, &ErrVersionExists{ExistingID: winner.ID}
			}
		}
		return nil, err
	}

	logger.Infof("Created version %d (hash %s)", version.ID, hash)
	return version, nil
}

// ImportData decodes and parses the Version's three extracts and runs the
// structure, column and grouping stages inside one transaction. On any
// failure the transaction is rolled back in its entirety, so no partial
// snapshot is ever visible, and the error is returned for the background
// worker to record. On success last_processed_at is stamped.
func (s *VersionService) ImportData(versionID uint) error {
	version, err := s.versionRepo.GetByID(nil, versionID)
	if err != nil {
		return err
	}

	log := logger.WithPrefix("[version=%d]", version.ID)
	start := time.Now()

	structureRecords, err := s.readExtract(version.StructureFile, version.Legacy, structureHeaders)
	if err != nil {
		log.Errorf("import aborted: %v", err)
		return err
	}
	definitionRecords, err := s.readExtract(version.DefinitionsFile, version.Legacy, definitionsHeaders)
	if err != nil {
		log.Errorf("import aborted: %v", err)
		return err
	}
	groupingRecords, err := s.readExtract(version.GroupingMappingFile, version.Legacy, groupingHeaders)
	if err != nil {
		log.Errorf("import aborted: %v", err)
		return err
	}

	if err := s.ImportRecords(version, structureRecords, definitionRecords, groupingRecords); err != nil {
		return err
	}

	log.Infof("version imported in %v", time.Since(start))
	return nil
}

// ImportRecords runs the import pipeline over already-parsed records inside
// one transaction. The warehouse sync path shares it with the extract path.
func (s *VersionService) ImportRecords(version *models.Version, structure, definitions, grouping []importer.Record) error {
	log := logger.WithPrefix("[version=%d]", version.ID)

	pipeline := importer.NewImportPipeline(
		importer.NewStructureStage(s.catalogRepo, structure),
		importer.NewColumnStage(s.catalogRepo, s.elementRepo, definitions, config.Cfg.ImportBatchSize),
		importer.NewGroupingStage(s.elementRepo, grouping),
	)

	tx := s.baseRepo.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := pipeline.Run(tx, version, log); err != nil {
		tx.Rollback()
		log.Errorf("import rolled back: %v", err)
		return err
	}

	processedAt := time.Now()
	if err := s.versionRepo.SetLastProcessedAt(tx, version.ID, processedAt); err != nil {
		tx.Rollback()
		log.Errorf("import rolled back: %v", err)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		log.Errorf("import commit failed: %v", err)
		return err
	}

	version.LastProcessedAt = &processedAt
	return nil
}

// GetByID returns one Version.
func (s *VersionService) GetByID(id uint) (*models.Version, error) {
	return s.versionRepo.GetByID(nil, id)
}

// List returns Versions newest first with the total count.
func (s *VersionService) List(offset, limit int) ([]models.Version, int64, error) {
	versions, err := s.versionRepo.List(nil, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.versionRepo.Count(nil)
	if err != nil {
		return nil, 0, err
	}
	return versions, total, nil
}

// readExtract decodes one extract file from Windows-1252 and parses it into
// header-keyed records.
func (s *VersionService) readExtract(path string, legacy bool, required []string) ([]importer.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open extract %s: %w", path, err)
	}
	defer file.Close()

	fileName := filepath.Base(path)
	text, err := importer.DecodeExtract(file, fileName)
	if err != nil {
		return nil, err
	}

	delimiter := []rune(config.DelimiterForFile(fileName, legacy))[0]
	return importer.ReadRecords(text, delimiter, fileName, required...)
}

// hashUploads computes the dedup hash over the three uploads in upload order.
func hashUploads(headers ...*multipart.FileHeader) (string, error) {
	files := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()

	readers := make([]io.Reader, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
		}
		files = append(files, file)
		readers = append(readers, file)
	}

	return utils.ContentHash(readers...)
}

// saveUpload writes one uploaded extract under dir with a role prefix,
// keeping the original file name for the delimiter heuristics.
func saveUpload(header *multipart.FileHeader, dir, role string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create extract directory %s: %w", dir, err)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer src.Close()

	path := filepath.Join(dir, role+"_"+filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store extract %s: %w", path, err)
	}
	defer dst.Close()

	if _, err := dst.ReadFrom(src); err != nil {
		return "", fmt.Errorf("failed to store extract %s: %w", path, err)
	}
	return path, nil
}
