package services

import (
	"errors"

	"datacatalogapi/models"
	"datacatalogapi/repository"

	"gorm.io/gorm"
)

// ErrNoPublishedVersion is returned when the catalog is browsed before any
// Version has been published.
var ErrNoPublishedVersion = errors.New("no published version available")

// CatalogService serves read-only browsing of one catalog snapshot. Every
// read is scoped to the browsing Version: the caller's pinned Version when
// set, otherwise the published one.
type CatalogService struct {
	versionRepo repository.VersionRepository
	catalogRepo repository.CatalogRepository
	elementRepo repository.ElementRepository
	userRepo    repository.UserRepository
}

// NewCatalogService creates a catalog service on the global database connection.
func NewCatalogService() *CatalogService {
	return &CatalogService{
		versionRepo: repository.NewVersionRepository(),
		catalogRepo: repository.NewCatalogRepository(),
		elementRepo: repository.NewElementRepository(),
		userRepo:    repository.NewUserRepository(),
	}
}

// NewCatalogServiceWithDB creates a catalog service bound to the given
// database handle. Tests use it with an in-memory database.
func NewCatalogServiceWithDB(db *gorm.DB) *CatalogService {
	return &CatalogService{
		versionRepo: repository.NewVersionRepositoryWithDB(db),
		catalogRepo: repository.NewCatalogRepositoryWithDB(db),
		elementRepo: repository.NewElementRepositoryWithDB(db),
		userRepo:    repository.NewUserRepositoryWithDB(db),
	}
}

// BrowsingVersion resolves which Version a request reads from. A user pinned
// to a Version browses that snapshot; everyone else browses the published one.
func (s *CatalogService) BrowsingVersion(userID *uint) (*models.Version, error) {
	if userID != nil {
		user, err := s.userRepo.GetByID(nil, *userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if user != nil && user.Pinned() {
			return s.versionRepo.GetByID(nil, *user.CurrentVersionID)
		}
	}

	version, err := s.versionRepo.GetPublished(nil)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPublishedVersion
		}
		return nil, err
	}
	return version, nil
}

// ListDatabases returns the browsing Version's databases ordered by name.
func (s *CatalogService) ListDatabases(userID *uint) ([]models.Database, *models.Version, error) {
	version, err := s.BrowsingVersion(userID)
	if err != nil {
		return nil, nil, err
	}
	databases, err := s.catalogRepo.ListDatabasesByVersion(nil, version.ID)
	if err != nil {
		return nil, nil, err
	}
	return databases, version, nil
}

// GetDatabase returns one database of the browsing Version with its schemas.
func (s *CatalogService) GetDatabase(userID *uint, name string) (*models.Database, []models.Schema, error) {
	version, err := s.BrowsingVersion(userID)
	if err != nil {
		return nil, nil, err
	}
	database, err := s.catalogRepo.GetDatabaseByName(nil, version.ID, name)
	if err != nil {
		return nil, nil, err
	}
	schemas, err := s.catalogRepo.ListSchemasByDatabase(nil, database.ID)
	if err != nil {
		return nil, nil, err
	}
	return database, schemas, nil
}

// ListTables returns the tables of one schema.
func (s *CatalogService) ListTables(schemaID uint) ([]models.Table, error) {
	return s.catalogRepo.ListTablesBySchema(nil, schemaID)
}

// ListColumns returns the columns of one table ordered by name.
func (s *CatalogService) ListColumns(tableID uint) ([]models.Column, error) {
	return s.elementRepo.ListColumnsByTable(nil, tableID)
}

// ListDataElements returns the data elements populated in the browsing
// Version.
func (s *CatalogService) ListDataElements(userID *uint) ([]models.DataElement, error) {
	version, err := s.BrowsingVersion(userID)
	if err != nil {
		return nil, err
	}
	return s.elementRepo.GetDataElementsForVersion(nil, version.ID)
}

// ListGroupings returns every grouping ordered by name. Groupings are shared
// across Versions, so no snapshot scoping applies.
func (s *CatalogService) ListGroupings() ([]models.Grouping, error) {
	return s.elementRepo.ListGroupings(nil)
}

// GetGrouping returns one grouping by slug with its data elements.
func (s *CatalogService) GetGrouping(slug string) (*models.Grouping, []models.DataElement, error) {
	grouping, err := s.elementRepo.GetGroupingBySlug(nil, slug)
	if err != nil {
		return nil, nil, err
	}
	elements, err := s.elementRepo.ListDataElementsByGrouping(nil, grouping.ID)
	if err != nil {
		return nil, nil, err
	}
	return grouping, elements, nil
}

// Stats summarizes one Version's imported subtree.
type Stats struct {
	VersionID uint  `json:"version_id"`
	Databases int   `json:"databases"`
	Tables    int64 `json:"tables"`
	Columns   int64 `json:"columns"`
}

// GetStats returns row counts for the browsing Version.
func (s *CatalogService) GetStats(userID *uint) (*Stats, error) {
	version, err := s.BrowsingVersion(userID)
	if err != nil {
		return nil, err
	}
	databases, err := s.catalogRepo.ListDatabasesByVersion(nil, version.ID)
	if err != nil {
		return nil, err
	}
	tables, err := s.catalogRepo.CountTablesByVersion(nil, version.ID)
	if err != nil {
		return nil, err
	}
	columns, err := s.elementRepo.CountColumnsByVersion(nil, version.ID)
	if err != nil {
		return nil, err
	}
	return &Stats{
		VersionID: version.ID,
		Databases: len(databases),
		Tables:    tables,
		Columns:   columns,
	}, nil
}
