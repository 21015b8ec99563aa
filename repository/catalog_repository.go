package repository

import (
	"datacatalogapi/config"
	"datacatalogapi/models"

	"gorm.io/gorm"
)

// TableRef is one Table of a Version together with the names of its parent
// Schema and Database. The column importer builds its nested lookup from
// these rows with a single query instead of one query per imported row.
type TableRef struct {
	TableID      uint   `gorm:"column:table_id"`
	TableName    string `gorm:"column:table_name"`
	SchemaName   string `gorm:"column:schema_name"`
	DatabaseName string `gorm:"column:database_name"`
}

// CatalogRepository provides data access operations for the versioned
// Database/Schema/Table hierarchy.
type CatalogRepository interface {
	CreateDatabase(tx *gorm.DB, database *models.Database) error
	CreateSchema(tx *gorm.DB, schema *models.Schema) error
	CreateTable(tx *gorm.DB, table *models.Table) error
	GetTableRefsByVersion(tx *gorm.DB, versionID uint) ([]TableRef, error)
	ListDatabasesByVersion(tx *gorm.DB, versionID uint) ([]models.Database, error)
	GetDatabaseByName(tx *gorm.DB, versionID uint, name string) (*models.Database, error)
	ListSchemasByDatabase(tx *gorm.DB, databaseID uint) ([]models.Schema, error)
	ListTablesBySchema(tx *gorm.DB, schemaID uint) ([]models.Table, error)
	CountTablesByVersion(tx *gorm.DB, versionID uint) (int64, error)
}

type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository instance.
func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{
		db: config.DB,
	}
}

// NewCatalogRepositoryWithDB creates a catalog repository bound to the given
// database handle.
func NewCatalogRepositoryWithDB(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *catalogRepository) CreateDatabase(tx *gorm.DB, database *models.Database) error {
	return r.conn(tx).Create(database).Error
}

func (r *catalogRepository) CreateSchema(tx *gorm.DB, schema *models.Schema) error {
	return r.conn(tx).Create(schema).Error
}

func (r *catalogRepository) CreateTable(tx *gorm.DB, table *models.Table) error {
	return r.conn(tx).Create(table).Error
}

func (r *catalogRepository) GetTableRefsByVersion(tx *gorm.DB, versionID uint) ([]TableRef, error) {
	var refs []TableRef
	err := r.conn(tx).Table("catalog_tables").
		Select("catalog_tables.id AS table_id, catalog_tables.name AS table_name, "+
			"catalog_schemas.name AS schema_name, catalog_databases.name AS database_name").
		Joins("JOIN catalog_schemas ON catalog_schemas.id = catalog_tables.schema_id").
		Joins("JOIN catalog_databases ON catalog_databases.id = catalog_schemas.database_id").
		Where("catalog_databases.version_id = ?", versionID).
		Scan(&refs).Error
	if err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *catalogRepository) ListDatabasesByVersion(tx *gorm.DB, versionID uint) ([]models.Database, error) {
	var databases []models.Database
	if err := r.conn(tx).Where("version_id = ?", versionID).Order("name").Find(&databases).Error; err != nil {
		return nil, err
	}
	return databases, nil
}

func (r *catalogRepository) GetDatabaseByName(tx *gorm.DB, versionID uint, name string) (*models.Database, error) {
	var database models.Database
	if err := r.conn(tx).Where("version_id = ? AND name = ?", versionID, name).First(&database).Error; err != nil {
		return nil, err
	}
	return &database, nil
}

func (r *catalogRepository) ListSchemasByDatabase(tx *gorm.DB, databaseID uint) ([]models.Schema, error) {
	var schemas []models.Schema
	if err := r.conn(tx).Where("database_id = ?", databaseID).Order("name").Find(&schemas).Error; err != nil {
		return nil, err
	}
	return schemas, nil
}

func (r *catalogRepository) ListTablesBySchema(tx *gorm.DB, schemaID uint) ([]models.Table, error) {
	var tables []models.Table
	if err := r.conn(tx).Where("schema_id = ?", schemaID).Order("name").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *catalogRepository) CountTablesByVersion(tx *gorm.DB, versionID uint) (int64, error) {
	var count int64
	err := r.conn(tx).Table("catalog_tables").
		Joins("JOIN catalog_schemas ON catalog_schemas.id = catalog_tables.schema_id").
		Joins("JOIN catalog_databases ON catalog_databases.id = catalog_schemas.database_id").
		Where("catalog_databases.version_id = ?", versionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
