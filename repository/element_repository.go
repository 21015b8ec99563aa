package repository

import (
	"datacatalogapi/config"
	"datacatalogapi/models"

	"gorm.io/gorm"
)

// ElementRepository provides data access operations for DataElements, Columns
// and Groupings.
type ElementRepository interface {
	GetDataElementsByNames(tx *gorm.DB, names []string) ([]models.DataElement, error)
	BulkCreateDataElements(tx *gorm.DB, elements []models.DataElement) error
	UpdateDataElementDescription(tx *gorm.DB, id uint, description string) error
	GetDataElementsForVersion(tx *gorm.DB, versionID uint) ([]models.DataElement, error)
	AttachGrouping(tx *gorm.DB, element *models.DataElement, grouping *models.Grouping) error

	BulkCreateColumns(tx *gorm.DB, columns []models.Column) error
	ListColumnsByTable(tx *gorm.DB, tableID uint) ([]models.Column, error)
	CountColumnsByVersion(tx *gorm.DB, versionID uint) (int64, error)

	GetGroupingsByNames(tx *gorm.DB, names []string) ([]models.Grouping, error)
	BulkCreateGroupings(tx *gorm.DB, groupings []models.Grouping) error
	ListGroupings(tx *gorm.DB) ([]models.Grouping, error)
	GetGroupingBySlug(tx *gorm.DB, slug string) (*models.Grouping, error)
	ListDataElementsByGrouping(tx *gorm.DB, groupingID uint) ([]models.DataElement, error)
}

type elementRepository struct {
	db *gorm.DB
}

// NewElementRepository creates a new element repository instance.
func NewElementRepository() ElementRepository {
	return &elementRepository{
		db: config.DB,
	}
}

// NewElementRepositoryWithDB creates an element repository bound to the given
// database handle.
func NewElementRepositoryWithDB(db *gorm.DB) ElementRepository {
	return &elementRepository{db: db}
}

func (r *elementRepository) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *elementRepository) GetDataElementsByNames(tx *gorm.DB, names []string) ([]models.DataElement, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var elements []models.DataElement
	if err := r.conn(tx).Where("name IN ?", names).Find(&elements).Error; err != nil {
		return nil, err
	}
	return elements, nil
}

func (r *elementRepository) BulkCreateDataElements(tx *gorm.DB, elements []models.DataElement) error {
	if len(elements) == 0 {
		return nil
	}
	return r.conn(tx).Create(&elements).Error
}

func (r *elementRepository) UpdateDataElementDescription(tx *gorm.DB, id uint, description string) error {
	return r.conn(tx).Model(&models.DataElement{}).
		Where("id = ?", id).
		Update("description", description).Error
}

// GetDataElementsForVersion returns the DataElements linked to at least one
// Column whose Table belongs to the given Version.
func (r *elementRepository) GetDataElementsForVersion(tx *gorm.DB, versionID uint) ([]models.DataElement, error) {
	var elements []models.DataElement
	err := r.conn(tx).
		Distinct("data_elements.*").
		Joins("JOIN catalog_columns ON catalog_columns.data_element_id = data_elements.id").
		Joins("JOIN catalog_tables ON catalog_tables.id = catalog_columns.table_id").
		Joins("JOIN catalog_schemas ON catalog_schemas.id = catalog_tables.schema_id").
		Joins("JOIN catalog_databases ON catalog_databases.id = catalog_schemas.database_id").
		Where("catalog_databases.version_id = ?", versionID).
		Find(&elements).Error
	if err != nil {
		return nil, err
	}
	return elements, nil
}

// AttachGrouping adds the grouping to the element's grouping set. The append
// is idempotent; attaching an already-attached grouping is a no-op.
func (r *elementRepository) AttachGrouping(tx *gorm.DB, element *models.DataElement, grouping *models.Grouping) error {
	return r.conn(tx).Model(element).Association("Groupings").Append(grouping)
}

func (r *elementRepository) BulkCreateColumns(tx *gorm.DB, columns []models.Column) error {
	if len(columns) == 0 {
		return nil
	}
	return r.conn(tx).Create(&columns).Error
}

func (r *elementRepository) ListColumnsByTable(tx *gorm.DB, tableID uint) ([]models.Column, error) {
	var columns []models.Column
	if err := r.conn(tx).Where("table_id = ?", tableID).Order("name").Find(&columns).Error; err != nil {
		return nil, err
	}
	return columns, nil
}

func (r *elementRepository) CountColumnsByVersion(tx *gorm.DB, versionID uint) (int64, error) {
	var count int64
	err := r.conn(tx).Table("catalog_columns").
		Joins("JOIN catalog_tables ON catalog_tables.id = catalog_columns.table_id").
		Joins("JOIN catalog_schemas ON catalog_schemas.id = catalog_tables.schema_id").
		Joins("JOIN catalog_databases ON catalog_databases.id = catalog_schemas.database_id").
		Where("catalog_databases.version_id = ?", versionID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *elementRepository) GetGroupingsByNames(tx *gorm.DB, names []string) ([]models.Grouping, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var groupings []models.Grouping
	if err := r.conn(tx).Where("name IN ?", names).Find(&groupings).Error; err != nil {
		return nil, err
	}
	return groupings, nil
}

func (r *elementRepository) BulkCreateGroupings(tx *gorm.DB, groupings []models.Grouping) error {
	if len(groupings) == 0 {
		return nil
	}
	return r.conn(tx).Create(&groupings).Error
}

func (r *elementRepository) ListGroupings(tx *gorm.DB) ([]models.Grouping, error) {
	var groupings []models.Grouping
	if err := r.conn(tx).Order("name").Find(&groupings).Error; err != nil {
		return nil, err
	}
	return groupings, nil
}

func (r *elementRepository) GetGroupingBySlug(tx *gorm.DB, slug string) (*models.Grouping, error) {
	var grouping models.Grouping
	if err := r.conn(tx).Where("slug = ?", slug).First(&grouping).Error; err != nil {
		return nil, err
	}
	return &grouping, nil
}

func (r *elementRepository) ListDataElementsByGrouping(tx *gorm.DB, groupingID uint) ([]models.DataElement, error) {
	var elements []models.DataElement
	err := r.conn(tx).
		Joins("JOIN data_element_groupings ON data_element_groupings.data_element_id = data_elements.id").
		Where("data_element_groupings.grouping_id = ?", groupingID).
		Order("data_elements.name").
		Find(&elements).Error
	if err != nil {
		return nil, err
	}
	return elements, nil
}
