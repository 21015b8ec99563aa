package models

// Database is the top level of the catalog hierarchy. Every row is scoped to
// exactly one Version; deleting the Version cascades through its whole
// Database/Schema/Table subtree.
type Database struct {
	ID        uint `gorm:"primaryKey;column:id" json:"id"`
	VersionID uint `gorm:"column:version_id;uniqueIndex:idx_databases_name_version" json:"version_id"`

	Name        string `gorm:"column:name;size:255;uniqueIndex:idx_databases_name_version" json:"name"`
	DisplayName string `gorm:"column:display_name;size:255" json:"display_name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Link        string `gorm:"column:link;size:500" json:"link"`
	Owner       string `gorm:"column:owner;size:255" json:"owner"`
}

// TableName specifies the static table name for GORM.
func (Database) TableName() string {
	return "catalog_databases"
}

// Schema groups Tables inside a Database. Version scope is inherited through
// the parent Database.
type Schema struct {
	ID         uint `gorm:"primaryKey;column:id" json:"id"`
	DatabaseID uint `gorm:"column:database_id;uniqueIndex:idx_schemas_name_database" json:"database_id"`

	Name string `gorm:"column:name;size:255;uniqueIndex:idx_schemas_name_database" json:"name"`
}

// TableName specifies the static table name for GORM.
func (Schema) TableName() string {
	return "catalog_schemas"
}

// Table is a table or view inside a Schema. IsTable is false for views.
type Table struct {
	ID       uint `gorm:"primaryKey;column:id" json:"id"`
	SchemaID uint `gorm:"column:schema_id;uniqueIndex:idx_tables_name_schema" json:"schema_id"`

	Name        string `gorm:"column:name;size:255;uniqueIndex:idx_tables_name_schema" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Link        string `gorm:"column:link;size:500" json:"link"`
	IsTable     bool   `gorm:"column:is_table" json:"is_table"`
	DateRange   string `gorm:"column:date_range;size:255" json:"date_range"`
}

// TableName specifies the static table name for GORM.
func (Table) TableName() string {
	return "catalog_tables"
}
