package models

// DataElement is a named, de-duplicated concept shared across Columns and
// Versions. It is not itself versioned; a Version "contains" an element when
// at least one of the Version's Columns links to it. Import runs reuse
// existing rows by name and only create the missing ones.
type DataElement struct {
	ID          uint   `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"column:name;size:255;uniqueIndex" json:"name"`
	Slug        string `gorm:"column:slug;size:255;uniqueIndex" json:"slug"`
	Description string `gorm:"column:description;type:text" json:"description"`

	Groupings []Grouping `gorm:"many2many:data_element_groupings" json:"groupings,omitempty"`
}

// TableName specifies the static table name for GORM.
func (DataElement) TableName() string {
	return "data_elements"
}

// Column is one occurrence of a DataElement inside a Table. The same element
// may legitimately appear as distinct Column rows across tables or with
// different link metadata, hence the wide composite uniqueness.
type Column struct {
	ID            uint  `gorm:"primaryKey;column:id" json:"id"`
	TableID       uint  `gorm:"column:table_id;uniqueIndex:idx_columns_identity" json:"table_id"`
	DataElementID *uint `gorm:"column:data_element_id;uniqueIndex:idx_columns_identity" json:"data_element_id"`

	Name          string `gorm:"column:name;size:255;uniqueIndex:idx_columns_identity" json:"name"`
	Description   string `gorm:"column:description;type:text" json:"description"`
	DataType      string `gorm:"column:data_type;size:255" json:"data_type"`
	Derivation    string `gorm:"column:derivation;type:text" json:"derivation"`
	IsDerivedItem *bool  `gorm:"column:is_derived_item;uniqueIndex:idx_columns_identity" json:"is_derived_item"`
	Link          string `gorm:"column:link;size:255;uniqueIndex:idx_columns_identity" json:"link"`
}

// TableName specifies the static table name for GORM.
func (Column) TableName() string {
	return "catalog_columns"
}

// Grouping is a named, slugged thematic category attached to zero or more
// DataElements. Its lifetime is independent of any Version.
type Grouping struct {
	ID          uint   `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"column:name;size:255;uniqueIndex" json:"name"`
	Slug        string `gorm:"column:slug;size:255;uniqueIndex" json:"slug"`
	Description string `gorm:"column:description;size:255" json:"description"`
}

// TableName specifies the static table name for GORM.
func (Grouping) TableName() string {
	return "groupings"
}
