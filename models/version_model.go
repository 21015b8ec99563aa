package models

import "time"

// Audit log actions recorded for Version publish state transitions.
const (
	AuditActionPublish   = "publish"
	AuditActionUnpublish = "unpublish"
)

// Version identifies one imported catalog snapshot. The three extract files
// that produced it are stored alongside an MD5 hash of their concatenated
// bytes, which is unique so byte-identical re-uploads cannot create a second
// row. At most one Version is published at any time.
type Version struct {
	ID          uint      `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	CreatedByID *uint     `gorm:"column:created_by_id" json:"created_by_id"`

	StructureFile       string `gorm:"column:structure_file;size:500" json:"structure_file"`
	DefinitionsFile     string `gorm:"column:definitions_file;size:500" json:"definitions_file"`
	GroupingMappingFile string `gorm:"column:grouping_mapping_file;size:500" json:"grouping_mapping_file"`

	// Legacy marks a Version uploaded in the old extract format, which uses
	// comma or tab separators instead of the current delimiter.
	Legacy bool `gorm:"column:legacy" json:"legacy"`

	FilesHash       string     `gorm:"column:files_hash;size:32;uniqueIndex" json:"files_hash"`
	LastProcessedAt *time.Time `gorm:"column:last_processed_at" json:"last_processed_at"`
	IsPublished     bool       `gorm:"column:is_published" json:"is_published"`
}

// TableName specifies the static table name for GORM.
func (Version) TableName() string {
	return "versions"
}

// Processed reports whether the import pipeline has completed for this Version.
// A Version that failed import keeps a null last_processed_at and stays pending.
func (v *Version) Processed() bool {
	return v.LastProcessedAt != nil
}

// VersionAuditLog is an append-only record of one publish or unpublish
// transition. Rows are never mutated or deleted.
type VersionAuditLog struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	VersionID           uint   `gorm:"column:version_id" json:"version_id"`
	PreviousPublishedID *uint  `gorm:"column:previous_published_id" json:"previous_published_id"`
	NowPublishedID      *uint  `gorm:"column:now_published_id" json:"now_published_id"`
	UserID              *uint  `gorm:"column:user_id" json:"user_id"`
	Action              string `gorm:"column:action;size:16" json:"action"`
}

// TableName specifies the static table name for GORM.
func (VersionAuditLog) TableName() string {
	return "version_audit_logs"
}
