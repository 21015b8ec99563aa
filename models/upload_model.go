package models

import "mime/multipart"

// VersionUploadRequest carries the three extract files of one catalog
// snapshot. Legacy toggles the comma/tab delimiter handling for old-format
// extracts.
type VersionUploadRequest struct {
	Structure       *multipart.FileHeader `form:"structure" binding:"required"`
	Definitions     *multipart.FileHeader `form:"definitions" binding:"required"`
	GroupingMapping *multipart.FileHeader `form:"grouping_mapping" binding:"required"`
	Legacy          bool                  `form:"legacy"`
	CreatedByID     *uint                 `form:"created_by_id"`
}

// PublishRequest identifies the acting operator for a publish or unpublish
// transition.
type PublishRequest struct {
	UserID *uint `json:"user_id"`
}

// PinVersionRequest pins a user to a specific Version for preview.
type PinVersionRequest struct {
	UserID uint `json:"user_id" binding:"required" validate:"required"`
}
