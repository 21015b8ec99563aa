package models

import "time"

// User is the minimal operator record the pipeline needs: audit attribution
// and the optional Version pin that lets an operator preview an unpublished
// snapshot. Authentication itself lives outside this service.
type User struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	Email            string `gorm:"column:email;size:255;uniqueIndex" json:"email"`
	CurrentVersionID *uint  `gorm:"column:current_version_id" json:"current_version_id"`
}

// TableName specifies the static table name for GORM.
func (User) TableName() string {
	return "users"
}

// Pinned reports whether the user is pinned to a specific Version instead of
// following the published snapshot.
func (u *User) Pinned() bool {
	return u.CurrentVersionID != nil
}
