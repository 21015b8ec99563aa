package services

import (
	"testing"

	"datacatalogapi/pkg/testdb"

	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.New(t)
}
