package warehouse

import (
	"database/sql"
	"fmt"
	"time"

	"datacatalogapi/services/importer"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Source warehouse objects. The warehouse team maintains these exports; their
// columns match the extract file headers.
const (
	structureQuery   = "SELECT * FROM tbl_Export_Standard_DB_Structure"
	definitionsQuery = "SELECT * FROM vw_Export_Standard_Definitions"
	groupingQuery    = "SELECT * FROM vw_Export_Standard_GroupingMapping"
	refreshQuery     = "SELECT Refresh_DateTime FROM tbl_Export_Standard_RefreshDateTime LIMIT 1"
)

// Client reads catalog exports from the source warehouse.
type Client interface {
	RefreshTime() (time.Time, error)
	FetchStructure() ([]importer.Record, error)
	FetchDefinitions() ([]importer.Record, error)
	FetchGroupingMapping() ([]importer.Record, error)
}

type client struct {
	db *gorm.DB
}

// NewClient connects to the source warehouse at the given DSN.
func NewClient(dsn string) (Client, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to source warehouse: %w", err)
	}
	return &client{db: db}, nil
}

// NewClientWithDB wraps an existing connection. Tests use it against an
// in-memory server.
func NewClientWithDB(db *gorm.DB) Client {
	return &client{db: db}
}

// RefreshTime returns the warehouse's last refresh timestamp. A newer value
// than the latest Version means a new snapshot is available.
func (c *client) RefreshTime() (time.Time, error) {
	var refreshedAt time.Time
	if err := c.db.Raw(refreshQuery).Row().Scan(&refreshedAt); err != nil {
		return time.Time{}, fmt.Errorf("failed to read warehouse refresh time: %w", err)
	}
	return refreshedAt, nil
}

func (c *client) FetchStructure() ([]importer.Record, error) {
	return c.fetch(structureQuery)
}

func (c *client) FetchDefinitions() ([]importer.Record, error) {
	return c.fetch(definitionsQuery)
}

func (c *client) FetchGroupingMapping() ([]importer.Record, error) {
	return c.fetch(groupingQuery)
}

// fetch runs one export query and maps every row by column name, so the
// warehouse rows feed the same import stages as the extract files.
func (c *client) fetch(query string) ([]importer.Record, error) {
	rows, err := c.db.Raw(query).Rows()
	if err != nil {
		return nil, fmt.Errorf("warehouse query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var records []importer.Record
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scanTargets := make([]interface{}, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}

		record := make(importer.Record, len(columns))
		for i, column := range columns {
			record[column] = values[i].String
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
