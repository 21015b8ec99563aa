package warehouse

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	sqle "github.com/dolthub/go-mysql-server"
	"github.com/dolthub/go-mysql-server/memory"
	"github.com/dolthub/go-mysql-server/server"
	"github.com/dolthub/go-mysql-server/sql"
	"github.com/dolthub/go-mysql-server/sql/types"
	"github.com/dolthub/vitess/go/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datacatalogapi/config"
	"datacatalogapi/pkg/testdb"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func textColumn(source, name string) *sql.Column {
	return &sql.Column{Name: name, Type: types.Text, Source: source, Nullable: true}
}

func memorySessionBuilder(provider *memory.DbProvider) server.SessionBuilder {
	return func(ctx context.Context, conn *mysql.Conn, addr string) (sql.Session, error) {
		client := sql.Client{Address: addr, User: "root", Capabilities: conn.Capabilities}
		baseSession := sql.NewBaseSessionWithClientServer(addr, client, conn.ConnectionID)
		return memory.NewSession(baseSession, provider), nil
	}
}

// startWarehouse runs a temporary in-memory MySQL server seeded with the
// three export objects and the refresh table, and returns its DSN.
func startWarehouse(t *testing.T, refreshedAt time.Time) string {
	t.Helper()

	warehouseDB := memory.NewDatabase("warehouse")
	provider := memory.NewDBProvider(warehouseDB)
	engine := sqle.NewDefault(provider)

	structureSchema := sql.NewPrimaryKeySchema(sql.Schema{
		textColumn("tbl_Export_Standard_DB_Structure", "Database"),
		textColumn("tbl_Export_Standard_DB_Structure", "Name"),
		textColumn("tbl_Export_Standard_DB_Structure", "Schema"),
		textColumn("tbl_Export_Standard_DB_Structure", "Table or View"),
		textColumn("tbl_Export_Standard_DB_Structure", "Table/View"),
		textColumn("tbl_Export_Standard_DB_Structure", "Description"),
		textColumn("tbl_Export_Standard_DB_Structure", "Link"),
		textColumn("tbl_Export_Standard_DB_Structure", "Date_Range"),
	})
	warehouseDB.AddTable("tbl_Export_Standard_DB_Structure",
		memory.NewTable(warehouseDB, "tbl_Export_Standard_DB_Structure", structureSchema, warehouseDB.GetForeignKeyCollection()))

	definitionsSchema := sql.NewPrimaryKeySchema(sql.Schema{
		textColumn("vw_Export_Standard_Definitions", "Data_Element"),
		textColumn("vw_Export_Standard_Definitions", "Present_In"),
		textColumn("vw_Export_Standard_Definitions", "Item_Name"),
		textColumn("vw_Export_Standard_Definitions", "Description"),
		textColumn("vw_Export_Standard_Definitions", "Data_Type"),
		textColumn("vw_Export_Standard_Definitions", "NCDR_Derivation_Methodology"),
		textColumn("vw_Export_Standard_Definitions", "Is_Derived_Item"),
		textColumn("vw_Export_Standard_Definitions", "Link"),
	})
	warehouseDB.AddTable("vw_Export_Standard_Definitions",
		memory.NewTable(warehouseDB, "vw_Export_Standard_Definitions", definitionsSchema, warehouseDB.GetForeignKeyCollection()))

	groupingSchema := sql.NewPrimaryKeySchema(sql.Schema{
		textColumn("vw_Export_Standard_GroupingMapping", "Grouping"),
		textColumn("vw_Export_Standard_GroupingMapping", "Grouping Description"),
		textColumn("vw_Export_Standard_GroupingMapping", "Data Element"),
		textColumn("vw_Export_Standard_GroupingMapping", "Data Element Description"),
	})
	warehouseDB.AddTable("vw_Export_Standard_GroupingMapping",
		memory.NewTable(warehouseDB, "vw_Export_Standard_GroupingMapping", groupingSchema, warehouseDB.GetForeignKeyCollection()))

	refreshSchema := sql.NewPrimaryKeySchema(sql.Schema{
		{Name: "Refresh_DateTime", Type: types.Datetime, Source: "tbl_Export_Standard_RefreshDateTime", Nullable: true},
	})
	warehouseDB.AddTable("tbl_Export_Standard_RefreshDateTime",
		memory.NewTable(warehouseDB, "tbl_Export_Standard_RefreshDateTime", refreshSchema, warehouseDB.GetForeignKeyCollection()))

	session := memory.NewSession(sql.NewBaseSession(), provider)
	ctx := sql.NewContext(context.Background(), sql.WithSession(session))
	ctx.SetCurrentDatabase("warehouse")

	inserts := []string{
		"INSERT INTO tbl_Export_Standard_DB_Structure (`Database`, `Name`, `Schema`, `Table or View`, `Table/View`, `Description`, `Link`, `Date_Range`) VALUES " +
			"('NHSE_IAPT', 'IAPT', '', 'N/A', '', 'Talking therapies', 'N/A', '')",
		"INSERT INTO tbl_Export_Standard_DB_Structure (`Database`, `Name`, `Schema`, `Table or View`, `Table/View`, `Description`, `Link`, `Date_Range`) VALUES " +
			"('NHSE_IAPT', '', 'dbo', 'N/A', '', '', '', '')",
		"INSERT INTO tbl_Export_Standard_DB_Structure (`Database`, `Name`, `Schema`, `Table or View`, `Table/View`, `Description`, `Link`, `Date_Range`) VALUES " +
			"('NHSE_IAPT', '', 'dbo', 'Table', 'Appointment_v15', 'Appointments', 'N/A', '2016 onwards')",
		"INSERT INTO vw_Export_Standard_Definitions (`Data_Element`, `Present_In`, `Item_Name`, `Description`, `Data_Type`, `NCDR_Derivation_Methodology`, `Is_Derived_Item`, `Link`) VALUES " +
			"('Attendance Status', 'NHSE_IAPT.dbo.Appointment_v15', 'AttendanceStatus', 'Attendance of the appointment', 'int', 'Direct', 'No', 'N/A')",
		"INSERT INTO vw_Export_Standard_GroupingMapping (`Grouping`, `Grouping Description`, `Data Element`, `Data Element Description`) VALUES " +
			"('Mental Health', 'MH datasets', 'Attendance Status', 'Appointment attendance')",
		fmt.Sprintf("INSERT INTO tbl_Export_Standard_RefreshDateTime (`Refresh_DateTime`) VALUES ('%s')",
			refreshedAt.Format("2006-01-02 15:04:05")),
	}
	for _, insert := range inserts {
		_, iter, err := engine.Query(ctx, insert)
		require.NoError(t, err, "seed insert failed: %s", insert)
		_, err = sql.RowIterToRows(ctx, iter)
		require.NoError(t, err, "seed insert failed: %s", insert)
	}

	port := freePort(t)
	serverConfig := server.Config{
		Protocol: "tcp",
		Address:  fmt.Sprintf("localhost:%d", port),
	}
	s, err := server.NewServer(serverConfig, engine, memorySessionBuilder(provider), nil)
	require.NoError(t, err)

	go func() {
		if err := s.Start(); err != nil {
			t.Logf("warehouse server stopped: %v", err)
		}
	}()
	t.Cleanup(func() { s.Close() })

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("localhost:%d", port), 100*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Sprintf("root:@tcp(localhost:%d)/warehouse?charset=utf8mb4&parseTime=True&loc=Local", port)
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("warehouse server did not become ready")
	return ""
}

func TestClientReadsExports(t *testing.T) {
	refreshedAt := time.Date(2026, 8, 1, 6, 0, 0, 0, time.Local)
	dsn := startWarehouse(t, refreshedAt)

	client, err := NewClient(dsn)
	require.NoError(t, err)

	got, err := client.RefreshTime()
	require.NoError(t, err)
	assert.Equal(t, refreshedAt.Year(), got.Year())
	assert.Equal(t, refreshedAt.Month(), got.Month())
	assert.Equal(t, refreshedAt.Day(), got.Day())

	structure, err := client.FetchStructure()
	require.NoError(t, err)
	require.Len(t, structure, 3)
	assert.Equal(t, "NHSE_IAPT", structure[0].Get("Database"))
	assert.True(t, structure[0].Has("Table or View"))

	definitions, err := client.FetchDefinitions()
	require.NoError(t, err)
	require.Len(t, definitions, 1)
	assert.Equal(t, "NHSE_IAPT.dbo.Appointment_v15", definitions[0].Get("Present_In"))

	grouping, err := client.FetchGroupingMapping()
	require.NoError(t, err)
	require.Len(t, grouping, 1)
	assert.Equal(t, "Mental Health", grouping[0].Get("Grouping"))
}

func TestSyncServiceImportsNewSnapshot(t *testing.T) {
	config.Cfg.ImportBatchSize = 100

	// A refresh in the future is always newer than the latest version.
	dsn := startWarehouse(t, time.Now().Add(time.Hour))

	client, err := NewClient(dsn)
	require.NoError(t, err)

	db := testdb.New(t)
	srv := NewSyncServiceWithDB(client, db)

	version, err := srv.CheckAndImport()
	require.NoError(t, err)
	require.NotNil(t, version)
	assert.True(t, version.Processed())
	assert.False(t, version.IsPublished)

	var databases, columns int64
	require.NoError(t, db.Table("catalog_databases").Count(&databases).Error)
	require.NoError(t, db.Table("catalog_columns").Count(&columns).Error)
	assert.Equal(t, int64(1), databases)
	assert.Equal(t, int64(1), columns)

	// The same refresh timestamp does not produce a second version.
	again, err := srv.CheckAndImport()
	require.NoError(t, err)
	assert.Nil(t, again)
}
