package importer

import "strings"

// presentInSeparator joins multiple addresses inside one Present_In field.
const presentInSeparator = ", "

// Address locates one table occurrence as Database -> Schema -> Table.
type Address struct {
	Database string
	Schema   string
	Table    string
}

func (a Address) String() string {
	return a.Database + "." + a.Schema + "." + a.Table
}

// ParseAddress parses a composite 'Database.Schema.Table' address. The first
// dot ends the database segment and the next dot ends the schema segment;
// the table name keeps any remaining dots, so database and schema names may
// not contain the separator but table names may.
//
// Example: NHSE_SUSPlus_Live.dbo.tbl_Data_SEM_OPA
func ParseAddress(value string) (Address, error) {
	databaseName, schemaTable, found := strings.Cut(value, ".")
	if !found || schemaTable == "" {
		return Address{}, &AddressError{Value: value}
	}

	schemaName, tableName, _ := strings.Cut(schemaTable, ".")

	return Address{
		Database: databaseName,
		Schema:   schemaName,
		Table:    tableName,
	}, nil
}

// SplitPresentIn splits a Present_In field into its composite addresses.
func SplitPresentIn(value string) []string {
	return strings.Split(value, presentInSeparator)
}
