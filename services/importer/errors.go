package importer

import (
	"fmt"
	"strings"
)

// DecodeError reports extract bytes that are not valid in the Windows-1252
// code page.
type DecodeError struct {
	File string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("extract %s contains bytes that are not valid Windows-1252", e.File)
}

// MissingHeaderError reports required header fields absent from an extract.
type MissingHeaderError struct {
	File   string
	Fields []string
}

func (e *MissingHeaderError) Error() string {
	return fmt.Sprintf("extract %s is missing required header field(s): %s",
		e.File, strings.Join(e.Fields, ", "))
}

// AddressError reports a Present_In value that does not match the expected
// 'Database.Schema.Table' format.
type AddressError struct {
	Value string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("present-in address not in the expected format 'Database.Schema.Table': %s", e.Value)
}

// UnknownDatabaseError reports a schema row referencing a database name not
// created for the Version being imported.
type UnknownDatabaseError struct {
	Name string
}

func (e *UnknownDatabaseError) Error() string {
	return fmt.Sprintf("schema row references unknown database %q", e.Name)
}

// UnknownSchemaError reports a table row referencing a schema not created for
// the Version being imported.
type UnknownSchemaError struct {
	Database string
	Name     string
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("table row references unknown schema %q in database %q", e.Name, e.Database)
}

// UnknownTableError reports a definitions row addressing a table not present
// in the Version's structure import.
type UnknownTableError struct {
	Address Address
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("present-in address %q does not match any imported table", e.Address)
}
