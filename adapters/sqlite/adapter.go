// ABOUTME: SQLite adapter pair: a *sql.DB yields one resource per user table.
// ABOUTME: Tables can also be listed one by one through the Table handle.

package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/2389/panel/adapters/core"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// Database names a SQLite connection. A bare *sql.DB is accepted too and is
// named "main".
type Database struct {
	Name string
	DB   *sql.DB
}

// Table is a handle for listing one table explicitly
type Table struct {
	Database string // defaults to "main"
	DB       *sql.DB
	Name     string
}

// Adapter returns the pair to register with a core.Registry
func Adapter() core.Adapter {
	return core.Adapter{
		Name:     "sqlite",
		Database: DatabaseKind{},
		Resource: ResourceKind{},
	}
}

// DatabaseKind recognizes SQLite connections
type DatabaseKind struct{}

func (DatabaseKind) IsAdapterFor(database any) bool {
	switch db := database.(type) {
	case *sql.DB:
		return isSQLite(db)
	case Database:
		return isSQLite(db.DB)
	case *Database:
		return db != nil && isSQLite(db.DB)
	}
	return false
}

func (DatabaseKind) Resources(database any) ([]core.Resource, error) {
	name, db := "main", (*sql.DB)(nil)
	switch v := database.(type) {
	case *sql.DB:
		db = v
	case Database:
		name, db = v.Name, v.DB
	case *Database:
		name, db = v.Name, v.DB
	default:
		return nil, fmt.Errorf("sqlite: unsupported database handle %T", database)
	}
	if name == "" {
		name = "main"
	}

	tables, err := listTables(db)
	if err != nil {
		return nil, err
	}

	resources := make([]core.Resource, 0, len(tables))
	for _, t := range tables {
		res, err := newTableResource(db, name, t)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, nil
}

// ResourceKind recognizes Table handles
type ResourceKind struct{}

func (ResourceKind) IsAdapterFor(resource any) bool {
	switch t := resource.(type) {
	case Table:
		return t.Name != "" && isSQLite(t.DB)
	case *Table:
		return t != nil && t.Name != "" && isSQLite(t.DB)
	}
	return false
}

func (ResourceKind) NewResource(resource any) (core.Resource, error) {
	var t Table
	switch v := resource.(type) {
	case Table:
		t = v
	case *Table:
		t = *v
	default:
		return nil, fmt.Errorf("sqlite: unsupported resource handle %T", resource)
	}
	if t.Database == "" {
		t.Database = "main"
	}
	return newTableResource(t.DB, t.Database, t.Name)
}

func isSQLite(db *sql.DB) bool {
	if db == nil {
		return false
	}
	_, ok := db.Driver().(*sqlite3.SQLiteDriver)
	return ok
}

// listTables returns user tables in creation order, skipping internal ones
func listTables(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'
		ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// propertyType maps a declared SQLite column type to an admin property type
func propertyType(declared string) string {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "BOOL"):
		return "boolean"
	case strings.Contains(t, "DATE"), strings.Contains(t, "TIME"):
		return "datetime"
	case strings.Contains(t, "INT"), strings.Contains(t, "REAL"),
		strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"), strings.Contains(t, "NUM"),
		strings.Contains(t, "DEC"):
		return "number"
	case strings.Contains(t, "CLOB"):
		return "text"
	default:
		return "string"
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
