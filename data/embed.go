// Package data embeds the database initialization scripts used by the test containers.
package data

import (
	_ "embed"
)

// InitdbMariaDBTables creates the schema, statements are ';' terminated
//
//go:embed initdb/mariadb/002-ddl-tables.sql
var InitdbMariaDBTables string

// InitdbMariaDBPrivileges grants the app user, ${DB_APP_DATABASE} and ${DB_APP_USER} are expanded
//
//go:embed initdb/mariadb/003-ddl-privileges.sql
var InitdbMariaDBPrivileges string
