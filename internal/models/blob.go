package models

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Blob is binary content (pictures, post images). It encodes to base64 in JSON.
type Blob []byte

// Value stores nil as NULL
func (b Blob) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return []byte(b), nil
}

// Scan copies the driver bytes, drivers may reuse their buffers
func (b *Blob) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*b = nil
	case []byte:
		*b = append(Blob(nil), v...)
	case string:
		*b = Blob(v)
	default:
		return fmt.Errorf("unsupported blob type %T", value)
	}
	return nil
}

// GormDBDataType picks a large binary column type for each database driver.
func (Blob) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "LONGBLOB"
	case "postgres":
		return "BYTEA"
	case "sqlserver", "mssql":
		return "VARBINARY(MAX)"
	case "sqlite":
		return "BLOB"
	}
	return "BLOB"
}
