package store

import (
	"database/sql"
	"strings"
)

// DriverName returns the database/sql driver the store opens.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 and "purego" for
// modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// dsn appends the driver-specific connection options to path.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + dsnOptions
}

func openDB(path string) (*sql.DB, error) {
	return sql.Open(driverName, dsn(path))
}
