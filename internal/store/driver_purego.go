//go:build !cgo_sqlite

package store

import (
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
)

const (
	driverName = "sqlite"
	driverType = "purego"
	dsnOptions = "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
)
