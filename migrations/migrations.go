// Package migrations holds the PostgreSQL schema of the product catalog.
package migrations

import "embed"

// FS contains the golang-migrate up/down scripts.
//
//go:embed *.sql
var FS embed.FS
