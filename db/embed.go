// Package db holds the SQL migrations embedded into the binary.
package db

import "embed"

// Migrations contains all SQL migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
