// Package sqlite embeds schema migrations for the local database.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
