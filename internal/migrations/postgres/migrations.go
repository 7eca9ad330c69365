// Package postgres embeds schema migrations for the task database.
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
