package postgres

import "embed"

// MigrationsFS embeds the goose migration files so the server binary can
// bring a database up to the current schema without a migrations directory
// on disk.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
