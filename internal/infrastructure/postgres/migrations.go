package postgres

import "embed"

// Migrations holds the schema, applied at startup with pkg/postgres.RunMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory within Migrations holding the .sql files.
const MigrationsDir = "migrations"
