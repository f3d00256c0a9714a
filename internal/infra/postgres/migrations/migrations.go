package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every registered schema change, applied in file-name order.
var Migrations = migrate.NewMigrations()
