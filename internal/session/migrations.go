package session

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema history of the SQL session store. Each
// migration registers itself from a file named <timestamp>_<name>.go.
var Migrations = migrate.NewMigrations()
