package session

import (
	"context"
	"fmt"
	"log"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250101000001, down_20250101000001)
}

// up_20250101000001 creates the session entries table
func up_20250101000001(ctx context.Context, db *bun.DB) error {
	log.Print("[up] creating console_session_entries table")
	_, err := db.NewCreateTable().
		Model((*entry)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create session table: %w", err)
	}
	return nil
}

func down_20250101000001(ctx context.Context, db *bun.DB) error {
	log.Print("[down] dropping console_session_entries table")
	_, err := db.NewDropTable().
		Model((*entry)(nil)).
		IfExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop session table: %w", err)
	}
	return nil
}
