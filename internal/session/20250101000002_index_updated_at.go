package session

import (
	"context"
	"fmt"
	"log"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(up_20250101000002, down_20250101000002)
}

// up_20250101000002 indexes updated_at for idle pruning
func up_20250101000002(ctx context.Context, db *bun.DB) error {
	log.Print("[up] indexing console_session_entries.updated_at")
	_, err := db.NewCreateIndex().
		Model((*entry)(nil)).
		Index("console_session_entries_updated_at_idx").
		Column("updated_at").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create updated_at index: %w", err)
	}
	return nil
}

func down_20250101000002(ctx context.Context, db *bun.DB) error {
	log.Print("[down] dropping console_session_entries_updated_at_idx")
	_, err := db.NewDropIndex().
		Model((*entry)(nil)).
		Index("console_session_entries_updated_at_idx").
		IfExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to drop updated_at index: %w", err)
	}
	return nil
}
