package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upDeduplicateAllFolders, downDeduplicateAllFolders)
}

// upDeduplicateAllFolders merges every user's surplus "all" folders into the
// oldest one and then installs the index that keeps it that way. It runs in
// the transaction goose opens for the migration.
func upDeduplicateAllFolders(ctx context.Context, tx *sql.Tx) error {
	_, err := ApplyDedup(ctx, tx)
	return err
}

// downDeduplicateAllFolders only drops the index. Merged folders stay merged.
func downDeduplicateAllFolders(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, dropAllFolderIndexSQL)
	return err
}
