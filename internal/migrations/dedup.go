package migrations

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	lockFoldersSQL = `LOCK TABLE folders, folder_items IN SHARE ROW EXCLUSIVE MODE`

	selectAllFoldersSQL = `SELECT uuid, user_id, created_at FROM folders WHERE system_type = 'all'`

	selectAllFolderItemsSQL = `SELECT fi.uuid, fi.folder, fi.chat_id
		FROM folder_items AS fi
		JOIN folders AS f ON f.uuid = fi.folder
		WHERE f.system_type = 'all'`

	deleteItemSQL   = `DELETE FROM folder_items WHERE uuid = $1`
	moveItemSQL     = `UPDATE folder_items SET folder = $1, updated_at = NOW() WHERE uuid = $2`
	deleteFolderSQL = `DELETE FROM folders WHERE uuid = $1`

	createAllFolderIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS folders_one_all_per_user_idx
		ON folders (user_id) WHERE (system_type = 'all')`
	dropAllFolderIndexSQL = `DROP INDEX IF EXISTS folders_one_all_per_user_idx`
)

// DedupFolder is the slice of an "all" folder row the repair looks at.
type DedupFolder struct {
	UUID      uuid.UUID
	UserID    int32
	CreatedAt time.Time
}

// DedupItem is an item that currently sits in some "all" folder.
type DedupItem struct {
	UUID       uuid.UUID
	FolderUUID uuid.UUID
	ChatID     int32
}

// ItemMove re-homes an item from a duplicate folder into its owner's keeper.
type ItemMove struct {
	ItemUUID uuid.UUID
	From     uuid.UUID
	To       uuid.UUID
}

// DedupPlan is the full set of changes for one repair run.
type DedupPlan struct {
	// Keepers maps each user to the "all" folder that survives.
	Keepers     map[int32]uuid.UUID
	DropItems   []uuid.UUID
	MoveItems   []ItemMove
	DropFolders []uuid.UUID
}

// Empty reports whether the data is already consistent.
func (p DedupPlan) Empty() bool {
	return len(p.DropItems) == 0 && len(p.MoveItems) == 0 && len(p.DropFolders) == 0
}

// PlanDedup decides, per user, which "all" folder survives and what happens to
// the items of the others. The keeper is the earliest created folder, ties
// broken by uuid. Duplicates are processed in the same order; an item whose
// chat already exists in the keeper (or was moved there from an earlier
// duplicate) is dropped, any other item is moved.
func PlanDedup(folders []DedupFolder, items []DedupItem) DedupPlan {
	plan := DedupPlan{Keepers: make(map[int32]uuid.UUID)}

	byUser := make(map[int32][]DedupFolder)
	for _, f := range folders {
		byUser[f.UserID] = append(byUser[f.UserID], f)
	}
	byFolder := make(map[uuid.UUID][]DedupItem)
	for _, it := range items {
		byFolder[it.FolderUUID] = append(byFolder[it.FolderUUID], it)
	}

	users := make([]int32, 0, len(byUser))
	for u := range byUser {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })

	for _, userID := range users {
		ranked := byUser[userID]
		sort.Slice(ranked, func(i, j int) bool {
			if !ranked[i].CreatedAt.Equal(ranked[j].CreatedAt) {
				return ranked[i].CreatedAt.Before(ranked[j].CreatedAt)
			}
			return bytes.Compare(ranked[i].UUID[:], ranked[j].UUID[:]) < 0
		})

		keeper := ranked[0].UUID
		plan.Keepers[userID] = keeper

		chats := make(map[int32]struct{})
		for _, it := range byFolder[keeper] {
			chats[it.ChatID] = struct{}{}
		}

		for _, dup := range ranked[1:] {
			dupItems := byFolder[dup.UUID]
			sort.Slice(dupItems, func(i, j int) bool {
				return bytes.Compare(dupItems[i].UUID[:], dupItems[j].UUID[:]) < 0
			})
			for _, it := range dupItems {
				if _, seen := chats[it.ChatID]; seen {
					plan.DropItems = append(plan.DropItems, it.UUID)
					continue
				}
				chats[it.ChatID] = struct{}{}
				plan.MoveItems = append(plan.MoveItems, ItemMove{ItemUUID: it.UUID, From: dup.UUID, To: keeper})
			}
			plan.DropFolders = append(plan.DropFolders, dup.UUID)
		}
	}
	return plan
}

// Tx is the part of *sql.Tx the repair needs.
type Tx interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ApplyDedup locks both tables, plans the repair from the current rows and
// executes it, then creates the one-"all"-per-user index. Callers own the
// transaction; any error leaves it for them to roll back.
func ApplyDedup(ctx context.Context, tx Tx) (DedupPlan, error) {
	if _, err := tx.ExecContext(ctx, lockFoldersSQL); err != nil {
		return DedupPlan{}, fmt.Errorf("lock folder tables: %w", err)
	}

	folders, err := loadAllFolders(ctx, tx)
	if err != nil {
		return DedupPlan{}, err
	}
	items, err := loadAllFolderItems(ctx, tx)
	if err != nil {
		return DedupPlan{}, err
	}

	plan := PlanDedup(folders, items)

	for _, id := range plan.DropItems {
		if _, err := tx.ExecContext(ctx, deleteItemSQL, id.String()); err != nil {
			return plan, fmt.Errorf("drop duplicate item %s: %w", id, err)
		}
	}
	for _, mv := range plan.MoveItems {
		if _, err := tx.ExecContext(ctx, moveItemSQL, mv.To.String(), mv.ItemUUID.String()); err != nil {
			return plan, fmt.Errorf("move item %s: %w", mv.ItemUUID, err)
		}
	}
	for _, id := range plan.DropFolders {
		if _, err := tx.ExecContext(ctx, deleteFolderSQL, id.String()); err != nil {
			return plan, fmt.Errorf("drop duplicate folder %s: %w", id, err)
		}
	}

	if _, err := tx.ExecContext(ctx, createAllFolderIndexSQL); err != nil {
		return plan, fmt.Errorf("create all-folder index: %w", err)
	}

	slog.InfoContext(ctx, "all folders deduplicated",
		"users", len(plan.Keepers),
		"folders_dropped", len(plan.DropFolders),
		"items_moved", len(plan.MoveItems),
		"items_dropped", len(plan.DropItems),
	)
	return plan, nil
}

func loadAllFolders(ctx context.Context, tx Tx) ([]DedupFolder, error) {
	rows, err := tx.QueryContext(ctx, selectAllFoldersSQL)
	if err != nil {
		return nil, fmt.Errorf("load all folders: %w", err)
	}
	defer rows.Close()

	var out []DedupFolder
	for rows.Next() {
		var f DedupFolder
		if err := rows.Scan(&f.UUID, &f.UserID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan all folder: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate all folders: %w", err)
	}
	return out, nil
}

func loadAllFolderItems(ctx context.Context, tx Tx) ([]DedupItem, error) {
	rows, err := tx.QueryContext(ctx, selectAllFolderItemsSQL)
	if err != nil {
		return nil, fmt.Errorf("load all folder items: %w", err)
	}
	defer rows.Close()

	var out []DedupItem
	for rows.Next() {
		var it DedupItem
		if err := rows.Scan(&it.UUID, &it.FolderUUID, &it.ChatID); err != nil {
			return nil, fmt.Errorf("scan all folder item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate all folder items: %w", err)
	}
	return out, nil
}
