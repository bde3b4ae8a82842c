package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/money"
)

// AppendEntries inserts ledger entries for a group in the given order.
// Entry IDs already in the group's ledger are rejected as invalid input.
func (s *SQLiteStore) AppendEntries(ctx context.Context, groupID string, entries []models.LedgerEntry) error {
	for i := range entries {
		if err := entries[i].Validate(); err != nil {
			return models.InvalidInput("entry %d: %v", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return err
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return models.InvalidInput("entry %s appears twice", e.ID)
		}
		seen[e.ID] = true

		var exists int
		err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM ledger_entries WHERE group_id = ? AND id = ?",
			groupID, e.ID,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to look up entry: %w", err)
		}
		if exists > 0 {
			return models.InvalidInput("entry %s is already in group %s", e.ID, groupID)
		}

		var note any
		if e.Note != "" {
			note = e.Note
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO ledger_entries (id, group_id, from_member_id, to_member_id, amount, note, created_at, settled)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, groupID, e.FromMemberID, e.ToMemberID, int64(e.Amount), note, e.CreatedAt.UnixNano(), e.Settled,
		)
		if err != nil {
			return fmt.Errorf("failed to insert ledger entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListEntries returns a group's ledger in insertion order.
// Rows that violate entry invariants fail with models.ErrCorruptState.
func (s *SQLiteStore) ListEntries(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	if err := groupExists(ctx, s.db, groupID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, from_member_id, to_member_id, amount, note, created_at, settled
		 FROM ledger_entries WHERE group_id = ? ORDER BY seq`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var (
			e         models.LedgerEntry
			amount    int64
			note      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.FromMemberID, &e.ToMemberID, &amount, &note, &createdAt, &e.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		e.Amount = money.Money(amount)
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		if note.Valid {
			e.Note = note.String
		}
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %s: %v", models.ErrCorruptState, e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}

// SettleAll flags every unsettled entry of the group settled.
func (s *SQLiteStore) SettleAll(ctx context.Context, groupID string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE ledger_entries SET settled = 1 WHERE group_id = ? AND settled = 0",
		groupID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to settle ledger: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count settled entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(n), nil
}

// SettleEntries flags the named entries of the group settled.
func (s *SQLiteStore) SettleEntries(ctx context.Context, groupID string, entryIDs []string) (int, error) {
	ids := unique(entryIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := groupExists(ctx, tx, groupID); err != nil {
		return 0, err
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, groupID)
	for _, id := range ids {
		args = append(args, id)
	}
	in := "(?" + repeatPlaceholder(len(ids)-1) + ")"

	var found int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ledger_entries WHERE group_id = ? AND id IN "+in,
		args...,
	).Scan(&found)
	if err != nil {
		return 0, fmt.Errorf("failed to look up entries: %w", err)
	}
	if found != len(ids) {
		return 0, models.InvalidInput("%d of %d entry ids are not in group %s", len(ids)-found, len(ids), groupID)
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE ledger_entries SET settled = 1 WHERE group_id = ? AND settled = 0 AND id IN "+in,
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to settle entries: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count settled entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(n), nil
}

func unique(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
