package repository

import (
	"context"
	"database/sql"
)

// DidRepo handles profiles.
type DidRepo struct {
	db *sql.DB
}

func NewDidRepo(db *sql.DB) *DidRepo { return &DidRepo{db: db} }

func (r *DidRepo) Upsert(ctx context.Context, d Did) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO dids(launcher_id, name, visible) VALUES (?, ?, ?)
	ON CONFLICT(launcher_id) DO UPDATE SET name=excluded.name, visible=excluded.visible;
	`, d.LauncherID, d.Name, d.Visible)
	return err
}

func (r *DidRepo) List(ctx context.Context) ([]Did, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT launcher_id, name, visible, created_at FROM dids ORDER BY name IS NULL, name COLLATE NOCASE, launcher_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Did
	for rows.Next() {
		var d Did
		if err := rows.Scan(&d.LauncherID, &d.Name, &d.Visible, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DidRepo) Exists(ctx context.Context, launcherID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM dids WHERE launcher_id = ?`, launcherID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// Ensure inserts a bare profile row unless one already exists.
func (r *DidRepo) Ensure(ctx context.Context, launcherID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO dids(launcher_id, visible) VALUES (?, 1)`, launcherID)
	return err
}
