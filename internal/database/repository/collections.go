package repository

import (
	"context"
	"database/sql"
)

// CollectionRepo handles collections.
type CollectionRepo struct {
	db *sql.DB
}

func NewCollectionRepo(db *sql.DB) *CollectionRepo {
	return &CollectionRepo{db: db}
}

func (r *CollectionRepo) Upsert(ctx context.Context, c Collection) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO collections(collection_id, did_id, metadata_collection_id, name, icon, visible)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(collection_id) DO UPDATE SET
	 did_id=excluded.did_id,
	 metadata_collection_id=excluded.metadata_collection_id,
	 name=excluded.name,
	 icon=excluded.icon;
	`, c.CollectionID, c.DidID, c.MetadataCollectionID, c.Name, c.Icon, c.Visible)
	return err
}

// List returns a page of collections ordered by name.
func (r *CollectionRepo) List(ctx context.Context, offset, limit int, includeHidden bool) ([]Collection, error) {
	query := `SELECT collection_id, did_id, metadata_collection_id, name, icon, visible FROM collections`
	var args []interface{}
	if !includeHidden {
		query += ` WHERE visible = 1`
	}
	query += ` ORDER BY name IS NULL, name COLLATE NOCASE, collection_id`
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, max(offset, 0))
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.CollectionID, &c.DidID, &c.MetadataCollectionID, &c.Name, &c.Icon, &c.Visible); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CollectionRepo) Count(ctx context.Context, includeHidden bool) (int, error) {
	query := `SELECT COUNT(*) FROM collections`
	if !includeHidden {
		query += ` WHERE visible = 1`
	}
	var total int
	err := r.db.QueryRowContext(ctx, query).Scan(&total)
	return total, err
}

func (r *CollectionRepo) UpdateVisible(ctx context.Context, collectionID string, visible bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE collections SET visible = ? WHERE collection_id = ?`, visible, collectionID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
