package repository

import (
	"context"
	"database/sql"
	"strings"
)

// NftSort orders NFT listings.
type NftSort string

const (
	NftSortName   NftSort = "name"
	NftSortRecent NftSort = "recent"
)

// NftFilters defines list filters. A CollectionID pointing at the empty
// string selects NFTs without a collection.
type NftFilters struct {
	CollectionID  *string
	OwnerDid      *string
	Name          string
	IncludeHidden bool
	Sort          NftSort
	Offset        int
	Limit         int
}

// NftRepo handles NFTs.
type NftRepo struct {
	db *sql.DB
}

func NewNftRepo(db *sql.DB) *NftRepo { return &NftRepo{db: db} }

const nftColumns = `n.launcher_id, n.collection_id, c.name, n.minter_did, n.owner_did, n.name, n.visible,
 n.sensitive_content, n.edition_number, n.edition_total, n.data_uris, n.metadata, n.created_height, n.created_at`

func (r *NftRepo) Upsert(ctx context.Context, n Nft) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO nfts(
	 launcher_id, collection_id, minter_did, owner_did, name, visible, sensitive_content,
	 edition_number, edition_total, data_uris, metadata, created_height)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(launcher_id) DO UPDATE SET
	 collection_id=excluded.collection_id,
	 minter_did=excluded.minter_did,
	 owner_did=excluded.owner_did,
	 name=excluded.name,
	 visible=excluded.visible,
	 sensitive_content=excluded.sensitive_content,
	 edition_number=excluded.edition_number,
	 edition_total=excluded.edition_total,
	 data_uris=excluded.data_uris,
	 metadata=excluded.metadata,
	 created_height=excluded.created_height;
	`,
		n.LauncherID, n.CollectionID, n.MinterDid, n.OwnerDid, n.Name, n.Visible, n.SensitiveContent,
		n.EditionNumber, n.EditionTotal, strings.Join(n.DataURIs, "\n"), n.Metadata, n.CreatedHeight)
	return err
}

func (r *NftRepo) List(ctx context.Context, f NftFilters) ([]Nft, error) {
	where, args := nftWhere(f)
	query := "SELECT " + nftColumns + " FROM nfts n LEFT JOIN collections c ON c.collection_id = n.collection_id"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	switch f.Sort {
	case NftSortRecent:
		query += " ORDER BY n.created_height IS NULL, n.created_height DESC, n.created_at DESC, n.launcher_id"
	default:
		query += " ORDER BY n.name IS NULL, n.name COLLATE NOCASE ASC, n.launcher_id"
	}
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, max(f.Offset, 0))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Nft
	for rows.Next() {
		n, err := scanNft(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Count returns how many NFTs match f, ignoring its paging fields.
func (r *NftRepo) Count(ctx context.Context, f NftFilters) (int, error) {
	where, args := nftWhere(f)
	query := "SELECT COUNT(*) FROM nfts n"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	var total int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&total)
	return total, err
}

func nftWhere(f NftFilters) ([]string, []interface{}) {
	var where []string
	var args []interface{}
	if !f.IncludeHidden {
		where = append(where, "n.visible = 1")
	}
	if f.CollectionID != nil {
		if *f.CollectionID == "" {
			where = append(where, "n.collection_id IS NULL")
		} else {
			where = append(where, "n.collection_id = ?")
			args = append(args, *f.CollectionID)
		}
	}
	if f.OwnerDid != nil {
		where = append(where, "n.owner_did = ?")
		args = append(args, *f.OwnerDid)
	}
	if name := strings.TrimSpace(f.Name); name != "" {
		where = append(where, "n.name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(name)+"%")
	}
	return where, args
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *NftRepo) Get(ctx context.Context, launcherID string) (*Nft, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+nftColumns+" FROM nfts n LEFT JOIN collections c ON c.collection_id = n.collection_id WHERE n.launcher_id = ?", launcherID)
	n, err := scanNft(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

// Missing returns the ids from ids that are not in the wallet.
func (r *NftRepo) Missing(ctx context.Context, ids []string) ([]string, error) {
	var missing []string
	for _, id := range ids {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM nfts WHERE launcher_id = ?`, id).Scan(&one)
		if err == sql.ErrNoRows {
			missing = append(missing, id)
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	return missing, nil
}

func (r *NftRepo) UpdateVisible(ctx context.Context, launcherID string, visible bool) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE nfts SET visible = ? WHERE launcher_id = ?`, visible, launcherID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// scanNft handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanNft(row scanner) (Nft, error) {
	var n Nft
	var collection, collectionName, minter, owner, name sql.NullString
	var edition, editionTotal, height sql.NullInt64
	var uris string
	if err := row.Scan(&n.LauncherID, &collection, &collectionName, &minter, &owner, &name, &n.Visible,
		&n.SensitiveContent, &edition, &editionTotal, &uris, &n.Metadata, &height, &n.CreatedAt); err != nil {
		return Nft{}, err
	}
	n.CollectionID = nullString(collection)
	n.CollectionName = nullString(collectionName)
	n.MinterDid = nullString(minter)
	n.OwnerDid = nullString(owner)
	n.Name = nullString(name)
	n.EditionNumber = nullInt(edition)
	n.EditionTotal = nullInt(editionTotal)
	n.CreatedHeight = nullInt(height)
	if uris != "" {
		n.DataURIs = strings.Split(uris, "\n")
	}
	return n, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullInt(i sql.NullInt64) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int64)
	return &v
}
