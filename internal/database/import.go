package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jask/nftdesk/internal/database/repository"
	"github.com/jask/nftdesk/internal/metadata"
)

// NftImport is one NFT as exported by a wallet or produced by the demo seed.
type NftImport struct {
	LauncherID    string          `json:"launcher_id"`
	MinterDid     string          `json:"minter_did,omitempty"`
	OwnerDid      string          `json:"owner_did,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	DataURIs      []string        `json:"data_uris,omitempty"`
	EditionNumber *int            `json:"edition_number,omitempty"`
	EditionTotal  *int            `json:"edition_total,omitempty"`
	CreatedHeight *int            `json:"created_height,omitempty"`
	Hidden        bool            `json:"hidden,omitempty"`
}

// ImportResult counts what ImportNfts stored.
type ImportResult struct {
	Imported    int
	Collections int
	Errors      []error
}

// DecodeImports reads a JSON array of NftImport values.
func DecodeImports(r io.Reader) ([]NftImport, error) {
	var items []NftImport
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode nft import: %w", err)
	}
	return items, nil
}

// ImportNfts stores items, deriving names and collections from their
// CHIP-0007 metadata. Rows without a launcher id are reported and skipped.
func ImportNfts(ctx context.Context, db *sql.DB, items []NftImport) (ImportResult, error) {
	nfts := repository.NewNftRepo(db)
	cols := repository.NewCollectionRepo(db)
	dids := repository.NewDidRepo(db)

	var res ImportResult
	seen := map[string]bool{}
	for i, it := range items {
		id := strings.ToLower(strings.TrimSpace(it.LauncherID))
		if id == "" {
			res.Errors = append(res.Errors, fmt.Errorf("item %d: launcher_id required", i))
			continue
		}
		creator := it.MinterDid
		if creator == "" {
			creator = it.OwnerDid
		}
		info := metadata.Compute(creator, it.Metadata)

		n := repository.Nft{
			LauncherID:       id,
			MinterDid:        optional(it.MinterDid),
			OwnerDid:         optional(it.OwnerDid),
			Name:             info.Name,
			Visible:          !it.Hidden,
			SensitiveContent: info.SensitiveContent,
			EditionNumber:    it.EditionNumber,
			EditionTotal:     it.EditionTotal,
			DataURIs:         it.DataURIs,
			Metadata:         it.Metadata,
			CreatedHeight:    it.CreatedHeight,
		}
		if c := info.Collection; c != nil {
			if !seen[c.CollectionID] {
				err := cols.Upsert(ctx, repository.Collection{
					CollectionID:         c.CollectionID,
					DidID:                c.DidID,
					MetadataCollectionID: c.MetadataCollectionID,
					Name:                 c.Name,
					Icon:                 c.Icon,
					Visible:              c.Visible,
				})
				if err != nil {
					return res, fmt.Errorf("upsert collection %s: %w", c.CollectionID, err)
				}
				seen[c.CollectionID] = true
				res.Collections++
			}
			colID := c.CollectionID
			n.CollectionID = &colID
		}
		for _, did := range []string{it.MinterDid, it.OwnerDid} {
			if did == "" {
				continue
			}
			if err := dids.Ensure(ctx, did); err != nil {
				return res, fmt.Errorf("ensure did %s: %w", did, err)
			}
		}
		if err := nfts.Upsert(ctx, n); err != nil {
			return res, fmt.Errorf("upsert nft %s: %w", id, err)
		}
		res.Imported++
	}
	return res, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
