package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jask/nftdesk/internal/database/repository"
)

var demoNamespace = uuid.MustParse("6f0b1c3e-3f59-4c1e-9d7a-1c0e5e2f9a41")

// demoID derives a stable 32 byte hex id so reseeding never duplicates rows.
func demoID(kind, name string) string {
	a := uuid.NewSHA1(demoNamespace, []byte(kind+":"+name))
	b := uuid.NewSHA1(a, []byte(name))
	return strings.ReplaceAll(a.String()+b.String(), "-", "")
}

type demoSeries struct {
	slug       string
	collection string
	prefix     string
	count      int
	minter     string
	sensitive  bool
}

// SeedDefaults fills an empty wallet with demo profiles and NFTs.
// It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	total, err := repository.NewNftRepo(db).Count(ctx, repository.NftFilters{IncludeHidden: true})
	if err == nil && total > 0 {
		return nil
	}

	dids := repository.NewDidRepo(db)
	profiles := map[string]string{}
	for _, name := range []string{"Pond Studio", "Knight Forge", "Personal"} {
		id := demoID("did", name)
		n := name
		if err := dids.Upsert(ctx, repository.Did{LauncherID: id, Name: &n, Visible: true}); err != nil {
			return fmt.Errorf("seed did %s: %w", name, err)
		}
		profiles[name] = id
	}

	series := []demoSeries{
		{slug: "pond-frogs", collection: "Pond Frogs", prefix: "Frog", count: 30, minter: profiles["Pond Studio"]},
		{slug: "pixel-knights", collection: "Pixel Knights", prefix: "Knight", count: 12, minter: profiles["Knight Forge"]},
		{slug: "after-dark", collection: "After Dark", prefix: "Nocturne", count: 3, minter: profiles["Knight Forge"], sensitive: true},
	}

	var items []NftImport
	height := 5_100_000
	for _, s := range series {
		collectionID := uuid.NewSHA1(demoNamespace, []byte("collection:"+s.slug)).String()
		for i := 1; i <= s.count; i++ {
			name := fmt.Sprintf("%s #%d", s.prefix, i)
			doc := map[string]any{
				"format":            "CHIP-0007",
				"name":              name,
				"sensitive_content": s.sensitive,
				"collection": map[string]any{
					"id":   collectionID,
					"name": s.collection,
					"attributes": []map[string]any{
						{"type": "icon", "value": "https://example.invalid/" + s.slug + "/icon.png"},
					},
				},
			}
			blob, err := json.Marshal(doc)
			if err != nil {
				return err
			}
			edition, editions := i, s.count
			h := height
			height += 37
			items = append(items, NftImport{
				LauncherID:    demoID("nft", name),
				MinterDid:     s.minter,
				OwnerDid:      profiles["Personal"],
				Metadata:      blob,
				DataURIs:      []string{"https://example.invalid/" + s.slug + "/" + fmt.Sprint(i) + ".png"},
				EditionNumber: &edition,
				EditionTotal:  &editions,
				CreatedHeight: &h,
				Hidden:        i%10 == 0,
			})
		}
	}
	for i, name := range []string{"Airdrop Ticket", "Conference Badge 2024", "Untitled Sketch", "Mystery Box", "Welcome Gift", "Beta Tester", "Receipt 0042", "Spam Coupon"} {
		blob, err := json.Marshal(map[string]any{"format": "CHIP-0007", "name": name})
		if err != nil {
			return err
		}
		h := height + i*11
		items = append(items, NftImport{
			LauncherID:    demoID("nft", name),
			Metadata:      blob,
			CreatedHeight: &h,
			Hidden:        name == "Spam Coupon",
		})
	}

	if _, err := ImportNfts(ctx, db, items); err != nil {
		return fmt.Errorf("seed nfts: %w", err)
	}
	return nil
}
