package repository

import "time"

// Did represents a profile row.
type Did struct {
	LauncherID string
	Name       *string
	Visible    bool
	CreatedAt  time.Time
}

// Collection represents an NFT collection row.
type Collection struct {
	CollectionID         string
	DidID                string
	MetadataCollectionID string
	Name                 *string
	Icon                 *string
	Visible              bool
}

// Nft represents an NFT owned by the wallet.
type Nft struct {
	LauncherID       string
	CollectionID     *string
	CollectionName   *string // joined, read only
	MinterDid        *string
	OwnerDid         *string
	Name             *string
	Visible          bool
	SensitiveContent bool
	EditionNumber    *int
	EditionTotal     *int
	DataURIs         []string
	Metadata         []byte
	CreatedHeight    *int
	CreatedAt        time.Time
}

// WalletTransaction records a submitted NFT action.
type WalletTransaction struct {
	ID        string
	Kind      string
	Address   *string
	DidID     *string
	Fee       uint64
	NftIDs    []string
	CreatedAt time.Time
}
