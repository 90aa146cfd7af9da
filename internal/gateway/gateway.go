// Package gateway defines the command/event boundary between the NFT views and
// the wallet backend. Implementations own transaction construction, signing,
// syncing and persistence; callers only see requests, records and sync events.
package gateway

import "context"

// SortMode orders NFT listings.
type SortMode string

const (
	SortName   SortMode = "name"
	SortRecent SortMode = "recent"
)

// NoCollection is the collection id used for NFTs that belong to no collection.
const NoCollection = "No collection"

// Gateway is the command side of the wallet backend plus its sync event stream.
type Gateway interface {
	GetNfts(ctx context.Context, req GetNfts) (GetNftsResponse, error)
	GetNftCollections(ctx context.Context, req GetNftCollections) (GetNftCollectionsResponse, error)
	TransferNfts(ctx context.Context, req TransferNfts) (TransactionResponse, error)
	AssignNftsToDid(ctx context.Context, req AssignNftsToDid) (TransactionResponse, error)
	UpdateNft(ctx context.Context, req UpdateNft) error
	UpdateNftCollection(ctx context.Context, req UpdateNftCollection) error
	GetDids(ctx context.Context) ([]DidRecord, error)
	GetSyncStatus(ctx context.Context) (SyncStatus, error)
	Subscribe() Subscription
}

// Subscription delivers sync events until closed. After Close returns no
// further event is delivered on Events.
type Subscription interface {
	Events() <-chan SyncEvent
	Close()
}

// Resyncer is implemented by backends that can rescan on demand. Completion
// is announced as an EventPuzzleBatchSynced event.
type Resyncer interface {
	Resync()
}

// GetNfts filters the wallet's NFTs.
type GetNfts struct {
	CollectionID  *string
	DidID         *string
	Name          *string
	Offset        int
	Limit         int
	SortMode      SortMode
	IncludeHidden bool
}

type GetNftsResponse struct {
	Nfts  []NftRecord
	Total int
}

type GetNftCollections struct {
	Offset        int
	Limit         int
	IncludeHidden bool
}

type GetNftCollectionsResponse struct {
	Collections []NftCollectionRecord
	Total       int
}

// TransferNfts sends every listed NFT to Address in one transaction.
type TransferNfts struct {
	NftIDs  []string
	Address string
	Fee     uint64
}

// AssignNftsToDid moves every listed NFT to DidID; nil removes the profile.
type AssignNftsToDid struct {
	NftIDs []string
	DidID  *string
	Fee    uint64
}

type UpdateNft struct {
	NftID   string
	Visible bool
}

type UpdateNftCollection struct {
	CollectionID string
	Visible      bool
}

// NftRecord is one NFT as presented to the views.
type NftRecord struct {
	LauncherID       string
	CollectionID     *string
	CollectionName   *string
	MinterDid        *string
	OwnerDid         *string
	Name             *string
	Visible          bool
	SensitiveContent bool
	EditionNumber    *int
	EditionTotal     *int
	DataURIs         []string
	CreatedHeight    *int
}

// NftCollectionRecord summarises one collection.
type NftCollectionRecord struct {
	CollectionID         string
	DidID                string
	MetadataCollectionID string
	Name                 *string
	Icon                 *string
	Visible              bool
}

// DidRecord is a profile NFTs can be assigned to.
type DidRecord struct {
	LauncherID string
	Name       *string
	Visible    bool
}

// Unit is the display unit of the wallet's native coin.
type Unit struct {
	Ticker   string
	Decimals int
}

// SyncStatus is the slice of wallet sync state the views depend on.
type SyncStatus struct {
	Unit           Unit
	BurnAddress    string
	ReceiveAddress string
	SyncedCoins    int
	TotalCoins     int
}

// TransactionResponse is what the backend hands back for a submitted action.
type TransactionResponse struct {
	Summary    TransactionSummary
	CoinSpends []CoinSpend
}

type TransactionSummary struct {
	ID      string
	Fee     uint64
	Inputs  []TransactionInput
	Outputs []TransactionOutput
}

type TransactionInput struct {
	CoinID  string
	Kind    string
	AssetID string
	Amount  uint64
}

type TransactionOutput struct {
	Address string
	Amount  uint64
	Kind    string
	AssetID string
}

type CoinSpend struct {
	CoinID       string
	PuzzleReveal string
	Solution     string
}
