// Package wallet is a local, sqlite backed implementation of the command
// gateway. It applies NFT actions directly to the wallet database and
// announces every change on its sync event hub.
package wallet

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jask/nftdesk/internal/database/repository"
	"github.com/jask/nftdesk/internal/gateway"
)

// Repos bundles the repositories the wallet reads and writes.
type Repos struct {
	Nfts         *repository.NftRepo
	Collections  *repository.CollectionRepo
	Dids         *repository.DidRepo
	Transactions *repository.TransactionRepo
}

// NewRepos builds every repository over db.
func NewRepos(db *sql.DB) Repos {
	return Repos{
		Nfts:         repository.NewNftRepo(db),
		Collections:  repository.NewCollectionRepo(db),
		Dids:         repository.NewDidRepo(db),
		Transactions: repository.NewTransactionRepo(db),
	}
}

// Local implements gateway.Gateway.
type Local struct {
	Repos       Repos
	Hub         *Hub
	Unit        gateway.Unit
	BurnAddress string
}

var (
	_ gateway.Gateway  = (*Local)(nil)
	_ gateway.Resyncer = (*Local)(nil)
)

// NewLocal wires a local wallet over db.
func NewLocal(db *sql.DB, unit gateway.Unit, burnAddress string) *Local {
	return &Local{
		Repos:       NewRepos(db),
		Hub:         NewHub(16),
		Unit:        unit,
		BurnAddress: burnAddress,
	}
}

func (w *Local) GetNfts(ctx context.Context, req gateway.GetNfts) (gateway.GetNftsResponse, error) {
	if req.Offset < 0 || req.Limit < 0 {
		return gateway.GetNftsResponse{}, gateway.Errorf(gateway.KindAPI, "offset and limit must not be negative")
	}
	f := repository.NftFilters{
		OwnerDid:      req.DidID,
		IncludeHidden: req.IncludeHidden,
		Offset:        req.Offset,
		Limit:         req.Limit,
		Sort:          repository.NftSortName,
	}
	if req.SortMode == gateway.SortRecent {
		f.Sort = repository.NftSortRecent
	}
	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.CollectionID != nil {
		id := *req.CollectionID
		if id == gateway.NoCollection {
			id = ""
		}
		f.CollectionID = &id
	}

	rows, err := w.Repos.Nfts.List(ctx, f)
	if err != nil {
		return gateway.GetNftsResponse{}, databaseError("list nfts", err)
	}
	total, err := w.Repos.Nfts.Count(ctx, f)
	if err != nil {
		return gateway.GetNftsResponse{}, databaseError("count nfts", err)
	}
	out := gateway.GetNftsResponse{Nfts: make([]gateway.NftRecord, 0, len(rows)), Total: total}
	for _, n := range rows {
		out.Nfts = append(out.Nfts, nftRecord(n))
	}
	return out, nil
}

func (w *Local) GetNftCollections(ctx context.Context, req gateway.GetNftCollections) (gateway.GetNftCollectionsResponse, error) {
	if req.Offset < 0 || req.Limit < 0 {
		return gateway.GetNftCollectionsResponse{}, gateway.Errorf(gateway.KindAPI, "offset and limit must not be negative")
	}
	rows, err := w.Repos.Collections.List(ctx, req.Offset, req.Limit, req.IncludeHidden)
	if err != nil {
		return gateway.GetNftCollectionsResponse{}, databaseError("list collections", err)
	}
	total, err := w.Repos.Collections.Count(ctx, req.IncludeHidden)
	if err != nil {
		return gateway.GetNftCollectionsResponse{}, databaseError("count collections", err)
	}
	out := gateway.GetNftCollectionsResponse{Collections: make([]gateway.NftCollectionRecord, 0, len(rows)), Total: total}
	for _, c := range rows {
		out.Collections = append(out.Collections, gateway.NftCollectionRecord{
			CollectionID:         c.CollectionID,
			DidID:                c.DidID,
			MetadataCollectionID: c.MetadataCollectionID,
			Name:                 c.Name,
			Icon:                 c.Icon,
			Visible:              c.Visible,
		})
	}
	return out, nil
}

func (w *Local) TransferNfts(ctx context.Context, req gateway.TransferNfts) (gateway.TransactionResponse, error) {
	address := strings.TrimSpace(req.Address)
	if address == "" {
		return gateway.TransactionResponse{}, gateway.Errorf(gateway.KindAPI, "address is required")
	}
	ids, err := w.owned(ctx, req.NftIDs)
	if err != nil {
		return gateway.TransactionResponse{}, err
	}
	wt := repository.WalletTransaction{
		ID:      uuid.NewString(),
		Kind:    repository.KindTransfer,
		Address: &address,
		Fee:     req.Fee,
		NftIDs:  ids,
	}
	if err := w.Repos.Transactions.ApplyTransfer(ctx, wt); err != nil {
		return gateway.TransactionResponse{}, databaseError("transfer nfts", err)
	}
	log.Info().Str("tx", wt.ID).Int("nfts", len(ids)).Uint64("fee", req.Fee).Bool("burn", address == w.BurnAddress).Msg("nfts transferred")
	w.announce()
	return response(wt, address), nil
}

func (w *Local) AssignNftsToDid(ctx context.Context, req gateway.AssignNftsToDid) (gateway.TransactionResponse, error) {
	ids, err := w.owned(ctx, req.NftIDs)
	if err != nil {
		return gateway.TransactionResponse{}, err
	}
	if req.DidID != nil {
		ok, err := w.Repos.Dids.Exists(ctx, *req.DidID)
		if err != nil {
			return gateway.TransactionResponse{}, databaseError("lookup did", err)
		}
		if !ok {
			return gateway.TransactionResponse{}, gateway.Errorf(gateway.KindNotFound, "profile %s not found", *req.DidID)
		}
	}
	wt := repository.WalletTransaction{
		ID:     uuid.NewString(),
		Kind:   repository.KindAssign,
		DidID:  req.DidID,
		Fee:    req.Fee,
		NftIDs: ids,
	}
	if err := w.Repos.Transactions.ApplyAssign(ctx, wt); err != nil {
		return gateway.TransactionResponse{}, databaseError("assign nfts", err)
	}
	log.Info().Str("tx", wt.ID).Int("nfts", len(ids)).Uint64("fee", req.Fee).Msg("nfts assigned")
	w.announce()
	return response(wt, ""), nil
}

func (w *Local) UpdateNft(ctx context.Context, req gateway.UpdateNft) error {
	ok, err := w.Repos.Nfts.UpdateVisible(ctx, req.NftID, req.Visible)
	if err != nil {
		return databaseError("update nft", err)
	}
	if !ok {
		return gateway.Errorf(gateway.KindNotFound, "nft %s not found", req.NftID)
	}
	w.Hub.Publish(gateway.FromWalletEvent(gateway.WalletNftData, ""))
	return nil
}

func (w *Local) UpdateNftCollection(ctx context.Context, req gateway.UpdateNftCollection) error {
	ok, err := w.Repos.Collections.UpdateVisible(ctx, req.CollectionID, req.Visible)
	if err != nil {
		return databaseError("update collection", err)
	}
	if !ok {
		return gateway.Errorf(gateway.KindNotFound, "collection %s not found", req.CollectionID)
	}
	w.Hub.Publish(gateway.FromWalletEvent(gateway.WalletNftData, ""))
	return nil
}

func (w *Local) GetDids(ctx context.Context) ([]gateway.DidRecord, error) {
	rows, err := w.Repos.Dids.List(ctx)
	if err != nil {
		return nil, databaseError("list dids", err)
	}
	out := make([]gateway.DidRecord, 0, len(rows))
	for _, d := range rows {
		out = append(out, gateway.DidRecord{LauncherID: d.LauncherID, Name: d.Name, Visible: d.Visible})
	}
	return out, nil
}

func (w *Local) GetSyncStatus(ctx context.Context) (gateway.SyncStatus, error) {
	total, err := w.Repos.Nfts.Count(ctx, repository.NftFilters{IncludeHidden: true})
	if err != nil {
		return gateway.SyncStatus{}, databaseError("count nfts", err)
	}
	return gateway.SyncStatus{
		Unit:        w.Unit,
		BurnAddress: w.BurnAddress,
		SyncedCoins: total,
		TotalCoins:  total,
	}, nil
}

func (w *Local) Subscribe() gateway.Subscription { return w.Hub.Subscribe() }

// Resync announces a completed sync pass, as the real wallet does after
// each puzzle batch.
func (w *Local) Resync() {
	w.Hub.Publish(gateway.FromWalletEvent(gateway.WalletPuzzleBatchSynced, ""))
}

func (w *Local) announce() {
	w.Hub.Publish(gateway.FromWalletEvent(gateway.WalletTransactionEnded, ""))
	w.Hub.Publish(gateway.FromWalletEvent(gateway.WalletNftData, ""))
}

// owned normalises ids and fails when any of them is not in the wallet.
func (w *Local) owned(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, gateway.Errorf(gateway.KindAPI, "no nfts given")
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	missing, err := w.Repos.Nfts.Missing(ctx, out)
	if err != nil {
		return nil, databaseError("lookup nfts", err)
	}
	if len(missing) > 0 {
		return nil, gateway.Errorf(gateway.KindNotFound, "nft %s not found", strings.Join(missing, ", "))
	}
	return out, nil
}

func nftRecord(n repository.Nft) gateway.NftRecord {
	return gateway.NftRecord{
		LauncherID:       n.LauncherID,
		CollectionID:     n.CollectionID,
		CollectionName:   n.CollectionName,
		MinterDid:        n.MinterDid,
		OwnerDid:         n.OwnerDid,
		Name:             n.Name,
		Visible:          n.Visible,
		SensitiveContent: n.SensitiveContent,
		EditionNumber:    n.EditionNumber,
		EditionTotal:     n.EditionTotal,
		DataURIs:         n.DataURIs,
		CreatedHeight:    n.CreatedHeight,
	}
}

func response(wt repository.WalletTransaction, address string) gateway.TransactionResponse {
	summary := gateway.TransactionSummary{ID: wt.ID, Fee: wt.Fee}
	spends := make([]gateway.CoinSpend, 0, len(wt.NftIDs))
	for _, id := range wt.NftIDs {
		summary.Inputs = append(summary.Inputs, gateway.TransactionInput{CoinID: id, Kind: "nft", AssetID: id, Amount: 1})
		out := gateway.TransactionOutput{Address: address, Amount: 1, Kind: "nft", AssetID: id}
		if wt.DidID != nil {
			out.Address = *wt.DidID
		}
		summary.Outputs = append(summary.Outputs, out)
		spends = append(spends, gateway.CoinSpend{CoinID: id})
	}
	return gateway.TransactionResponse{Summary: summary, CoinSpends: spends}
}

func databaseError(op string, err error) error {
	return &gateway.Error{Kind: gateway.KindInternal, Reason: fmt.Sprintf("%s: %v", op, err)}
}
