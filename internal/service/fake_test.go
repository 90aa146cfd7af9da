package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jask/nftdesk/internal/gateway"
)

// fakeGateway records calls and serves canned pages.
type fakeGateway struct {
	mu          sync.Mutex
	nfts        []gateway.NftRecord
	collections []gateway.NftCollectionRecord
	err         error

	nftCalls        []gateway.GetNfts
	collectionCalls []gateway.GetNftCollections
	transfers       []gateway.TransferNfts
	assigns         []gateway.AssignNftsToDid
}

func newFakeGateway(nfts, collections int) *fakeGateway {
	f := &fakeGateway{}
	for i := 0; i < nfts; i++ {
		name := fmt.Sprintf("nft %03d", i)
		f.nfts = append(f.nfts, gateway.NftRecord{LauncherID: fmt.Sprintf("n%03d", i), Name: &name, Visible: true})
	}
	for i := 0; i < collections; i++ {
		name := fmt.Sprintf("col %02d", i)
		f.collections = append(f.collections, gateway.NftCollectionRecord{CollectionID: fmt.Sprintf("c%02d", i), Name: &name, Visible: true})
	}
	return f
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return append([]T(nil), items[offset:end]...)
}

func (f *fakeGateway) GetNfts(_ context.Context, req gateway.GetNfts) (gateway.GetNftsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nftCalls = append(f.nftCalls, req)
	if f.err != nil {
		return gateway.GetNftsResponse{}, f.err
	}
	return gateway.GetNftsResponse{Nfts: window(f.nfts, req.Offset, req.Limit), Total: len(f.nfts)}, nil
}

func (f *fakeGateway) GetNftCollections(_ context.Context, req gateway.GetNftCollections) (gateway.GetNftCollectionsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.collectionCalls = append(f.collectionCalls, req)
	if f.err != nil {
		return gateway.GetNftCollectionsResponse{}, f.err
	}
	return gateway.GetNftCollectionsResponse{Collections: window(f.collections, req.Offset, req.Limit), Total: len(f.collections)}, nil
}

func (f *fakeGateway) TransferNfts(_ context.Context, req gateway.TransferNfts) (gateway.TransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transfers = append(f.transfers, req)
	if f.err != nil {
		return gateway.TransactionResponse{}, f.err
	}
	return gateway.TransactionResponse{Summary: gateway.TransactionSummary{ID: "tx1", Fee: req.Fee}}, nil
}

func (f *fakeGateway) AssignNftsToDid(_ context.Context, req gateway.AssignNftsToDid) (gateway.TransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigns = append(f.assigns, req)
	if f.err != nil {
		return gateway.TransactionResponse{}, f.err
	}
	return gateway.TransactionResponse{Summary: gateway.TransactionSummary{ID: "tx2", Fee: req.Fee}}, nil
}

func (f *fakeGateway) UpdateNft(context.Context, gateway.UpdateNft) error { return nil }

func (f *fakeGateway) UpdateNftCollection(context.Context, gateway.UpdateNftCollection) error {
	return nil
}

func (f *fakeGateway) GetDids(context.Context) ([]gateway.DidRecord, error) { return nil, nil }

func (f *fakeGateway) GetSyncStatus(context.Context) (gateway.SyncStatus, error) {
	return gateway.SyncStatus{}, nil
}

func (f *fakeGateway) Subscribe() gateway.Subscription { return nil }
