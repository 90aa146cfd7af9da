package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/prefs"
	"github.com/jask/nftdesk/internal/service"
	"github.com/jask/nftdesk/internal/state"
)

type fakeSub struct {
	ch   chan gateway.SyncEvent
	once sync.Once
}

func (s *fakeSub) Events() <-chan gateway.SyncEvent { return s.ch }
func (s *fakeSub) Close()                           { s.once.Do(func() { close(s.ch) }) }

type fakeGateway struct {
	mu          sync.Mutex
	nfts        []gateway.NftRecord
	collections []gateway.NftCollectionRecord
	nftCalls    []gateway.GetNfts
	colCalls    int
	transfers   []gateway.TransferNfts
	assigns     []gateway.AssignNftsToDid
	hidden      []string
	sub         *fakeSub
}

func newFake(n int) *fakeGateway {
	f := &fakeGateway{sub: &fakeSub{ch: make(chan gateway.SyncEvent, 4)}}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("Frog %02d", i)
		f.nfts = append(f.nfts, gateway.NftRecord{LauncherID: fmt.Sprintf("n%02d", i), Name: &name, Visible: true})
	}
	colName := "Frogs"
	f.collections = []gateway.NftCollectionRecord{{CollectionID: "frogs", Name: &colName, Visible: true}}
	return f
}

func (f *fakeGateway) GetNfts(_ context.Context, req gateway.GetNfts) (gateway.GetNftsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nftCalls = append(f.nftCalls, req)
	var page []gateway.NftRecord
	if req.Offset < len(f.nfts) {
		page = f.nfts[req.Offset:min(req.Offset+req.Limit, len(f.nfts))]
	}
	return gateway.GetNftsResponse{Nfts: page, Total: len(f.nfts)}, nil
}

func (f *fakeGateway) GetNftCollections(context.Context, gateway.GetNftCollections) (gateway.GetNftCollectionsResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colCalls++
	return gateway.GetNftCollectionsResponse{Collections: f.collections, Total: len(f.collections)}, nil
}

func (f *fakeGateway) TransferNfts(_ context.Context, req gateway.TransferNfts) (gateway.TransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transfers = append(f.transfers, req)
	return gateway.TransactionResponse{Summary: gateway.TransactionSummary{ID: "tx", Fee: req.Fee}}, nil
}

func (f *fakeGateway) AssignNftsToDid(_ context.Context, req gateway.AssignNftsToDid) (gateway.TransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigns = append(f.assigns, req)
	return gateway.TransactionResponse{Summary: gateway.TransactionSummary{ID: "tx"}}, nil
}

func (f *fakeGateway) UpdateNft(_ context.Context, req gateway.UpdateNft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hidden = append(f.hidden, req.NftID)
	return nil
}

func (f *fakeGateway) UpdateNftCollection(context.Context, gateway.UpdateNftCollection) error {
	return nil
}

func (f *fakeGateway) GetDids(context.Context) ([]gateway.DidRecord, error) {
	name := "Personal"
	return []gateway.DidRecord{{LauncherID: "did1", Name: &name, Visible: true}}, nil
}

func (f *fakeGateway) GetSyncStatus(context.Context) (gateway.SyncStatus, error) {
	return gateway.SyncStatus{Unit: gateway.Unit{Ticker: "XCH", Decimals: 12}, BurnAddress: "xch1burn"}, nil
}

func (f *fakeGateway) Subscribe() gateway.Subscription { return f.sub }

func (f *fakeGateway) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.nftCalls)
}

type harness struct {
	t      *testing.T
	app    *App
	gw     *fakeGateway
	copied []string
}

func newHarness(t *testing.T, n int, p state.ViewParams) *harness {
	t.Helper()
	gw := newFake(n)
	return newHarnessWith(t, gw, gw, p)
}

// newHarnessWith drives the app through backend, which must be backed by fake.
func newHarnessWith(t *testing.T, backend gateway.Gateway, fake *fakeGateway, p state.ViewParams) *harness {
	t.Helper()
	h := &harness{t: t, gw: fake}
	h.app = New(context.Background(), Deps{
		Gateway:   backend,
		Params:    state.NewParams(p),
		Wallet:    state.NewStore(state.WalletState{}),
		Offer:     state.NewStore(state.OfferState{}),
		Errors:    state.NewErrors(),
		StateFile: filepath.Join(t.TempDir(), "view.yaml"),
		Copy: func(s string) error {
			h.copied = append(h.copied, s)
			return nil
		},
	})
	t.Cleanup(h.app.Close)
	h.run(h.app.Init())
	return h
}

// run executes cmd and feeds its messages back into the app. Commands that
// block, such as the event pump, are abandoned after a short wait.
func (h *harness) run(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return
	}
	switch m := msg.(type) {
	case nil, spinner.TickMsg:
		return
	case tea.BatchMsg:
		for _, c := range m {
			h.run(c)
		}
		return
	}
	_, next := h.app.Update(msg)
	h.run(next)
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd := h.app.Update(msg)
		h.run(cmd)
	}
}

func TestInitLoadsFirstPageAndWallet(t *testing.T) {
	h := newHarness(t, 30, state.ViewParams{Page: 1, PageSize: 12, View: state.ViewName})

	snap := h.app.list.Snapshot()
	require.True(t, snap.HasPage)
	require.False(t, snap.Loading)
	require.Len(t, snap.Listing.Nfts, 12)
	require.Equal(t, "xch1burn", h.app.deps.Wallet.Get().Sync.BurnAddress)
	require.Contains(t, h.app.View(), "Frog 00")
	require.Contains(t, h.app.View(), "page 1 of 3")
}

func TestParamChangesRefreshOnce(t *testing.T) {
	h := newHarness(t, 30, state.ViewParams{Page: 1, PageSize: 12, View: state.ViewName})
	start := h.gw.calls()

	h.press("right", "right")
	require.Equal(t, 3, h.app.deps.Params.Get().Page)
	require.Equal(t, start+2, h.gw.calls())
	require.Equal(t, 24, h.gw.nftCalls[len(h.gw.nftCalls)-1].Offset)

	h.press("v")
	p := h.app.deps.Params.Get()
	require.Equal(t, state.ViewRecent, p.View)
	require.Equal(t, 1, p.Page)
	require.Equal(t, start+3, h.gw.calls())
	last := h.gw.nftCalls[len(h.gw.nftCalls)-1]
	require.Equal(t, gateway.SortRecent, last.SortMode)
	require.Zero(t, last.Offset)
}

func TestSearchSetsQuery(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	h.press("/", "frog", "enter")
	require.Equal(t, "frog", h.app.deps.Params.Get().Query)
	require.Equal(t, "frog", *h.gw.nftCalls[len(h.gw.nftCalls)-1].Name)
}

func TestNftDataEventRefreshesCurrentPage(t *testing.T) {
	h := newHarness(t, 50, state.ViewParams{Page: 3, PageSize: 10, View: state.ViewName})
	start := h.gw.calls()

	_, cmd := h.app.Update(syncEventMsg{ev: gateway.SyncEvent{Type: gateway.EventNftData}, sub: h.app.sub})
	h.run(cmd)
	require.Equal(t, start+1, h.gw.calls())
	require.Equal(t, 20, h.gw.nftCalls[len(h.gw.nftCalls)-1].Offset)

	_, cmd = h.app.Update(syncEventMsg{ev: gateway.SyncEvent{Type: gateway.EventDidInfo}, sub: h.app.sub})
	h.run(cmd)
	require.Equal(t, start+1, h.gw.calls())
}

func TestShrinkingTotalClampsPage(t *testing.T) {
	h := newHarness(t, 25, state.ViewParams{Page: 3, PageSize: 10, View: state.ViewName})
	require.Contains(t, h.app.View(), "page 3 of 3")

	h.gw.mu.Lock()
	h.gw.nfts = h.gw.nfts[:20]
	h.gw.mu.Unlock()

	_, cmd := h.app.Update(syncEventMsg{ev: gateway.SyncEvent{Type: gateway.EventNftData}, sub: h.app.sub})
	h.run(cmd)

	require.Equal(t, 2, h.app.deps.Params.Get().Page)
	snap := h.app.list.Snapshot()
	require.Equal(t, 2, snap.Number)
	require.Len(t, snap.Listing.Nfts, 10)
	require.Equal(t, 10, h.gw.nftCalls[len(h.gw.nftCalls)-1].Offset)
	require.Contains(t, h.app.View(), "page 2 of 2")
}

func TestNextPastFullLastPageComesBack(t *testing.T) {
	h := newHarness(t, 20, state.ViewParams{Page: 2, PageSize: 10, View: state.ViewName})
	require.True(t, h.app.list.Snapshot().Pager().HasNext)

	h.press("right")
	require.Equal(t, 2, h.app.deps.Params.Get().Page)
	require.Equal(t, 2, h.app.list.Snapshot().Number)
	require.Contains(t, h.app.View(), "page 2 of 2")
}

type resyncGateway struct {
	*fakeGateway
	resyncs int
}

func (g *resyncGateway) Resync() { g.resyncs++ }

func TestRefreshKeyResyncsBackend(t *testing.T) {
	fake := newFake(30)
	gw := &resyncGateway{fakeGateway: fake}
	h := newHarnessWith(t, gw, fake, state.ViewParams{Page: 2, PageSize: 10, View: state.ViewName})
	start := fake.calls()

	h.press("r")
	require.Equal(t, 1, gw.resyncs)
	require.Equal(t, start, fake.calls())

	_, cmd := h.app.Update(syncEventMsg{ev: gateway.SyncEvent{Type: gateway.EventPuzzleBatchSynced}, sub: h.app.sub})
	h.run(cmd)
	require.Equal(t, start+1, fake.calls())
	require.Equal(t, 10, fake.nftCalls[len(fake.nftCalls)-1].Offset)
}

func TestRefreshKeyWithoutResyncRefetches(t *testing.T) {
	h := newHarness(t, 30, state.ViewParams{Page: 2, PageSize: 10, View: state.ViewName})
	start := h.gw.calls()

	h.press("r")
	require.Equal(t, start+1, h.gw.calls())
}

func TestNoEventsHandledAfterClose(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	sub := h.app.sub
	start := h.gw.calls()

	_, cmd := h.app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	require.Nil(t, h.app.sub)

	_, cmd = h.app.Update(syncEventMsg{ev: gateway.SyncEvent{Type: gateway.EventCoinState}, sub: sub})
	require.Nil(t, cmd)
	require.Equal(t, start, h.gw.calls())

	_, open := <-sub.Events()
	require.False(t, open)

	saved, err := prefs.LoadView(h.app.deps.StateFile, state.ViewParams{})
	require.NoError(t, err)
	require.Equal(t, state.ViewName, saved.View)
}

func TestMultiSelectTransfer(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())

	h.press("a")
	require.Equal(t, modalNone, h.app.modal)

	h.press("m", "space", "down", "space")
	require.Equal(t, []string{"n00", "n01"}, h.app.sel.IDs())

	// menu: add to offer, transfer, assign, burn
	h.press("a", "down", "enter")
	require.NotNil(t, h.app.dlg)
	require.Equal(t, service.ActionTransfer, h.app.flow.Pending)

	h.press("xch1dest", "tab", "0.5", "enter")
	require.Nil(t, h.app.dlg)
	require.Equal(t, service.ActionNone, h.app.flow.Pending)
	require.Len(t, h.gw.transfers, 1)
	require.Equal(t, gateway.TransferNfts{NftIDs: []string{"n00", "n01"}, Address: "xch1dest", Fee: 500000000000}, h.gw.transfers[0])
	require.NotNil(t, h.app.flow.Response)
	require.Contains(t, h.app.View(), "Fee: 0.5 XCH")

	h.press("enter")
	require.Nil(t, h.app.flow.Response)
	require.False(t, h.app.sel.Enabled())
	require.Zero(t, h.app.sel.Len())
}

func TestInvalidFeeClosesDialogWithoutCall(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	h.press("m", "space", "a", "down", "down", "down", "enter")
	require.NotNil(t, h.app.dlg)
	require.Equal(t, service.ActionBurn, h.app.dlg.action)

	h.press("lots", "enter")
	require.Nil(t, h.app.dlg)
	require.Empty(t, h.gw.transfers)
	require.Nil(t, h.app.flow.Response)
	require.True(t, h.app.sel.Enabled())
	latest, ok := h.app.deps.Errors.Latest()
	require.True(t, ok)
	require.ErrorIs(t, latest.Err, service.ErrInvalidFee)
	require.Contains(t, h.app.View(), "invalid fee")

	h.press("x")
	_, ok = h.app.deps.Errors.Latest()
	require.False(t, ok)
}

func TestAssignToChosenProfile(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	h.press("m", "space", "a", "down", "down", "enter")
	require.Equal(t, service.ActionAssign, h.app.dlg.action)
	require.Len(t, h.app.dlg.ranked, 1)

	h.press("down", "enter")
	require.Len(t, h.gw.assigns, 1)
	require.Equal(t, "did1", *h.gw.assigns[0].DidID)
	require.Equal(t, []string{"n00"}, h.gw.assigns[0].NftIDs)
}

func TestAddToOfferExitsMultiSelect(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	h.press("m", "space", "a", "enter")
	require.Equal(t, []string{"n00"}, h.app.deps.Offer.Get().Offered.Nfts)
	require.False(t, h.app.sel.Enabled())
	require.Empty(t, h.gw.transfers)
}

func TestFilterChangeClearsSelection(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	h.press("m", "space")
	require.Equal(t, 1, h.app.sel.Len())
	h.press("H")
	require.True(t, h.app.sel.Enabled())
	require.Zero(t, h.app.sel.Len())
}

func TestCollectionScope(t *testing.T) {
	h := newHarness(t, 5, state.ViewParams{Page: 1, PageSize: 10, View: state.ViewCollection})
	require.Equal(t, 1, h.gw.colCalls)

	snap := h.app.list.Snapshot()
	require.Len(t, snap.Listing.Collections, 2)
	require.Contains(t, h.app.View(), service.UncategorizedName)

	h.press("enter")
	last := h.gw.nftCalls[len(h.gw.nftCalls)-1]
	require.Equal(t, "frogs", *last.CollectionID)
	require.Contains(t, h.app.View(), "NFTs in Frogs")

	h.press("esc")
	require.Equal(t, 2, h.gw.colCalls)
	require.False(t, h.app.list.Scope().Scoped())
}

func TestCopyAndHide(t *testing.T) {
	h := newHarness(t, 5, state.DefaultViewParams())
	start := h.gw.calls()
	h.press("down", "c")
	require.Equal(t, []string{"n01"}, h.copied)

	h.press("h")
	require.Equal(t, []string{"n01"}, h.gw.hidden)
	require.Equal(t, start+1, h.gw.calls())
}
