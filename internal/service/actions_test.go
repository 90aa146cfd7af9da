package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/state"
)

func newBulk(gw gateway.Gateway) *BulkActions {
	return &BulkActions{
		Gateway: gw,
		Wallet: state.NewStore(state.WalletState{Sync: gateway.SyncStatus{
			Unit:        gateway.Unit{Ticker: "XCH", Decimals: 12},
			BurnAddress: "xch1burn",
		}}),
		Offer:  state.NewStore(state.OfferState{}),
		Errors: state.NewErrors(),
	}
}

func TestTransferBatchesSelectionWithFeeInBaseUnits(t *testing.T) {
	gw := newFakeGateway(0, 0)
	b := newBulk(gw)

	resp, err := b.Transfer(context.Background(), []string{"A", "B"}, " xch1dest ", "0.5")
	require.NoError(t, err)
	require.Equal(t, uint64(500000000000), resp.Summary.Fee)
	require.Len(t, gw.transfers, 1)
	require.Equal(t, gateway.TransferNfts{NftIDs: []string{"A", "B"}, Address: "xch1dest", Fee: 500000000000}, gw.transfers[0])
}

func TestInvalidFeeBlocksSubmission(t *testing.T) {
	gw := newFakeGateway(0, 0)
	b := newBulk(gw)

	for _, fee := range []string{"abc", "-1", "0.0000000000001"} {
		_, err := b.Transfer(context.Background(), []string{"A"}, "xch1dest", fee)
		require.ErrorIs(t, err, ErrInvalidFee, fee)
	}
	_, err := b.Assign(context.Background(), []string{"A"}, nil, "1.2.3")
	require.ErrorIs(t, err, ErrInvalidFee)

	require.Empty(t, gw.transfers)
	require.Empty(t, gw.assigns)
	require.Len(t, b.Errors.Get(), 4)
}

func TestTransferValidation(t *testing.T) {
	gw := newFakeGateway(0, 0)
	b := newBulk(gw)

	_, err := b.Transfer(context.Background(), []string{"A"}, "  ", "")
	require.ErrorIs(t, err, ErrMissingAddress)
	_, err = b.Transfer(context.Background(), nil, "xch1dest", "")
	require.ErrorIs(t, err, ErrEmptySelection)
	require.Empty(t, gw.transfers)
}

func TestBurnUsesWalletBurnAddress(t *testing.T) {
	gw := newFakeGateway(0, 0)
	b := newBulk(gw)

	_, err := b.Burn(context.Background(), []string{"A", "B", "C"}, "")
	require.NoError(t, err)
	require.Len(t, gw.transfers, 1)
	require.Equal(t, "xch1burn", gw.transfers[0].Address)
	require.Zero(t, gw.transfers[0].Fee)

	b.Wallet.Set(state.WalletState{})
	_, err = b.Burn(context.Background(), []string{"A"}, "")
	require.ErrorIs(t, err, ErrNoBurnAddress)
	require.Len(t, gw.transfers, 1)
}

func TestAssignPassesProfileOrNone(t *testing.T) {
	gw := newFakeGateway(0, 0)
	b := newBulk(gw)
	did := "did1"

	_, err := b.Assign(context.Background(), []string{"A", "B"}, &did, "0.000001")
	require.NoError(t, err)
	_, err = b.Assign(context.Background(), []string{"A"}, nil, "")
	require.NoError(t, err)

	require.Len(t, gw.assigns, 2)
	require.Equal(t, "did1", *gw.assigns[0].DidID)
	require.Equal(t, uint64(1000000), gw.assigns[0].Fee)
	require.Nil(t, gw.assigns[1].DidID)
}

func TestGatewayFailureIsSurfaced(t *testing.T) {
	gw := newFakeGateway(0, 0)
	gw.err = gateway.Errorf(gateway.KindWallet, "insufficient funds")
	b := newBulk(gw)

	_, err := b.Transfer(context.Background(), []string{"A"}, "xch1dest", "1")
	require.True(t, errors.Is(err, gateway.ErrWallet))
	latest, ok := b.Errors.Latest()
	require.True(t, ok)
	require.ErrorIs(t, latest.Err, gateway.ErrWallet)
}

func TestAddToOfferNeverDuplicates(t *testing.T) {
	gw := newFakeGateway(0, 0)
	b := newBulk(gw)

	n, err := b.AddToOffer([]string{"A", "B"})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = b.AddToOffer([]string{"B", "C"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []string{"A", "B", "C"}, b.Offer.Get().Offered.Nfts)

	_, err = b.AddToOffer(nil)
	require.ErrorIs(t, err, ErrEmptySelection)
	require.Empty(t, gw.transfers)
}

func TestActionFlow(t *testing.T) {
	var sel Selection
	var flow ActionFlow

	require.ErrorIs(t, flow.Open(ActionTransfer, &sel), ErrEmptySelection)
	require.Equal(t, ActionNone, flow.Pending)

	sel.Enable()
	sel.Toggle("A", true)
	require.NoError(t, flow.Open(ActionTransfer, &sel))
	require.Equal(t, ActionTransfer, flow.Pending)

	flow.Resolve(ActionTransfer, gateway.TransactionResponse{}, errors.New("boom"))
	require.Equal(t, ActionNone, flow.Pending)
	require.Nil(t, flow.Response)
	require.False(t, flow.Acknowledge(&sel))
	require.True(t, sel.Enabled())

	require.NoError(t, flow.Open(ActionBurn, &sel))
	flow.Resolve(ActionBurn, gateway.TransactionResponse{Summary: gateway.TransactionSummary{ID: "t"}}, nil)
	require.Equal(t, ActionNone, flow.Pending)
	require.NotNil(t, flow.Response)
	require.Equal(t, ActionBurn, flow.Done)

	require.True(t, flow.Acknowledge(&sel))
	require.False(t, sel.Enabled())
	require.Zero(t, sel.Len())
	require.Nil(t, flow.Response)
}
