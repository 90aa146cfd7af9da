package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/state"
)

// Action is a bulk operation on the selection.
type Action string

const (
	ActionNone       Action = ""
	ActionTransfer   Action = "transfer"
	ActionAssign     Action = "assign"
	ActionBurn       Action = "burn"
	ActionAddToOffer Action = "add_to_offer"
)

// Actions lists the bulk operations in menu order.
var Actions = []Action{ActionAddToOffer, ActionTransfer, ActionAssign, ActionBurn}

func (a Action) Label() string {
	switch a {
	case ActionTransfer:
		return "Transfer"
	case ActionAssign:
		return "Assign profile"
	case ActionBurn:
		return "Burn"
	case ActionAddToOffer:
		return "Add to offer"
	default:
		return ""
	}
}

// ActionFlow is the dialog state machine: one pending action, then an
// optional response waiting for acknowledgment.
type ActionFlow struct {
	Pending  Action
	Done     Action
	Response *gateway.TransactionResponse
}

// Open starts a dialog for a. Nothing opens without a selection.
func (f *ActionFlow) Open(a Action, sel *Selection) error {
	if sel.Len() == 0 {
		return ErrEmptySelection
	}
	f.Pending = a
	return nil
}

// Close dismisses the dialog without submitting.
func (f *ActionFlow) Close() {
	f.Pending = ActionNone
}

// Resolve closes the dialog with the outcome of a submission. A success is
// kept until acknowledged.
func (f *ActionFlow) Resolve(a Action, resp gateway.TransactionResponse, err error) {
	f.Pending = ActionNone
	if err != nil {
		return
	}
	f.Done = a
	f.Response = &resp
}

// Acknowledge dismisses a shown response, clears the selection and leaves
// multi-select. It reports whether there was a response to acknowledge.
func (f *ActionFlow) Acknowledge(sel *Selection) bool {
	if f.Response == nil {
		return false
	}
	f.Response = nil
	f.Done = ActionNone
	sel.Disable()
	return true
}

// BulkActions submits actions on a whole selection as one batch.
type BulkActions struct {
	Gateway gateway.Gateway
	Wallet  *state.Store[state.WalletState]
	Offer   *state.Store[state.OfferState]
	Errors  *state.Errors
}

// Transfer sends ids to address in a single call.
func (b *BulkActions) Transfer(ctx context.Context, ids []string, address, fee string) (gateway.TransactionResponse, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return gateway.TransactionResponse{}, b.fail(ErrMissingAddress)
	}
	return b.transfer(ctx, ActionTransfer, ids, address, fee)
}

// Burn transfers ids to the wallet's burn address.
func (b *BulkActions) Burn(ctx context.Context, ids []string, fee string) (gateway.TransactionResponse, error) {
	addr := b.Wallet.Get().Sync.BurnAddress
	if addr == "" {
		return gateway.TransactionResponse{}, b.fail(ErrNoBurnAddress)
	}
	return b.transfer(ctx, ActionBurn, ids, addr, fee)
}

func (b *BulkActions) transfer(ctx context.Context, a Action, ids []string, address, fee string) (gateway.TransactionResponse, error) {
	units, err := b.validate(ids, fee)
	if err != nil {
		return gateway.TransactionResponse{}, err
	}
	log.Info().Str("action", string(a)).Int("count", len(ids)).Uint64("fee", units).Msg("submitting bulk action")
	resp, err := b.Gateway.TransferNfts(ctx, gateway.TransferNfts{NftIDs: ids, Address: address, Fee: units})
	if err != nil {
		return gateway.TransactionResponse{}, b.fail(fmt.Errorf("%s nfts: %w", a, err))
	}
	return resp, nil
}

// Assign moves ids to profile; nil removes their profile.
func (b *BulkActions) Assign(ctx context.Context, ids []string, profile *string, fee string) (gateway.TransactionResponse, error) {
	units, err := b.validate(ids, fee)
	if err != nil {
		return gateway.TransactionResponse{}, err
	}
	log.Info().Str("action", string(ActionAssign)).Int("count", len(ids)).Uint64("fee", units).Msg("submitting bulk action")
	resp, err := b.Gateway.AssignNftsToDid(ctx, gateway.AssignNftsToDid{NftIDs: ids, DidID: profile, Fee: units})
	if err != nil {
		return gateway.TransactionResponse{}, b.fail(fmt.Errorf("assign nfts: %w", err))
	}
	return resp, nil
}

// AddToOffer unions ids into the offered nfts and returns how many were new.
func (b *BulkActions) AddToOffer(ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, b.fail(ErrEmptySelection)
	}
	added := 0
	b.Offer.Update(func(o state.OfferState) state.OfferState {
		next, n := o.AddNfts(ids)
		added = n
		return next
	})
	return added, nil
}

func (b *BulkActions) validate(ids []string, fee string) (uint64, error) {
	if len(ids) == 0 {
		return 0, b.fail(ErrEmptySelection)
	}
	units, err := ToBaseUnits(fee, b.Wallet.Get().Sync.Unit.Decimals)
	if err != nil {
		return 0, b.fail(err)
	}
	return units, nil
}

func (b *BulkActions) fail(err error) error {
	if b.Errors != nil {
		b.Errors.Add(err)
	}
	return err
}
