package state

import (
	"slices"

	"github.com/jask/nftdesk/internal/gateway"
)

// WalletState mirrors the wallet sync status the NFT views need.
type WalletState struct {
	Sync gateway.SyncStatus
}

// Offered lists assets staged for the next offer.
type Offered struct {
	Xch  string
	Cats []string
	Nfts []string
}

// OfferState is the offer being composed.
type OfferState struct {
	Offered   Offered
	Requested Offered
	Fee       string
}

// AddNfts returns a copy with ids unioned into Offered.Nfts, preserving the
// existing order, and the number of ids that were new.
func (o OfferState) AddNfts(ids []string) (OfferState, int) {
	out := o
	out.Offered.Nfts = slices.Clone(o.Offered.Nfts)
	added := 0
	for _, id := range ids {
		if slices.Contains(out.Offered.Nfts, id) {
			continue
		}
		out.Offered.Nfts = append(out.Offered.Nfts, id)
		added++
	}
	return out, added
}
