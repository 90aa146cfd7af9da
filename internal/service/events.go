package service

import "github.com/jask/nftdesk/internal/gateway"

var refreshEvents = map[gateway.EventType]struct{}{
	gateway.EventCoinState:         {},
	gateway.EventPuzzleBatchSynced: {},
	gateway.EventNftData:           {},
}

// RefreshesOn reports whether a sync event of type t can change NFT listings.
func RefreshesOn(t gateway.EventType) bool {
	_, ok := refreshEvents[t]
	return ok
}
