package gateway

// EventType is the closed set of sync event tags the backend emits.
type EventType string

const (
	EventStart             EventType = "start"
	EventStop              EventType = "stop"
	EventSubscribed        EventType = "subscribed"
	EventDerivation        EventType = "derivation"
	EventCoinState         EventType = "coin_state"
	EventPuzzleBatchSynced EventType = "puzzle_batch_synced"
	EventCatInfo           EventType = "cat_info"
	EventDidInfo           EventType = "did_info"
	EventNftData           EventType = "nft_data"

	// EventUnknown marks a notification outside the known set. Nothing
	// reacts to it.
	EventUnknown EventType = "unknown"
)

// SyncEvent is a tagged notification that wallet state changed. IP is only
// set for EventStart.
type SyncEvent struct {
	Type EventType
	IP   string
}

// WalletEvent enumerates the backend's internal notifications before they are
// collapsed onto the public tag set.
type WalletEvent int

const (
	WalletStart WalletEvent = iota
	WalletStop
	WalletSubscribed
	WalletDerivationIndex
	WalletCoinsUpdated
	WalletTransactionUpdated
	WalletTransactionEnded
	WalletOfferUpdated
	WalletPuzzleBatchSynced
	WalletCatInfo
	WalletDidInfo
	WalletNftData
)

// FromWalletEvent maps an internal notification to its public tag. Coin,
// transaction and offer changes all surface as coin_state.
func FromWalletEvent(ev WalletEvent, ip string) SyncEvent {
	switch ev {
	case WalletStart:
		return SyncEvent{Type: EventStart, IP: ip}
	case WalletStop:
		return SyncEvent{Type: EventStop}
	case WalletSubscribed:
		return SyncEvent{Type: EventSubscribed}
	case WalletDerivationIndex:
		return SyncEvent{Type: EventDerivation}
	case WalletCoinsUpdated, WalletTransactionUpdated, WalletTransactionEnded, WalletOfferUpdated:
		return SyncEvent{Type: EventCoinState}
	case WalletPuzzleBatchSynced:
		return SyncEvent{Type: EventPuzzleBatchSynced}
	case WalletCatInfo:
		return SyncEvent{Type: EventCatInfo}
	case WalletDidInfo:
		return SyncEvent{Type: EventDidInfo}
	case WalletNftData:
		return SyncEvent{Type: EventNftData}
	default:
		return SyncEvent{Type: EventUnknown}
	}
}
