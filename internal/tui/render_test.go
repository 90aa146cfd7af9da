package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/service"
	"github.com/jask/nftdesk/internal/state"
)

func strPtr(s string) *string { return &s }

func TestListTextNfts(t *testing.T) {
	p := state.ViewParams{Page: 2, PageSize: 2, View: state.ViewRecent}
	snap := service.Snapshot{
		Listing: service.Listing{
			Nfts: []gateway.NftRecord{
				{LauncherID: "n01", Name: strPtr("Frog 01"), Visible: true},
				{LauncherID: "n02", Visible: false},
			},
			Total:   5,
			Fetched: 2,
		},
		Number:   2,
		HasPage:  true,
		PageSize: 2,
	}

	lines := strings.Split(strings.TrimSuffix(ListText(p, snap, false), "\n"), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "n01"))
	require.Contains(t, lines[0], "Frog 01")
	require.Contains(t, lines[1], "Unnamed")
	require.Contains(t, lines[1], "(hidden)")
	require.Equal(t, "page 2 of 3 (5 total, sorted by recent)", lines[2])
}

func TestListTextCollections(t *testing.T) {
	p := state.ViewParams{Page: 1, PageSize: 24, View: state.ViewCollection}
	snap := service.Snapshot{
		Listing: service.Listing{
			Collections: []gateway.NftCollectionRecord{
				{CollectionID: "c1", Name: strPtr("Frogs"), Visible: true},
				{CollectionID: "c2", Visible: true},
				{CollectionID: gateway.NoCollection, Name: strPtr(service.UncategorizedName), Visible: true},
			},
			Total:   2,
			Fetched: 2,
		},
		Number:   1,
		HasPage:  true,
		PageSize: 24,
	}

	out := ListText(p, snap, true)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "Frogs")
	require.Equal(t, "c2", strings.Fields(lines[1])[0])
	require.Equal(t, "c2", strings.Fields(lines[1])[1])
	require.Contains(t, lines[2], service.UncategorizedName)
	require.Equal(t, "page 1 of 1 (2 total, sorted by collection)", lines[3])
}

func TestListTextEmpty(t *testing.T) {
	out := ListText(state.DefaultViewParams(), service.Snapshot{}, false)
	require.Equal(t, "page 1 of 1 (0 total, sorted by name)\n", out)
}
