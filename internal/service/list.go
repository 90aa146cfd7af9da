package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/state"
)

// UncategorizedName labels the synthetic collection holding NFTs that belong
// to no collection.
const UncategorizedName = "Uncategorized NFTs"

// Scope narrows the NFT list to one collection or profile.
type Scope struct {
	CollectionID *string
	DidID        *string
}

// Scoped reports whether any narrowing is active.
func (s Scope) Scoped() bool { return s.CollectionID != nil || s.DidID != nil }

// Request is one issued refresh. Token orders requests; only the result of the
// latest token is ever applied.
type Request struct {
	Token  uint64
	Page   int
	Params state.ViewParams
	Scope  Scope
}

// Listing is the result of one fetch. Fetched counts records returned by the
// backend and excludes the synthetic uncategorized entry.
type Listing struct {
	Nfts        []gateway.NftRecord
	Collections []gateway.NftCollectionRecord
	Total       int
	Fetched     int
}

// Result pairs a request with its outcome.
type Result struct {
	Request
	Listing Listing
	Err     error
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Listing  Listing
	Number   int
	Request  Request
	Loading  bool
	HasPage  bool
	PageSize int
}

// Pager derives navigation state from the snapshot.
func (s Snapshot) Pager() Pager {
	return NewPager(s.Number, s.PageSize, s.Listing.Fetched, s.Listing.Total)
}

// ListController fetches one page at a time for the current view parameters.
// Begin, Fetch and Apply split a refresh so the fetch can run off the UI
// loop; Refresh runs all three in place.
type ListController struct {
	gw     gateway.Gateway
	params *state.Params
	errs   *state.Errors

	mu      sync.Mutex
	token   uint64
	loading bool
	scope   Scope
	current Listing
	number  int
	applied Request
	hasPage bool
}

// NewListController wires a controller to its gateway and shared stores.
func NewListController(gw gateway.Gateway, params *state.Params, errs *state.Errors) *ListController {
	return &ListController{gw: gw, params: params, errs: errs}
}

// Begin issues a new token for page and marks the list loading.
func (c *ListController) Begin(page int) Request {
	if page < 1 {
		page = 1
	}
	p := c.params.Get()
	p.Page = page

	c.mu.Lock()
	defer c.mu.Unlock()
	c.token++
	c.loading = true
	req := Request{Token: c.token, Page: page, Params: p, Scope: c.scope}
	log.Debug().Uint64("token", req.Token).Int("page", page).Str("view", string(p.View)).Msg("refresh begin")
	return req
}

// Fetch performs exactly one gateway call for req.
func (c *ListController) Fetch(ctx context.Context, req Request) Result {
	res := Result{Request: req}
	p := req.Params
	offset := (req.Page - 1) * p.PageSize

	if p.View == state.ViewCollection && !req.Scope.Scoped() {
		resp, err := c.gw.GetNftCollections(ctx, gateway.GetNftCollections{
			Offset:        offset,
			Limit:         p.PageSize,
			IncludeHidden: p.ShowHidden,
		})
		if err != nil {
			res.Err = err
			return res
		}
		res.Listing = Listing{Collections: resp.Collections, Total: resp.Total, Fetched: len(resp.Collections)}
		if len(resp.Collections) < p.PageSize {
			name := UncategorizedName
			res.Listing.Collections = append(res.Listing.Collections, gateway.NftCollectionRecord{
				CollectionID: gateway.NoCollection,
				Name:         &name,
				Visible:      true,
			})
		}
		return res
	}

	q := gateway.GetNfts{
		CollectionID:  req.Scope.CollectionID,
		DidID:         req.Scope.DidID,
		Offset:        offset,
		Limit:         p.PageSize,
		SortMode:      gateway.SortName,
		IncludeHidden: p.ShowHidden,
	}
	if p.View == state.ViewRecent {
		q.SortMode = gateway.SortRecent
	}
	if p.Query != "" {
		name := p.Query
		q.Name = &name
	}
	resp, err := c.gw.GetNfts(ctx, q)
	if err != nil {
		res.Err = err
		return res
	}
	res.Listing = Listing{Nfts: resp.Nfts, Total: resp.Total, Fetched: len(resp.Nfts)}
	return res
}

// Apply installs res if it answers the latest request and reports whether it
// did. Failures go to the error surface and keep the previous page.
func (c *ListController) Apply(res Result) bool {
	c.mu.Lock()
	if res.Token != c.token {
		latest := c.token
		c.mu.Unlock()
		log.Debug().Uint64("token", res.Token).Uint64("latest", latest).Msg("discarding stale response")
		return false
	}
	c.loading = false
	if res.Err == nil {
		c.current = res.Listing
		c.number = res.Request.Page
		c.applied = res.Request
		c.hasPage = true
	}
	c.mu.Unlock()

	if res.Err != nil {
		log.Warn().Err(res.Err).Uint64("token", res.Token).Int("page", res.Request.Page).Msg("refresh failed")
		c.errs.Add(res.Err)
		return true
	}
	log.Debug().Uint64("token", res.Token).Int("page", res.Request.Page).Int("total", res.Listing.Total).Msg("refresh applied")
	return true
}

// Refresh runs a whole refresh synchronously.
func (c *ListController) Refresh(ctx context.Context, page int) Result {
	req := c.Begin(page)
	res := c.Fetch(ctx, req)
	c.Apply(res)
	return res
}

// Snapshot returns the current state.
func (c *ListController) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	size := c.applied.Params.PageSize
	if !c.hasPage {
		size = c.params.Get().PageSize
	}
	return Snapshot{
		Listing:  c.current,
		Number:   c.number,
		Request:  c.applied,
		Loading:  c.loading,
		HasPage:  c.hasPage,
		PageSize: size,
	}
}

// Loading reports whether the latest request is still outstanding.
func (c *ListController) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Scope returns the active scope.
func (c *ListController) Scope() Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}

// SetScope replaces the scope. The caller refreshes page 1 afterwards.
func (c *ListController) SetScope(s Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scope = s
}

// OnParamsChanged decides which page, if any, to refresh after the view
// parameters moved from prev to next.
func (c *ListController) OnParamsChanged(prev, next state.ViewParams) (int, bool) {
	if prev.FetchKey() != next.FetchKey() {
		return 1, true
	}
	if prev.Page != next.Page {
		return next.Page, true
	}
	return 0, false
}

// OnSyncEvent returns the page to refresh for ev, if it is one that changes
// the list.
func (c *ListController) OnSyncEvent(ev gateway.SyncEvent) (int, bool) {
	if !RefreshesOn(ev.Type) {
		return 0, false
	}
	return c.params.Get().Page, true
}
