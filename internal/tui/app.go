// Package tui is the bubbletea front end of the NFT browser.
package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/prefs"
	"github.com/jask/nftdesk/internal/service"
	"github.com/jask/nftdesk/internal/state"
)

// Deps are the shared containers and backend the application root owns.
type Deps struct {
	Gateway   gateway.Gateway
	Params    *state.Params
	Wallet    *state.Store[state.WalletState]
	Offer     *state.Store[state.OfferState]
	Errors    *state.Errors
	StateFile string
	// Copy puts text on the clipboard. Defaults to the system clipboard.
	Copy func(string) error
}

// App is the NFT browser.
type App struct {
	ctx  context.Context
	deps Deps
	keys keyMap

	list *service.ListController
	bulk *service.BulkActions
	sel  service.Selection
	flow service.ActionFlow

	modal      modalState
	menuCursor int
	dlg        *dialog
	search     *searchBox
	cursor     int
	scopeName  string
	status     string
	spinner    spinner.Model

	sub         gateway.Subscription
	unsubParams func()
	lastParams  state.ViewParams
	queued      int
	closed      bool
}

type modalState string

const (
	modalNone    modalState = ""
	modalActions modalState = "actions"
)

var (
	viewCycle = []state.View{state.ViewName, state.ViewRecent, state.ViewCollection}
	pageSizes = []int{12, 24, 48, 96}
)

func New(ctx context.Context, deps Deps) *App {
	if deps.Copy == nil {
		deps.Copy = clipboard.WriteAll
	}
	if deps.Errors == nil {
		deps.Errors = state.NewErrors()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	a := &App{
		ctx:     ctx,
		deps:    deps,
		keys:    defaultKeys(),
		list:    service.NewListController(deps.Gateway, deps.Params, deps.Errors),
		spinner: sp,
		bulk: &service.BulkActions{
			Gateway: deps.Gateway,
			Wallet:  deps.Wallet,
			Offer:   deps.Offer,
			Errors:  deps.Errors,
		},
	}
	a.watchParams()
	return a
}

// watchParams turns every parameter change into at most one queued refresh.
func (a *App) watchParams() {
	a.lastParams = a.deps.Params.Get()
	a.unsubParams = a.deps.Params.Subscribe(func(next state.ViewParams) {
		if next.FetchKey() != a.lastParams.FetchKey() {
			a.sel.Clear()
			a.cursor = 0
		}
		if page, ok := a.list.OnParamsChanged(a.lastParams, next); ok {
			a.queued = page
		}
		a.lastParams = next
	})
}

func (a *App) setParams(patch state.ParamsPatch) tea.Cmd {
	a.deps.Params.SetParams(patch)
	return a.flush()
}

func (a *App) flush() tea.Cmd {
	if a.queued == 0 {
		return nil
	}
	page := a.queued
	a.queued = 0
	return a.refresh(page)
}

func (a *App) Init() tea.Cmd {
	a.sub = a.deps.Gateway.Subscribe()
	log.Info().Msg("sync event subscription opened")
	return tea.Batch(
		a.spinner.Tick,
		a.loadWallet(),
		a.refresh(a.deps.Params.Get().Page),
		waitForEvent(a.sub),
	)
}

// Close tears down the event subscription and persists the view parameters.
// It is safe to call more than once.
func (a *App) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.sub != nil {
		a.sub.Close()
		a.sub = nil
		log.Info().Msg("sync event subscription closed")
	}
	if a.unsubParams != nil {
		a.unsubParams()
	}
	if err := prefs.SaveView(a.deps.StateFile, a.deps.Params.Get()); err != nil {
		log.Error().Err(err).Str("path", a.deps.StateFile).Msg("save view params")
	}
}

// commands

func (a *App) refresh(page int) tea.Cmd {
	req := a.list.Begin(page)
	return func() tea.Msg {
		return listMsg(a.list.Fetch(a.ctx, req))
	}
}

func (a *App) loadWallet() tea.Cmd {
	return func() tea.Msg {
		status, err := a.deps.Gateway.GetSyncStatus(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return walletMsg(status)
	}
}

func (a *App) loadDids() tea.Cmd {
	return func() tea.Msg {
		dids, err := a.deps.Gateway.GetDids(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return didsMsg(dids)
	}
}

func waitForEvent(sub gateway.Subscription) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-sub.Events()
		if !ok {
			return nil
		}
		return syncEventMsg{ev: ev, sub: sub}
	}
}

func (a *App) setVisibleCmd(id string, collection, visible bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if collection {
			err = a.deps.Gateway.UpdateNftCollection(a.ctx, gateway.UpdateNftCollection{CollectionID: id, Visible: visible})
		} else {
			err = a.deps.Gateway.UpdateNft(a.ctx, gateway.UpdateNft{NftID: id, Visible: visible})
		}
		if err != nil {
			return errMsg{err}
		}
		if visible {
			return visibilityMsg("shown")
		}
		return visibilityMsg("hidden")
	}
}

func (a *App) submitCmd(d dialog, ids []string) tea.Cmd {
	action, address, fee, profile := d.action, d.address.Value(), d.fee.Value(), d.chosenProfile()
	return func() tea.Msg {
		var (
			resp gateway.TransactionResponse
			err  error
		)
		switch action {
		case service.ActionTransfer:
			resp, err = a.bulk.Transfer(a.ctx, ids, address, fee)
		case service.ActionAssign:
			resp, err = a.bulk.Assign(a.ctx, ids, profile, fee)
		case service.ActionBurn:
			resp, err = a.bulk.Burn(a.ctx, ids, fee)
		}
		return actionDoneMsg{action: action, resp: resp, err: err}
	}
}

// Update

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a.quit()
		}
		switch {
		case a.flow.Response != nil:
			return a.handleResponseKey(m)
		case a.dlg != nil:
			return a.handleDialogKey(m)
		case a.modal == modalActions:
			return a.handleMenuKey(m)
		case a.search != nil:
			return a.handleSearchKey(m)
		}
		return a.handleKey(m)
	case listMsg:
		if a.closed {
			return a, nil
		}
		if !a.list.Apply(service.Result(m)) {
			return a, nil
		}
		a.clampCursor()
		if m.Err == nil {
			// the total may have shrunk under the current page
			total := a.list.Snapshot().Pager().TotalPages
			if a.deps.Params.Get().Page > total {
				a.deps.Params.ClampPage(total)
				return a, a.flush()
			}
		}
	case syncEventMsg:
		if a.closed || m.sub != a.sub {
			return a, nil
		}
		cmds := []tea.Cmd{waitForEvent(a.sub)}
		if page, ok := a.list.OnSyncEvent(m.ev); ok {
			cmds = append(cmds, a.refresh(page))
		}
		if m.ev.Type == gateway.EventCoinState {
			cmds = append(cmds, a.loadWallet())
		}
		return a, tea.Batch(cmds...)
	case walletMsg:
		a.deps.Wallet.Set(state.WalletState{Sync: gateway.SyncStatus(m)})
	case didsMsg:
		if a.dlg != nil {
			a.dlg.setProfiles([]gateway.DidRecord(m))
		}
	case actionDoneMsg:
		a.flow.Resolve(m.action, m.resp, m.err)
		a.dlg = nil
		if m.err == nil {
			a.status = m.action.Label() + " submitted"
		}
	case visibilityMsg:
		a.status = "nft " + string(m)
		return a, a.refresh(a.deps.Params.Get().Page)
	case errMsg:
		a.deps.Errors.Add(m.error)
	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := a.deps.Params.Get()
	switch {
	case key.Matches(m, a.keys.Quit):
		return a.quit()
	case key.Matches(m, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.cursor < a.rows()-1 {
			a.cursor++
		}
	case key.Matches(m, a.keys.Prev):
		if a.list.Snapshot().Pager().HasPrev {
			a.cursor = 0
			return a, a.setParams(state.ParamsPatch{Page: state.Int(p.Page - 1)})
		}
	case key.Matches(m, a.keys.Next):
		if a.list.Snapshot().Pager().HasNext {
			a.cursor = 0
			return a, a.setParams(state.ParamsPatch{Page: state.Int(p.Page + 1)})
		}
	case key.Matches(m, a.keys.View):
		next := viewCycle[0]
		for i, v := range viewCycle {
			if v == p.View {
				next = viewCycle[(i+1)%len(viewCycle)]
			}
		}
		return a, a.setParams(state.ParamsPatch{View: state.ViewOf(next)})
	case key.Matches(m, a.keys.Hidden):
		return a, a.setParams(state.ParamsPatch{ShowHidden: state.Bool(!p.ShowHidden)})
	case key.Matches(m, a.keys.PageSize):
		next := pageSizes[0]
		for _, size := range pageSizes {
			if size > p.PageSize {
				next = size
				break
			}
		}
		return a, a.setParams(state.ParamsPatch{PageSize: state.Int(next)})
	case key.Matches(m, a.keys.Search):
		a.search = newSearchBox(p.Query)
		return a, a.search.input.Focus()
	case key.Matches(m, a.keys.Multi):
		if a.sel.Enabled() {
			a.sel.Disable()
			a.status = "multi-select off"
			return a, nil
		}
		if a.showingCollections() {
			a.status = "open a collection to select nfts"
			return a, nil
		}
		a.sel.Enable()
		a.status = "multi-select on"
	case key.Matches(m, a.keys.Select):
		if nft, ok := a.currentNft(); ok && a.sel.Enabled() {
			a.sel.Flip(nft.LauncherID)
		}
	case key.Matches(m, a.keys.Actions):
		if !a.sel.Enabled() || a.sel.Len() == 0 {
			a.status = "select nfts first"
			return a, nil
		}
		a.modal = modalActions
		a.menuCursor = 0
	case key.Matches(m, a.keys.Open):
		if col, ok := a.currentCollection(); ok {
			id := col.CollectionID
			a.scopeName = collectionLabel(col)
			return a, a.rescope(service.Scope{CollectionID: &id})
		}
	case key.Matches(m, a.keys.Back):
		if a.sel.Enabled() {
			a.sel.Disable()
			return a, nil
		}
		if a.list.Scope().Scoped() {
			a.scopeName = ""
			return a, a.rescope(service.Scope{})
		}
	case key.Matches(m, a.keys.Copy):
		if id, ok := a.currentID(); ok {
			if err := a.deps.Copy(id); err != nil {
				a.deps.Errors.Add(fmt.Errorf("copy id: %w", err))
				return a, nil
			}
			a.status = "copied " + id
		}
	case key.Matches(m, a.keys.Refresh):
		// a resync reaches the list through its sync event
		if rs, ok := a.deps.Gateway.(gateway.Resyncer); ok {
			rs.Resync()
			log.Debug().Msg("resync requested")
			return a, a.loadWallet()
		}
		return a, a.refresh(p.Page)
	case key.Matches(m, a.keys.Dismiss):
		a.deps.Errors.Dismiss()
	case key.Matches(m, a.keys.Visibility):
		if col, ok := a.currentCollection(); ok {
			if col.CollectionID == gateway.NoCollection {
				return a, nil
			}
			return a, a.setVisibleCmd(col.CollectionID, true, !col.Visible)
		}
		if nft, ok := a.currentNft(); ok {
			return a, a.setVisibleCmd(nft.LauncherID, false, !nft.Visible)
		}
	}
	return a, nil
}

// rescope changes the collection scope and reloads from page 1.
func (a *App) rescope(s service.Scope) tea.Cmd {
	a.list.SetScope(s)
	a.sel.Disable()
	a.cursor = 0
	a.deps.Params.SetParams(state.ParamsPatch{Page: state.Int(1)})
	a.queued = 1
	return a.flush()
}

func (a *App) handleMenuKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Back):
		a.modal = modalNone
	case key.Matches(m, a.keys.Up):
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.menuCursor < len(service.Actions)-1 {
			a.menuCursor++
		}
	case key.Matches(m, a.keys.Open):
		a.modal = modalNone
		action := service.Actions[a.menuCursor]
		if action == service.ActionAddToOffer {
			n, err := a.bulk.AddToOffer(a.sel.IDs())
			if err != nil {
				return a, nil
			}
			a.sel.Disable()
			a.status = fmt.Sprintf("added %d nfts to offer", n)
			return a, nil
		}
		if err := a.flow.Open(action, &a.sel); err != nil {
			a.deps.Errors.Add(err)
			return a, nil
		}
		a.dlg = newDialog(action, a.deps.Wallet.Get().Sync)
		cmds := []tea.Cmd{a.dlg.focusCmd()}
		if action == service.ActionAssign {
			cmds = append(cmds, a.loadDids())
		}
		return a, tea.Batch(cmds...)
	}
	return a, nil
}

func (a *App) handleDialogKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.dlg.submitting {
		return a, nil
	}
	switch {
	case key.Matches(m, a.keys.Back):
		a.flow.Close()
		a.dlg = nil
		return a, nil
	case key.Matches(m, a.keys.Tab):
		return a, a.dlg.cycleFocus()
	case m.String() == "enter":
		a.dlg.submitting = true
		return a, a.submitCmd(*a.dlg, a.sel.IDs())
	case a.dlg.onProfileList() && (m.String() == "up" || m.String() == "down"):
		a.dlg.moveProfile(m.String() == "down")
		return a, nil
	}
	return a, a.dlg.update(m)
}

func (a *App) handleResponseKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "enter", "esc", "y":
		a.flow.Acknowledge(&a.sel)
		a.status = ""
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc":
		a.search = nil
		return a, nil
	case "enter":
		q := a.search.input.Value()
		a.search = nil
		return a, a.setParams(state.ParamsPatch{Query: state.String(q)})
	}
	var cmd tea.Cmd
	a.search.input, cmd = a.search.input.Update(m)
	return a, cmd
}

// cursor helpers

func (a *App) showingCollections() bool {
	return a.deps.Params.Get().View == state.ViewCollection && !a.list.Scope().Scoped()
}

func (a *App) rows() int {
	l := a.list.Snapshot().Listing
	if a.showingCollections() {
		return len(l.Collections)
	}
	return len(l.Nfts)
}

func (a *App) clampCursor() {
	if n := a.rows(); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
}

func (a *App) currentNft() (gateway.NftRecord, bool) {
	if a.showingCollections() {
		return gateway.NftRecord{}, false
	}
	nfts := a.list.Snapshot().Listing.Nfts
	if a.cursor < 0 || a.cursor >= len(nfts) {
		return gateway.NftRecord{}, false
	}
	return nfts[a.cursor], true
}

func (a *App) currentCollection() (gateway.NftCollectionRecord, bool) {
	if !a.showingCollections() {
		return gateway.NftCollectionRecord{}, false
	}
	cols := a.list.Snapshot().Listing.Collections
	if a.cursor < 0 || a.cursor >= len(cols) {
		return gateway.NftCollectionRecord{}, false
	}
	return cols[a.cursor], true
}

func (a *App) currentID() (string, bool) {
	if col, ok := a.currentCollection(); ok {
		return col.CollectionID, true
	}
	if nft, ok := a.currentNft(); ok {
		return nft.LauncherID, true
	}
	return "", false
}

// messages
type listMsg service.Result

type syncEventMsg struct {
	ev  gateway.SyncEvent
	sub gateway.Subscription
}

type walletMsg gateway.SyncStatus

type didsMsg []gateway.DidRecord

type actionDoneMsg struct {
	action service.Action
	resp   gateway.TransactionResponse
	err    error
}

type visibilityMsg string

type errMsg struct{ error }
