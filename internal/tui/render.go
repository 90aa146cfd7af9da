package tui

import (
	"fmt"
	"strings"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/service"
	"github.com/jask/nftdesk/internal/state"
)

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(a.renderHeader())
	b.WriteString("\n")
	b.WriteString(a.renderList())
	b.WriteString("\n")
	b.WriteString(a.renderFooter())

	switch {
	case a.flow.Response != nil:
		b.WriteString("\n\n" + a.renderResponse())
	case a.dlg != nil:
		b.WriteString("\n\n" + a.renderDialog())
	case a.modal == modalActions:
		b.WriteString("\n\n" + a.renderMenu())
	}
	return b.String()
}

func (a *App) renderHeader() string {
	p := a.deps.Params.Get()
	title := "NFTs"
	if a.showingCollections() {
		title = "Collections"
	}
	if a.scopeName != "" {
		title += " in " + a.scopeName
	}
	parts := []string{titleStyle.Render(title), dimStyle.Render("sorted by " + string(p.View))}
	if p.ShowHidden {
		parts = append(parts, badgeStyle.Render("showing hidden"))
	}
	if p.Query != "" {
		parts = append(parts, badgeStyle.Render("search: "+p.Query))
	}
	if n := len(a.deps.Offer.Get().Offered.Nfts); n > 0 {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("%d in offer", n)))
	}
	if a.sel.Enabled() {
		parts = append(parts, selectedStyle.Render(fmt.Sprintf("multi-select: %d selected", a.sel.Len())))
	}
	return strings.Join(parts, "  ")
}

func (a *App) renderList() string {
	snap := a.list.Snapshot()
	if !snap.HasPage {
		if snap.Loading {
			return a.spinner.View() + " loading..."
		}
		return dimStyle.Render("nothing loaded")
	}
	var lines []string
	if a.showingCollections() {
		for i, c := range snap.Listing.Collections {
			line := collectionLabel(c)
			if !c.Visible {
				line += dimStyle.Render(" (hidden)")
			}
			lines = append(lines, a.row(i, "", line))
		}
	} else {
		for i, n := range snap.Listing.Nfts {
			check := ""
			if a.sel.Enabled() {
				check = "[ ] "
				if a.sel.Contains(n.LauncherID) {
					check = selectedStyle.Render("[x] ")
				}
			}
			lines = append(lines, a.row(i, check, nftLine(n)))
		}
	}
	if len(lines) == 0 {
		if a.deps.Params.Get().Query != "" {
			return dimStyle.Render("no nfts match the search")
		}
		return dimStyle.Render("no nfts")
	}
	return strings.Join(lines, "\n")
}

func (a *App) row(i int, prefix, text string) string {
	if i == a.cursor {
		return cursorStyle.Render("▶ ") + prefix + text
	}
	return "  " + prefix + text
}

func (a *App) renderFooter() string {
	snap := a.list.Snapshot()
	pager := snap.Pager()
	nav := fmt.Sprintf("page %d of %d", pager.Page, pager.TotalPages)
	if pager.HasPrev {
		nav = "‹ " + nav
	}
	if pager.HasNext {
		nav += " ›"
	}
	if snap.Loading && snap.HasPage {
		nav += " " + a.spinner.View()
	}
	out := dimStyle.Render(nav)
	if a.search != nil {
		out += "\n" + a.search.input.View()
	}
	if e, ok := a.deps.Errors.Latest(); ok {
		more := ""
		if n := len(a.deps.Errors.Get()); n > 1 {
			more = fmt.Sprintf(" (+%d more)", n-1)
		}
		out += "\n" + errorStyle.Render("error: "+e.Err.Error()) + more + dimStyle.Render("  [x] dismiss")
	}
	if a.status != "" {
		out += "\n" + statusStyle.Render(a.status)
	}
	k := a.keys
	out += "\n" + dimStyle.Render(help(k.Up, k.Down, k.Prev, k.Next, k.View, k.Hidden, k.PageSize, k.Search))
	out += "\n" + dimStyle.Render(help(k.Open, k.Back, k.Multi, k.Select, k.Actions, k.Visibility, k.Copy, k.Refresh, k.Quit))
	return out
}

func (a *App) renderMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Actions for %d nfts", a.sel.Len())))
	for i, act := range service.Actions {
		b.WriteString("\n")
		b.WriteString(a.menuRow(i, act.Label()))
	}
	b.WriteString("\n[enter] choose  [esc] cancel")
	return modalStyle.Render(b.String())
}

func (a *App) menuRow(i int, label string) string {
	if i == a.menuCursor {
		return cursorStyle.Render("▶ " + label)
	}
	return "  " + label
}

func (a *App) renderDialog() string {
	d := a.dlg
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d nfts", d.action.Label(), a.sel.Len())))
	switch d.action {
	case service.ActionTransfer:
		b.WriteString("\n" + d.address.View())
	case service.ActionAssign:
		b.WriteString("\n" + d.profile.View())
		opts := append([]string{"(no profile)"}, profileLabels(d.ranked)...)
		for i, o := range opts {
			if i == d.choice {
				b.WriteString("\n" + cursorStyle.Render("▶ "+o))
			} else {
				b.WriteString("\n  " + o)
			}
		}
	case service.ActionBurn:
		b.WriteString("\n" + dangerStyle.Render("Burned nfts are sent to "+d.burnTo+" and cannot be recovered."))
	}
	b.WriteString("\n" + d.fee.View())
	if d.submitting {
		b.WriteString("\n" + a.spinner.View() + " submitting...")
	} else {
		b.WriteString("\n[enter] submit  [tab] next field  [esc] cancel")
	}
	return modalStyle.Render(b.String())
}

func (a *App) renderResponse() string {
	resp := a.flow.Response
	unit := a.deps.Wallet.Get().Sync.Unit
	var b strings.Builder
	b.WriteString(titleStyle.Render(a.flow.Done.Label() + " submitted"))
	b.WriteString("\nTransaction: " + resp.Summary.ID)
	b.WriteString(fmt.Sprintf("\nFee: %s %s", service.FormatBaseUnits(resp.Summary.Fee, unit.Decimals), unit.Ticker))
	b.WriteString(fmt.Sprintf("\nInputs: %d  Outputs: %d  Coin spends: %d", len(resp.Summary.Inputs), len(resp.Summary.Outputs), len(resp.CoinSpends)))
	for _, o := range resp.Summary.Outputs {
		b.WriteString("\n  → " + o.Address)
	}
	b.WriteString("\n[enter] done")
	return modalStyle.Render(b.String())
}

func nftLine(n gateway.NftRecord) string {
	name := "Unnamed"
	if n.Name != nil && *n.Name != "" {
		name = *n.Name
	}
	line := name
	if n.EditionNumber != nil && n.EditionTotal != nil {
		line += fmt.Sprintf(" #%d/%d", *n.EditionNumber, *n.EditionTotal)
	}
	if n.CollectionName != nil {
		line += dimStyle.Render("  " + *n.CollectionName)
	}
	if n.SensitiveContent {
		line += badgeStyle.Render(" (sensitive)")
	}
	if !n.Visible {
		line += dimStyle.Render(" (hidden)")
	}
	return line
}

func collectionLabel(c gateway.NftCollectionRecord) string {
	if c.Name != nil && *c.Name != "" {
		return *c.Name
	}
	return c.CollectionID
}

func profileLabels(dids []gateway.DidRecord) []string {
	out := make([]string, len(dids))
	for i, d := range dids {
		out[i] = service.ProfileLabel(d)
	}
	return out
}

// ListText renders one page for non-interactive output.
func ListText(p state.ViewParams, snap service.Snapshot, collections bool) string {
	var b strings.Builder
	if collections {
		for _, c := range snap.Listing.Collections {
			fmt.Fprintf(&b, "%-64s  %s\n", c.CollectionID, collectionLabel(c))
		}
	} else {
		for _, n := range snap.Listing.Nfts {
			fmt.Fprintf(&b, "%-36s  %s\n", n.LauncherID, nftLine(n))
		}
	}
	pager := snap.Pager()
	fmt.Fprintf(&b, "page %d of %d (%d total, sorted by %s)\n", pager.Page, pager.TotalPages, snap.Listing.Total, p.View)
	return b.String()
}
