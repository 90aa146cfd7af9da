package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/nftdesk/internal/gateway"
	"github.com/jask/nftdesk/internal/service"
)

// dialog collects the parameters of a transfer, assign or burn.
type dialog struct {
	action     service.Action
	unit       gateway.Unit
	burnTo     string
	address    textinput.Model
	fee        textinput.Model
	profile    textinput.Model
	dids       []gateway.DidRecord
	ranked     []gateway.DidRecord
	choice     int // 0 is "no profile"
	focus      int
	submitting bool
}

func newDialog(action service.Action, sync gateway.SyncStatus) *dialog {
	d := &dialog{action: action, unit: sync.Unit, burnTo: sync.BurnAddress}

	d.address = textinput.New()
	d.address.Placeholder = "xch1..."
	d.address.Prompt = "Address: "
	d.address.CharLimit = 128

	d.fee = textinput.New()
	d.fee.Placeholder = "0"
	d.fee.Prompt = "Fee (" + sync.Unit.Ticker + "): "
	d.fee.CharLimit = 32

	d.profile = textinput.New()
	d.profile.Placeholder = "filter profiles"
	d.profile.Prompt = "Profile: "
	return d
}

// fields lists the inputs of the dialog in focus order.
func (d *dialog) fields() []*textinput.Model {
	switch d.action {
	case service.ActionTransfer:
		return []*textinput.Model{&d.address, &d.fee}
	case service.ActionAssign:
		return []*textinput.Model{&d.profile, &d.fee}
	default:
		return []*textinput.Model{&d.fee}
	}
}

func (d *dialog) focusCmd() tea.Cmd {
	fields := d.fields()
	for i, f := range fields {
		if i != d.focus {
			f.Blur()
		}
	}
	return fields[d.focus].Focus()
}

func (d *dialog) cycleFocus() tea.Cmd {
	d.focus = (d.focus + 1) % len(d.fields())
	return d.focusCmd()
}

func (d *dialog) update(m tea.KeyMsg) tea.Cmd {
	f := d.fields()[d.focus]
	before := f.Value()
	var cmd tea.Cmd
	*f, cmd = f.Update(m)
	if f == &d.profile && f.Value() != before {
		d.rank()
	}
	return cmd
}

func (d *dialog) onProfileList() bool {
	return d.action == service.ActionAssign && d.focus == 0
}

func (d *dialog) setProfiles(dids []gateway.DidRecord) {
	d.dids = dids
	d.rank()
}

func (d *dialog) rank() {
	d.ranked = service.RankProfiles(d.profile.Value(), d.dids)
	d.choice = 0
	if len(d.ranked) > 0 && d.profile.Value() != "" {
		d.choice = 1
	}
}

func (d *dialog) moveProfile(down bool) {
	switch {
	case down && d.choice < len(d.ranked):
		d.choice++
	case !down && d.choice > 0:
		d.choice--
	}
}

// chosenProfile is the assign target; nil removes the profile.
func (d *dialog) chosenProfile() *string {
	if d.choice == 0 || d.choice > len(d.ranked) {
		return nil
	}
	id := d.ranked[d.choice-1].LauncherID
	return &id
}

type searchBox struct {
	input textinput.Model
}

func newSearchBox(query string) *searchBox {
	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "name"
	in.SetValue(query)
	return &searchBox{input: in}
}
