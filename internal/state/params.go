package state

import (
	"fmt"
	"strings"
)

// View selects how the NFT list is queried and grouped.
type View string

const (
	ViewName       View = "name"
	ViewRecent     View = "recent"
	ViewCollection View = "collection"
)

// ParseView accepts the configuration spelling of a view.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewName, ViewRecent, ViewCollection:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// ViewParams drives every NFT list fetch.
type ViewParams struct {
	Page       int
	PageSize   int
	View       View
	ShowHidden bool
	Query      string
}

// DefaultViewParams is used when nothing was persisted.
func DefaultViewParams() ViewParams {
	return ViewParams{Page: 1, PageSize: 24, View: ViewName}
}

// ParamsPatch is a partial update; nil fields are left alone.
type ParamsPatch struct {
	Page       *int
	PageSize   *int
	View       *View
	ShowHidden *bool
	Query      *string
}

// Normalize clamps page and page size to at least one and fills an empty view.
func (p ViewParams) Normalize() ViewParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultViewParams().PageSize
	}
	if p.View == "" {
		p.View = ViewName
	}
	return p
}

// Merge applies patch. A change of view, hidden filter, query or page size
// invalidates the current page, so page goes back to 1 even when the patch
// also carries a page.
func (p ViewParams) Merge(patch ParamsPatch) ViewParams {
	next := p
	if patch.Page != nil {
		next.Page = *patch.Page
	}
	if patch.PageSize != nil {
		next.PageSize = *patch.PageSize
	}
	if patch.View != nil {
		next.View = *patch.View
	}
	if patch.ShowHidden != nil {
		next.ShowHidden = *patch.ShowHidden
	}
	if patch.Query != nil {
		next.Query = strings.TrimSpace(*patch.Query)
	}
	if next.FetchKey() != p.FetchKey() {
		next.Page = 1
	}
	return next.Normalize()
}

// FetchKey identifies everything except the page that affects a fetch.
func (p ViewParams) FetchKey() string {
	return fmt.Sprintf("%d|%s|%t|%s", p.PageSize, p.View, p.ShowHidden, p.Query)
}

// ClampPage keeps page within [1, totalPages].
func (p ViewParams) ClampPage(totalPages int) ViewParams {
	if totalPages < 1 {
		totalPages = 1
	}
	if p.Page > totalPages {
		p.Page = totalPages
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

// Params is the view parameter store.
type Params struct {
	*Store[ViewParams]
}

// NewParams returns a parameter store seeded with initial.
func NewParams(initial ViewParams) *Params {
	return &Params{Store: NewStore(initial.Normalize())}
}

// SetParams merges patch into the current parameters.
func (p *Params) SetParams(patch ParamsPatch) ViewParams {
	return p.Update(func(cur ViewParams) ViewParams { return cur.Merge(patch) })
}

// ClampPage applies ViewParams.ClampPage, notifying only when page moves.
func (p *Params) ClampPage(totalPages int) ViewParams {
	cur := p.Get()
	next := cur.ClampPage(totalPages)
	if next == cur {
		return cur
	}
	return p.Update(func(v ViewParams) ViewParams { return v.ClampPage(totalPages) })
}

// Helpers for building patches inline.
func Int(v int) *int          { return &v }
func Bool(v bool) *bool       { return &v }
func String(v string) *string { return &v }
func ViewOf(v View) *View     { return &v }
