// Package prefs persists the NFT view parameters between runs.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jask/nftdesk/internal/config"
	"github.com/jask/nftdesk/internal/state"
)

// ViewFile is the on-disk form of state.ViewParams. The page is not stored;
// every run starts on page 1.
type ViewFile struct {
	PageSize   int    `yaml:"page_size"`
	View       string `yaml:"view"`
	ShowHidden bool   `yaml:"show_hidden"`
	Query      string `yaml:"query,omitempty"`
}

// Defaults derives the initial view parameters from configuration.
func Defaults(ui config.UIConfig) state.ViewParams {
	p := state.DefaultViewParams()
	p.PageSize = ui.PageSize
	if v, err := state.ParseView(ui.View); err == nil {
		p.View = v
	}
	p.ShowHidden = ui.ShowHidden
	return p.Normalize()
}

// LoadView overlays the saved view file at path onto fallback. A missing file
// is not an error. A page size outside [1, config.MaxPageSize] keeps the
// fallback's.
func LoadView(path string, fallback state.ViewParams) (state.ViewParams, error) {
	if path == "" {
		return fallback, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fallback, nil
		}
		return fallback, err
	}
	var f ViewFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fallback, fmt.Errorf("parse %s: %w", path, err)
	}

	p := fallback
	p.Page = 1
	if f.PageSize >= 1 && f.PageSize <= config.MaxPageSize {
		p.PageSize = f.PageSize
	}
	if v, err := state.ParseView(f.View); err == nil {
		p.View = v
	}
	p.ShowHidden = f.ShowHidden
	p.Query = f.Query
	return p.Normalize(), nil
}

// SaveView writes p to path atomically.
func SaveView(path string, p state.ViewParams) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(ViewFile{
		PageSize:   p.PageSize,
		View:       string(p.View),
		ShowHidden: p.ShowHidden,
		Query:      p.Query,
	})
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
