package service

import "slices"

// Selection tracks multi-select mode and the ids picked while in it. It is
// owned by the UI loop and not safe for concurrent use.
type Selection struct {
	enabled bool
	ids     []string
}

// Enable enters multi-select with an empty selection.
func (s *Selection) Enable() {
	s.enabled = true
	s.ids = nil
}

// Disable leaves multi-select and drops every selected id.
func (s *Selection) Disable() {
	s.enabled = false
	s.ids = nil
}

func (s *Selection) Enabled() bool { return s.enabled }

// Toggle makes id's membership equal selected. Outside multi-select it does
// nothing.
func (s *Selection) Toggle(id string, selected bool) {
	if !s.enabled {
		return
	}
	idx := slices.Index(s.ids, id)
	switch {
	case selected && idx < 0:
		s.ids = append(s.ids, id)
	case !selected && idx >= 0:
		s.ids = slices.Delete(s.ids, idx, idx+1)
	}
}

// Flip inverts id's membership.
func (s *Selection) Flip(id string) {
	s.Toggle(id, !s.Contains(id))
}

func (s *Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selection in pick order.
func (s *Selection) IDs() []string {
	return slices.Clone(s.ids)
}

func (s *Selection) Len() int { return len(s.ids) }

// Clear empties the selection and keeps the mode.
func (s *Selection) Clear() {
	s.ids = nil
}
