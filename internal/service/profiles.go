package service

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/nftdesk/internal/gateway"
)

// ProfileLabel is the display name of a profile, falling back to its id.
func ProfileLabel(d gateway.DidRecord) string {
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" {
		return *d.Name
	}
	return d.LauncherID
}

// RankProfiles orders profiles for the assign picker. Prefix matches come
// first, then substring matches, then the rest by edit distance to query.
// Hidden profiles are dropped.
func RankProfiles(query string, dids []gateway.DidRecord) []gateway.DidRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	type ranked struct {
		did   gateway.DidRecord
		label string
		tier  int
		dist  int
	}
	out := make([]ranked, 0, len(dids))
	for _, d := range dids {
		if !d.Visible {
			continue
		}
		label := strings.ToLower(ProfileLabel(d))
		r := ranked{did: d, label: label, tier: 2}
		switch {
		case q == "" || strings.HasPrefix(label, q) || strings.HasPrefix(strings.ToLower(d.LauncherID), q):
			r.tier = 0
		case strings.Contains(label, q):
			r.tier = 1
		default:
			r.dist = levenshtein.ComputeDistance(q, label)
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].tier != out[j].tier {
			return out[i].tier < out[j].tier
		}
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].label < out[j].label
	})
	res := make([]gateway.DidRecord, len(out))
	for i, r := range out {
		res[i] = r.did
	}
	return res
}
