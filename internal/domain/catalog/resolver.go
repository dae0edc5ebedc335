package catalog

import (
	"sort"
	"strings"
)

// ResolutionKind tells how a free-text query matched the catalog.
type ResolutionKind int

const (
	NotFound ResolutionKind = iota
	Unique
	Ambiguous
)

// Resolution is the result of resolving a query. Entity is set for Unique,
// Candidates for Ambiguous.
type Resolution struct {
	Kind       ResolutionKind
	Entity     Entity
	Candidates []Entity
}

// Normalize canonicalizes a query the way players actually type it: trims,
// collapses runs of whitespace (full-width space included) to one ASCII
// space, maps the full-width colon to ":", and lowercases ASCII letters.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "　", " ")
	s = strings.ReplaceAll(s, "：", ":")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// Resolve maps a free-text query to catalog entities. An exact match on a
// canonical name or alias wins outright; otherwise every entity whose name
// or alias contains the query as a substring is a candidate. No edit
// distance, no phonetics.
func (c *Catalog) Resolve(query string) Resolution {
	q := Normalize(query)
	if q == "" {
		return Resolution{Kind: NotFound}
	}

	if e, ok := c.byKey[q]; ok {
		return Resolution{Kind: Unique, Entity: e}
	}

	var matches []Entity
	for _, e := range c.entities {
		if strings.Contains(Normalize(e.Name), q) {
			matches = append(matches, e)
			continue
		}
		for _, a := range e.Aliases {
			if strings.Contains(Normalize(a), q) {
				matches = append(matches, e)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return Resolution{Kind: NotFound}
	case 1:
		return Resolution{Kind: Unique, Entity: matches[0]}
	default:
		// Shorter names first so the most specific-looking candidates lead
		// the listing, then lexicographic for a reproducible order.
		sort.Slice(matches, func(i, j int) bool {
			if len(matches[i].Name) != len(matches[j].Name) {
				return len(matches[i].Name) < len(matches[j].Name)
			}
			return matches[i].Name < matches[j].Name
		})
		return Resolution{Kind: Ambiguous, Candidates: matches}
	}
}
