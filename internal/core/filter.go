package core

import (
	"sort"
	"strconv"
	"strings"
)

// FilterLoads returns the loads matching all four axes of c, in input order.
//
// The search term matches client, origin, destination and carrier names
// case-insensitively, or the decimal form of the id. Status compares
// case-insensitively; client and carrier require an exact match. Sentinel
// or empty values disable their axis.
//
// The input slice is never modified; the result is always a new slice.
func FilterLoads(loads []Load, c FilterCriteria) []Load {
	term := strings.ToLower(c.Search)
	// Empty means unset, e.g. an omitted query parameter, and widens like the sentinel.
	filterStatus := c.Status != "" && c.Status != AllStatus
	filterClient := c.Client != "" && c.Client != AllClients
	filterCarrier := c.Carrier != "" && c.Carrier != AllCarriers

	out := make([]Load, 0, len(loads))
	for _, l := range loads {
		if c.Search != "" && !matchesSearch(l, term, c.Search) {
			continue
		}
		if filterStatus && !strings.EqualFold(string(l.Status), c.Status) {
			continue
		}
		if filterClient && l.ClientName != c.Client {
			continue
		}
		if filterCarrier && l.CarrierName != c.Carrier {
			continue
		}
		out = append(out, l)
	}
	return out
}

// matchesSearch reports whether l matches the lowered term, or whether its
// id contains the raw term.
func matchesSearch(l Load, lowered, raw string) bool {
	return strings.Contains(strings.ToLower(l.ClientName), lowered) ||
		strings.Contains(strings.ToLower(l.Origin), lowered) ||
		strings.Contains(strings.ToLower(l.Destination), lowered) ||
		strings.Contains(strings.ToLower(l.CarrierName), lowered) ||
		strings.Contains(strconv.Itoa(l.ID), raw)
}

// UniqueClients returns the distinct client names, sorted ascending.
func UniqueClients(loads []Load) []string {
	return uniqueSorted(loads, func(l Load) string { return l.ClientName })
}

// UniqueCarriers returns the distinct carrier names, sorted ascending.
func UniqueCarriers(loads []Load) []string {
	return uniqueSorted(loads, func(l Load) string { return l.CarrierName })
}

func uniqueSorted(loads []Load, field func(Load) string) []string {
	seen := make(map[string]bool, len(loads))
	out := make([]string, 0, len(loads))
	for _, l := range loads {
		v := field(l)
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
