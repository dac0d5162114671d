// internal/core/services/reconciler.go
package services

import (
	"sort"
	"strconv"

	"github.com/estoqueapp/estoque/internal/core/domain"
)

// Merge reconciles two movement lists into one deduplicated ledger.
//
// Entries are keyed by the string form of their id. primary is inserted
// first and secondary second, and a later insertion with the same id
// overwrites the earlier one, so on a collision the secondary entry is the
// one that survives. Callers pass the freshly fetched list as primary and
// the local cache as secondary, which means a cached duplicate replaces the
// server record for that id (see the reconciliation notes in DESIGN.md
// before changing this direction: existing cached ledgers depend on it).
//
// Movements without an id are dropped. The result keeps each id at its
// first-insertion position and is then stably sorted by timestamp
// descending; timestamps that failed to parse decode as the zero time and
// end up last, their order among themselves unspecified.
func Merge(primary, secondary []domain.Movement) []domain.Movement {
	index := make(map[string]int, len(primary)+len(secondary))
	merged := make([]domain.Movement, 0, len(primary)+len(secondary))

	for _, list := range [][]domain.Movement{primary, secondary} {
		for _, m := range list {
			if m.ID == 0 {
				continue
			}
			key := strconv.FormatInt(m.ID, 10)
			if at, ok := index[key]; ok {
				merged[at] = m
				continue
			}
			index[key] = len(merged)
			merged = append(merged, m)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp.Time)
	})
	return merged
}
