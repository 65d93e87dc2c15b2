package engine

import (
	"sort"
	"strings"

	"github.com/jockelind/lagerkoll/internal/availability"
)

// UnknownProbability is the summary used when no entry carries a
// probability label.
const UnknownProbability = "UNKNOWN"

// Summarize aggregates per-store records into a single total stock figure
// and a probability summary. Missing or non-numeric stock values contribute
// zero; the summary is the sorted, comma-joined set of distinct non-empty
// probability labels, or UNKNOWN when none are present.
func Summarize(records []availability.StoreStock) (int, string) {
	var total int
	seen := make(map[string]struct{})

	for i := range records {
		if n, ok := records[i].StockCount(); ok {
			total += n
		}
		if p := records[i].Probability; p != "" {
			seen[p] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return total, UnknownProbability
	}

	labels := make([]string, 0, len(seen))
	for p := range seen {
		labels = append(labels, p)
	}
	sort.Strings(labels)

	return total, strings.Join(labels, ", ")
}
