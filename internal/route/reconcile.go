package route

import "github.com/wanderlist/wanderlist/internal/item"

// reconcileOrder rebuilds the stop sequence from an optimizer's name list.
// Each returned name is matched against an unused original stop by exact
// name, in the optimizer's order. Originals the optimizer dropped or renamed
// are appended afterwards in their original order, so no stop is ever lost
// to a lossy optimizer response.
func reconcileOrder(stops []item.Stop, orderedNames []string) []item.Stop {
	used := make([]bool, len(stops))
	out := make([]item.Stop, 0, len(stops))

	for _, name := range orderedNames {
		for i := range stops {
			if !used[i] && stops[i].Name == name {
				out = append(out, stops[i])
				used[i] = true
				break
			}
		}
	}

	for i := range stops {
		if !used[i] {
			out = append(out, stops[i])
		}
	}

	return out
}
