package baseline

// Diff partitions the current ids against a baseline.
type Diff struct {
	New       []string
	Fixed     []string
	Unchanged int
}

// Compare computes new = current - base, fixed = base - current and the
// size of their intersection. New follows the order of current, Fixed the
// order of the baseline. A nil base yields an empty diff.
func Compare(current []string, base *Set) Diff {
	d := Diff{New: []string{}, Fixed: []string{}}
	if base == nil {
		return d
	}
	seen := make(map[string]struct{}, len(current))
	for _, id := range current {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if base.Has(id) {
			d.Unchanged++
		} else {
			d.New = append(d.New, id)
		}
	}
	for _, id := range base.ids {
		if _, ok := seen[id]; !ok {
			d.Fixed = append(d.Fixed, id)
		}
	}
	return d
}
