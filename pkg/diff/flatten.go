package diff

// Flatten returns a depth-first pre-order view of a change forest: every
// change followed by its descendants. The input is not modified; the
// returned slice shares the underlying Change values by copy.
func Flatten(changes []Change) []Change {
	var out []Change

	var walk func(list []Change)

	walk = func(list []Change) {
		for idx := range list {
			out = append(out, list[idx])
			walk(list[idx].Children)
		}
	}

	walk(changes)

	return out
}

// CountAll returns the total number of changes in the forest, descendants
// included.
func CountAll(changes []Change) int {
	count := 0

	for idx := range changes {
		count += 1 + CountAll(changes[idx].Children)
	}

	return count
}

// FindByName returns every change in the forest whose name matches,
// in pre-order.
func FindByName(changes []Change, name string) []Change {
	var out []Change

	for _, change := range Flatten(changes) {
		if change.Name == name {
			out = append(out, change)
		}
	}

	return out
}

// OfKind returns every change in the forest of the given symbol kind,
// in pre-order.
func OfKind(changes []Change, kind SymbolKind) []Change {
	var out []Change

	for _, change := range Flatten(changes) {
		if change.Kind == kind {
			out = append(out, change)
		}
	}

	return out
}

// OfImpactAtLeast returns every change in the forest at or above the given
// impact level, in pre-order.
func OfImpactAtLeast(changes []Change, minimum ImpactLevel) []Change {
	var out []Change

	for _, change := range Flatten(changes) {
		if change.Impact >= minimum {
			out = append(out, change)
		}
	}

	return out
}
