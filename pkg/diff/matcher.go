package diff

import (
	"slices"

	"github.com/randlee/structdiff/pkg/syntax"
)

// matchKey is the identity a sibling declaration is matched under.
type matchKey struct {
	name      string
	kind      SymbolKind
	signature string
}

func keyOf(node *syntax.Node) matchKey {
	kind, _ := symbolKindOf(node.Kind)

	// signatureOf renders a nil signature as "" and an empty parameter list
	// as "()", so signature-less nodes collide only with each other.
	return matchKey{
		name:      node.Name,
		kind:      kind,
		signature: signatureOf(node),
	}
}

// matchResult is the outcome of pairing two sibling sequences. Indices refer
// to the input slices.
type matchResult struct {
	matched      [][2]int
	unmatchedOld []int
	unmatchedNew []int
}

// matchSiblings pairs two ordered lists of sibling declarations by
// (name, kind, signature) identity in O(n+m): one hash-table build over the
// new side, one left-to-right pass over the old side. Overloads with
// identical keys pair in source order on both sides; a nil signature is a
// valid key component that collides only with other nil signatures of the
// same (name, kind).
func matchSiblings(oldChildren, newChildren []*syntax.Node) matchResult {
	index := make(map[matchKey][]int, len(newChildren))

	for idx, child := range newChildren {
		key := keyOf(child)
		index[key] = append(index[key], idx)
	}

	result := matchResult{}
	newUsed := make([]bool, len(newChildren))

	for oldIdx, child := range oldChildren {
		key := keyOf(child)

		queue := index[key]
		if len(queue) == 0 {
			result.unmatchedOld = append(result.unmatchedOld, oldIdx)

			continue
		}

		newIdx := queue[0]
		index[key] = queue[1:]
		newUsed[newIdx] = true

		result.matched = append(result.matched, [2]int{oldIdx, newIdx})
	}

	for newIdx := range newChildren {
		if !newUsed[newIdx] {
			result.unmatchedNew = append(result.unmatchedNew, newIdx)
		}
	}

	return result
}

// matchedRanks returns, for each matched pair, its rank among matched nodes
// on the old side and on the new side. A pair whose ranks differ has been
// repositioned relative to its matched siblings.
func matchedRanks(result matchResult) (oldRanks, newRanks map[int]int) {
	oldRanks = make(map[int]int, len(result.matched))
	newRanks = make(map[int]int, len(result.matched))

	newIndices := make([]int, 0, len(result.matched))

	for rank, pair := range result.matched {
		oldRanks[pair[0]] = rank

		newIndices = append(newIndices, pair[1])
	}

	slices.Sort(newIndices)

	for rank, newIdx := range newIndices {
		newRanks[newIdx] = rank
	}

	return oldRanks, newRanks
}
