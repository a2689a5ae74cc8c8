package diff

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"sort"
	"sync"

	"github.com/randlee/structdiff/pkg/syntax"
)

// Sentinel errors for the diff engine.
var (
	// ErrNilInput indicates a required syntax tree was absent.
	ErrNilInput = errors.New("both syntax trees are required")

	// ErrUnknownImpactLevel indicates an unrecognized impact level token.
	ErrUnknownImpactLevel = errors.New("unknown impact level")

	// ErrUnknownWhitespaceMode indicates an unrecognized whitespace mode token.
	ErrUnknownWhitespaceMode = errors.New("unknown whitespace mode")
)

// Compare walks two syntax trees level by level and returns the hierarchical
// change forest, ordered by effective start line at every level. Each source
// node is reported at most once across the whole forest.
//
// Cancellation is cooperative through ctx: a cancelled compare returns an
// error wrapping the context's error and no partial result.
func Compare(ctx context.Context, oldRoot, newRoot *syntax.Node, opts Options) ([]Change, error) {
	if oldRoot == nil || newRoot == nil {
		return nil, ErrNilInput
	}

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	cmp := &comparer{
		opts:       opts,
		maxWorkers: runtime.GOMAXPROCS(0),
	}

	// Identical subtrees short-circuit before any per-level work. This is
	// what keeps comparing a file against itself O(tree) in a single
	// structural pass instead of per-node matching.
	if areEquivalent(oldRoot, newRoot, opts) {
		return []Change{}, nil
	}

	if oldRoot.Kind != newRoot.Kind {
		return cmp.compareIncompatibleRoots(ctx, oldRoot, newRoot)
	}

	level, err := cmp.compareLevel(ctx, oldRoot, newRoot)
	if err != nil {
		return nil, err
	}

	return level.changes, nil
}

// comparer carries the immutable options through one Compare invocation.
type comparer struct {
	opts       Options
	maxWorkers int
}

// levelResult is the outcome of comparing the children of one matched parent
// pair: the retained child changes plus caveats folded up from parameter and
// block-local declarations at this level.
type levelResult struct {
	changes []Change
	caveats []string
}

// pairResult is the outcome of processing one matched sibling pair.
type pairResult struct {
	change  *Change
	caveats []string
}

// compareIncompatibleRoots handles two roots of different kinds: still a
// valid comparison, reported as a single Modified root whose children are
// derived from whatever immediate children match.
func (cmp *comparer) compareIncompatibleRoots(ctx context.Context, oldRoot, newRoot *syntax.Node) ([]Change, error) {
	level, err := cmp.compareLevel(ctx, oldRoot, newRoot)
	if err != nil {
		return nil, err
	}

	oldDesc := describe(oldRoot, nil, cmp.opts.OldPath)
	newDesc := describe(newRoot, nil, cmp.opts.NewPath)

	impact, caveats := Classify(Modified, newDesc.Kind, newDesc.Visibility, false, false)

	change := &Change{
		Type:        Modified,
		Kind:        newDesc.Kind,
		Name:        newRoot.Name,
		OldLocation: &oldDesc.Span,
		NewLocation: &newDesc.Span,
		OldContent:  oldDesc.TextNormalized,
		NewContent:  newDesc.TextNormalized,
		Impact:      impact,
		Caveats:     append(caveats, level.caveats...),
		Children:    level.changes,
	}

	retained := cmp.retain(change)
	if retained == nil {
		return []Change{}, nil
	}

	return []Change{*retained}, nil
}

// compareLevel compares the immediate structural children of one matched
// parent pair and returns the child changes for that level.
func (cmp *comparer) compareLevel(ctx context.Context, oldParent, newParent *syntax.Node) (levelResult, error) {
	if err := ctx.Err(); err != nil {
		return levelResult{}, cancelled(err)
	}

	oldKids := structuralChildren(oldParent)
	newKids := structuralChildren(newParent)

	match := matchSiblings(oldKids, newKids)

	result := levelResult{}

	pairResults, err := cmp.processMatchedPairs(ctx, oldParent, newParent, oldKids, newKids, match)
	if err != nil {
		return levelResult{}, err
	}

	for _, pr := range pairResults {
		if pr.change != nil {
			result.changes = append(result.changes, *pr.change)
		}

		result.caveats = append(result.caveats, pr.caveats...)
	}

	unmatchedChanges, unmatchedCaveats, err := cmp.processUnmatched(ctx, oldParent, newParent, oldKids, newKids, match)
	if err != nil {
		return levelResult{}, err
	}

	result.changes = append(result.changes, unmatchedChanges...)
	result.caveats = append(result.caveats, unmatchedCaveats...)

	sortChanges(result.changes)

	return result, nil
}

// processMatchedPairs runs matched-pair processing, fanning out to parallel
// workers once the pair count reaches the configured threshold. Results are
// collected in old-side order regardless of execution order.
func (cmp *comparer) processMatchedPairs(
	ctx context.Context,
	oldParent, newParent *syntax.Node,
	oldKids, newKids []*syntax.Node,
	match matchResult,
) ([]pairResult, error) {
	pairs := match.matched
	if len(pairs) == 0 {
		return nil, nil
	}

	oldRanks, newRanks := matchedRanks(match)
	results := make([]pairResult, len(pairs))

	if cmp.opts.ParallelThreshold <= 0 || len(pairs) < cmp.opts.ParallelThreshold {
		for idx, pair := range pairs {
			rankChanged := oldRanks[pair[0]] != newRanks[pair[1]]

			pr, err := cmp.processMatchedPair(ctx, oldParent, newParent, oldKids[pair[0]], newKids[pair[1]], rankChanged)
			if err != nil {
				return nil, err
			}

			results[idx] = pr
		}

		return results, nil
	}

	return cmp.processMatchedPairsParallel(ctx, oldParent, newParent, oldKids, newKids, pairs, oldRanks, newRanks, results)
}

// processMatchedPairsParallel dispatches matched pairs across a bounded
// worker set. Workers share no mutable state: each writes only its own slot
// of the pre-sized result slice.
func (cmp *comparer) processMatchedPairsParallel(
	ctx context.Context,
	oldParent, newParent *syntax.Node,
	oldKids, newKids []*syntax.Node,
	pairs [][2]int,
	oldRanks, newRanks map[int]int,
	results []pairResult,
) ([]pairResult, error) {
	sem := make(chan struct{}, cmp.maxWorkers)

	var (
		wg       sync.WaitGroup
		errMu    sync.Mutex
		firstErr error
	)

	for idx, pair := range pairs {
		wg.Add(1)

		go func(idx int, pair [2]int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			rankChanged := oldRanks[pair[0]] != newRanks[pair[1]]

			pr, err := cmp.processMatchedPair(ctx, oldParent, newParent, oldKids[pair[0]], newKids[pair[1]], rankChanged)
			if err != nil {
				errMu.Lock()

				if firstErr == nil {
					firstErr = err
				}

				errMu.Unlock()

				return
			}

			results[idx] = pr
		}(idx, pair)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, cancelled(err)
	}

	if firstErr != nil {
		return nil, firstErr
	}

	return results, nil
}

// processMatchedPair handles one (old, new) sibling pair: equivalence
// pruning first, then recursion and modification detection. Parameter and
// block-local pairs never produce changes of their own; their differences
// surface on the enclosing member.
func (cmp *comparer) processMatchedPair(
	ctx context.Context,
	oldParent, newParent *syntax.Node,
	oldNode, newNode *syntax.Node,
	rankChanged bool,
) (pairResult, error) {
	if err := ctx.Err(); err != nil {
		return pairResult{}, cancelled(err)
	}

	paramLike := oldNode.Kind == syntax.KindParameter || oldNode.Kind == syntax.KindLocal

	if areEquivalent(oldNode, newNode, cmp.opts) {
		if rankChanged && !paramLike {
			return pairResult{change: cmp.buildMoved(oldParent, newParent, oldNode, newNode)}, nil
		}

		return pairResult{}, nil
	}

	if paramLike {
		return pairResult{}, nil
	}

	nested, err := cmp.compareLevel(ctx, oldNode, newNode)
	if err != nil {
		return pairResult{}, err
	}

	return pairResult{change: cmp.buildModified(oldParent, newParent, oldNode, newNode, nested)}, nil
}

// buildMoved constructs a same-scope Moved change for an equivalent pair
// whose rank among its matched siblings changed.
func (cmp *comparer) buildMoved(oldParent, newParent, oldNode, newNode *syntax.Node) *Change {
	oldDesc := describe(oldNode, oldParent, cmp.opts.OldPath)
	newDesc := describe(newNode, newParent, cmp.opts.NewPath)

	impact, caveats := Classify(Moved, newDesc.Kind, newDesc.Visibility, false, true)

	return cmp.retain(&Change{
		Type:        Moved,
		Kind:        newDesc.Kind,
		Name:        newNode.Name,
		OldLocation: &oldDesc.Span,
		NewLocation: &newDesc.Span,
		Impact:      impact,
		Caveats:     caveats,
	})
}

// buildModified constructs the Modified change for a non-equivalent matched
// pair, folding nested results in. Returns nil when no observable
// modification remains after normalization and filtering.
func (cmp *comparer) buildModified(
	oldParent, newParent *syntax.Node,
	oldNode, newNode *syntax.Node,
	nested levelResult,
) *Change {
	oldDesc := describe(oldNode, oldParent, cmp.opts.OldPath)
	newDesc := describe(newNode, newParent, cmp.opts.NewPath)

	textDiffers := normalizeText(oldNode.Text, cmp.opts) != normalizeText(newNode.Text, cmp.opts)
	signatureChange := detectSignatureChange(oldNode, newNode)

	if !textDiffers && !signatureChange && len(nested.changes) == 0 && len(nested.caveats) == 0 {
		return nil
	}

	impact, caveats := Classify(Modified, newDesc.Kind, classifyVisibility(oldDesc, newDesc), signatureChange, false)

	bodyOnly := textDiffers && !signatureChange
	if bodyOnly && len(nested.caveats) == 0 && allFormattingOnly(nested.changes) && cmp.formattingOnly(oldNode, newNode) {
		impact = FormattingOnly
	}

	return cmp.retain(&Change{
		Type:        Modified,
		Kind:        newDesc.Kind,
		Name:        newNode.Name,
		OldLocation: &oldDesc.Span,
		NewLocation: &newDesc.Span,
		OldContent:  oldDesc.TextNormalized,
		NewContent:  newDesc.TextNormalized,
		Impact:      impact,
		Caveats:     append(caveats, nested.caveats...),
		Children:    nested.changes,
	})
}

// allFormattingOnly reports whether every nested change is itself
// formatting-only, so the override can cascade up through wrappers.
func allFormattingOnly(changes []Change) bool {
	for idx := range changes {
		if changes[idx].Impact != FormattingOnly {
			return false
		}
	}

	return true
}

// formattingOnly applies the whitespace discriminator to a pair's raw text,
// honoring the comment handling option.
func (cmp *comparer) formattingOnly(oldNode, newNode *syntax.Node) bool {
	oldText, newText := oldNode.Text, newNode.Text

	if cmp.opts.IgnoreComments {
		oldText = stripComments(oldText)
		newText = stripComments(newText)
	}

	return IsFormattingOnly(oldText, newText)
}

// detectSignatureChange reports whether the pair's declared surface changed.
// Matched pairs share their signature key by construction, so the live
// signal here is the declared modifier set; the signature comparison keeps
// the predicate total for callers outside the matcher.
func detectSignatureChange(oldNode, newNode *syntax.Node) bool {
	if !slices.Equal(oldNode.Modifiers, newNode.Modifiers) {
		return true
	}

	return signatureOf(oldNode) != signatureOf(newNode)
}

// classifyVisibility picks the visibility a Modified pair is classified
// under: the more visible of the two sides, so narrowing public API
// surfaces as a public break.
func classifyVisibility(oldDesc, newDesc NodeDescriptor) Visibility {
	if oldDesc.Visibility < newDesc.Visibility {
		return oldDesc.Visibility
	}

	return newDesc.Visibility
}

// processUnmatched emits Removed and Added changes for unmatched children,
// merging same-signature different-name pairs into single Renamed changes
// first. Parameter and block-local declarations fold into caveats instead
// of emitting.
func (cmp *comparer) processUnmatched(
	ctx context.Context,
	oldParent, newParent *syntax.Node,
	oldKids, newKids []*syntax.Node,
	match matchResult,
) ([]Change, []string, error) {
	var (
		changes []Change
		caveats []string
	)

	consumedNew := make(map[int]bool, len(match.unmatchedNew))

	for _, oldIdx := range match.unmatchedOld {
		if err := ctx.Err(); err != nil {
			return nil, nil, cancelled(err)
		}

		oldNode := oldKids[oldIdx]

		newIdx, found := findRenamePartner(oldNode, newKids, match.unmatchedNew, consumedNew)
		if found {
			consumedNew[newIdx] = true

			change, caveat := cmp.buildRenamed(oldParent, newParent, oldNode, newKids[newIdx])
			if change != nil {
				changes = append(changes, *change)
			}

			caveats = append(caveats, caveat...)

			continue
		}

		if change := cmp.buildRemoved(oldParent, oldNode); change != nil {
			changes = append(changes, *change)
		}
	}

	for _, newIdx := range match.unmatchedNew {
		if err := ctx.Err(); err != nil {
			return nil, nil, cancelled(err)
		}

		if consumedNew[newIdx] {
			continue
		}

		if change := cmp.buildAdded(newParent, newKids[newIdx]); change != nil {
			changes = append(changes, *change)
		}
	}

	return changes, caveats, nil
}

// findRenamePartner locates the first unconsumed unmatched new child with
// the same kind and signature but a different name: the rename heuristic.
// No content-similarity matching is attempted.
func findRenamePartner(oldNode *syntax.Node, newKids []*syntax.Node, unmatchedNew []int, consumed map[int]bool) (int, bool) {
	if oldNode.Name == "" {
		return 0, false
	}

	oldKind, _ := symbolKindOf(oldNode.Kind)
	oldSig := signatureOf(oldNode)

	for _, newIdx := range unmatchedNew {
		if consumed[newIdx] {
			continue
		}

		candidate := newKids[newIdx]
		if candidate.Name == "" || candidate.Name == oldNode.Name {
			continue
		}

		candidateKind, _ := symbolKindOf(candidate.Kind)
		if candidateKind != oldKind {
			continue
		}

		if signatureOf(candidate) != oldSig || (candidate.Signature == nil) != (oldNode.Signature == nil) {
			continue
		}

		return newIdx, true
	}

	return 0, false
}

// buildRenamed merges an unmatched removed/added pair into one Renamed
// change. Parameter renames fold into the enclosing member's caveats.
func (cmp *comparer) buildRenamed(oldParent, newParent, oldNode, newNode *syntax.Node) (*Change, []string) {
	oldDesc := describe(oldNode, oldParent, cmp.opts.OldPath)
	newDesc := describe(newNode, newParent, cmp.opts.NewPath)

	impact, caveats := Classify(Renamed, newDesc.Kind, newDesc.Visibility, false, false)

	if oldNode.Kind == syntax.KindParameter || oldNode.Kind == syntax.KindLocal {
		return nil, caveats
	}

	return cmp.retain(&Change{
		Type:        Renamed,
		Kind:        newDesc.Kind,
		Name:        newNode.Name,
		OldLocation: &oldDesc.Span,
		NewLocation: &newDesc.Span,
		OldContent:  oldDesc.TextNormalized,
		NewContent:  newDesc.TextNormalized,
		Impact:      impact,
		Caveats:     caveats,
	}), nil
}

// buildRemoved emits a Removed change populated from the old descriptor.
// No recursion happens below a removal.
func (cmp *comparer) buildRemoved(oldParent, oldNode *syntax.Node) *Change {
	if oldNode.Kind == syntax.KindParameter || oldNode.Kind == syntax.KindLocal {
		return nil
	}

	oldDesc := describe(oldNode, oldParent, cmp.opts.OldPath)

	impact, caveats := Classify(Removed, oldDesc.Kind, oldDesc.Visibility, false, false)

	return cmp.retain(&Change{
		Type:        Removed,
		Kind:        oldDesc.Kind,
		Name:        oldNode.Name,
		OldLocation: &oldDesc.Span,
		OldContent:  oldDesc.TextNormalized,
		Impact:      impact,
		Caveats:     caveats,
	})
}

// buildAdded emits an Added change populated from the new descriptor.
func (cmp *comparer) buildAdded(newParent, newNode *syntax.Node) *Change {
	if newNode.Kind == syntax.KindParameter || newNode.Kind == syntax.KindLocal {
		return nil
	}

	newDesc := describe(newNode, newParent, cmp.opts.NewPath)

	impact, caveats := Classify(Added, newDesc.Kind, newDesc.Visibility, false, false)

	return cmp.retain(&Change{
		Type:        Added,
		Kind:        newDesc.Kind,
		Name:        newNode.Name,
		NewLocation: &newDesc.Span,
		NewContent:  newDesc.TextNormalized,
		Impact:      impact,
		Caveats:     caveats,
	})
}

// retain applies the emit-time filters: formatting elision and the minimum
// impact threshold. A parent that owns retained children is always kept so
// the hierarchy is never broken.
func (cmp *comparer) retain(change *Change) *Change {
	if change == nil {
		return nil
	}

	if len(change.Children) > 0 {
		return change
	}

	if change.Impact == FormattingOnly && !cmp.opts.IncludeFormatting {
		return nil
	}

	if change.Impact < cmp.opts.MinimumImpact {
		return nil
	}

	return change
}

// sortChanges orders sibling changes by effective start line, with column
// and name as deterministic tie-breaks.
func sortChanges(changes []Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		left, right := &changes[i], &changes[j]

		if left.EffectiveStartLine() != right.EffectiveStartLine() {
			return left.EffectiveStartLine() < right.EffectiveStartLine()
		}

		if left.effectiveStartCol() != right.effectiveStartCol() {
			return left.effectiveStartCol() < right.effectiveStartCol()
		}

		return left.Name < right.Name
	})
}

func cancelled(err error) error {
	return fmt.Errorf("compare cancelled: %w", err)
}
