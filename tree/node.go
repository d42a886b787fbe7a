package tree

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// node is the two-variant sum type a fitted tree is made of. A node is
// either a leaf carrying a prediction or a split carrying a threshold test
// and exactly two children. Nodes are immutable once built.
type node interface {
	isNode()
}

// leaf is a terminal node holding the mean target of the training samples
// that reached it.
type leaf struct {
	value float64
}

func (*leaf) isNode() {}

// split is an internal node. Samples with x[feature] <= threshold go left,
// the rest go right.
type split struct {
	feature   int
	threshold float64
	left      node
	right     node
}

func (*split) isNode() {}

// predictOne walks x from n down to a leaf and returns the leaf's value.
// The traversal is read-only.
func predictOne(n node, x []float64) float64 {
	for {
		switch v := n.(type) {
		case *leaf:
			return v.value
		case *split:
			if x[v.feature] <= v.threshold {
				n = v.left
			} else {
				n = v.right
			}
		}
	}
}

// treeDepth returns the number of edges on the longest root-to-leaf path.
func treeDepth(n node) int {
	s, ok := n.(*split)
	if !ok {
		return 0
	}
	l := treeDepth(s.left)
	r := treeDepth(s.right)
	if l > r {
		return l + 1
	}
	return r + 1
}

// countLeaves returns the number of leaves below n, inclusive.
func countLeaves(n node) int {
	s, ok := n.(*split)
	if !ok {
		return 1
	}
	return countLeaves(s.left) + countLeaves(s.right)
}

// builder grows a tree over row-index subsets of a single owned copy of the
// training data, so recursion never copies feature rows.
type builder struct {
	X *mat.Dense
	y []float64

	maxDepth        int
	minSamplesSplit int
	nFeatures       int

	// accumulated un-normalized variance reduction per feature
	importances []float64
}

// candidate describes the best split found at a node, together with the
// exact row partition that produced its score. The children are built from
// this partition, never recomputed.
type candidate struct {
	feature   int
	threshold float64
	score     float64
	leftRows  []int
	rightRows []int
}

// build grows the subtree for the given sample subset. Stopping rules are
// checked in order: depth bound, minimum split size, target purity, and no
// candidate split with two non-empty partitions. Any of them produces a
// leaf predicting the mean target.
func (b *builder) build(rows []int, depth int) node {
	targets := b.gather(rows)

	if depth >= b.maxDepth || len(rows) < b.minSamplesSplit || allEqual(targets) {
		return &leaf{value: mean(targets)}
	}

	best := b.bestSplit(rows)
	if best == nil {
		return &leaf{value: mean(targets)}
	}

	b.importances[best.feature] += float64(len(rows)) * (variance(targets) - best.score)

	return &split{
		feature:   best.feature,
		threshold: best.threshold,
		left:      b.build(best.leftRows, depth+1),
		right:     b.build(best.rightRows, depth+1),
	}
}

// bestSplit exhaustively searches features in ascending order and, per
// feature, the distinct column values in ascending order as thresholds.
// Candidates leaving a partition empty are skipped; the rest are scored by
// weighted population variance. Only a strictly lower score replaces the
// incumbent, so ties keep the first candidate in iteration order and the
// search is deterministic. A nil result means no valid candidate existed.
func (b *builder) bestSplit(rows []int) *candidate {
	var best *candidate
	bestScore := math.Inf(1)

	for f := 0; f < b.nFeatures; f++ {
		for _, threshold := range b.distinctValues(rows, f) {
			var leftRows, rightRows []int
			for _, i := range rows {
				if b.X.At(i, f) <= threshold {
					leftRows = append(leftRows, i)
				} else {
					rightRows = append(rightRows, i)
				}
			}
			if len(leftRows) == 0 || len(rightRows) == 0 {
				continue
			}

			score := weightedVariance(b.gather(leftRows), b.gather(rightRows))
			if score < bestScore {
				bestScore = score
				best = &candidate{
					feature:   f,
					threshold: threshold,
					score:     score,
					leftRows:  leftRows,
					rightRows: rightRows,
				}
			}
		}
	}

	return best
}

// distinctValues returns the sorted deduplicated values of feature column f
// across the given rows.
func (b *builder) distinctValues(rows []int, f int) []float64 {
	values := make([]float64, 0, len(rows))
	for _, i := range rows {
		values = append(values, b.X.At(i, f))
	}
	sort.Float64s(values)

	distinct := values[:1]
	for _, v := range values[1:] {
		if v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	return distinct
}

// gather collects the targets for the given rows.
func (b *builder) gather(rows []int) []float64 {
	targets := make([]float64, len(rows))
	for k, i := range rows {
		targets[k] = b.y[i]
	}
	return targets
}
