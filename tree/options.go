package tree

// Option is a function that configures a DecisionTreeRegressor.
type Option func(*DecisionTreeRegressor)

// WithMaxDepth sets the maximum depth of the tree. The root is at depth 0,
// so a max depth of 0 always yields a single leaf.
func WithMaxDepth(d int) Option {
	return func(dt *DecisionTreeRegressor) {
		dt.maxDepth = d
	}
}

// WithMinSamplesSplit sets the minimum number of samples a node must hold
// to be considered for splitting.
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeRegressor) {
		dt.minSamplesSplit = n
	}
}
