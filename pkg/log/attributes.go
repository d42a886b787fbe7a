// Package log defines standard attribute keys for machine learning operations.
//
// Using these standard keys enables consistent log analysis, monitoring, and
// debugging across the library. The keys follow a hierarchical naming
// convention (e.g. "model.name", "data.samples") to allow structured
// filtering.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of machine learning model.
	// Example: "DecisionTreeRegressor"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is performing
	// the operation. Examples: "tree", "metrics"
	ComponentKey = "ml.component"
)

// Data shape and characteristics.
const (
	// SamplesKey records the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey records the number of feature columns.
	FeaturesKey = "data.features"
)

// Fitted tree characteristics.
const (
	// TreeDepthKey records the depth of a fitted tree.
	TreeDepthKey = "tree.depth"

	// TreeLeavesKey records the number of leaves of a fitted tree.
	TreeLeavesKey = "tree.leaves"
)

// Error context.
const (
	// ErrAttrKey is the attribute key under which error values are logged.
	ErrAttrKey = "error"

	// StacktraceAttrKey is the attribute key for extracted stack traces.
	StacktraceAttrKey = "stacktrace"
)
