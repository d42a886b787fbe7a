// Package tree provides tree-based estimators. DecisionTreeRegressor is a
// CART-style regression tree grown by greedy variance-reduction splitting
// over axis-aligned thresholds.
package tree

import (
	"gonum.org/v1/gonum/mat"

	"github.com/hmori/regtree/core/model"
	"github.com/hmori/regtree/metrics"
	"github.com/hmori/regtree/pkg/errors"
	"github.com/hmori/regtree/pkg/log"
)

// DecisionTreeRegressor predicts a scalar target by routing each sample from
// the root of a fitted binary tree to a leaf. Fitting is deterministic: for
// a fixed dataset and configuration the same tree is produced on every run.
type DecisionTreeRegressor struct {
	model.BaseEstimator

	// hyperparameters, fixed at construction
	maxDepth        int
	minSamplesSplit int

	// fitted state, replaced wholesale on each Fit
	root        node
	nFeatures   int
	depth       int
	nLeaves     int
	importances []float64
}

var (
	_ model.Regressor       = (*DecisionTreeRegressor)(nil)
	_ model.ParameterGetter = (*DecisionTreeRegressor)(nil)
	_ model.ParameterSetter = (*DecisionTreeRegressor)(nil)
)

// NewDecisionTreeRegressor creates a regression tree with the given options.
// Defaults: max depth 5, min samples split 2.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	dt := &DecisionTreeRegressor{
		maxDepth:        5,
		minSamplesSplit: 2,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

// Fit grows the tree on features X and targets y. X must be a non-empty
// n×m matrix with m >= 1 and y an n×1 column vector; NaN and Inf values are
// rejected. Any previously fitted tree is replaced.
func (dt *DecisionTreeRegressor) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeRegressor.Fit")

	r, c := X.Dims()
	ry, cy := y.Dims()

	if r == 0 || c == 0 {
		return errors.NewModelError("DecisionTreeRegressor.Fit", "empty data", errors.ErrEmptyData)
	}
	if ry != r {
		return errors.NewDimensionError("DecisionTreeRegressor.Fit", r, ry, 0)
	}
	if cy != 1 {
		return errors.NewValueError("DecisionTreeRegressor.Fit", "y must be a column vector")
	}
	if dt.maxDepth < 0 {
		return errors.NewValidationError("max_depth", "must be >= 0", dt.maxDepth)
	}
	if dt.minSamplesSplit < 1 {
		return errors.NewValidationError("min_samples_split", "must be >= 1", dt.minSamplesSplit)
	}
	if err := errors.CheckMatrix("DecisionTreeRegressor.Fit X", X, r, c); err != nil {
		return err
	}
	if err := errors.CheckMatrix("DecisionTreeRegressor.Fit y", y, ry, cy); err != nil {
		return err
	}

	// The builder works on an owned copy so the fitted tree never aliases
	// caller data.
	targets := make([]float64, r)
	for i := 0; i < r; i++ {
		targets[i] = y.At(i, 0)
	}

	b := &builder{
		X:               mat.DenseCopyOf(X),
		y:               targets,
		maxDepth:        dt.maxDepth,
		minSamplesSplit: dt.minSamplesSplit,
		nFeatures:       c,
		importances:     make([]float64, c),
	}

	rows := make([]int, r)
	for i := range rows {
		rows[i] = i
	}

	dt.root = b.build(rows, 0)
	dt.nFeatures = c
	dt.depth = treeDepth(dt.root)
	dt.nLeaves = countLeaves(dt.root)
	dt.importances = normalizeImportances(b.importances)
	dt.SetFitted()

	log.GetLoggerWithName("tree.regressor").Debug("fitted regression tree",
		log.OperationKey, "fit",
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.TreeDepthKey, dt.depth,
		log.TreeLeavesKey, dt.nLeaves,
	)

	return nil
}

// Predict returns one prediction per row of X, in input order, as an n×1
// matrix. X must have the same number of columns as the data used to Fit.
func (dt *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !dt.IsFitted() {
		return nil, errors.NewNotFittedError("DecisionTreeRegressor", "Predict")
	}

	r, c := X.Dims()
	if c != dt.nFeatures {
		return nil, errors.NewDimensionError("DecisionTreeRegressor.Predict", dt.nFeatures, c, 1)
	}
	if err := errors.CheckMatrix("DecisionTreeRegressor.Predict", X, r, c); err != nil {
		return nil, err
	}

	predictions := mat.NewDense(r, 1, nil)
	x := make([]float64, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			x[j] = X.At(i, j)
		}
		predictions.Set(i, 0, predictOne(dt.root, x))
	}

	return predictions, nil
}

// Score returns the coefficient of determination R² of the prediction.
func (dt *DecisionTreeRegressor) Score(X, y mat.Matrix) (float64, error) {
	if !dt.IsFitted() {
		return 0, errors.NewNotFittedError("DecisionTreeRegressor", "Score")
	}

	yPred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}

	return metrics.R2ScoreMatrix(y, yPred)
}

// GetParams returns the model's hyperparameters.
func (dt *DecisionTreeRegressor) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
	}
}

// SetParams sets the model's hyperparameters. Only "max_depth" and
// "min_samples_split" are recognized. Changing parameters resets the model
// to its unfitted state.
func (dt *DecisionTreeRegressor) SetParams(params map[string]interface{}) error {
	for name, value := range params {
		v, err := paramInt(name, value)
		if err != nil {
			return err
		}
		switch name {
		case "max_depth":
			dt.maxDepth = v
		case "min_samples_split":
			dt.minSamplesSplit = v
		default:
			return errors.NewValidationError(name, "unknown parameter", value)
		}
	}

	dt.root = nil
	dt.nFeatures = 0
	dt.depth = 0
	dt.nLeaves = 0
	dt.importances = nil
	dt.Reset()
	return nil
}

// paramInt accepts int or the float64 that untyped JSON decoding produces.
func paramInt(name string, value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.NewValidationError(name, "must be an integer", value)
		}
		return int(v), nil
	default:
		return 0, errors.NewValidationError(name, "must be an integer", value)
	}
}

// GetDepth returns the depth of the fitted tree, 0 when unfitted.
func (dt *DecisionTreeRegressor) GetDepth() int {
	return dt.depth
}

// GetNLeaves returns the number of leaves of the fitted tree, 0 when unfitted.
func (dt *DecisionTreeRegressor) GetNLeaves() int {
	return dt.nLeaves
}

// GetFeatureImportances returns the normalized variance reduction collected
// per feature across all splits, or nil when the model is unfitted. The
// importances sum to 1 when at least one split was made.
func (dt *DecisionTreeRegressor) GetFeatureImportances() []float64 {
	if !dt.IsFitted() {
		return nil
	}
	out := make([]float64, len(dt.importances))
	copy(out, dt.importances)
	return out
}

// normalizeImportances scales raw importances to sum to 1. A tree with no
// splits keeps all-zero importances.
func normalizeImportances(raw []float64) []float64 {
	var sum float64
	for _, v := range raw {
		sum += v
	}

	out := make([]float64, len(raw))
	if sum == 0 {
		return out
	}
	for i, v := range raw {
		out[i] = v / sum
	}
	return out
}
