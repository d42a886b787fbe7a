package tree

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/hmori/regtree/pkg/errors"
	"github.com/hmori/regtree/pkg/log"
)

// TestDecisionTreeRegressor_FitPredict_Step tests the canonical step split:
// the best split separates {0,1} from {2,3} at feature 0, threshold 1.
func TestDecisionTreeRegressor_FitPredict_Step(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})

	dt := NewDecisionTreeRegressor(
		WithMaxDepth(5),
		WithMinSamplesSplit(2),
	)

	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	if depth := dt.GetDepth(); depth != 1 {
		t.Errorf("Expected depth 1, got %d", depth)
	}
	if leaves := dt.GetNLeaves(); leaves != 2 {
		t.Errorf("Expected 2 leaves, got %d", leaves)
	}

	// Training data is reproduced exactly
	predictions, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got, want := predictions.At(i, 0), y.At(i, 0); got != want {
			t.Errorf("Sample %d: expected %v, got %v", i, want, got)
		}
	}

	// Inputs <= 1 route left, > 1 route right
	XTest := mat.NewDense(4, 1, []float64{0.5, 1.0, 1.5, 100})
	testPreds, err := dt.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict on test data: %v", err)
	}
	wantPreds := []float64{0, 0, 10, 10}
	for i, want := range wantPreds {
		if got := testPreds.At(i, 0); got != want {
			t.Errorf("Test point %d: expected %v, got %v", i, want, got)
		}
	}
}

// TestDecisionTreeRegressor_PureTargets tests the purity stopping rule:
// identical targets produce a single leaf regardless of feature variety.
func TestDecisionTreeRegressor_PureTargets(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		0, 9,
		1, 7,
		2, 5,
		3, 3,
	})
	y := mat.NewDense(4, 1, []float64{1, 1, 1, 1})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	if leaves := dt.GetNLeaves(); leaves != 1 {
		t.Errorf("Expected a single leaf, got %d", leaves)
	}
	if depth := dt.GetDepth(); depth != 0 {
		t.Errorf("Expected depth 0, got %d", depth)
	}

	XTest := mat.NewDense(3, 2, []float64{
		-100, 0,
		0.5, 0.5,
		42, 42,
	})
	preds, err := dt.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 3; i++ {
		if got := preds.At(i, 0); got != 1 {
			t.Errorf("Row %d: expected 1 for every input, got %v", i, got)
		}
	}
}

// TestDecisionTreeRegressor_MaxDepthZero tests that max depth 0 always
// yields a single mean leaf.
func TestDecisionTreeRegressor_MaxDepthZero(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})

	dt := NewDecisionTreeRegressor(WithMaxDepth(0))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	if depth := dt.GetDepth(); depth != 0 {
		t.Errorf("Expected depth 0, got %d", depth)
	}

	preds, err := dt.Predict(X)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	for i := 0; i < 4; i++ {
		if got := preds.At(i, 0); got != 5 {
			t.Errorf("Row %d: expected mean target 5, got %v", i, got)
		}
	}
}

// TestDecisionTreeRegressor_ConstantFeatures tests the degenerate-split
// stop: constant feature columns admit no split with two non-empty halves,
// so differing targets still collapse into a mean leaf.
func TestDecisionTreeRegressor_ConstantFeatures(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{
		3, 3,
		3, 3,
		3, 3,
		3, 3,
	})
	y := mat.NewDense(4, 1, []float64{0, 4, 8, 12})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	if leaves := dt.GetNLeaves(); leaves != 1 {
		t.Errorf("Expected a single leaf, got %d", leaves)
	}

	preds, err := dt.Predict(mat.NewDense(1, 2, []float64{3, 3}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if got := preds.At(0, 0); got != 6 {
		t.Errorf("Expected mean target 6, got %v", got)
	}
}

// TestDecisionTreeRegressor_MinSamplesSplit tests that a dataset smaller
// than min_samples_split is never split.
func TestDecisionTreeRegressor_MinSamplesSplit(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})

	dt := NewDecisionTreeRegressor(WithMinSamplesSplit(10))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	if depth := dt.GetDepth(); depth != 0 {
		t.Errorf("Expected depth 0, got %d", depth)
	}
	if leaves := dt.GetNLeaves(); leaves != 1 {
		t.Errorf("Expected a single leaf, got %d", leaves)
	}

	preds, err := dt.Predict(mat.NewDense(1, 1, []float64{2}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if got := preds.At(0, 0); got != 5 {
		t.Errorf("Expected mean target 5, got %v", got)
	}
}

// TestDecisionTreeRegressor_LeafValuesAreMeans verifies that each leaf
// stores the mean target of the samples that reached it when the depth
// bound cuts growth short.
func TestDecisionTreeRegressor_LeafValuesAreMeans(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 2, 10, 12})

	// The best root split is at threshold 1 ({0,2} vs {10,12}); with max
	// depth 1 the children become mean leaves 1 and 11.
	dt := NewDecisionTreeRegressor(WithMaxDepth(1))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit model: %v", err)
	}

	XTest := mat.NewDense(2, 1, []float64{0.5, 3})
	preds, err := dt.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if got := preds.At(0, 0); got != 1 {
		t.Errorf("Left leaf: expected mean 1, got %v", got)
	}
	if got := preds.At(1, 0); got != 11 {
		t.Errorf("Right leaf: expected mean 11, got %v", got)
	}
}

// TestDecisionTreeRegressor_MaxDepth tests the depth bound on data that
// would otherwise grow a deep tree.
func TestDecisionTreeRegressor_MaxDepth(t *testing.T) {
	X := mat.NewDense(16, 2, nil)
	y := mat.NewDense(16, 1, nil)
	for i := 0; i < 16; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64(i%4))
		y.Set(i, 0, float64(i%2)*3+float64(i))
	}

	dt := NewDecisionTreeRegressor(WithMaxDepth(2))
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if depth := dt.GetDepth(); depth > 2 {
		t.Errorf("Tree depth %d exceeds max_depth=2", depth)
	}
}

// TestDecisionTreeRegressor_Determinism verifies that identical inputs and
// configuration always produce identical predictions across fits.
func TestDecisionTreeRegressor_Determinism(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	y := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		X.Set(i, 0, math.Sin(float64(i)))
		X.Set(i, 1, float64(i*i%7))
		y.Set(i, 0, math.Cos(float64(i))*10)
	}

	XTest := mat.NewDense(5, 2, nil)
	for i := 0; i < 5; i++ {
		XTest.Set(i, 0, math.Sin(float64(i)+0.5))
		XTest.Set(i, 1, float64(i))
	}

	a := NewDecisionTreeRegressor(WithMaxDepth(4))
	b := NewDecisionTreeRegressor(WithMaxDepth(4))
	if err := a.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit a: %v", err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit b: %v", err)
	}

	predsA, err := a.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict with a: %v", err)
	}
	predsB, err := b.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict with b: %v", err)
	}

	// Exact equality, not tolerance: there is no randomness anywhere.
	if !mat.Equal(predsA, predsB) {
		t.Errorf("Two identical fits disagree:\n%v\nvs\n%v",
			mat.Formatted(predsA), mat.Formatted(predsB))
	}

	// Inference is read-only, so repeating it changes nothing.
	predsA2, err := a.Predict(XTest)
	if err != nil {
		t.Fatalf("Failed to predict twice: %v", err)
	}
	if !mat.Equal(predsA, predsA2) {
		t.Errorf("Repeated prediction disagrees with the first")
	}
}

// TestDecisionTreeRegressor_Refit verifies that a second Fit replaces the
// tree wholesale.
func TestDecisionTreeRegressor_Refit(t *testing.T) {
	dt := NewDecisionTreeRegressor()

	X1 := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y1 := mat.NewDense(4, 1, []float64{0, 0, 10, 10})
	if err := dt.Fit(X1, y1); err != nil {
		t.Fatalf("Failed first fit: %v", err)
	}

	X2 := mat.NewDense(2, 1, []float64{0, 1})
	y2 := mat.NewDense(2, 1, []float64{7, 7})
	if err := dt.Fit(X2, y2); err != nil {
		t.Fatalf("Failed second fit: %v", err)
	}

	preds, err := dt.Predict(mat.NewDense(1, 1, []float64{3}))
	if err != nil {
		t.Fatalf("Failed to predict: %v", err)
	}
	if got := preds.At(0, 0); got != 7 {
		t.Errorf("Expected prediction from refitted tree 7, got %v", got)
	}
}

// TestDecisionTreeRegressor_FeatureImportances tests importance attribution
// when one feature fully determines the target.
func TestDecisionTreeRegressor_FeatureImportances(t *testing.T) {
	X := mat.NewDense(8, 2, []float64{
		0, 5,
		0, 5,
		0, 5,
		0, 5,
		1, 5,
		1, 5,
		1, 5,
		1, 5,
	})
	y := mat.NewDense(8, 1, []float64{0, 0, 0, 0, 10, 10, 10, 10})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	importances := dt.GetFeatureImportances()
	if len(importances) != 2 {
		t.Fatalf("Expected 2 feature importances, got %d", len(importances))
	}
	if importances[0] != 1 || importances[1] != 0 {
		t.Errorf("Expected importances [1 0], got %v", importances)
	}
}

// TestDecisionTreeRegressor_Score tests R² on perfectly separable data.
func TestDecisionTreeRegressor_Score(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	score, err := dt.Score(X, y)
	if err != nil {
		t.Fatalf("Failed to score: %v", err)
	}
	if score != 1.0 {
		t.Errorf("Expected perfect R² on separable data, got %v", score)
	}
}

// TestDecisionTreeRegressor_NotFitted tests errors when using the model
// before fitting.
func TestDecisionTreeRegressor_NotFitted(t *testing.T) {
	dt := NewDecisionTreeRegressor()
	X := mat.NewDense(2, 2, []float64{1, 2, 3, 4})

	if _, err := dt.Predict(X); err == nil {
		t.Error("Expected error when predicting without fitting")
	} else {
		var nf *errors.NotFittedError
		if !errors.As(err, &nf) {
			t.Errorf("Expected NotFittedError, got %v", err)
		}
	}

	y := mat.NewDense(2, 1, []float64{1, 2})
	if _, err := dt.Score(X, y); err == nil {
		t.Error("Expected error when scoring without fitting")
	}
}

// TestDecisionTreeRegressor_InvalidInput tests input validation on Fit and
// Predict.
func TestDecisionTreeRegressor_InvalidInput(t *testing.T) {
	t.Run("empty data", func(t *testing.T) {
		dt := NewDecisionTreeRegressor()
		err := dt.Fit(&mat.Dense{}, &mat.Dense{})
		if err == nil {
			t.Fatal("Expected error on empty data")
		}
	})

	t.Run("row count mismatch", func(t *testing.T) {
		dt := NewDecisionTreeRegressor()
		X := mat.NewDense(3, 1, []float64{1, 2, 3})
		y := mat.NewDense(2, 1, []float64{1, 2})
		err := dt.Fit(X, y)
		if err == nil {
			t.Fatal("Expected error on mismatched rows")
		}
		var de *errors.DimensionError
		if !errors.As(err, &de) {
			t.Errorf("Expected DimensionError, got %v", err)
		}
	})

	t.Run("y not a column vector", func(t *testing.T) {
		dt := NewDecisionTreeRegressor()
		X := mat.NewDense(2, 1, []float64{1, 2})
		y := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
		if err := dt.Fit(X, y); err == nil {
			t.Fatal("Expected error on wide y")
		}
	})

	t.Run("NaN features", func(t *testing.T) {
		dt := NewDecisionTreeRegressor()
		X := mat.NewDense(2, 1, []float64{1, math.NaN()})
		y := mat.NewDense(2, 1, []float64{1, 2})
		if err := dt.Fit(X, y); err == nil {
			t.Fatal("Expected error on NaN feature")
		}
	})

	t.Run("negative max_depth", func(t *testing.T) {
		dt := NewDecisionTreeRegressor(WithMaxDepth(-1))
		X := mat.NewDense(2, 1, []float64{1, 2})
		y := mat.NewDense(2, 1, []float64{1, 2})
		err := dt.Fit(X, y)
		if err == nil {
			t.Fatal("Expected error on negative max_depth")
		}
		var ve *errors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("predict width mismatch", func(t *testing.T) {
		dt := NewDecisionTreeRegressor()
		X := mat.NewDense(4, 2, []float64{0, 0, 1, 1, 2, 2, 3, 3})
		y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})
		if err := dt.Fit(X, y); err != nil {
			t.Fatalf("Failed to fit: %v", err)
		}
		_, err := dt.Predict(mat.NewDense(1, 3, []float64{1, 2, 3}))
		if err == nil {
			t.Fatal("Expected error on feature count mismatch")
		}
		var de *errors.DimensionError
		if !errors.As(err, &de) {
			t.Errorf("Expected DimensionError, got %v", err)
		}
	})
}

// TestDecisionTreeRegressor_GetSetParams tests parameter management.
func TestDecisionTreeRegressor_GetSetParams(t *testing.T) {
	dt := NewDecisionTreeRegressor()

	params := dt.GetParams()
	if params["max_depth"].(int) != 5 {
		t.Errorf("Default max_depth should be 5, got %v", params["max_depth"])
	}
	if params["min_samples_split"].(int) != 2 {
		t.Errorf("Default min_samples_split should be 2, got %v", params["min_samples_split"])
	}

	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	err := dt.SetParams(map[string]interface{}{
		"max_depth":         3,
		"min_samples_split": 4,
	})
	if err != nil {
		t.Fatalf("Failed to set params: %v", err)
	}

	if dt.maxDepth != 3 {
		t.Errorf("max_depth not updated: expected 3, got %v", dt.maxDepth)
	}
	if dt.minSamplesSplit != 4 {
		t.Errorf("min_samples_split not updated: expected 4, got %v", dt.minSamplesSplit)
	}
	if dt.IsFitted() {
		t.Error("SetParams should reset the model to its unfitted state")
	}

	if err := dt.SetParams(map[string]interface{}{"criterion": "mse"}); err == nil {
		t.Error("Expected error on unknown parameter")
	}
}

// TestDecisionTreeRegressor_FitLogging verifies the debug record emitted
// after fitting.
func TestDecisionTreeRegressor_FitLogging(t *testing.T) {
	provider, _ := log.NewTestLoggerProvider(log.LevelDebug)
	log.SetProvider(provider)
	defer log.SetProvider(log.NewZerologProvider(nil, log.LevelInfo))

	X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
	y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})

	dt := NewDecisionTreeRegressor()
	if err := dt.Fit(X, y); err != nil {
		t.Fatalf("Failed to fit: %v", err)
	}

	if !provider.Logger().ContainsMessage("fitted regression tree") {
		t.Error("Expected a debug record for the fitted tree")
	}
	if !provider.Logger().ContainsField(log.TreeLeavesKey, 2) {
		t.Error("Expected the leaf count in the fit record")
	}
}
