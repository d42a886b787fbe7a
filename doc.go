// Package regtree provides a CART-style regression tree learner for Go,
// designed for backend services and real-time inference applications.
//
// regtree offers a scikit-learn-like API: construct an estimator, Fit it on
// a gonum matrix of features and a column vector of targets, then Predict
// on new samples. The tree is grown by greedy variance-reduction splitting
// over axis-aligned thresholds and is immutable once fitted.
//
// # Quick Start
//
// Fitting and predicting with a regression tree:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/hmori/regtree/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 1, []float64{0, 1, 2, 3})
//	    y := mat.NewDense(4, 1, []float64{0, 0, 10, 10})
//
//	    model := tree.NewDecisionTreeRegressor(
//	        tree.WithMaxDepth(5),
//	        tree.WithMinSamplesSplit(2),
//	    )
//	    if err := model.Fit(X, y); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    XTest := mat.NewDense(2, 1, []float64{0.5, 2.5})
//	    predictions, err := model.Predict(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Predictions:", mat.Formatted(predictions))
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - tree: the regression tree estimator (DecisionTreeRegressor)
//   - metrics: evaluation metrics (MSE, RMSE, MAE, R²)
//   - dataset: NumPy .npy loaders for feature matrices and target vectors
//   - core/model: core interfaces and base types
//   - pkg/errors: structured error taxonomy and warnings
//   - pkg/log: structured logging interfaces and providers
//
// # Determinism
//
// Fitting and prediction are fully deterministic: for a fixed dataset and
// configuration the same tree and the same predictions are produced on
// every run. There is no randomness and no parallelism in the core path.
//
// # License
//
// regtree is released under the MIT License.
package regtree
