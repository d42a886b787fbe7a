package model

import "gonum.org/v1/gonum/mat"

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on the given features X and targets y.
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can make predictions.
type Predictor interface {
	// Predict returns predictions for the given input data.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Estimator combines training with the fitted-state query shared by
// every model in the library.
type Estimator interface {
	Fitter
	IsFitted() bool
}
