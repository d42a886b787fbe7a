// Package dataset provides loaders for feeding on-disk data to the
// estimators. The core learner itself never performs I/O.
package dataset

import (
	"io"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/hmori/regtree/pkg/errors"
)

// LoadMatrix reads a NumPy .npy file into a dense matrix. It suits feature
// matrices exported from Python pipelines via numpy.save.
func LoadMatrix(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening npy file %s", path)
	}
	defer f.Close()

	return ReadMatrix(f)
}

// ReadMatrix reads .npy data from r into a dense matrix.
func ReadMatrix(r io.Reader) (*mat.Dense, error) {
	rd, err := npyio.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading npy header")
	}

	var m mat.Dense
	if err := rd.Read(&m); err != nil {
		return nil, errors.Wrap(err, "decoding npy data")
	}
	return &m, nil
}

// LoadVector reads a NumPy .npy file holding a vector, shaped (n,), (n,1)
// or (1,n), into a column vector. It suits target arrays.
func LoadVector(path string) (*mat.VecDense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening npy file %s", path)
	}
	defer f.Close()

	return ReadVector(f)
}

// ReadVector reads .npy vector data from r into a column vector.
func ReadVector(r io.Reader) (*mat.VecDense, error) {
	m, err := ReadMatrix(r)
	if err != nil {
		return nil, err
	}

	rows, cols := m.Dims()
	if rows != 1 && cols != 1 {
		return nil, errors.NewValueError("ReadVector", "npy data is not a vector")
	}

	v := mat.NewVecDense(rows*cols, nil)
	k := 0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v.SetVec(k, m.At(i, j))
			k++
		}
	}
	return v, nil
}
