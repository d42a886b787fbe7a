package tree

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/hmori/regtree/pkg/errors"
)

// WriteDOT writes the fitted tree in Graphviz DOT format. Split nodes are
// labeled with their threshold test, leaves with their predicted value.
// This is a visualization aid, not a model serialization format.
func (dt *DecisionTreeRegressor) WriteDOT(w io.Writer) error {
	if !dt.IsFitted() {
		return errors.NewNotFittedError("DecisionTreeRegressor", "WriteDOT")
	}

	if _, err := fmt.Fprintln(w, "digraph regtree {"); err != nil {
		return errors.Wrap(err, "writing DOT header")
	}
	if _, err := writeDOTNode(w, dt.root, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return errors.Wrap(err, "writing DOT footer")
	}
	return nil
}

// writeDOTNode emits the statements for the subtree rooted at n, using id
// for n itself, and returns the next free node id.
func writeDOTNode(w io.Writer, n node, id int) (int, error) {
	switch v := n.(type) {
	case *leaf:
		if _, err := fmt.Fprintf(w, "\tn%d [label=\"value = %.4g\" shape=box];\n", id, v.value); err != nil {
			return id, errors.Wrap(err, "writing DOT leaf")
		}
		return id + 1, nil
	case *split:
		if _, err := fmt.Fprintf(w, "\tn%d [label=\"x[%d] <= %.4g\"];\n", id, v.feature, v.threshold); err != nil {
			return id, errors.Wrap(err, "writing DOT split")
		}
		leftID := id + 1
		next, err := writeDOTNode(w, v.left, leftID)
		if err != nil {
			return next, err
		}
		rightID := next
		next, err = writeDOTNode(w, v.right, rightID)
		if err != nil {
			return next, err
		}
		if _, err := fmt.Fprintf(w, "\tn%d -> n%d;\n\tn%d -> n%d;\n", id, leftID, id, rightID); err != nil {
			return next, errors.Wrap(err, "writing DOT edges")
		}
		return next, nil
	}
	return id, errors.Newf("unknown node type %T", n)
}

// ExportGraphviz builds an in-memory graphviz graph of the fitted tree,
// ready for rendering with the returned Graphviz handle. Callers own both
// and should Close the graph and handle when done.
func (dt *DecisionTreeRegressor) ExportGraphviz() (*graphviz.Graphviz, *cgraph.Graph, error) {
	if !dt.IsFitted() {
		return nil, nil, errors.NewNotFittedError("DecisionTreeRegressor", "ExportGraphviz")
	}

	gv := graphviz.New()
	graph, err := gv.Graph()
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating graphviz graph")
	}

	if _, err := addGraphvizNode(graph, dt.root, nil, 0); err != nil {
		return nil, nil, err
	}

	return gv, graph, nil
}

// addGraphvizNode mirrors writeDOTNode on the cgraph API and returns the
// next free node id.
func addGraphvizNode(g *cgraph.Graph, n node, parent *cgraph.Node, id int) (int, error) {
	gn, err := g.CreateNode(fmt.Sprintf("n%d", id))
	if err != nil {
		return id, errors.Wrap(err, "creating graphviz node")
	}
	if parent != nil {
		if _, err := g.CreateEdge("", parent, gn); err != nil {
			return id, errors.Wrap(err, "creating graphviz edge")
		}
	}

	switch v := n.(type) {
	case *leaf:
		gn.Set("label", fmt.Sprintf("value = %.4g", v.value))
		gn.Set("shape", "box")
		return id + 1, nil
	case *split:
		gn.Set("label", fmt.Sprintf("x[%d] <= %.4g", v.feature, v.threshold))
		next, err := addGraphvizNode(g, v.left, gn, id+1)
		if err != nil {
			return next, err
		}
		return addGraphvizNode(g, v.right, gn, next)
	}
	return id, errors.Newf("unknown node type %T", n)
}
