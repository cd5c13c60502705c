// util_test.go defines utility functions used during testing.

package preflow_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/kalexmills/preflow"
	"github.com/kalexmills/preflow/edgelist"
	"github.com/stretchr/testify/require"
)

const FlowInstances = ".flow"

// TestInstance is a flow network along with its known maximum flow.
type TestInstance struct {
	expectedFlow int64
	*edgelist.Instance
}

func visitAllInstances(t *testing.T, suffix string, visit func(*testing.T, TestInstance)) {
	var paths, err = filepath.Glob(filepath.Join("testdata", "*"+suffix))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		var data, err = os.ReadFile(path)
		require.NoError(t, err)

		t.Run(strings.TrimSuffix(filepath.Base(path), suffix), func(t *testing.T) {
			visit(t, loadInstance(t, data))
		})
	}
}

// loadFixture loads the named test instance of testdata.
func loadFixture(t *testing.T, name string) TestInstance {
	var data, err = os.ReadFile(filepath.Join("testdata", name+FlowInstances))
	require.NoError(t, err)
	return loadInstance(t, data)
}

// loadInstance loads a test instance flow network. The first line of each test instance holds a single
// integer: the expected max flow which is attainable for the instance. All remaining lines are an edge
// list, as read by edgelist.Parse.
func loadInstance(t *testing.T, data []byte) TestInstance {
	var first, rest, _ = bytes.Cut(data, []byte("\n"))
	var expected, err = strconv.ParseInt(strings.TrimSpace(string(first)), 10, 64)
	require.NoError(t, err, "first line of file must consist of a single integer")

	inst, err := edgelist.Parse(bytes.NewReader(rest))
	require.NoError(t, err)
	return TestInstance{expectedFlow: expected, Instance: inst}
}

// mustNetwork builds a FlowNetwork of |numNodes| nodes having the given edges.
func mustNetwork(t *testing.T, numNodes int, edges ...preflow.Edge) *preflow.FlowNetwork {
	var fn = preflow.NewFlowNetwork(numNodes)
	for _, e := range edges {
		require.NoError(t, fn.AddEdge(e.From, e.To, e.Capacity))
	}
	return fn
}

// bruteForceMinCut returns the smallest capacity of edges leaving any set of nodes which
// includes |source| but not |sink|.
func bruteForceMinCut(numNodes int, edges []preflow.Edge, source, sink int) int64 {
	var best int64 = -1
	for set := 0; set != 1<<numNodes; set++ {
		if set&(1<<source) == 0 || set&(1<<sink) != 0 {
			continue
		}
		var capacity int64
		for _, e := range edges {
			if set&(1<<e.From) != 0 && set&(1<<e.To) == 0 {
				capacity += e.Capacity
			}
		}
		if best == -1 || capacity < best {
			best = capacity
		}
	}
	return best
}
