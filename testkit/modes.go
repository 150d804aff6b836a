package testkit

import (
	"fmt"
	"sync"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/gomlx/backends"
	"github.com/gomlx/gomlx/pkg/core/graph"
	"github.com/gomlx/gomlx/pkg/core/graph/graphtest"
	"github.com/gomlx/gomlx/pkg/core/tensors"

	_ "github.com/gomlx/gomlx/backends/default"
)

// Mode selects which execution path of the tensor framework a check
// runs under.
type Mode int

const (
	// Eager materializes decoded tensors directly.
	Eager Mode = iota
	// Graph feeds decoded tensors through a compiled identity graph on
	// the test backend before materializing them.
	Graph
)

func (m Mode) String() string {
	if m == Graph {
		return "graph"
	}
	return "eager"
}

// Exec is one execution mode bound to the shared test backend.
type Exec struct {
	Mode    Mode
	backend backends.Backend
}

var (
	backendOnce sync.Once
	testBackend backends.Backend
)

// TestBackend returns the process-wide backend graph-mode checks run
// on, building it on first use.
func TestBackend() backends.Backend {
	backendOnce.Do(func() {
		testBackend = graphtest.BuildTestBackend()
	})
	return testBackend
}

// NewExec returns an Exec for mode on the shared test backend.
func NewExec(mode Mode) Exec {
	return Exec{Mode: mode, backend: TestBackend()}
}

// RunGraphAndEager runs fn twice, as subtests named "eager" and
// "graph", one per execution mode. Round trips that must behave
// identically under both modes belong inside fn.
//
// Example:
//
//	testkit.RunGraphAndEager(t, func(t *testing.T, ex testkit.Exec) {
//	    testkit.CheckFeature(t, ex, expectation)
//	})
func RunGraphAndEager(t *testing.T, fn func(t *testing.T, ex Exec)) {
	for _, mode := range []Mode{Eager, Graph} {
		t.Run(mode.String(), func(t *testing.T) {
			fn(t, NewExec(mode))
		})
	}
}

// Materialize realizes one decoded tensor under the Exec's mode. Eager
// returns the tensor unchanged. Graph feeds it through an identity
// graph compiled on the test backend, proving the decoded value is
// usable as graph input.
func (ex Exec) Materialize(tensor *tensors.Tensor) (*tensors.Tensor, error) {
	if ex.Mode != Graph {
		return tensor, nil
	}
	var out *tensors.Tensor
	err := exceptions.TryCatch[error](func() {
		identity := graph.NewExec(ex.backend, func(x *graph.Node) *graph.Node { return x })
		out = identity.Call(tensor)[0]
	})
	if err != nil {
		return nil, fmt.Errorf("graph execution: %w", err)
	}
	return out, nil
}
