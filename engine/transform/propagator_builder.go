package transform

// PropagatorBuilderOption is a functional option for configuring a Propagator.
type PropagatorBuilderOption func(p *propagator)

// WithWorkerPool updates the subtrees of independent local roots concurrently on a pool of n
// workers. Update waits for every subtree before returning. Values below 2 keep the single
// linear pass.
//
// Parameters:
//   - n: the number of workers
//
// Returns:
//   - PropagatorBuilderOption: option function to apply
func WithWorkerPool(n int) PropagatorBuilderOption {
	return func(p *propagator) {
		p.workers = n
	}
}
