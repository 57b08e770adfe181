package pipeline

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/common"
)

// Cache holds one Pipeline per State. Pipelines are created lazily on first use.
type Cache struct {
	mu        sync.Mutex
	pipelines map[State]Pipeline
	options   []PipelineBuilderOption
}

// NewCache creates an empty pipeline cache. The options are applied to every pipeline it creates.
//
// Parameters:
//   - options: functional options shared by all cached pipelines
//
// Returns:
//   - *Cache: the new cache
func NewCache(options ...PipelineBuilderOption) *Cache {
	return &Cache{
		pipelines: make(map[State]Pipeline),
		options:   options,
	}
}

// Get returns the pipeline for state, calling create to build the GPU pipeline on a miss. A failed
// create is not cached.
//
// Parameters:
//   - state: the fixed-function state
//   - create: builds the render pipeline for a new Pipeline
//
// Returns:
//   - Pipeline: the cached or newly created pipeline
//   - error: the error returned by create
func (c *Cache) Get(state State, create func(Pipeline) error) (Pipeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pipelines[state]; ok {
		return p, nil
	}

	p := NewPipeline(state, c.options...)
	if err := create(p); err != nil {
		return nil, err
	}
	c.pipelines[state] = p
	common.Logger().Debug("pipeline created", "state", state.String(), "cached", len(c.pipelines))
	return p, nil
}

// Len returns the number of cached pipelines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pipelines)
}

// Clear releases and drops every cached pipeline.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.pipelines {
		p.Release()
	}
	c.pipelines = make(map[State]Pipeline)
}
