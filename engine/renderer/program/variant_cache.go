package program

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-bind/engine/renderer/signature"
)

// variant pairs a compiled program with the signature it was compiled for.
type variant struct {
	signature signature.Signature
	program   Program
}

// VariantCache stores the compiled variants of one pass keyed by program signature. Lookups compare
// signatures with Signature.Equal, so slots outside a signature's mask never cause a miss.
// A VariantCache is safe for concurrent use.
type VariantCache struct {
	mu       sync.RWMutex
	variants []variant
}

// NewVariantCache creates an empty cache.
//
// Returns:
//   - *VariantCache: the new cache
func NewVariantCache() *VariantCache {
	return &VariantCache{}
}

// Find returns the program compiled for a signature equal to sig.
//
// Parameters:
//   - sig: the signature to look up
//
// Returns:
//   - Program: the cached program, or nil
//   - bool: true on a hit
func (c *VariantCache) Find(sig signature.Signature) (Program, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.variants {
		if v.signature.Equal(sig) {
			return v.program, true
		}
	}
	return nil, false
}

// Add stores p under sig, replacing any program stored under an equal signature.
//
// Parameters:
//   - sig: the signature p was compiled for
//   - p: the compiled program
func (c *VariantCache) Add(sig signature.Signature, p Program) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, v := range c.variants {
		if v.signature.Equal(sig) {
			c.variants[i].program = p
			return
		}
	}
	c.variants = append(c.variants, variant{signature: sig, program: p})
}

// Len returns the number of cached variants.
//
// Returns:
//   - int: the number of variants
func (c *VariantCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.variants)
}

// Clear drops every cached variant, used when the pass sources are reloaded.
func (c *VariantCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.variants = nil
}
