// Package cart holds the cart badge counter. Only a landed flight adds to it.
package cart

import "sync/atomic"

// Counter is a monotonically increasing item count.
type Counter struct {
	n atomic.Int64
}

// Increment adds one item and returns the new count.
func (c *Counter) Increment() int {
	return int(c.n.Add(1))
}

func (c *Counter) Count() int {
	return int(c.n.Load())
}
