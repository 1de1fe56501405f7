package engine

// capped is a newest-first list that evicts its oldest items beyond a limit
type capped[T any] struct {
	limit int
	items []T
}

func newCapped[T any](limit int) *capped[T] {
	return &capped[T]{limit: limit}
}

// Push prepends an item and returns whatever fell off the end
func (c *capped[T]) Push(item T) []T {
	c.items = append([]T{item}, c.items...)
	if len(c.items) <= c.limit {
		return nil
	}
	evicted := append([]T(nil), c.items[c.limit:]...)
	c.items = c.items[:c.limit]
	return evicted
}

// RemoveFunc drops every item matching the predicate
func (c *capped[T]) RemoveFunc(match func(T) bool) {
	kept := c.items[:0]
	for _, item := range c.items {
		if !match(item) {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Items returns a copy, newest first
func (c *capped[T]) Items() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *capped[T]) Len() int {
	return len(c.items)
}

func (c *capped[T]) Clear() {
	c.items = nil
}
