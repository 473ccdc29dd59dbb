package common

// PoolStats is a snapshot of a pool's bookkeeping.
type PoolStats struct {
	Pooled int
	Active int
	Total  int
}

// ObjectPool hands out reusable values. Values come back through Release,
// which runs reset before pooling them again.
type ObjectPool[T comparable] struct {
	create func() T
	reset  func(T)
	free   []T
	active []T
}

// NewObjectPool preallocates size values with create.
func NewObjectPool[T comparable](create func() T, reset func(T), size int) *ObjectPool[T] {
	p := &ObjectPool[T]{create: create, reset: reset}
	p.free = make([]T, 0, size)
	for range size {
		p.free = append(p.free, create())
	}
	return p
}

// Get pops a pooled value or creates one when the pool is empty.
func (p *ObjectPool[T]) Get() T {
	var v T
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		v = p.create()
	}
	p.active = append(p.active, v)
	return v
}

// Release resets v and returns it to the pool. Values that are not
// currently handed out are ignored, so releasing twice is harmless.
func (p *ObjectPool[T]) Release(v T) {
	found := false
	for i, a := range p.active {
		if a == v {
			p.active = append(p.active[:i], p.active[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return
	}
	if p.reset != nil {
		p.reset(v)
	}
	p.free = append(p.free, v)
}

func (p *ObjectPool[T]) ReleaseAll() {
	for len(p.active) > 0 {
		p.Release(p.active[0])
	}
}

func (p *ObjectPool[T]) Stats() PoolStats {
	return PoolStats{
		Pooled: len(p.free),
		Active: len(p.active),
		Total:  len(p.free) + len(p.active),
	}
}

// Clear drops every value, pooled or active.
func (p *ObjectPool[T]) Clear() {
	p.free = nil
	p.active = nil
}
