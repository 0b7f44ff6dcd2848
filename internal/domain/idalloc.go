package domain

import "sync"

// IDAllocator hands out monotonically increasing object ids above a
// reserved range. Ids are never reused, even when the write that consumed
// one is rolled back.
type IDAllocator struct {
	mu       sync.Mutex
	reserved int64
	next     int64
}

// NewIDAllocator creates an allocator whose first id is reserved
func NewIDAllocator(reserved int64) *IDAllocator {
	return &IDAllocator{reserved: reserved, next: reserved}
}

// Next returns a fresh id
func (a *IDAllocator) Next() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.next
	a.next++
	return id
}

// Observe moves the allocator past an id already in use
func (a *IDAllocator) Observe(id int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if id >= a.next {
		a.next = id + 1
	}
}

// Peek returns the id the next call to Next will return
func (a *IDAllocator) Peek() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

// Reserved reports whether id belongs to the reserved range
func (a *IDAllocator) Reserved(id int64) bool {
	return id >= 0 && id < a.reserved
}
