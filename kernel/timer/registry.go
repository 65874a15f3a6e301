package timer

// Handle identifies a timer created through a Registry. Handles are never
// reused for the lifetime of the registry, and the zero Handle is never
// issued, so it can stand for "no timer".
type Handle uint64

// Registry issues timer handles and tracks whether each one is still live.
// It is not safe for concurrent use.
type Registry struct {
	next uint64
	live map[Handle]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		live: make(map[Handle]struct{}),
	}
}

// Create allocates the next handle and marks it live.
func (r *Registry) Create() Handle {
	r.next++
	h := Handle(r.next)
	r.live[h] = struct{}{}
	return h
}

// IsLive reports whether h was issued and has not been cancelled.
func (r *Registry) IsLive(h Handle) bool {
	_, ok := r.live[h]
	return ok
}

// Cancel marks h dead. Cancelling an unknown or already cancelled handle
// does nothing.
func (r *Registry) Cancel(h Handle) {
	delete(r.live, h)
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	return len(r.live)
}

// Issued returns how many handles were ever created.
func (r *Registry) Issued() uint64 {
	return r.next
}
