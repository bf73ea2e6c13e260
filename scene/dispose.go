package scene

// disposer tracks listeners interested in the end of life of a resource.
// Renderers register a listener when they allocate gpu resources for an object
// and release them once Dispose is called.
type disposer struct {
	listeners []func()
	disposed  bool
}

// OnDispose registers fn to be called once the resource is disposed. If the
// resource is already disposed, fn is called immediately.
func (d *disposer) OnDispose(fn func()) {
	if d.disposed {
		fn()
		return
	}

	d.listeners = append(d.listeners, fn)
}

// Dispose notifies all listeners. Calling Dispose more than once is a no-op.
func (d *disposer) Dispose() {
	if d.disposed {
		return
	}

	d.disposed = true

	listeners := d.listeners
	d.listeners = nil

	for _, fn := range listeners {
		fn()
	}
}

func (d *disposer) Disposed() bool {
	return d.disposed
}
