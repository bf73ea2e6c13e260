package pulse

type Releaser interface {
	Release()
}

// ReleaseGuard releases its delegate at most once. Defer Release directly
// after acquiring a resource and call Release again on the success path.
type ReleaseGuard struct {
	delegate Releaser
}

func NewReleaseGuard(delegate Releaser) ReleaseGuard {
	return ReleaseGuard{delegate: delegate}
}

func (r *ReleaseGuard) Release() {
	if r.delegate == nil {
		return
	}

	r.delegate.Release()
	r.delegate = nil
}
