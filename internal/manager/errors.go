package manager

import "fmt"

// busyError signals gate timeout/overflow for backpressure mapping.
type busyError struct{}

func (busyError) Error() string { return "busy: generation gate wait exceeded" }

// ErrBusy constructs a busyError.
func ErrBusy() error { return busyError{} }

// IsBusy reports whether err indicates backpressure (return 429/503).
func IsBusy(err error) bool {
	_, ok := err.(busyError)
	return ok
}

// notFoundError signals a request for an unknown adapter.
type notFoundError struct{ name string }

func (e notFoundError) Error() string { return "adapter not found: " + e.name }

// ErrAdapterNotFound returns an error for an unknown adapter name.
func ErrAdapterNotFound(name string) error { return notFoundError{name: name} }

// IsNotFound reports whether err indicates a missing adapter.
func IsNotFound(err error) bool {
	_, ok := err.(notFoundError)
	return ok
}

// adapterLoadError signals a failed attach; the resource has been reverted
// to its previous state.
type adapterLoadError struct {
	name string
	err  error
}

func (e adapterLoadError) Error() string {
	return fmt.Sprintf("adapter load failed for %q: %v", e.name, e.err)
}

func (e adapterLoadError) Unwrap() error { return e.err }

// IsAdapterLoad reports whether err indicates a failed adapter activation.
func IsAdapterLoad(err error) bool {
	_, ok := err.(adapterLoadError)
	return ok
}

// configurationError is startup-fatal: missing or invalid adapter/model
// configuration.
type configurationError struct{ msg string }

func (e configurationError) Error() string { return "configuration error: " + e.msg }

// ErrConfiguration constructs a configurationError.
func ErrConfiguration(msg string) error { return configurationError{msg: msg} }

// IsConfiguration reports whether err is startup-fatal configuration failure.
func IsConfiguration(err error) bool {
	_, ok := err.(configurationError)
	return ok
}
