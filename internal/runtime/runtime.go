// Package runtime abstracts the resident base model and its attachable
// adapter delta. The manager serializes all access, so implementations do
// not need internal locking.
package runtime

import "context"

// Params captures generation parameters passed to the runtime.
type Params struct {
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	// Sample enables sampling; greedy decoding otherwise.
	Sample bool
	Stop   []string
	Seed   int
}

// Runtime is the injected model capability. Attaching an adapter swaps the
// delta only; base weights stay resident for the process lifetime.
type Runtime interface {
	// Generate produces a completion for prompt. Must return promptly when
	// ctx is canceled; the in-flight native call itself is not preemptible.
	Generate(ctx context.Context, prompt string, params Params) (string, error)
	// Attach layers the named adapter delta onto the base weights.
	Attach(name, weightsPath string) error
	// Detach removes the current adapter delta, if any.
	Detach() error
	// Loaded reports whether the base model is resident.
	Loaded() bool
	// Close releases the base model.
	Close() error
}

// unavailableError signals a missing runtime dependency for 503 mapping.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
