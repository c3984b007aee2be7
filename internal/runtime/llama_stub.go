//go:build !llama

package runtime

import "context"

// This file provides a no-CGO stub compiled when the 'llama' build tag is
// NOT set, keeping default builds and CI CGO-free. The stub refuses to run
// inference rather than mocking it.

type stubRuntime struct{}

// NewLlama returns a runtime that reports the llama backend as unavailable.
func NewLlama(basePath string, ctxSize, threads int) (Runtime, error) {
	return stubRuntime{}, nil
}

func (stubRuntime) Loaded() bool { return false }

func (stubRuntime) Attach(name, weightsPath string) error {
	return ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (stubRuntime) Detach() error { return nil }

func (stubRuntime) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return "", ErrUnavailable("llama support not built (missing 'llama' build tag)")
}

func (stubRuntime) Close() error { return nil }
