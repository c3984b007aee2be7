//go:build llama

package runtime

import (
	"context"
	"errors"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaRuntime keeps one llama.cpp context resident. Attaching an adapter
// rebuilds the context with the LoRA delta applied; the mmap'd base weights
// are shared between contexts so the swap does not re-read them from disk.
type llamaRuntime struct {
	basePath string
	ctxSize  int
	threads  int

	model    *llama.LLama
	attached string
}

// NewLlama loads the base model from basePath.
func NewLlama(basePath string, ctxSize, threads int) (Runtime, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, errors.New("base model path is empty")
	}
	m, err := llama.New(basePath, llama.SetContext(ctxSize))
	if err != nil {
		return nil, err
	}
	return &llamaRuntime{basePath: basePath, ctxSize: ctxSize, threads: threads, model: m}, nil
}

func (r *llamaRuntime) Loaded() bool { return r.model != nil }

func (r *llamaRuntime) Attach(name, weightsPath string) error {
	if r.model == nil {
		return ErrUnavailable("base model not loaded")
	}
	if r.attached == name {
		return nil
	}
	m, err := llama.New(r.basePath,
		llama.SetContext(r.ctxSize),
		llama.SetLoraBase(r.basePath),
		llama.SetLoraAdapter(weightsPath),
	)
	if err != nil {
		return err
	}
	r.model.Free()
	r.model = m
	r.attached = name
	return nil
}

func (r *llamaRuntime) Detach() error {
	if r.attached == "" {
		return nil
	}
	m, err := llama.New(r.basePath, llama.SetContext(r.ctxSize))
	if err != nil {
		return err
	}
	r.model.Free()
	r.model = m
	r.attached = ""
	return nil
}

func (r *llamaRuntime) Generate(ctx context.Context, prompt string, params Params) (string, error) {
	if r.model == nil {
		return "", ErrUnavailable("base model not loaded")
	}
	r.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := r.model.Predict(prompt, predictOptions(params, r.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func (r *llamaRuntime) Close() error {
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
	return nil
}

// predictOptions converts Params into go-llama.cpp options.
func predictOptions(params Params, threads int) []llama.PredictOption {
	tokens := params.MaxNewTokens
	if tokens <= 0 {
		tokens = 1
	}
	if threads <= 0 {
		threads = 1
	}
	po := []llama.PredictOption{
		llama.SetTokens(tokens),
		llama.SetThreads(threads),
	}
	if params.Sample {
		po = append(po,
			llama.SetTemperature(float32(params.Temperature)),
			llama.SetTopP(float32(params.TopP)),
		)
	} else {
		// Greedy decoding: take the argmax at each step.
		po = append(po, llama.SetTemperature(0), llama.SetTopK(1))
	}
	if params.Seed != 0 {
		po = append(po, llama.SetSeed(params.Seed))
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
