package backend

import (
	"context"
	"errors"
)

// Retrying wraps a Generator with the timeout retry policy: exactly one
// transparent retry of the same prompt when the first attempt times out.
// Every other error propagates immediately — a backend that is erroring
// rather than slow will not get better on a second slow inference pass.
type Retrying struct {
	Inner Generator
}

func (r Retrying) Name() string { return r.Inner.Name() }

func (r Retrying) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := r.Inner.Generate(ctx, prompt)
	if err != nil && errors.Is(err, ErrTimeout) && ctx.Err() == nil {
		out, err = r.Inner.Generate(ctx, prompt)
	}
	return out, err
}
