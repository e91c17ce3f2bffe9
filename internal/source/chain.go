package source

import (
	"context"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
)

// Tier is one strategy of a fallback chain.
type Tier[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// TierFailure records why a tier did not produce a result.
type TierFailure struct {
	Tier string
	Err  error
}

// FallbackError is returned when every tier of a chain failed.
type FallbackError struct {
	Failures []TierFailure
}

func (e *FallbackError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Tier+": "+f.Err.Error())
	}
	return "all strategies failed (" + strings.Join(parts, "; ") + ")"
}

// Unwrap exposes every tier error to errors.Is and errors.As.
func (e *FallbackError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// Suggestions concatenates the suggestions of every failed tier, dropping
// duplicates.
func (e *FallbackError) Suggestions() []string {
	var out []string
	seen := map[string]bool{}
	for _, f := range e.Failures {
		var ve *ValidationError
		if !errors.As(f.Err, &ve) {
			continue
		}
		for _, s := range ve.Suggestions {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// RunChain runs tiers in order and returns the first success. Each tier runs
// at most once; nothing is retried. A cancelled context stops the chain.
func RunChain[T any](ctx context.Context, tiers ...Tier[T]) (T, error) {
	var zero T
	logger := logging.FromContext(ctx)
	failed := &FallbackError{}

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		result, err := tier.Run(ctx)
		if err == nil {
			if len(failed.Failures) > 0 {
				logger.Debug("fallback tier succeeded", "tier", tier.Name, "after", len(failed.Failures))
			}
			return result, nil
		}
		logger.Debug("fallback tier failed", "tier", tier.Name, "error", err)
		failed.Failures = append(failed.Failures, TierFailure{Tier: tier.Name, Err: err})
	}
	return zero, failed
}
