// Package policy decides, per feature, whether to call a provider or use the
// deterministic local path, and guarantees a valid result either way.
package policy

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Feature names one of the gateway operations.
type Feature string

const (
	FeatureChat      Feature = "chat"
	FeatureRecommend Feature = "recommend"
	FeatureSearch    Feature = "search"
	FeatureDescribe  Feature = "describe"
	FeatureSentiment Feature = "sentiment"
)

// FailureKind classifies why the primary path was skipped or abandoned.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNoCredential
	FailureProvider
	FailureParse
	FailureEmpty
)

func (k FailureKind) String() string {
	switch k {
	case FailureNoCredential:
		return "no_credential"
	case FailureProvider:
		return "provider"
	case FailureParse:
		return "parse"
	case FailureEmpty:
		return "empty"
	default:
		return "none"
	}
}

// ErrEmptyResult marks a provider reply that decoded fine but carries nothing
// usable. It is treated the same as a hard provider failure.
var ErrEmptyResult = errors.New("provider returned an empty result")

// ErrParse marks provider output that does not match the expected shape.
// Wrap concrete parse errors with it so classification stays explicit.
var ErrParse = errors.New("provider output did not match expected shape")

// Engine holds the per-feature routing state: which features have a usable
// credential and how long their provider calls may run. Credentials are read
// once at process start; a missing one permanently routes the feature to its
// fallback, no network attempt is ever made.
type Engine struct {
	log      zerolog.Logger
	timeouts map[Feature]time.Duration
	creds    map[Feature]bool
}

// Config configures the engine.
type Config struct {
	Timeouts    map[Feature]time.Duration
	Credentials map[Feature]bool
}

// NewEngine creates a policy engine.
func NewEngine(log zerolog.Logger, cfg Config) *Engine {
	timeouts := make(map[Feature]time.Duration, len(cfg.Timeouts))
	for feature, timeout := range cfg.Timeouts {
		timeouts[feature] = timeout
	}
	creds := make(map[Feature]bool, len(cfg.Credentials))
	for feature, present := range cfg.Credentials {
		creds[feature] = present
	}
	return &Engine{log: log, timeouts: timeouts, creds: creds}
}

// HasCredential reports whether the feature's provider credential is present.
func (e *Engine) HasCredential(feature Feature) bool {
	return e.creds[feature]
}

// Timeout returns the provider-call budget for the feature.
func (e *Engine) Timeout(feature Feature) time.Duration {
	if timeout, ok := e.timeouts[feature]; ok {
		return timeout
	}
	return 30 * time.Second
}

// Classify maps an error from the primary path to a failure kind.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrEmptyResult):
		return FailureEmpty
	case errors.Is(err, ErrParse):
		return FailureParse
	default:
		return FailureProvider
	}
}

// Run executes primary under the feature's timeout and substitutes fallback
// on any failure. Fallback is strictly sequential and lazy: it runs only
// after primary has failed, never concurrently with it. If the enclosing
// context is already done, no fallback is owed and the context error is
// returned as-is.
func Run[T any](ctx context.Context, e *Engine, feature Feature, primary func(context.Context) (T, error), fallback func() (T, error)) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if !e.HasCredential(feature) {
		e.log.Debug().
			Str("feature", string(feature)).
			Str("kind", FailureNoCredential.String()).
			Msg("no provider credential, using deterministic path")
		return fallback()
	}

	callCtx, cancel := context.WithTimeout(ctx, e.Timeout(feature))
	defer cancel()

	result, err := primary(callCtx)
	if err == nil {
		return result, nil
	}

	// Caller aborted: the response is no longer needed.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return zero, ctxErr
	}

	e.log.Warn().
		Str("feature", string(feature)).
		Str("kind", Classify(err).String()).
		Err(err).
		Msg("provider path failed, using fallback")
	return fallback()
}
