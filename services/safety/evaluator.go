// Package safety is the policy evaluation engine: it resolves a profile's
// bound checks, dispatches each one against the payload, and combines the
// results into a verdict.
package safety

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/services/checks"
)

// PolicyStore resolves profile names to fully loaded profiles, checks
// included. Implemented by the profile service.
type PolicyStore interface {
	GetProfileByName(ctx context.Context, name string) (*models.Profile, error)
}

// Config holds the evaluator's own knobs, passed in explicitly rather than
// read from process-wide state.
type Config struct {
	// DefaultProfile is used when the caller names no profile and has no
	// default of their own.
	DefaultProfile string
}

// Evaluator orchestrates one evaluation: resolve, dispatch, aggregate.
// Stateless between calls; concurrent evaluations share nothing mutable.
type Evaluator struct {
	store      PolicyStore
	dispatcher checks.Dispatcher
	config     Config
	logger     *zap.Logger
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(store PolicyStore, dispatcher checks.Dispatcher, config Config, logger *zap.Logger) *Evaluator {
	if config.DefaultProfile == "" {
		config.DefaultProfile = "default"
	}
	return &Evaluator{
		store:      store,
		dispatcher: dispatcher,
		config:     config,
		logger:     logger,
	}
}

// DefaultProfile returns the configured fallback profile name.
func (e *Evaluator) DefaultProfile() string {
	return e.config.DefaultProfile
}

// Evaluate resolves the named profile and runs every bound check against the
// payload. All checks for one evaluation fan out concurrently; any dispatch
// failure aborts the whole evaluation with no partial verdict. A misbehaving
// backend must never produce a "safe" verdict by omission.
func (e *Evaluator) Evaluate(ctx context.Context, profileName string, payload models.Payload) (*models.Verdict, error) {
	profile, err := e.store.GetProfileByName(ctx, profileName)
	if err != nil {
		return nil, fmt.Errorf("error looking up profile: %w", err)
	}

	results := make(map[string]bool, len(profile.Checks))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, check := range profile.Checks {
		e.logger.Debug("running check from profile",
			zap.String("profile", profile.Name),
			zap.String("check", check.Name))

		wg.Add(1)
		go func(check *models.Check) {
			defer wg.Done()
			passed, err := e.dispatcher.Dispatch(ctx, check, payload)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("check %q failed: %w", check.Name, err)
					// Inform every in-flight dispatch, not a subset.
					cancel()
				}
				return
			}
			results[check.Name] = passed
		}(check)
	}

	wg.Wait()

	if firstErr != nil {
		e.logger.Error("evaluation aborted",
			zap.String("profile", profile.Name),
			zap.Error(firstErr))
		return nil, firstErr
	}

	verdict := &models.Verdict{
		Overall: Combine(results),
		Checks:  results,
	}
	e.logger.Debug("evaluation finished",
		zap.String("profile", profile.Name),
		zap.Bool("verdict", verdict.Overall),
		zap.Int("checks", len(results)))

	return verdict, nil
}

// ResolveProfileName applies the fallback chain: the requested profile when
// given, otherwise the caller's default, otherwise the service-wide default.
func (e *Evaluator) ResolveProfileName(requested, callerDefault string) string {
	if requested != "" {
		return requested
	}
	if callerDefault != "" {
		return callerDefault
	}
	return e.config.DefaultProfile
}
