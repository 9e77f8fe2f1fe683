// Package checks executes a single check against a single payload. Local
// checks resolve entirely from static configuration; remote checks call an
// external verification backend over the wire protocol in remote.go.
package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/services"
)

// Dispatcher executes one check descriptor against one payload.
type Dispatcher interface {
	Dispatch(ctx context.Context, check *models.Check, payload models.Payload) (bool, error)
}

// CheckDispatcher selects between the local stub strategy and the remote
// backend strategy based on the check's kind.
type CheckDispatcher struct {
	client  *RemoteClient
	logger  *zap.Logger
	timeout time.Duration
}

// NewCheckDispatcher creates a dispatcher. The timeout bounds each remote
// dispatch; zero disables the bound.
func NewCheckDispatcher(client *RemoteClient, timeout time.Duration, logger *zap.Logger) *CheckDispatcher {
	return &CheckDispatcher{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// Dispatch runs the check against the payload and returns the boolean result.
// Fails with an unsupported-payload error when the check does not declare
// support for the payload's kind.
func (d *CheckDispatcher) Dispatch(ctx context.Context, check *models.Check, payload models.Payload) (bool, error) {
	if !check.Supports(payload.Kind()) {
		return false, services.NewDomainError(services.ErrorTypeUnsupportedPayload,
			fmt.Sprintf("check %q does not support %s payloads", check.Name, payload.Kind()), nil).
			WithDetail("check", check.Name).
			WithDetail("payload_kind", string(payload.Kind()))
	}

	kind := check.Kind
	if kind == "" {
		// Checks constructed outside NewCheck (e.g. scanned rows from an older
		// schema) may arrive without a resolved kind.
		kind = models.CheckKindFromName(check.Name)
	}

	switch kind {
	case models.CheckKindLocal:
		result := resolveLocalResult(check.Config)
		d.logger.Debug("resolved local check",
			zap.String("check", check.Name),
			zap.Bool("result", result))
		return result, nil
	case models.CheckKindRemote:
		return d.dispatchRemote(ctx, check, payload)
	default:
		return false, fmt.Errorf("unknown check kind: %q", kind)
	}
}

func (d *CheckDispatcher) dispatchRemote(ctx context.Context, check *models.Check, payload models.Payload) (bool, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	result, err := d.client.Check(ctx, check, payload)
	if err != nil {
		d.logger.Debug("remote check failed",
			zap.String("check", check.Name),
			zap.Error(err))
		return false, err
	}

	d.logger.Debug("remote check finished",
		zap.String("check", check.Name),
		zap.Bool("result", result))
	return result, nil
}

// resolveLocalResult resolves a boolean from the check's "result" config
// entry. Coercion rules, in order: bool used directly; string compared
// case-insensitively to "true"/"false" (anything else falls through);
// numeric follows the non-zero rule. Missing key or no match means false.
func resolveLocalResult(config map[string]any) bool {
	if config == nil {
		return false
	}
	value, ok := config["result"]
	if !ok {
		return false
	}

	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true":
			return true
		case "false":
			return false
		}
		return false
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}
