package checks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/upb/moderation-gateway/models"
	"github.com/upb/moderation-gateway/services"
)

// checkRequest is the wire request of the verification protocol. Exactly one
// of Text or Image is set.
type checkRequest struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

// checkResponse is the wire response. Result is a pointer so that an absent
// field is distinguishable from false.
type checkResponse struct {
	Result *bool `json:"result"`
}

// RemoteClient issues single check requests against external verification
// backends. One request, one boolean back; failures are the caller's problem.
type RemoteClient struct {
	httpClient *http.Client
	balancer   Balancer
	logger     *zap.Logger
}

// NewRemoteClient creates a client using the given load-balancing policy.
func NewRemoteClient(balancer Balancer, timeout time.Duration, logger *zap.Logger) *RemoteClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &RemoteClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		balancer: balancer,
		logger:   logger,
	}
}

// Check sends the payload to one of the check's upstream services and blocks
// for exactly one boolean response.
func (c *RemoteClient) Check(ctx context.Context, check *models.Check, payload models.Payload) (bool, error) {
	addr, err := c.balancer.Pick(check.UpstreamServices)
	if err != nil {
		return false, err
	}

	req := checkRequest{}
	switch payload.Kind() {
	case models.PayloadKindText:
		req.Text = payload.Content()
	case models.PayloadKindImage:
		req.Image = payload.Content()
	default:
		return false, services.NewDomainError(services.ErrorTypeUnsupportedPayload,
			fmt.Sprintf("unknown payload kind %q", payload.Kind()), nil)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return false, services.WrapInternal("failed to marshal check request", err)
	}

	url := checkURL(addr)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(body)))
	if err != nil {
		return false, services.WrapInternal("failed to create check request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling upstream service",
		zap.String("check", check.Name),
		zap.String("upstream", addr),
		zap.String("balancer", c.balancer.Name()))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isClientTimeout(err) {
			return false, services.NewDomainError(services.ErrorTypeTimeout,
				fmt.Sprintf("check timed out calling %s", addr), err).
				WithDetail("check", check.Name)
		}
		return false, services.NewDomainError(services.ErrorTypeBackendUnreachable,
			fmt.Sprintf("failed to reach %s", addr), err).
			WithDetail("check", check.Name)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return false, services.NewDomainError(services.ErrorTypeProtocol,
			"failed to read check response", err).
			WithDetail("check", check.Name)
	}

	if httpResp.StatusCode != http.StatusOK {
		return false, services.NewDomainError(services.ErrorTypeProtocol,
			fmt.Sprintf("backend returned status %d", httpResp.StatusCode), nil).
			WithDetail("check", check.Name).
			WithDetail("upstream", addr)
	}

	var resp checkResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return false, services.NewDomainError(services.ErrorTypeProtocol,
			"failed to unmarshal check response", err).
			WithDetail("check", check.Name)
	}
	if resp.Result == nil {
		return false, services.NewDomainError(services.ErrorTypeProtocol,
			"check response missing result field", nil).
			WithDetail("check", check.Name)
	}

	return *resp.Result, nil
}

// checkURL builds the check endpoint URL from an upstream address, which may
// be a bare host:port or carry an explicit scheme.
func checkURL(addr string) string {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return strings.TrimSuffix(addr, "/") + "/v1/check"
}

func isClientTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
