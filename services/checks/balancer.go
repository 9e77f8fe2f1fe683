package checks

import (
	"math/rand"

	"github.com/upb/moderation-gateway/services"
)

// Balancer selects one upstream address for a single dispatch attempt. It is
// the extension point for smarter selection (round-robin, health-aware)
// without touching the dispatch contract.
type Balancer interface {
	// Pick returns one address from the given list.
	Pick(addresses []string) (string, error)

	// Name identifies the load-balancing policy.
	Name() string
}

// RandomBalancer picks an upstream uniformly at random. No health checking,
// no retry: a failed address fails the whole check.
type RandomBalancer struct{}

// NewRandomBalancer creates the default load-balancing policy.
func NewRandomBalancer() *RandomBalancer {
	return &RandomBalancer{}
}

// Name identifies the policy.
func (b *RandomBalancer) Name() string {
	return "random, no retry"
}

// Pick returns one address chosen uniformly at random.
func (b *RandomBalancer) Pick(addresses []string) (string, error) {
	if len(addresses) == 0 {
		return "", services.ErrNoUpstreamServices
	}
	return addresses[rand.Intn(len(addresses))], nil
}
