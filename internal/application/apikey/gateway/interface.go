// Package gateway defines the contract between API key provisioning and the
// edge gateway's admin API.
package gateway

import "context"

// EnsureConsumerParams describes the desired gateway consumer state. The
// username doubles as the credential's public identity at the gateway.
type EnsureConsumerParams struct {
	Username        string
	APIKey          string
	RequestsPerHour int
	Labels          map[string]string
}

// Consumer is a gateway-side consumer record.
type Consumer struct {
	Username        string
	RequestsPerHour int
	Labels          map[string]string
}

// ConsumerGateway manages credential consumers at the enforcement point.
// EnsureConsumer and UpdateRateLimit are idempotent puts of desired state;
// DeleteConsumer treats an already-absent consumer as success.
type ConsumerGateway interface {
	EnsureConsumer(ctx context.Context, params EnsureConsumerParams) error
	GetConsumer(ctx context.Context, username string) (*Consumer, bool, error)
	UpdateRateLimit(ctx context.Context, username string, requestsPerHour int) error
	DeleteConsumer(ctx context.Context, username string) error
}
