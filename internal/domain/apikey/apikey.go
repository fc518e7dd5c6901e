package apikey

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"keygate/internal/shared/id"
)

// APIKey is a credential issued to an account and mirrored as a gateway
// consumer. Only a one-way hash of the secret is kept; the non-secret prefix
// doubles as the gateway consumer name. A row is persisted only after the
// paired gateway consumer exists, so a stored key always carries a consumer
// reference.
type APIKey struct {
	id                uint
	accountID         uint
	name              string
	keyHash           string
	keyPrefix         string
	gatewayConsumerID *string
	revokedAt         *time.Time
	lastUsedAt        *time.Time
	expiresAt         *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// NewAPIKey generates a credential for an account. The plaintext secret is
// returned exactly once; afterwards only the bcrypt hash and the display
// prefix survive.
func NewAPIKey(accountID uint, name string) (*APIKey, string, error) {
	if accountID == 0 {
		return nil, "", fmt.Errorf("account ID is required")
	}
	if name == "" {
		return nil, "", fmt.Errorf("key name is required")
	}

	secret, err := id.NewSecret()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate secret: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash secret: %w", err)
	}

	now := time.Now()
	key := &APIKey{
		accountID: accountID,
		name:      name,
		keyHash:   string(hash),
		keyPrefix: id.DisplayPrefix(secret),
		createdAt: now,
		updatedAt: now,
	}
	return key, secret, nil
}

// ReconstructAPIKey reconstructs a credential from persistence.
func ReconstructAPIKey(
	keyID, accountID uint,
	name, keyHash, keyPrefix string,
	gatewayConsumerID *string,
	revokedAt, lastUsedAt, expiresAt *time.Time,
	createdAt, updatedAt time.Time,
) (*APIKey, error) {
	if keyID == 0 {
		return nil, fmt.Errorf("key ID cannot be zero")
	}
	if accountID == 0 {
		return nil, fmt.Errorf("account ID is required")
	}
	if keyHash == "" {
		return nil, fmt.Errorf("key hash is required")
	}
	if keyPrefix == "" {
		return nil, fmt.Errorf("key prefix is required")
	}

	return &APIKey{
		id:                keyID,
		accountID:         accountID,
		name:              name,
		keyHash:           keyHash,
		keyPrefix:         keyPrefix,
		gatewayConsumerID: gatewayConsumerID,
		revokedAt:         revokedAt,
		lastUsedAt:        lastUsedAt,
		expiresAt:         expiresAt,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}, nil
}

func (k *APIKey) ID() uint                    { return k.id }
func (k *APIKey) AccountID() uint             { return k.accountID }
func (k *APIKey) Name() string                { return k.name }
func (k *APIKey) KeyHash() string             { return k.keyHash }
func (k *APIKey) KeyPrefix() string           { return k.keyPrefix }
func (k *APIKey) GatewayConsumerID() *string  { return k.gatewayConsumerID }
func (k *APIKey) RevokedAt() *time.Time       { return k.revokedAt }
func (k *APIKey) LastUsedAt() *time.Time      { return k.lastUsedAt }
func (k *APIKey) ExpiresAt() *time.Time       { return k.expiresAt }
func (k *APIKey) CreatedAt() time.Time        { return k.createdAt }
func (k *APIKey) UpdatedAt() time.Time        { return k.updatedAt }

// IsActive reports whether the key is usable (not revoked, not expired).
func (k *APIKey) IsActive() bool {
	if k.revokedAt != nil {
		return false
	}
	if k.expiresAt != nil && k.expiresAt.Before(time.Now()) {
		return false
	}
	return true
}

// SetID assigns the persistence identity after the initial insert.
func (k *APIKey) SetID(keyID uint) error {
	if k.id != 0 {
		return fmt.Errorf("key ID already set")
	}
	if keyID == 0 {
		return fmt.Errorf("key ID cannot be zero")
	}
	k.id = keyID
	return nil
}

// AttachGatewayConsumer records the gateway consumer backing this key. Must
// happen before the key is persisted and can happen only once.
func (k *APIKey) AttachGatewayConsumer(consumerID string) error {
	if consumerID == "" {
		return fmt.Errorf("consumer ID is required")
	}
	if k.gatewayConsumerID != nil {
		return fmt.Errorf("gateway consumer already attached")
	}
	k.gatewayConsumerID = &consumerID
	k.updatedAt = time.Now()
	return nil
}

// Revoke stamps the revocation time. Callers must have removed the gateway
// consumer first; a key must never read as revoked locally while the
// enforcement point still accepts it.
func (k *APIKey) Revoke() error {
	if k.revokedAt != nil {
		return fmt.Errorf("key already revoked")
	}
	now := time.Now()
	k.revokedAt = &now
	k.updatedAt = now
	return nil
}

// Matches verifies a plaintext secret against the stored hash.
func (k *APIKey) Matches(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(k.keyHash), []byte(secret)) == nil
}

// TouchLastUsed records usage observed at the gateway.
func (k *APIKey) TouchLastUsed(at time.Time) {
	k.lastUsedAt = &at
	k.updatedAt = time.Now()
}
