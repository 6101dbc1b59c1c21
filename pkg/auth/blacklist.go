package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/leadhub/leadhub/pkg/cache"
)

const blacklistKeyPrefix = "jwt:blacklist:"

// TokenBlacklist records revoked JWTs in Redis so a logged-out token cannot
// be replayed. Entries live exactly as long as the token itself would have,
// after which Redis drops them and the token is rejected by expiry anyway.
type TokenBlacklist struct {
	cache *cache.Client
}

// NewTokenBlacklist creates a blacklist backed by the given Redis client.
func NewTokenBlacklist(c *cache.Client) *TokenBlacklist {
	return &TokenBlacklist{cache: c}
}

// Revoke blacklists a token for the remainder of its validity, read from its
// exp claim. When the claim cannot be read the fallback duration is used, so
// revocation still holds for tokens we cannot fully parse.
func (b *TokenBlacklist) Revoke(ctx context.Context, token, secret string, fallback time.Duration) error {
	ttl := fallback
	if claims, err := ValidateJWT(token, secret); err == nil && claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return b.cache.Set(ctx, blacklistKey(token), "revoked", ttl)
}

// IsBlacklisted reports whether the token has been revoked.
func (b *TokenBlacklist) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	return b.cache.Exists(ctx, blacklistKey(token))
}

// Tokens are stored hashed; raw JWTs never reach Redis.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return blacklistKeyPrefix + hex.EncodeToString(sum[:])
}
