// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/worldtravels/internal/platform/apperr"
	"github.com/taibuivan/worldtravels/internal/platform/constants"
)

// # Token Denylist

// RedisTokenDenylist implements [sec.Denylist] on Redis so that every API
// instance observes a logout immediately.
type RedisTokenDenylist struct {
	client redis.UniversalClient
}

// NewTokenDenylist creates a Redis-backed denylist.
func NewTokenDenylist(client redis.UniversalClient) *RedisTokenDenylist {
	return &RedisTokenDenylist{client: client}
}

/*
Add stores a token id until its natural expiry.

Parameters:
  - context: context.Context
  - tokenID: string (jti claim)
  - ttl: time.Duration (remaining token lifetime)
*/
func (repository *RedisTokenDenylist) Add(context context.Context, tokenID string, ttl time.Duration) error {
	key := constants.RedisPrefixDenylist + tokenID

	if err := repository.client.Set(context, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis_denylist_add_failed: %w", err)
	}
	return nil
}

// Contains reports whether tokenID has been denylisted.
func (repository *RedisTokenDenylist) Contains(context context.Context, tokenID string) (bool, error) {
	key := constants.RedisPrefixDenylist + tokenID

	count, err := repository.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_denylist_contains_failed: %w", err)
	}
	return count > 0, nil
}

// RevokeSubject records a unix-microseconds mark; tokens issued at or before it are rejected.
func (repository *RedisTokenDenylist) RevokeSubject(context context.Context, accountID string, before time.Time, ttl time.Duration) error {
	key := constants.RedisPrefixRevokedBefore + accountID

	if err := repository.client.Set(context, key, before.UnixMicro(), ttl).Err(); err != nil {
		return fmt.Errorf("redis_denylist_revoke_subject_failed: %w", err)
	}
	return nil
}

// RevokedBefore returns the revocation mark for accountID, if any.
func (repository *RedisTokenDenylist) RevokedBefore(context context.Context, accountID string) (time.Time, bool, error) {
	key := constants.RedisPrefixRevokedBefore + accountID

	raw, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("redis_denylist_revoked_before_failed: %w", err)
	}

	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis_denylist_corrupt_mark: %w", err)
	}
	return time.UnixMicro(micros), true, nil
}

// # Verification Code Repository

// consumeScript deletes the key only when it still holds the expected code.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisVerificationCodeRepository implements VerificationCodeRepository using Redis.
type RedisVerificationCodeRepository struct {
	client redis.UniversalClient
}

// NewVerificationCodeRepository creates a new Redis-backed VerificationCodeRepository.
func NewVerificationCodeRepository(client redis.UniversalClient) *RedisVerificationCodeRepository {
	return &RedisVerificationCodeRepository{client: client}
}

// Set stores the code for accountID with a TTL, replacing any previous one.
func (repository *RedisVerificationCodeRepository) Set(context context.Context, accountID, code string, ttl time.Duration) error {
	key := constants.RedisPrefixVerifyCode + accountID

	if err := repository.client.Set(context, key, code, ttl).Err(); err != nil {
		return fmt.Errorf("redis_verify_code_set_failed: %w", err)
	}
	return nil
}

/*
Get retrieves the outstanding code for accountID.

Returns:
  - string: The code
  - error: apperr.NotFound if absent or expired
*/
func (repository *RedisVerificationCodeRepository) Get(context context.Context, accountID string) (string, error) {
	key := constants.RedisPrefixVerifyCode + accountID

	code, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Verification code")
		}
		return "", fmt.Errorf("redis_verify_code_get_failed: %w", err)
	}
	return code, nil
}

// Consume atomically deletes the code if it still matches.
func (repository *RedisVerificationCodeRepository) Consume(context context.Context, accountID, code string) (bool, error) {
	key := constants.RedisPrefixVerifyCode + accountID

	deleted, err := consumeScript.Run(context, repository.client, []string{key}, code).Int()
	if err != nil {
		return false, fmt.Errorf("redis_verify_code_consume_failed: %w", err)
	}
	return deleted == 1, nil
}
