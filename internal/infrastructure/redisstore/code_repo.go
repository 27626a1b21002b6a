// Package redisstore keeps verification codes in Redis, one hash per
// phone number under "otp:<phone>". A Lua script makes the compare-and-
// delete on login a single atomic step on the Redis side.
package redisstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/lingvoapp/auth-service/internal/domain"
	"github.com/lingvoapp/auth-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otp:"

// consumeScript deletes the entry only when the stored code matches.
// Returns 1 on consume, 0 when the entry is absent or holds another code.
var consumeScript = redis.NewScript(`
local stored = redis.call("HGET", KEYS[1], "code")
if not stored then
  return 0
end
if stored ~= ARGV[1] then
  return 0
end
redis.call("DEL", KEYS[1])
return 1
`)

type CodeRepository struct {
	client *redis.Client
}

func NewCodeRepository(client *redis.Client) *CodeRepository {
	return &CodeRepository{client: client}
}

// Ping satisfies the health checker's dependency probe.
func (r *CodeRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *CodeRepository) Put(ctx context.Context, code domain.VerificationCode) error {
	key := keyPrefix + code.PhoneNumber

	// MULTI/EXEC so a concurrent Put never leaves a half-written entry.
	// The key expires well past the logical expiry: validity is decided
	// against expires_at at read time, Redis eviction is only cleanup.
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"code", code.Code,
			"issued_at", code.IssuedAt.UnixMilli(),
			"expires_at", code.ExpiresAt.UnixMilli(),
		)
		pipe.PExpireAt(ctx, key, code.ExpiresAt.Add(repository.TTLGrace))
		return nil
	})
	if err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}
	return nil
}

func (r *CodeRepository) Get(ctx context.Context, phone string) (*domain.VerificationCode, error) {
	vals, err := r.client.HMGet(ctx, keyPrefix+phone, "code", "issued_at", "expires_at").Result()
	if err != nil {
		return nil, fmt.Errorf("load verification code: %w", err)
	}
	if vals[0] == nil || vals[1] == nil || vals[2] == nil {
		return nil, domain.ErrCodeNotFound
	}

	code, ok := vals[0].(string)
	if !ok {
		return nil, fmt.Errorf("load verification code: unexpected code field %T", vals[0])
	}
	issuedAt, err := unixMilliField(vals[1])
	if err != nil {
		return nil, fmt.Errorf("load verification code: %w", err)
	}
	expiresAt, err := unixMilliField(vals[2])
	if err != nil {
		return nil, fmt.Errorf("load verification code: %w", err)
	}

	return &domain.VerificationCode{
		PhoneNumber: phone,
		Code:        code,
		IssuedAt:    issuedAt,
		ExpiresAt:   expiresAt,
	}, nil
}

func (r *CodeRepository) Consume(ctx context.Context, phone, code string) (bool, error) {
	consumed, err := consumeScript.Run(ctx, r.client, []string{keyPrefix + phone}, code).Int()
	if err != nil {
		return false, fmt.Errorf("consume verification code: %w", err)
	}
	return consumed == 1, nil
}

func (r *CodeRepository) Delete(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, keyPrefix+phone).Err(); err != nil {
		return fmt.Errorf("delete verification code: %w", err)
	}
	return nil
}

func unixMilliField(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected timestamp field %T", v)
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp field: %w", err)
	}
	return time.UnixMilli(ms).UTC(), nil
}
