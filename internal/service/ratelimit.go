package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Post creation is throttled per author: one post per cooldown window. The
// window lives in redis so it holds across instances; without redis the
// throttle is off.

func postCooldownKey(authorID uuid.UUID) string {
	return "blog:cooldown:post:" + authorID.String()
}

// AcquirePostCooldown reserves the author's creation slot for the window.
// It reports false when the previous slot has not expired yet.
func AcquirePostCooldown(ctx context.Context, rdb *redis.Client, authorID uuid.UUID, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	acquired, err := rdb.SetNX(ctx, postCooldownKey(authorID), time.Now().Unix(), window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve post cooldown: %w", err)
	}

	return acquired, nil
}

// PostCooldownRemaining reports how long until the author may post again.
func PostCooldownRemaining(ctx context.Context, rdb *redis.Client, authorID uuid.UUID) (time.Duration, error) {
	if rdb == nil {
		return 0, nil
	}
	return rdb.TTL(ctx, postCooldownKey(authorID)).Result()
}

// ReleasePostCooldown frees the slot early, for creates that failed after
// the reservation.
func ReleasePostCooldown(ctx context.Context, rdb *redis.Client, authorID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	return rdb.Del(ctx, postCooldownKey(authorID)).Err()
}

// cooldownWait picks the wait to report to the caller. A failed or
// nonsensical TTL lookup falls back to the full window rather than telling
// the caller to wait zero seconds.
func cooldownWait(ttl time.Duration, err error, window time.Duration) time.Duration {
	if err != nil || ttl <= 0 {
		return window
	}
	return ttl
}
