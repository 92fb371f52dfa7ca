package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"officehub/internal/models"
)

const otpKeyPrefix = "otp:reset:"

// redisOtpStore — вариант для нескольких инстансов: запись живёт в Redis
// как JSON со страховочным TTL.
type redisOtpStore struct {
	client *redis.Client
}

func NewRedisOtpStore(client *redis.Client) OtpStore {
	return &redisOtpStore{client: client}
}

func (s *redisOtpStore) Get(ctx context.Context, email string) (*models.OtpRecord, error) {
	val, err := s.client.Get(ctx, otpKeyPrefix+normalizeEmail(email)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("otp store get: %w", err)
	}
	var rec models.OtpRecord
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("otp store decode: %w", err)
	}
	return &rec, nil
}

func (s *redisOtpStore) Set(ctx context.Context, email string, rec *models.OtpRecord, ttl time.Duration) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("otp store encode: %w", err)
	}
	// TTL с запасом: запись должна пережить ExpiresAt, чтобы по протухшему
	// коду вернулся именно "OTP expired", а не "not found".
	if err := s.client.Set(ctx, otpKeyPrefix+normalizeEmail(email), b, ttl*2).Err(); err != nil {
		return fmt.Errorf("otp store set: %w", err)
	}
	return nil
}

func (s *redisOtpStore) Delete(ctx context.Context, email string) error {
	if err := s.client.Del(ctx, otpKeyPrefix+normalizeEmail(email)).Err(); err != nil {
		return fmt.Errorf("otp store delete: %w", err)
	}
	return nil
}
