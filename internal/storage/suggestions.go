package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"complaintdesk/backend/internal/config"

	"github.com/redis/go-redis/v9"
)

// SuggestionStore keeps each user's recently entered values per form field.
type SuggestionStore interface {
	RememberValue(ctx context.Context, userID uint, field, value string, at time.Time) error
	RecentValues(ctx context.Context, userID uint, field string) ([]string, error)
}

func suggestionKey(userID uint, field string) string {
	return "suggest:" + strconv.FormatUint(uint64(userID), 10) + ":" + field
}

// RememberValue stores value as the most recent entry for the field and trims
// the set to the configured size.
func (s *Service) RememberValue(ctx context.Context, userID uint, field, value string, at time.Time) error {
	if s.Redis == nil {
		return nil
	}
	key := suggestionKey(userID, field)
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixMilli()), Member: value})
		pipe.ZRemRangeByRank(ctx, key, 0, -int64(config.SuggestionKeepSize)-1)
		pipe.Expire(ctx, key, config.SuggestionTTL)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remember suggestion: %w", err)
	}
	return nil
}

// RecentValues returns the stored values for the field, most recent first.
func (s *Service) RecentValues(ctx context.Context, userID uint, field string) ([]string, error) {
	if s.Redis == nil {
		return []string{}, nil
	}
	values, err := s.Redis.ZRevRange(ctx, suggestionKey(userID, field), 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load suggestions: %w", err)
	}
	if values == nil {
		values = []string{}
	}
	return values, nil
}
