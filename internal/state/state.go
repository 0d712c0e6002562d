package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"admin/access/internal/domain"
)

// AccessStateManager keeps the per-session outcome of access generation:
// the "already checked" gate, the generated access and the access codes.
type AccessStateManager interface {
	IsAccessChecked(ctx context.Context, sessionID string) (bool, error)
	SaveAccess(ctx context.Context, sessionID string, access *domain.Access) error
	LoadAccess(ctx context.Context, sessionID string) (*domain.Access, error)
	SetAccessCodes(ctx context.Context, sessionID string, codes []string) error
	GetAccessCodes(ctx context.Context, sessionID string) ([]string, error)
	Reset(ctx context.Context, sessionID string) error
}

type redisStateManager struct {
	redisClient redis.UniversalClient
	keyPrefix   string
	ttl         time.Duration
}

// NewRedisStateManager stores session state under "access:session:{<id>}:*".
// The hash tag keeps a session's keys in one cluster slot.
// A zero ttl keeps state until Reset.
func NewRedisStateManager(redisClient redis.UniversalClient, ttl time.Duration) AccessStateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "access:session:",
		ttl:         ttl,
	}
}

func (s *redisStateManager) key(sessionID, field string) string {
	return s.keyPrefix + "{" + sessionID + "}:" + field
}

func (s *redisStateManager) IsAccessChecked(ctx context.Context, sessionID string) (bool, error) {
	n, err := s.redisClient.Exists(ctx, s.key(sessionID, "checked")).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read access state for session %s: %w", sessionID, err)
	}
	return n > 0, nil
}

func (s *redisStateManager) SaveAccess(ctx context.Context, sessionID string, access *domain.Access) error {
	data, err := json.Marshal(access)
	if err != nil {
		return fmt.Errorf("failed to encode access for session %s: %w", sessionID, err)
	}

	_, err = s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(sessionID, "access"), data, s.ttl)
		pipe.Set(ctx, s.key(sessionID, "checked"), 1, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save access for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisStateManager) LoadAccess(ctx context.Context, sessionID string) (*domain.Access, error) {
	data, err := s.redisClient.Get(ctx, s.key(sessionID, "access")).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to load access for session %s: %w", sessionID, err)
	}

	var access domain.Access
	if err := json.Unmarshal(data, &access); err != nil {
		return nil, fmt.Errorf("failed to decode access for session %s: %w", sessionID, err)
	}
	return &access, nil
}

func (s *redisStateManager) SetAccessCodes(ctx context.Context, sessionID string, codes []string) error {
	key := s.key(sessionID, "codes")

	_, err := s.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(codes) > 0 {
			members := make([]any, len(codes))
			for i, code := range codes {
				members[i] = code
			}
			pipe.SAdd(ctx, key, members...)
			if s.ttl > 0 {
				pipe.Expire(ctx, key, s.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set access codes for session %s: %w", sessionID, err)
	}
	return nil
}

func (s *redisStateManager) GetAccessCodes(ctx context.Context, sessionID string) ([]string, error) {
	codes, err := s.redisClient.SMembers(ctx, s.key(sessionID, "codes")).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get access codes for session %s: %w", sessionID, err)
	}
	return codes, nil
}

func (s *redisStateManager) Reset(ctx context.Context, sessionID string) error {
	err := s.redisClient.Del(ctx,
		s.key(sessionID, "checked"),
		s.key(sessionID, "access"),
		s.key(sessionID, "codes"),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to reset access state for session %s: %w", sessionID, err)
	}
	return nil
}
