package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/config"
	"github.com/harshavardhan2006-svg/Axolotl-music-network/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Service interface {
	GetActiveSession(ctx context.Context, key string) (*models.Session, error)
	UpdateSessionActivity(ctx context.Context, key string) error
	CacheActiveSession(ctx context.Context, session *models.Session) error
	SaveLastSeen(ctx context.Context, userID string, at time.Time) error
	GetLastSeen(ctx context.Context, userID string) (*time.Time, error)
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache}
}

func (c *cacheService) GetActiveSession(ctx context.Context, key string) (*models.Session, error) {
	logrus.WithField("key", key).Debug("Getting active session from cache")

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", key).Debug("Session not found in cache")
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	logrus.WithField("key", key).Debug("Session retrieved from cache successfully")
	return &session, nil
}

func (c *cacheService) UpdateSessionActivity(ctx context.Context, key string) error {
	logrus.WithField("key", key).Debug("Updating session activity in cache")

	// Get current session
	session, err := c.GetActiveSession(ctx, key)
	if err != nil || session == nil {
		return err
	}

	// Update last active time
	session.LastActiveAt = time.Now()

	// Re-cache with updated time and extended TTL
	data, err := json.Marshal(session)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal session for activity update")
		return models.ErrRedisSet
	}

	extendedTTL := time.Duration(c.cfg.SessionExpirationMinutes) * time.Minute
	err = c.client.Set(ctx, key, data, extendedTTL).Err()
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to update session activity")
		return models.ErrRedisSet
	}

	logrus.WithField("key", key).Debug("Session activity updated successfully")
	return nil
}

func (c *cacheService) CacheActiveSession(ctx context.Context, session *models.Session) error {
	key := fmt.Sprintf("session:%s:%s", session.UserID, session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to marshal session for cache")
		return models.ErrRedisSet
	}

	expiration := time.Until(session.LastActiveAt.Add(time.Minute * time.Duration(c.cfg.SessionExpirationMinutes)))
	if expiration <= 0 {
		logrus.WithField("session_id", session.SessionID).Warn("Session already expired, not caching")
		return nil
	}

	err = c.client.Set(ctx, key, data, expiration).Err()
	if err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to cache session")
		return models.ErrRedisSet
	}

	logrus.WithField("session_id", session.SessionID).Debug("Session cached successfully")
	return nil
}

// SaveLastSeen records when a user's connection closed. Read back by the
// presence endpoint for users who are currently offline.
func (c *cacheService) SaveLastSeen(ctx context.Context, userID string, at time.Time) error {
	key := fmt.Sprintf("%s:%s", c.cfg.LastSeenKeyPrefix, userID)

	data, err := json.Marshal(at)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to marshal last-seen timestamp")
		return models.ErrRedisSet
	}

	expiration := time.Duration(c.cfg.LastSeenExpirationHours) * time.Hour
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to cache last-seen timestamp")
		return models.ErrRedisSet
	}

	return nil
}

func (c *cacheService) GetLastSeen(ctx context.Context, userID string) (*time.Time, error) {
	key := fmt.Sprintf("%s:%s", c.cfg.LastSeenKeyPrefix, userID)

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Not an error, just not found
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get last-seen timestamp from cache")
		return nil, models.ErrRedisGet
	}

	var at time.Time
	if err := json.Unmarshal([]byte(data), &at); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to unmarshal last-seen timestamp")
		return nil, models.ErrRedisGet
	}

	return &at, nil
}
