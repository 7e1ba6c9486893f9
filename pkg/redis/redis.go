package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"ProjectMonitoring/internal/entity"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrStatusNotFound = errors.New("live status not found")

// IRedis caches the latest observation snapshot per employee so status
// reads never touch the camera. Analytics are deliberately not cached
// here; they are recomputed from the log on every request.
type IRedis interface {
	SetLiveStatus(ctx context.Context, status entity.LiveStatus, expiration time.Duration) error
	GetLiveStatus(ctx context.Context, employeeID string) (entity.LiveStatus, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func statusKey(employeeID string) string {
	return fmt.Sprintf("live_status:%s", employeeID)
}

func (r *redisClient) SetLiveStatus(ctx context.Context, status entity.LiveStatus, expiration time.Duration) error {
	payload, err := jsoniter.Marshal(status)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, statusKey(status.EmployeeID), payload, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error caching live status for %s: %v", status.EmployeeID, err))
		return err
	}

	return nil
}

func (r *redisClient) GetLiveStatus(ctx context.Context, employeeID string) (entity.LiveStatus, error) {
	payload, err := r.client.Get(ctx, statusKey(employeeID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return entity.LiveStatus{}, ErrStatusNotFound
		}
		logrus.Error(fmt.Sprintf("Error reading live status for %s: %v", employeeID, err))
		return entity.LiveStatus{}, err
	}

	var status entity.LiveStatus
	if err := jsoniter.Unmarshal([]byte(payload), &status); err != nil {
		return entity.LiveStatus{}, err
	}

	return status, nil
}
