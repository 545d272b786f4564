package scheduler

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"growthcore_backend/platform/config"
	"growthcore_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultSnapshotInterval = time.Hour

// SnapshotDispatcher periodically enqueues the conversation analytics
// snapshot job so recently ended conversations get their outcome
// persisted without an operator asking for it.
type SnapshotDispatcher struct {
	client   *asynq.Client
	queue    string
	interval time.Duration
	window   int
	log      *logger.Logger
}

func NewSnapshotDispatcher(cfg config.SchedulerConfig, log *logger.Logger) (*SnapshotDispatcher, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	return &SnapshotDispatcher{
		client:   asynq.NewClient(opt),
		queue:    queue,
		interval: getDurationEnv("CONVERSATION_SNAPSHOT_INTERVAL", defaultSnapshotInterval),
		window:   getPositiveIntEnv("CONVERSATION_SNAPSHOT_WINDOW_HOURS", defaultSnapshotWindowHours),
		log:      log,
	}, nil
}

func (d *SnapshotDispatcher) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *SnapshotDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		task, err := NewConversationSnapshotTask(ConversationSnapshotPayload{WindowHours: d.window})
		if err != nil {
			d.log.Warn("snapshot task build failed", "error", err)
			continue
		}

		if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(d.queue)); err != nil {
			d.log.Warn("snapshot enqueue failed", "error", err)
		}
	}
}

func getPositiveIntEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
