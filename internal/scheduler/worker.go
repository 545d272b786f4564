package scheduler

import (
	"context"
	"fmt"
	"time"

	convservice "growthcore_backend/internal/conversations/service"
	"growthcore_backend/internal/leads/scoring"
	"growthcore_backend/platform/config"
	"growthcore_backend/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultSnapshotWindowHours = 24

// Worker consumes queued jobs: the lead rescoring batch and the
// conversation analytics snapshot.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scorer    *scoring.Service
	analytics *convservice.Service
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, scorer *scoring.Service, analytics *convservice.Service, log *logger.Logger) (*Worker, error) {
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

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		scorer:    scorer,
		analytics: analytics,
		log:       log,
	}

	mux.HandleFunc(TaskLeadScoreAll, w.handleLeadScoreAll)
	mux.HandleFunc(TaskConversationSnapshot, w.handleConversationSnapshot)

	return w, nil
}

func (w *Worker) handleLeadScoreAll(ctx context.Context, task *asynq.Task) error {
	if _, err := ParseLeadScoreAllPayload(task); err != nil {
		return err
	}

	_, err := w.scorer.ScoreAll(ctx)
	return err
}

func (w *Worker) handleConversationSnapshot(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseConversationSnapshotPayload(task)
	if err != nil {
		return err
	}

	window := payload.WindowHours
	if window < 1 {
		window = defaultSnapshotWindowHours
	}

	since := time.Now().UTC().Add(-time.Duration(window) * time.Hour)
	_, err = w.analytics.SnapshotEndedSince(ctx, since)
	return err
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
