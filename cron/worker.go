package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"loungebot/config"
	"loungebot/services/booking"

	"github.com/hibiken/asynq"
)

const TypeAvailabilityBroadcast = "availability:broadcast"

// broadcastPayload carries the date whose availability view should be
// re-rendered and pushed to the shared channel.
type broadcastPayload struct {
	Date string `json:"date"` // "YYYY-MM-DD"
}

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// AsynqBroadcaster enqueues availability refresh tasks. Rendering and
// delivery happen in the background worker, so a commit never waits on
// the broadcast channel.
type AsynqBroadcaster struct {
	client *asynq.Client
}

// NewAsynqBroadcaster returns a broadcaster backed by the queue redis DB.
func NewAsynqBroadcaster() *AsynqBroadcaster {
	return &AsynqBroadcaster{client: asynq.NewClient(redisOpts())}
}

// BroadcastAvailability schedules a refresh of the shared channel for
// one date.
func (b *AsynqBroadcaster) BroadcastAvailability(ctx context.Context, date string) error {
	payload, err := json.Marshal(broadcastPayload{Date: date})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeAvailabilityBroadcast, payload)
	_, err = b.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	return err
}

// InitBroadcastWorker runs the async worker in background.
func InitBroadcastWorker(reporter *booking.Reporter, transport booking.Transport) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeAvailabilityBroadcast, handleBroadcastTask(reporter, transport))

	// Start async worker with retry logic
	go func() {
		log.Println("[BroadcastWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[BroadcastWorker] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[BroadcastWorker] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleBroadcastTask(reporter *booking.Reporter, transport booking.Transport) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p broadcastPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[BroadcastHandler] Invalid payload: %v", err)
			return err
		}

		text, err := reporter.Render(ctx, p.Date)
		if err != nil {
			log.Printf("[BroadcastHandler] Failed to render availability for %s: %v", p.Date, err)
			return err
		}
		if err := transport.SendBroadcast(ctx, text); err != nil {
			log.Printf("[BroadcastHandler] Failed to send broadcast: %v", err)
			return err
		}
		return nil
	}
}
